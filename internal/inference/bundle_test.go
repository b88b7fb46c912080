package inference_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"agilesense.ai/services/core/config"
	"agilesense.ai/services/internal/inference"
)

var _ = Describe("LoadModelBundle", func() {
	var (
		ctx context.Context
		dir string
		cfg config.Config
	)

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(body), 0o600)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		cfg = config.Config{
			Models: config.ModelsConfig{
				HesitationModelPath:       filepath.Join(dir, "missing-model.json"),
				HesitationScalerPath:      filepath.Join(dir, "missing-scaler.json"),
				CategoryVectorizerPath:    filepath.Join(dir, "missing-vectorizer.json"),
				CategoryModelPath:         filepath.Join(dir, "missing-category.json"),
				HesitationHighThreshold:   0.7,
				HesitationMediumThreshold: 0.4,
			},
		}
	})

	It("loads the category model for the expertise service", func() {
		cfg.Models.CategoryVectorizerPath = write("vec.json", `{"vocabulary":{"login":0,"query":1},"idf":[1,1]}`)
		cfg.Models.CategoryModelPath = write("cat.json", `{"classes":["Authentication","Database","UI"],"coef":[[1,0],[0,1],[0,0]],"intercept":[0,0,0]}`)

		bundle, err := inference.LoadModelBundle(ctx, cfg, config.ServiceTypeExpertise)
		Expect(err).NotTo(HaveOccurred())
		Expect(bundle.Status()).To(Equal(map[string]bool{"category_model": true}))
		Expect(bundle.AllReady()).To(BeTrue())

		pred, err := bundle.Category.Predict(ctx, "", "query is slow")
		Expect(err).NotTo(HaveOccurred())
		Expect(pred.Category).To(Equal("Database"))
	})

	It("returns a degraded bundle and the joined errors when artifacts are missing", func() {
		bundle, err := inference.LoadModelBundle(ctx, cfg, config.ServiceTypeBrainstorm)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("hesitation model"))
		Expect(err.Error()).To(ContainSubstring("rephraser model"))
		Expect(err.Error()).To(ContainSubstring("NER model"))

		Expect(bundle).NotTo(BeNil())
		Expect(bundle.Status()).To(Equal(map[string]bool{
			"ner_model":        false,
			"rephraser_model":  false,
			"hesitation_model": false,
		}))

		_, err = bundle.Hesitation.Detect(ctx, "um")
		Expect(err).To(MatchError(inference.ErrModelNotReady))
	})

	It("marks the hesitation model ready once both artifacts load", func() {
		cfg.Models.HesitationModelPath = write("hes.json", `{"classes":[0,1],"coef":[[1,0,0,0,0,0,0]],"intercept":[0]}`)
		cfg.Models.HesitationScalerPath = write("scaler.json", `{"mean":[0,0,0,0,0,0,0],"scale":[1,1,1,1,1,1,1]}`)
		cfg.RephraserLLM = config.LLMConfig{Provider: "openai", APIKey: "test-key"}

		bundle, err := inference.LoadModelBundle(ctx, cfg, config.ServiceTypeBrainstorm)
		Expect(err).To(HaveOccurred())
		Expect(bundle.Status()["hesitation_model"]).To(BeTrue())
		Expect(bundle.Status()["rephraser_model"]).To(BeTrue())
		Expect(bundle.Status()["ner_model"]).To(BeFalse())
		Expect(bundle.AllReady()).To(BeFalse())
	})
})
