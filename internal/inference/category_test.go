package inference_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"agilesense.ai/services/internal/inference"
	"agilesense.ai/services/internal/mlmodel"
)

var _ = Describe("CategoryClassifier", func() {
	var classifier *inference.CategoryClassifier

	BeforeEach(func() {
		vec := &mlmodel.TfidfVectorizer{
			Vocabulary: map[string]int{"login": 0, "query": 1, "button": 2},
			IDF:        []float64{1, 1, 1},
		}
		Expect(vec.Compile()).To(Succeed())
		clf := &mlmodel.LogisticRegression{
			Classes:   []mlmodel.Label{"Authentication", "Database", "UI"},
			Coef:      [][]float64{{3, 0, 0}, {0, 3, 0}, {0, 0, 3}},
			Intercept: []float64{0, 0, 0},
		}
		classifier = inference.NewCategoryClassifier(vec, clf)
	})

	It("classifies title and description together", func() {
		pred, err := classifier.Predict(context.Background(), "Slow query", "The report page times out")
		Expect(err).NotTo(HaveOccurred())
		Expect(pred.Category).To(Equal("Database"))
		Expect(pred.Probabilities).To(HaveLen(3))
		Expect(pred.Probabilities["Database"]).To(BeNumerically(">", pred.Probabilities["UI"]))
	})

	It("works without a title", func() {
		pred, err := classifier.Predict(context.Background(), "", "login fails after reset")
		Expect(err).NotTo(HaveOccurred())
		Expect(pred.Category).To(Equal("Authentication"))
	})

	It("fails with ErrModelNotReady when artifacts are missing", func() {
		_, err := inference.NewCategoryClassifier(nil, nil).Predict(context.Background(), "", "x")
		Expect(err).To(MatchError(inference.ErrModelNotReady))
	})
})
