package mlmodel_test

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"agilesense.ai/services/internal/mlmodel"
)

func writeArtifact(dir, name, body string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(body), 0o600)).To(Succeed())
	return path
}

var _ = Describe("StandardScaler", func() {
	It("centers and scales each column", func() {
		s := &mlmodel.StandardScaler{Mean: []float64{1, 2}, Scale: []float64{2, 0.5}}
		out, err := s.Transform([]float64{3, 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal([]float64{1, 2}))
	})

	It("rejects inputs of the wrong width", func() {
		s := &mlmodel.StandardScaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}}
		_, err := s.Transform([]float64{1})
		Expect(err).To(MatchError(mlmodel.ErrDimension))
	})

	It("loads from JSON", func() {
		path := writeArtifact(GinkgoT().TempDir(), "scaler.json", `{"mean":[0,1],"scale":[1,1]}`)
		s, err := mlmodel.LoadStandardScaler(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Mean).To(Equal([]float64{0, 1}))
	})

	It("fails on mismatched mean and scale", func() {
		path := writeArtifact(GinkgoT().TempDir(), "scaler.json", `{"mean":[0,1],"scale":[1]}`)
		_, err := mlmodel.LoadStandardScaler(path)
		Expect(err).To(MatchError(mlmodel.ErrDimension))
	})
})

var _ = DescribeTable("Label.Positive",
	func(raw string, positive bool) {
		var l mlmodel.Label
		Expect(json.Unmarshal([]byte(raw), &l)).To(Succeed())
		Expect(l.Positive()).To(Equal(positive))
	},
	Entry("int one", `1`, true),
	Entry("int zero", `0`, false),
	Entry("float one", `1.0`, true),
	Entry("float zero", `0.0`, false),
	Entry("bool true", `true`, true),
	Entry("bool false", `false`, false),
	Entry("string one", `"1"`, true),
	Entry("string label", `"hesitant"`, false),
	Entry("two", `2`, false),
)

var _ = Describe("LogisticRegression", func() {
	Context("binary", func() {
		var m *mlmodel.LogisticRegression

		BeforeEach(func() {
			path := writeArtifact(GinkgoT().TempDir(), "model.json",
				`{"classes":[0,1],"coef":[[2,0]],"intercept":[0]}`)
			var err error
			m, err = mlmodel.LoadLogisticRegression(path)
			Expect(err).NotTo(HaveOccurred())
		})

		It("decodes numeric class labels", func() {
			Expect(m.Classes).To(Equal([]mlmodel.Label{"0", "1"}))
			Expect(m.Classes[1].Positive()).To(BeTrue())
			Expect(m.Classes[0].Positive()).To(BeFalse())
		})

		It("returns the sigmoid of the decision score for the positive class", func() {
			proba, err := m.PredictProba([]float64{1, 5})
			Expect(err).NotTo(HaveOccurred())
			p := 1 / (1 + math.Exp(-2))
			Expect(proba[1]).To(BeNumerically("~", p, 1e-12))
			Expect(proba[0]).To(BeNumerically("~", 1-p, 1e-12))
		})

		It("predicts the more probable class", func() {
			label, err := m.Predict([]float64{-1, 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(label).To(Equal(mlmodel.Label("0")))
		})

		It("breaks exact ties toward the first class", func() {
			label, err := m.Predict([]float64{0, 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(label).To(Equal(mlmodel.Label("0")))
		})
	})

	Context("multiclass", func() {
		It("uses softmax by default", func() {
			m := &mlmodel.LogisticRegression{
				Classes:   []mlmodel.Label{"API", "Database", "UI"},
				Coef:      [][]float64{{1, 0}, {0, 1}, {0, 0}},
				Intercept: []float64{0, 0, 0},
			}
			label, proba, err := m.PredictSparse(map[int]float64{1: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(label).To(Equal(mlmodel.Label("Database")))

			var sum float64
			for _, p := range proba {
				sum += p
			}
			Expect(sum).To(BeNumerically("~", 1, 1e-12))
			Expect(proba[1]).To(BeNumerically(">", proba[0]))
			Expect(proba[0]).To(BeNumerically("~", proba[2], 1e-12))
		})

		It("normalizes one-vs-rest sigmoids", func() {
			m := &mlmodel.LogisticRegression{
				Classes:    []mlmodel.Label{"a", "b", "c"},
				Coef:       [][]float64{{1}, {0}, {-1}},
				Intercept:  []float64{0, 0, 0},
				MultiClass: mlmodel.MultiClassOVR,
			}
			proba, err := m.PredictProba([]float64{1})
			Expect(err).NotTo(HaveOccurred())
			Expect(proba[0] + proba[1] + proba[2]).To(BeNumerically("~", 1, 1e-12))
			Expect(proba[0]).To(BeNumerically(">", proba[1]))
		})

		It("rejects sparse columns outside the model", func() {
			m := &mlmodel.LogisticRegression{
				Classes:   []mlmodel.Label{"a", "b", "c"},
				Coef:      [][]float64{{1}, {0}, {-1}},
				Intercept: []float64{0, 0, 0},
			}
			_, err := m.SparseDecisionFunction(map[int]float64{3: 1})
			Expect(err).To(MatchError(mlmodel.ErrDimension))
		})
	})

	It("rejects a coefficient matrix that does not match the classes", func() {
		path := writeArtifact(GinkgoT().TempDir(), "model.json",
			`{"classes":["a","b","c"],"coef":[[1]],"intercept":[0]}`)
		_, err := mlmodel.LoadLogisticRegression(path)
		Expect(err).To(MatchError(mlmodel.ErrDimension))
	})
})

var _ = DescribeTable("UnicodePattern",
	func(in, out string) {
		Expect(mlmodel.UnicodePattern(in)).To(Equal(out))
	},
	Entry("default token pattern", `(?u)\b\w\w+\b`, `[\p{L}\p{N}_][\p{L}\p{N}_]+`),
	Entry("bounded run", `\b\w{3,}\b`, `[\p{L}\p{N}_]{3,}`),
	Entry("word class inside brackets", `[\w-]+`, `[\p{L}\p{N}_-]+`),
	Entry("digits and non-words", `\d+\W`, `\p{Nd}+[^\p{L}\p{N}_]`),
	Entry("boundary away from word runs", `\bfoo\b`, `\bfoo\b`),
	Entry("literal bracket first in a class", `[]a]\w`, `[]a][\p{L}\p{N}_]`),
)

var _ = Describe("TfidfVectorizer", func() {
	var v *mlmodel.TfidfVectorizer

	BeforeEach(func() {
		v = &mlmodel.TfidfVectorizer{
			Vocabulary:   map[string]int{"login": 0, "fails": 1, "login fails": 2},
			IDF:          []float64{1, 2, 3},
			NgramRange:   [2]int{1, 2},
			TokenPattern: `(?u)\b\w\w+\b`,
		}
		Expect(v.Compile()).To(Succeed())
	})

	It("lowercases, counts n-grams and l2-normalizes", func() {
		row := v.Transform("Login FAILS a")
		norm := math.Sqrt(1 + 4 + 9)
		Expect(row).To(HaveLen(3))
		Expect(row[0]).To(BeNumerically("~", 1/norm, 1e-12))
		Expect(row[1]).To(BeNumerically("~", 2/norm, 1e-12))
		Expect(row[2]).To(BeNumerically("~", 3/norm, 1e-12))
	})

	It("ignores out-of-vocabulary text", func() {
		Expect(v.Transform("nothing relevant here")).To(BeEmpty())
	})

	It("applies sublinear tf", func() {
		v.SublinearTF = true
		v.Norm = "none"
		row := v.Transform("login login")
		Expect(row[0]).To(BeNumerically("~", 1+math.Log(2), 1e-12))
	})

	It("drops stop words before building n-grams", func() {
		v.StopWords = []string{"fails"}
		Expect(v.Compile()).To(Succeed())
		row := v.Transform("login fails")
		Expect(row).To(HaveKey(0))
		Expect(row).NotTo(HaveKey(2))
	})

	It("tokenizes accented words like the default Python pattern", func() {
		u := &mlmodel.TfidfVectorizer{
			Vocabulary:   map[string]int{"josé": 0, "jos": 1, "login": 2},
			IDF:          []float64{1, 1, 1},
			TokenPattern: `(?u)\b\w\w+\b`,
			Norm:         "none",
		}
		Expect(u.Compile()).To(Succeed())
		Expect(u.Transform("José fixed login")).To(Equal(map[int]float64{0: 1, 2: 1}))
	})

	It("treats a single accented letter as too short", func() {
		u := &mlmodel.TfidfVectorizer{
			Vocabulary: map[string]int{"é": 0, "ça": 1},
			IDF:        []float64{1, 1},
			Norm:       "none",
		}
		Expect(u.Compile()).To(Succeed())
		Expect(u.Transform("é ça")).To(Equal(map[int]float64{1: 1}))
	})

	It("fails to compile with mismatched idf", func() {
		bad := &mlmodel.TfidfVectorizer{Vocabulary: map[string]int{"a": 0}, IDF: []float64{1, 2}}
		Expect(bad.Compile()).To(MatchError(mlmodel.ErrDimension))
	})
})
