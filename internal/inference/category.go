package inference

import (
	"context"
	"strings"

	"agilesense.ai/services/internal/mlmodel"
)

// Vectorizer turns a document into a sparse feature row.
type Vectorizer interface {
	Transform(doc string) map[int]float64
}

// SparseClassifier predicts a class for a sparse feature row.
type SparseClassifier interface {
	PredictSparse(x map[int]float64) (mlmodel.Label, []float64, error)
	ClassLabels() []mlmodel.Label
}

type CategoryPrediction struct {
	Category      string
	Probabilities map[string]float64
}

type CategoryClassifier struct {
	vectorizer Vectorizer
	model      SparseClassifier
}

func NewCategoryClassifier(vectorizer Vectorizer, model SparseClassifier) *CategoryClassifier {
	return &CategoryClassifier{vectorizer: vectorizer, model: model}
}

func (c *CategoryClassifier) Ready() bool {
	return c != nil && c.vectorizer != nil && c.model != nil
}

// Predict classifies an issue from its title and description.
func (c *CategoryClassifier) Predict(ctx context.Context, title, description string) (CategoryPrediction, error) {
	if !c.Ready() {
		return CategoryPrediction{}, notReady("category model")
	}

	doc := strings.TrimSpace(title + "\n" + description)
	label, proba, err := c.model.PredictSparse(c.vectorizer.Transform(doc))
	if err != nil {
		return CategoryPrediction{}, &InferenceError{Op: "predict category", Err: err}
	}

	labels := c.model.ClassLabels()
	probs := make(map[string]float64, len(labels))
	for i, l := range labels {
		if i < len(proba) {
			probs[string(l)] = proba[i]
		}
	}

	return CategoryPrediction{Category: string(label), Probabilities: probs}, nil
}
