package mlmodel

import (
	"fmt"
	"math"
)

const (
	MultiClassOVR         = "ovr"
	MultiClassMultinomial = "multinomial"
)

// LogisticRegression mirrors the prediction side of
// sklearn.linear_model.LogisticRegression.
type LogisticRegression struct {
	Classes    []Label     `json:"classes"`
	Coef       [][]float64 `json:"coef"`
	Intercept  []float64   `json:"intercept"`
	MultiClass string      `json:"multi_class,omitempty"`
}

func LoadLogisticRegression(path string) (*LogisticRegression, error) {
	var m LogisticRegression
	if err := loadJSON(path, &m); err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

func (m *LogisticRegression) validate() error {
	if len(m.Classes) < 2 {
		return fmt.Errorf("need at least two classes, got %d", len(m.Classes))
	}
	rows := len(m.Classes)
	if m.binary() {
		rows = 1
	}
	if len(m.Coef) != rows || len(m.Intercept) != rows {
		return fmt.Errorf("%w: %d classes need %d coefficient rows, got %d coef and %d intercept",
			ErrDimension, len(m.Classes), rows, len(m.Coef), len(m.Intercept))
	}
	width := len(m.Coef[0])
	for _, row := range m.Coef {
		if len(row) != width {
			return fmt.Errorf("%w: ragged coefficient matrix", ErrDimension)
		}
	}
	switch m.MultiClass {
	case "", "auto", MultiClassOVR, MultiClassMultinomial:
	default:
		return fmt.Errorf("unsupported multi_class %q", m.MultiClass)
	}
	return nil
}

func (m *LogisticRegression) binary() bool {
	return len(m.Classes) == 2
}

func (m *LogisticRegression) NumFeatures() int {
	return len(m.Coef[0])
}

// DecisionFunction returns one score per coefficient row for a dense input.
func (m *LogisticRegression) DecisionFunction(x []float64) ([]float64, error) {
	if len(x) != m.NumFeatures() {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrDimension, len(x), m.NumFeatures())
	}
	scores := make([]float64, len(m.Coef))
	for k, row := range m.Coef {
		s := m.Intercept[k]
		for j, w := range row {
			s += w * x[j]
		}
		scores[k] = s
	}
	return scores, nil
}

// SparseDecisionFunction is DecisionFunction for an input given as
// column index to value.
func (m *LogisticRegression) SparseDecisionFunction(x map[int]float64) ([]float64, error) {
	n := m.NumFeatures()
	scores := make([]float64, len(m.Coef))
	for k, row := range m.Coef {
		s := m.Intercept[k]
		for j, v := range x {
			if j < 0 || j >= n {
				return nil, fmt.Errorf("%w: column %d outside %d features", ErrDimension, j, n)
			}
			s += row[j] * v
		}
		scores[k] = s
	}
	return scores, nil
}

// Proba converts decision scores into class probabilities ordered as Classes.
func (m *LogisticRegression) Proba(scores []float64) []float64 {
	if m.binary() {
		p := sigmoid(scores[0])
		return []float64{1 - p, p}
	}
	if m.MultiClass == MultiClassOVR {
		out := make([]float64, len(scores))
		var sum float64
		for i, s := range scores {
			out[i] = sigmoid(s)
			sum += out[i]
		}
		if sum > 0 {
			for i := range out {
				out[i] /= sum
			}
		}
		return out
	}
	return softmax(scores)
}

// PredictProba returns class probabilities for a dense input.
func (m *LogisticRegression) PredictProba(x []float64) ([]float64, error) {
	scores, err := m.DecisionFunction(x)
	if err != nil {
		return nil, err
	}
	return m.Proba(scores), nil
}

// Predict returns the most probable class.
func (m *LogisticRegression) Predict(x []float64) (Label, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return "", err
	}
	return m.Classes[argmax(proba)], nil
}

// ClassLabels returns the labels in probability column order.
func (m *LogisticRegression) ClassLabels() []Label {
	return m.Classes
}

// PredictSparse returns the most probable class for a sparse input together
// with the full probability distribution.
func (m *LogisticRegression) PredictSparse(x map[int]float64) (Label, []float64, error) {
	scores, err := m.SparseDecisionFunction(x)
	if err != nil {
		return "", nil, err
	}
	proba := m.Proba(scores)
	return m.Classes[argmax(proba)], proba, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func softmax(z []float64) []float64 {
	maxZ := math.Inf(-1)
	for _, v := range z {
		maxZ = math.Max(maxZ, v)
	}
	out := make([]float64, len(z))
	var sum float64
	for i, v := range z {
		out[i] = math.Exp(v - maxZ)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// argmax returns the first index of the largest value, matching numpy.
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
