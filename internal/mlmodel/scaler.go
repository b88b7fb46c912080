package mlmodel

import "fmt"

// StandardScaler mirrors sklearn.preprocessing.StandardScaler.transform.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func LoadStandardScaler(path string) (*StandardScaler, error) {
	var s StandardScaler
	if err := loadJSON(path, &s); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

func (s *StandardScaler) validate() error {
	if len(s.Mean) == 0 {
		return fmt.Errorf("scaler has no features")
	}
	if s.Scale != nil && len(s.Scale) != len(s.Mean) {
		return fmt.Errorf("%w: mean has %d values, scale has %d", ErrDimension, len(s.Mean), len(s.Scale))
	}
	return nil
}

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrDimension, len(x), len(s.Mean))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		v -= s.Mean[i]
		// sklearn stores a scale of 1 for zero-variance columns; guard anyway.
		if s.Scale != nil && s.Scale[i] != 0 {
			v /= s.Scale[i]
		}
		out[i] = v
	}
	return out, nil
}
