// Package mlmodel evaluates scikit-learn estimators exported as JSON.
//
// Artifacts carry the fitted attributes of the Python estimator (for example
// coef_ and intercept_ for LogisticRegression) under the attribute name
// without the trailing underscore. The export script lives alongside the
// training notebooks; the loaders here only read its output.
package mlmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

var ErrDimension = errors.New("feature dimension mismatch")

// Label is a class label. sklearn classes_ may be ints, bools or strings;
// all are kept in their string form.
type Label string

func (l *Label) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = Label(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*l = Label(n.String())
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*l = Label(strconv.FormatBool(v))
		return nil
	}
	return fmt.Errorf("unsupported class label %s", string(b))
}

// Positive reports whether the label denotes the positive class of a binary
// classifier. Numeric labels compare by value, so a float class 1.0 counts.
func (l Label) Positive() bool {
	switch l {
	case "true", "True", "yes":
		return true
	}
	f, err := strconv.ParseFloat(string(l), 64)
	return err == nil && f == 1
}

func loadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
