package inference

import (
	"errors"
	"fmt"
)

// ErrModelNotReady is returned when a component is called without the model
// it depends on. Startup logs the load failure; requests fail fast.
var ErrModelNotReady = errors.New("model not ready")

// InferenceError wraps a failure raised by a model call.
type InferenceError struct {
	Op  string
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

func notReady(what string) error {
	return fmt.Errorf("%s: %w", what, ErrModelNotReady)
}
