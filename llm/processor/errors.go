package processor

import (
	"errors"
	"fmt"
)

// ErrCapabilityUnavailable marks an operation whose model was never initialized.
var ErrCapabilityUnavailable = errors.New("capability unavailable")

// ModelError is a failure raised by a loaded model during inference. It is
// logged and turned into a degraded result, never returned to callers.
type ModelError struct {
	Op  string
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s failed: %v", e.Op, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}
