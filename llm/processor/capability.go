package processor

import "fmt"

// Capability is an optional handle resolved once at startup: either
// available with a value or unavailable with the reason why.
type Capability[T any] struct {
	handle    T
	available bool
	reason    string
}

// Available wraps a ready handle.
func Available[T any](h T) Capability[T] {
	return Capability[T]{handle: h, available: true}
}

// Unavailable records why a capability could not be initialized.
func Unavailable[T any](reason string) Capability[T] {
	return Capability[T]{reason: reason}
}

// Get returns the handle and whether it is available.
func (c Capability[T]) Get() (T, bool) {
	return c.handle, c.available
}

// Require returns the handle, or ErrCapabilityUnavailable wrapped with
// the reason.
func (c Capability[T]) Require() (T, error) {
	if !c.available {
		return c.handle, fmt.Errorf("%w: %s", ErrCapabilityUnavailable, c.Reason())
	}
	return c.handle, nil
}

// Reason is empty for an available capability.
func (c Capability[T]) Reason() string {
	if c.available {
		return ""
	}
	if c.reason == "" {
		return "not configured"
	}
	return c.reason
}
