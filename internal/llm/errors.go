package llm

// unavailableError signals a missing external dependency (no server
// reachable, binding not compiled in) so callers can map it to 503.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates a missing/failed backend.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}

// modelNotFoundError signals that the requested model reference cannot be
// served by the backend.
type modelNotFoundError struct{ ref string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.ref }

// ErrModelNotFound constructs a modelNotFoundError.
func ErrModelNotFound(ref string) error { return modelNotFoundError{ref: ref} }

// IsModelNotFound reports whether the error indicates an unknown model.
func IsModelNotFound(err error) bool {
	_, ok := err.(modelNotFoundError)
	return ok
}
