package types

// Result is the outcome of a parse call. Exactly one of two shapes is
// produced per call: the JSON object the model emitted (any shape, no
// schema validation), or an error record carrying an "error" message and
// optionally the "raw" decoded text for diagnosis.
type Result map[string]any

// Well-known keys of error-shaped results.
const (
	KeyError = "error"
	KeyRaw   = "raw"
)

// ErrResult builds an error-shaped Result without raw text.
func ErrResult(msg string) Result {
	return Result{KeyError: msg}
}

// ErrResultRaw builds an error-shaped Result carrying the raw decoded text.
func ErrResultRaw(msg, raw string) Result {
	return Result{KeyError: msg, KeyRaw: raw}
}

// IsError reports whether r is an error record rather than a parsed payload.
func (r Result) IsError() bool {
	_, ok := r[KeyError]
	return ok
}

// ErrorMessage returns the error message of an error-shaped Result, or "".
func (r Result) ErrorMessage() string {
	if s, ok := r[KeyError].(string); ok {
		return s
	}
	return ""
}
