//go:build !llama

package llm

// No-CGO stub for the in-process backend, compiled when the 'llama' build
// tag is not set. It satisfies Backend but refuses to run, keeping default
// builds and CI CGO-free without mocking any behavior.

// LocalBackend is a stub without the 'llama' build tag.
type LocalBackend struct{}

// NewLocalBackend returns a Backend whose Start always fails. The
// parameters are accepted for signature compatibility with the real
// backend and ignored.
func NewLocalBackend(ctxSize, threads int, gpu bool) *LocalBackend {
	return &LocalBackend{}
}

func (b *LocalBackend) Start(modelPath string, params GenParams) (Session, error) {
	return nil, ErrUnavailable("llama support not built (missing 'llama' build tag)")
}
