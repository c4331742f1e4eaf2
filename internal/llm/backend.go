// Package llm abstracts the model runtime that actually executes text
// generation. Two real backends exist: an OpenAI-compatible llama.cpp
// server reached over HTTP, and an in-process go-llama.cpp binding behind
// the 'llama' build tag. Tokenization, sampling and device placement all
// live on the other side of this boundary.
package llm

import (
	"context"
	"strings"
)

// Backend prepares generation sessions for a given model.
type Backend interface {
	// Start prepares a session for the given model reference. For the
	// server backend the reference is a model name/id; for the in-process
	// backend it is a path to a GGUF file on disk.
	Start(model string, params GenParams) (Session, error)
}

// Session is a live model handle. Generate returns the decoded completion
// text, including any configured stop sequence that terminated it.
type Session interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// GenParams captures generation parameters passed to the backend.
type GenParams struct {
	MaxTokens   int
	Temperature float32
	TopP        float32
	TopK        int
	Stop        []string
	Seed        int
}

// restoreStop re-appends the stop sequence that terminated generation.
// llama.cpp (both the server and the in-process binding) trims the matched
// stop string from the returned text; callers downstream look for the
// delimiter, so put it back.
func restoreStop(text string, stops []string) string {
	for _, s := range stops {
		if s != "" && strings.Contains(text, s) {
			return text
		}
	}
	if len(stops) > 0 && stops[0] != "" {
		return text + stops[0]
	}
	return text
}
