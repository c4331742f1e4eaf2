//go:build llama

package llm

import (
	"context"
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// LocalBackend runs generation in-process through go-llama.cpp. Compiled
// only with the 'llama' build tag so default builds stay CGO-free.
type LocalBackend struct {
	ctxSize int
	threads int
	gpu     bool
}

// NewLocalBackend constructs an in-process Backend. gpu requests GPU layer
// offload; with device "auto" or "cpu" the binding decides.
func NewLocalBackend(ctxSize, threads int, gpu bool) *LocalBackend {
	return &LocalBackend{ctxSize: ctxSize, threads: threads, gpu: gpu}
}

type localSession struct {
	model   *llama.LLama
	threads int
	params  GenParams
}

func (b *LocalBackend) Start(modelPath string, params GenParams) (Session, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, ErrModelNotFound("(empty path)")
	}
	mo := []llama.ModelOption{llama.SetContext(b.ctxSize)}
	if b.gpu {
		mo = append(mo, llama.SetGPULayers(-1))
	}
	m, err := llama.New(modelPath, mo...)
	if err != nil {
		return nil, err
	}
	return &localSession{model: m, threads: b.threads, params: params}, nil
}

func (s *localSession) Generate(ctx context.Context, prompt string) (string, error) {
	if s.model == nil {
		return "", errors.New("llama model not initialized")
	}
	s.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	text, err := s.model.Predict(prompt, s.predictOptions()...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return restoreStop(text, s.params.Stop), nil
}

func (s *localSession) Close() error {
	if s.model != nil {
		s.model.Free()
		s.model = nil
	}
	return nil
}

func (s *localSession) predictOptions() []llama.PredictOption {
	p := s.params
	po := []llama.PredictOption{
		llama.SetTokens(maxInt(1, p.MaxTokens)),
		llama.SetThreads(maxInt(1, s.threads)),
		llama.SetTemperature(posOr(p.Temperature, llama.DefaultOptions.Temperature)),
		llama.SetTopP(posOr(p.TopP, llama.DefaultOptions.TopP)),
	}
	if p.TopK > 0 {
		po = append(po, llama.SetTopK(p.TopK))
	}
	if p.Seed != 0 {
		po = append(po, llama.SetSeed(p.Seed))
	}
	if len(p.Stop) > 0 {
		po = append(po, llama.SetStopWords(p.Stop...))
	}
	return po
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func posOr(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}
