// Package parser implements QueryParser: free text in, structured filter
// JSON out. It builds a fixed prompt, runs generation against an LLM
// backend with bounded retries and extracts the marker-delimited JSON
// payload from the decoded output. Every failure mode is returned as
// data, never as an error to the caller of Parse.
package parser

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog"

	"queryd/internal/config"
	"queryd/internal/llm"
	"queryd/pkg/types"
)

// QueryParser converts natural-language real-estate queries into the
// structured filter schema by prompting a causal language model.
// Settings are fixed at construction. The generation session is created
// lazily on first Parse and cached for the parser's lifetime.
type QueryParser struct {
	cfg     config.Config
	backend llm.Backend
	model   string
	log     zerolog.Logger

	sessMu sync.Mutex
	sess   llm.Session

	cache *ttlcache.Cache[string, types.Result]
}

// New constructs a QueryParser. It fails fast on unusable settings; the
// model itself is not loaded until the first Parse. model is the backend
// reference: a model name/id for the server backend, a GGUF path for the
// in-process one.
func New(cfg config.Config, backend llm.Backend, model string, log zerolog.Logger) (*QueryParser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, llm.ErrUnavailable("no generation backend configured")
	}
	if strings.TrimSpace(model) == "" {
		return nil, llm.ErrModelNotFound(cfg.ModelID)
	}
	p := &QueryParser{cfg: cfg, backend: backend, model: model, log: log}
	if cfg.CacheTTL > 0 {
		p.cache = ttlcache.New[string, types.Result](
			ttlcache.WithTTL[string, types.Result](cfg.CacheTTL),
		)
		go p.cache.Start()
	}
	return p, nil
}

// Parse converts a user query into the structured mapping. Exactly one of
// two shapes comes back: the JSON object the model emitted, or an error
// record ({"error": ..., "raw": ...}).
func (p *QueryParser) Parse(ctx context.Context, query string) types.Result {
	if p.cache != nil {
		if item := p.cache.Get(query); item != nil {
			parseResults.WithLabelValues(outcomeCached).Inc()
			return item.Value()
		}
	}

	prompt := BuildPrompt(query)
	text, err := p.generate(ctx, prompt)
	if err != nil {
		parseResults.WithLabelValues(outcomeGeneration).Inc()
		p.log.Warn().Err(err).Msg("generation failed")
		return types.ErrResult(msgGenerationFailed + err.Error())
	}

	res := ExtractJSON(text)
	parseResults.WithLabelValues(classify(res)).Inc()
	if res.IsError() {
		p.log.Debug().Str("reason", res.ErrorMessage()).Msg("extraction failed")
		return res
	}
	if p.cache != nil {
		p.cache.Set(query, res, ttlcache.DefaultTTL)
	}
	return res
}

// generate runs the model with retries. The session is created lazily and
// reused; a failed session start is surfaced immediately (not retried),
// mirroring the fail-fast model load. Generation errors are retried up to
// cfg.Retries total attempts with cfg.RetryDelay between them, and the
// last failure is returned once attempts are exhausted.
func (p *QueryParser) generate(ctx context.Context, prompt string) (string, error) {
	sess, err := p.session()
	if err != nil {
		return "", err
	}
	var lastErr error
	for attempt := 0; attempt < p.cfg.Retries; attempt++ {
		if attempt > 0 {
			generationRetries.Inc()
			select {
			case <-time.After(p.cfg.RetryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		start := time.Now()
		text, err := sess.Generate(ctx, prompt)
		if err == nil {
			generationDuration.Observe(time.Since(start).Seconds())
			return text, nil
		}
		lastErr = err
		p.log.Debug().Err(err).Int("attempt", attempt+1).Msg("generation attempt failed")
	}
	return "", lastErr
}

// session returns the cached generation session, starting it on first use.
func (p *QueryParser) session() (llm.Session, error) {
	p.sessMu.Lock()
	defer p.sessMu.Unlock()
	if p.sess != nil {
		return p.sess, nil
	}
	sess, err := p.backend.Start(p.model, llm.GenParams{
		MaxTokens:   p.cfg.MaxNewTokens,
		Temperature: float32(p.cfg.Temperature),
		Stop:        []string{EndMarker},
	})
	if err != nil {
		return nil, err
	}
	p.sess = sess
	return sess, nil
}

// Model returns the resolved backend model reference.
func (p *QueryParser) Model() string { return p.model }

// Ready reports whether the parser can serve requests. Construction is
// fail-fast, so a live parser is ready even before the session exists.
func (p *QueryParser) Ready() bool { return true }

// Close releases the cached session and stops the result cache.
func (p *QueryParser) Close() error {
	if p.cache != nil {
		p.cache.Stop()
	}
	p.sessMu.Lock()
	defer p.sessMu.Unlock()
	if p.sess == nil {
		return nil
	}
	err := p.sess.Close()
	p.sess = nil
	return err
}
