package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// ServerBackend talks to a running llama.cpp server (or any
// OpenAI-compatible completion endpoint) over HTTP.
type ServerBackend struct {
	baseURL        string
	apiKey         string
	reqTimeout     time.Duration
	connectTimeout time.Duration
	httpClient     *http.Client
}

// NewServerBackend constructs a server-backed Backend.
func NewServerBackend(baseURL, apiKey string, reqTimeout, connectTimeout time.Duration) *ServerBackend {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	// Client timeout stays 0: every request carries a context deadline
	// derived from reqTimeout in Generate.
	cli := &http.Client{Transport: tr, Timeout: 0}
	return &ServerBackend{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		reqTimeout:     reqTimeout,
		connectTimeout: connectTimeout,
		httpClient:     cli,
	}
}

func (b *ServerBackend) Start(model string, params GenParams) (Session, error) {
	if b.baseURL == "" {
		return nil, ErrUnavailable("llama server url is empty")
	}
	return &serverSession{backend: b, model: model, params: params}, nil
}

type serverSession struct {
	backend *ServerBackend
	model   string
	params  GenParams
}

// completionRequest is the payload for POST /v1/completions.
type completionRequest struct {
	Model       string   `json:"model,omitempty"`
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Temperature float32  `json:"temperature,omitempty"`
	TopP        float32  `json:"top_p,omitempty"`
	TopK        int      `json:"top_k,omitempty"`
	Stop        []string `json:"stop,omitempty"`
	Seed        int      `json:"seed,omitempty"`
	Stream      bool     `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (s *serverSession) Generate(ctx context.Context, prompt string) (string, error) {
	if s.backend == nil || s.backend.httpClient == nil {
		return "", ErrUnavailable("llama server backend not initialized")
	}
	if s.backend.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.backend.reqTimeout)
		defer cancel()
	}

	payload := completionRequest{
		Model:       s.model,
		Prompt:      prompt,
		MaxTokens:   s.params.MaxTokens,
		Temperature: s.params.Temperature,
		TopP:        s.params.TopP,
		TopK:        s.params.TopK,
		Stop:        s.params.Stop,
		Seed:        s.params.Seed,
		Stream:      false,
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.backend.baseURL+"/v1/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.backend.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.backend.apiKey)
	}
	resp, err := s.backend.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var ne net.Error
		if errors.As(err, &ne) || errors.Is(err, io.EOF) {
			return "", ErrUnavailable("llama server unreachable: " + err.Error())
		}
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", ErrModelNotFound(s.model)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("llama server http error: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}
	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("llama server returned no choices")
	}
	text := out.Choices[0].Text
	if fr := out.Choices[0].FinishReason; fr == "" || fr == "stop" {
		text = restoreStop(text, s.params.Stop)
	}
	return text, nil
}

func (s *serverSession) Close() error { return nil }
