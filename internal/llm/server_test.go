package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newCompletionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestServerBackendGenerate(t *testing.T) {
	var got completionRequest
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"text": "<<<JSON_START>>>\n{}\n", "finish_reason": "stop"}},
		})
	})

	b := NewServerBackend(srv.URL, "sk-test", 5*time.Second, time.Second)
	sess, err := b.Start("llama-3", GenParams{MaxTokens: 150, Temperature: 0.7, Stop: []string{"<<<JSON_END>>>"}})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	text, err := sess.Generate(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// The server trimmed the stop sequence; Generate must restore it.
	if !strings.HasSuffix(text, "<<<JSON_END>>>") {
		t.Fatalf("stop sequence not restored: %q", text)
	}
	if got.Model != "llama-3" || got.Prompt != "prompt text" || got.MaxTokens != 150 || got.Stream {
		t.Fatalf("unexpected request: %+v", got)
	}
	if len(got.Stop) != 1 || got.Stop[0] != "<<<JSON_END>>>" {
		t.Fatalf("stop = %v", got.Stop)
	}
}

func TestServerBackendNoRestoreOnLength(t *testing.T) {
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"text": "truncated output", "finish_reason": "length"}},
		})
	})
	b := NewServerBackend(srv.URL, "", 0, time.Second)
	sess, _ := b.Start("m", GenParams{Stop: []string{"<<<JSON_END>>>"}})
	text, err := sess.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.Contains(text, "<<<JSON_END>>>") {
		t.Fatalf("stop restored on length finish: %q", text)
	}
}

func TestServerBackendHTTPError(t *testing.T) {
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	b := NewServerBackend(srv.URL, "", 0, time.Second)
	sess, _ := b.Start("m", GenParams{})
	if _, err := sess.Generate(context.Background(), "p"); err == nil {
		t.Fatalf("expected error on 500")
	} else if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error should carry the body snippet: %v", err)
	}
}

func TestServerBackendModelNotFound(t *testing.T) {
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	b := NewServerBackend(srv.URL, "", 0, time.Second)
	sess, _ := b.Start("ghost", GenParams{})
	_, err := sess.Generate(context.Background(), "p")
	if !IsModelNotFound(err) {
		t.Fatalf("want model-not-found, got %v", err)
	}
}

func TestServerBackendNoChoices(t *testing.T) {
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	b := NewServerBackend(srv.URL, "", 0, time.Second)
	sess, _ := b.Start("m", GenParams{})
	if _, err := sess.Generate(context.Background(), "p"); err == nil {
		t.Fatalf("expected error on empty choices")
	}
}

func TestServerBackendContextCancel(t *testing.T) {
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	b := NewServerBackend(srv.URL, "", 0, time.Second)
	sess, _ := b.Start("m", GenParams{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := sess.Generate(ctx, "p"); err != context.DeadlineExceeded {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
}

func TestServerBackendEmptyURL(t *testing.T) {
	b := NewServerBackend("", "", 0, time.Second)
	if _, err := b.Start("m", GenParams{}); !IsUnavailable(err) {
		t.Fatalf("want unavailable, got %v", err)
	}
}

func TestRestoreStop(t *testing.T) {
	stops := []string{"<<<JSON_END>>>"}
	if got := restoreStop("{} ", stops); !strings.HasSuffix(got, "<<<JSON_END>>>") {
		t.Fatalf("got %q", got)
	}
	already := "x <<<JSON_END>>> y"
	if got := restoreStop(already, stops); got != already {
		t.Fatalf("must not double-append: %q", got)
	}
	if got := restoreStop("text", nil); got != "text" {
		t.Fatalf("got %q", got)
	}
}
