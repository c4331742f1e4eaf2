package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"queryd/internal/config"
)

func TestBuildBackendServerMode(t *testing.T) {
	cfg := config.Default()
	cfg.ServerURL = "http://127.0.0.1:8080"
	cfg.ModelID = "llama-3"
	b, model, err := buildBackend(cfg)
	if err != nil {
		t.Fatalf("build backend: %v", err)
	}
	if b == nil || model != "llama-3" {
		t.Fatalf("backend = %v model = %q", b, model)
	}
}

func TestBuildBackendLocalModelMissing(t *testing.T) {
	cfg := config.Default()
	cfg.ModelsDir = t.TempDir()
	cfg.ModelID = "ghost-model"
	_, _, err := buildBackend(cfg)
	if err == nil || !strings.Contains(err.Error(), "ghost-model") {
		t.Fatalf("want missing-model error, got %v", err)
	}
}

func TestBuildBackendLocalModelFound(t *testing.T) {
	d := t.TempDir()
	if err := os.WriteFile(filepath.Join(d, "tiny.Q4_K_M.gguf"), []byte("gguf"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.ModelsDir = d
	cfg.ModelID = "tiny"
	_, model, err := buildBackend(cfg)
	if err != nil {
		t.Fatalf("build backend: %v", err)
	}
	if model != filepath.Join(d, "tiny.Q4_K_M.gguf") {
		t.Fatalf("model = %q", model)
	}
}

func TestHumanSize(t *testing.T) {
	cases := map[int64]string{
		512:        "512 B",
		2048:       "2.0 KiB",
		5 << 30:    "5.0 GiB",
		1536 << 10: "1.5 MiB",
	}
	for in, want := range cases {
		if got := humanSize(in); got != want {
			t.Errorf("humanSize(%d) = %q, want %q", in, got, want)
		}
	}
}
