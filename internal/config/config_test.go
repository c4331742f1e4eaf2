package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadFileYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "model_id: phi-3-mini\nmodels_dir: /tmp/m\nretries: 5\ntemperature: 0.2\naddr: :9999\n")
	cfg := Default()
	if err := LoadFile(p, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelID != "phi-3-mini" || cfg.ModelsDir != "/tmp/m" || cfg.Retries != 5 || cfg.Temperature != 0.2 || cfg.Addr != ":9999" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	// untouched fields keep defaults
	if cfg.MaxNewTokens != 150 {
		t.Fatalf("max_new_tokens = %d, want default 150", cfg.MaxNewTokens)
	}
}

func TestLoadFileJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"model_id":"m1","server_url":"http://127.0.0.1:8080","max_new_tokens":64}`)
	cfg := Default()
	if err := LoadFile(p, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelID != "m1" || cfg.ServerURL != "http://127.0.0.1:8080" || cfg.MaxNewTokens != 64 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadFileTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "model_id=\"m2\"\nctx_size=4096\nthreads=8\n")
	cfg := Default()
	if err := LoadFile(p, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelID != "m2" || cfg.CtxSize != 4096 || cfg.Threads != 8 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadFileErrors(t *testing.T) {
	cfg := Default()
	if err := LoadFile("", &cfg); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if err := LoadFile(p, &cfg); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestFromEnvOverridesFile(t *testing.T) {
	t.Setenv("MODEL_ID", "env-model")
	t.Setenv("QUERYD_RETRIES", "7")
	t.Setenv("QUERYD_RETRY_DELAY", "250ms")
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "model_id: file-model\nretries: 2\n")
	cfg, err := Load(p, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelID != "env-model" {
		t.Fatalf("model id = %q, want env-model", cfg.ModelID)
	}
	if cfg.Retries != 7 {
		t.Fatalf("retries = %d, want 7", cfg.Retries)
	}
	if cfg.RetryDelay != 250*time.Millisecond {
		t.Fatalf("retry delay = %s", cfg.RetryDelay)
	}
}

func TestLoadDotEnv(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, ".env", "HUGGINGFACE_HUB_TOKEN=hf_test\n")
	if err := LoadDotEnv(p); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("HUGGINGFACE_HUB_TOKEN") })
	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HubToken != "hf_test" {
		t.Fatalf("hub token = %q", cfg.HubToken)
	}
}

func TestLoadDotEnvMissingFileIgnored(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing env file should be ignored, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	ok := Default()
	if err := ok.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"empty model", func(c *Config) { c.ModelID = " " }},
		{"zero tokens", func(c *Config) { c.MaxNewTokens = 0 }},
		{"zero retries", func(c *Config) { c.Retries = 0 }},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }},
		{"bad device", func(c *Config) { c.Device = "tpu" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mut(&c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
