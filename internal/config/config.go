package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for queryd. It is assembled once at
// startup (defaults, then an optional config file, then the environment)
// and treated as immutable afterwards.
type Config struct {
	// Model selection. ModelID is either a bare model name matched against
	// the local catalog or a Hub repo id like "meta-llama/Meta-Llama-3-8B-Instruct".
	ModelID  string `envconfig:"MODEL_ID" json:"model_id" yaml:"model_id" toml:"model_id"`
	HubToken string `envconfig:"HUGGINGFACE_HUB_TOKEN" json:"-" yaml:"hub_token" toml:"hub_token"`

	// Generation parameters.
	Device       string        `envconfig:"QUERYD_DEVICE" json:"device" yaml:"device" toml:"device"`
	MaxNewTokens int           `envconfig:"QUERYD_MAX_NEW_TOKENS" json:"max_new_tokens" yaml:"max_new_tokens" toml:"max_new_tokens"`
	Temperature  float64       `envconfig:"QUERYD_TEMPERATURE" json:"temperature" yaml:"temperature" toml:"temperature"`
	Retries      int           `envconfig:"QUERYD_RETRIES" json:"retries" yaml:"retries" toml:"retries"`
	RetryDelay   time.Duration `envconfig:"QUERYD_RETRY_DELAY" json:"retry_delay" yaml:"retry_delay" toml:"retry_delay"`

	// Backend selection. When ServerURL is set, generation goes to an
	// OpenAI-compatible llama.cpp server; otherwise the in-process backend
	// resolves ModelID against ModelsDir.
	ServerURL    string `envconfig:"QUERYD_SERVER_URL" json:"server_url" yaml:"server_url" toml:"server_url"`
	ServerAPIKey string `envconfig:"QUERYD_SERVER_API_KEY" json:"-" yaml:"server_api_key" toml:"server_api_key"`
	ModelsDir    string `envconfig:"QUERYD_MODELS_DIR" json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	CtxSize      int    `envconfig:"QUERYD_CTX_SIZE" json:"ctx_size" yaml:"ctx_size" toml:"ctx_size"`
	Threads      int    `envconfig:"QUERYD_THREADS" json:"threads" yaml:"threads" toml:"threads"`

	// HTTP daemon.
	Addr string `envconfig:"QUERYD_ADDR" json:"addr" yaml:"addr" toml:"addr"`

	// Result cache. Zero disables caching entirely.
	CacheTTL time.Duration `envconfig:"QUERYD_CACHE_TTL" json:"cache_ttl" yaml:"cache_ttl" toml:"cache_ttl"`

	// Logging.
	LogLevel  string `envconfig:"QUERYD_LOG_LEVEL" json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `envconfig:"QUERYD_LOG_FORMAT" json:"log_format" yaml:"log_format" toml:"log_format"`
}

// Default returns the baseline configuration before file and environment
// overlays are applied.
func Default() Config {
	return Config{
		ModelID:      "Meta-Llama-3-8B-Instruct",
		Device:       "auto",
		MaxNewTokens: 150,
		Temperature:  0.7,
		Retries:      3,
		RetryDelay:   time.Second,
		ModelsDir:    "~/models/llm",
		CtxSize:      2048,
		Addr:         ":8090",
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// LoadFile reads a configuration file into cfg based on its extension.
// Supports: .yaml/.yml, .json, .toml
func LoadFile(path string, cfg *Config) error {
	if path == "" {
		return fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	case ".json":
		return json.Unmarshal(b, cfg)
	case ".toml":
		return toml.Unmarshal(b, cfg)
	default:
		return fmt.Errorf("unsupported config extension: %s", ext)
	}
}

// FromEnv overlays environment variables onto cfg. Variables that are not
// set leave the corresponding fields untouched.
func FromEnv(cfg *Config) error {
	return envconfig.Process("", cfg)
}

// LoadDotEnv loads environment variables from path. Missing files are ignored.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Load assembles the effective configuration: defaults, then the optional
// config file, then the environment. envFile, when non-empty, is loaded
// into the environment first (missing file is not an error).
func Load(configPath, envFile string) (Config, error) {
	if envFile != "" {
		if err := LoadDotEnv(envFile); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}
	cfg := Default()
	if configPath != "" {
		if err := LoadFile(configPath, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
	}
	if err := FromEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the rest of the process cannot work with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ModelID) == "" {
		return fmt.Errorf("model id is required")
	}
	if c.MaxNewTokens <= 0 {
		return fmt.Errorf("max_new_tokens must be positive")
	}
	if c.Retries <= 0 {
		return fmt.Errorf("retries must be positive")
	}
	if c.Temperature < 0 {
		return fmt.Errorf("temperature must not be negative")
	}
	switch c.Device {
	case "auto", "cuda", "cpu":
	default:
		return fmt.Errorf("unknown device %q (want auto, cuda or cpu)", c.Device)
	}
	return nil
}
