package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"queryd/internal/config"
	"queryd/internal/llm"
	"queryd/internal/registry"
	"queryd/pkg/types"
)

// newRootCmd constructs the Cobra command tree. Configuration is
// assembled in the persistent pre-run (env file, config file, then
// environment) so every subcommand sees the same effective settings.
func newRootCmd() *cobra.Command {
	var (
		configPath string
		envFile    string
		logLevel   string
		logFormat  string
		cfg        config.Config
		log        zerolog.Logger
	)

	root := &cobra.Command{
		Use:           "queryd",
		Short:         "Convert free-text real-estate queries into structured JSON filters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath, envFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				c.LogLevel = logLevel
			}
			if logFormat != "" {
				c.LogFormat = logFormat
			}
			cfg = c
			log = newLogger(cfg)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (.yaml/.json/.toml)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file loaded before reading the environment (missing file is ignored)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console|json")

	root.AddCommand(
		newParseCmd(&cfg, &log),
		newServeCmd(&cfg, &log),
		newModelsCmd(&cfg),
		newPullCmd(&cfg, &log),
	)
	return root
}

func newLogger(cfg config.Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	var w io.Writer = os.Stderr
	if cfg.LogFormat != "json" {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// buildBackend picks the generation backend from config: a llama.cpp
// server when a URL is configured, the in-process binding otherwise. The
// returned model string is the reference handed to Backend.Start.
func buildBackend(cfg config.Config) (llm.Backend, string, error) {
	if cfg.ServerURL != "" {
		b := llm.NewServerBackend(cfg.ServerURL, cfg.ServerAPIKey, 2*time.Minute, 10*time.Second)
		return b, cfg.ModelID, nil
	}
	models, err := registry.Scan(cfg.ModelsDir)
	if err != nil {
		return nil, "", fmt.Errorf("scan models dir: %w", err)
	}
	m, ok := registry.Find(models, cfg.ModelID)
	if !ok {
		return nil, "", fmt.Errorf("model %q not found in %s (run `queryd pull %s` to download it)",
			cfg.ModelID, cfg.ModelsDir, cfg.ModelID)
	}
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return llm.NewLocalBackend(cfg.CtxSize, threads, cfg.Device == "cuda"), m.Path, nil
}

// localCatalog lists the local models; in server mode the configured model
// is reported even without local files.
func localCatalog(cfg config.Config) []types.Model {
	models, err := registry.Scan(cfg.ModelsDir)
	if err != nil && cfg.ServerURL != "" {
		return []types.Model{{ID: cfg.ModelID, Name: cfg.ModelID}}
	}
	return models
}
