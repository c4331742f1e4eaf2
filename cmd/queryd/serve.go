package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"queryd/internal/config"
	"queryd/internal/httpapi"
	"queryd/internal/parser"
	"queryd/pkg/types"
)

// service wires the parser and the local catalog into the HTTP API.
type service struct {
	*parser.QueryParser
	models []types.Model
}

func (s *service) Models() []types.Model { return append([]types.Model(nil), s.models...) }

func newServeCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Addr = addr
			}
			backend, model, err := buildBackend(*cfg)
			if err != nil {
				return err
			}
			p, err := parser.New(*cfg, backend, model, *log)
			if err != nil {
				return err
			}
			defer p.Close()

			httpapi.SetLogger(*log)
			mux := httpapi.NewMux(&service{QueryParser: p, models: localCatalog(*cfg)})
			srv := &http.Server{Addr: cfg.Addr, Handler: mux}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Str("model", p.Model()).Msg("queryd listening")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-stop:
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Warn().Err(err).Msg("graceful shutdown")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	return cmd
}
