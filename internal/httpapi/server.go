package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"queryd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Parse(ctx context.Context, query string) types.Result
	Models() []types.Model
	Ready() bool
}

// maxBodyBytes caps the request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes configures the maximum request body size. n <= 0 resets
// the default of 1 MiB.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// NewMux builds the router: POST /parse, GET /models, health probes and
// Prometheus metrics.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Log-Level"},
		MaxAge:         300,
	}))
	r.Use(MetricsMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/parse", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.ParseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			writeJSONError(w, http.StatusBadRequest, "query is required")
			return
		}

		start := time.Now()
		lvl := requestLogLevel(r)
		if lvl >= LevelInfo && zlog != nil {
			e := zlog.Info().Str("path", r.URL.Path)
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				e = e.Str("request_id", rid)
			}
			e.Msg("parse start")
		}

		res := svc.Parse(r.Context(), req.Query)
		if r.Context().Err() != nil {
			// client went away; nothing useful to write
			return
		}

		// Parse-level failures are data, not transport errors: the result
		// mapping goes back with 200 either way.
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			if lvl >= LevelError && zlog != nil {
				zlog.Error().Err(err).Msg("encode parse result")
			}
			return
		}
		if lvl >= LevelInfo && zlog != nil {
			e := zlog.Info().Dur("dur", time.Since(start)).Bool("error_result", res.IsError())
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				e = e.Str("request_id", rid)
			}
			e.Msg("parse end")
		}
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.ModelsResponse{Models: svc.Models()}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}
