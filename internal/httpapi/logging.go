package httpapi

import (
	"net/http"

	"github.com/rs/zerolog"
)

// zlog is an optional structured logger installed by the daemon. When
// unset the HTTP layer stays quiet.
var zlog *zerolog.Logger

// SetLogger installs the structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off":
		return LevelOff
	case "error":
		return LevelError
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// requestLogLevel resolves the effective log level for one request.
// Per-request overrides: ?log=<level> query param, then X-Log-Level header.
func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return LevelInfo
}
