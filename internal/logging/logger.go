// Package logging builds the application's zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger configured for env: JSON at info level in
// production and staging, a human readable console at debug level otherwise.
func New(env string) zerolog.Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(env string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	var out io.Writer = w
	if !structured(env) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).
		Level(parseLevel(env)).
		With().
		Timestamp().
		Str("service", "syucap").
		Logger()
}

func structured(env string) bool {
	return env == "production" || env == "staging"
}

func parseLevel(env string) zerolog.Level {
	switch env {
	case "production", "staging":
		return zerolog.InfoLevel
	case "test":
		return zerolog.WarnLevel
	default:
		return zerolog.DebugLevel
	}
}
