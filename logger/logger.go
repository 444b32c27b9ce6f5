// Package logger configures the process-wide zerolog logger and carries
// request-scoped loggers through contexts.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Level  string
	Format string
	Output io.Writer
}

// Init builds the global logger and installs it as the package-level and
// default context logger. Unknown levels fall back to info.
func Init(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	l := zerolog.New(out).With().Timestamp().Str("service", "hostel_pg_finder").Logger()
	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}

// Ctx returns the logger stored in ctx by the request middleware, or the
// global one.
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}
