package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"streamadmin/internal/config"
)

// New builds the process logger: JSON on stdout for prod/staging, a console writer on
// stderr for dev.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	var w io.Writer = os.Stdout
	if cfg.Env == "dev" {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(cfg, w)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg config.LogConfig, w io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), err
		}
		level = l
	}

	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = time.RFC3339Nano

	ctx := zerolog.New(w).Level(level).With().Timestamp()
	if cfg.ServiceName != "" {
		ctx = ctx.Str("service", cfg.ServiceName)
	}
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}
	if cfg.Env != "" {
		ctx = ctx.Str("env", cfg.Env)
	}
	if cfg.Env == "dev" {
		ctx = ctx.Caller()
	}
	return ctx.Logger(), nil
}
