// Package logs builds the process-wide slog logger from config.
package logs

import (
	"io"
	"log/slog"
	"os"

	"qbank/config"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params defines the parameters required for the logger
type Params struct {
	fx.In

	Config *config.Config
}

// New writes to stdout: text when env.log.pretty is set, JSON otherwise.
func New(params Params) (*slog.Logger, error) {
	return newLogger(params.Config, os.Stdout)
}

func newLogger(cfg *config.Config, out io.Writer) (*slog.Logger, error) {
	level, err := parseLogLevel(cfg.Env.Log.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewJSONHandler(out, opts)
	if cfg.Env.Log.Pretty {
		handler = slog.NewTextHandler(out, opts)
	}

	var attrs []slog.Attr
	if cfg.Env.ServiceName != "" {
		attrs = append(attrs, slog.String("service", cfg.Env.ServiceName))
	}
	if cfg.Env.Env != "" {
		attrs = append(attrs, slog.String("env", cfg.Env.Env))
	}

	return slog.New(handler.WithAttrs(attrs)), nil
}

// parseLogLevel accepts slog level names in any case, with an optional
// offset such as "warn+2". Empty means info.
func parseLogLevel(level string) (slog.Level, error) {
	if level == "" {
		return slog.LevelInfo, nil
	}

	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, errors.Errorf("unknown log level: %s", level)
	}

	return parsed, nil
}
