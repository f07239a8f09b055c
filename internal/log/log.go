package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
)

// NewSlogLogger creates the process logger writing to stdout and installs it
// as the slog default.
func NewSlogLogger(cfg config.Log) *slog.Logger {
	logger := slog.New(newHandler(os.Stdout, cfg))
	slog.SetDefault(logger)

	return logger
}

func newHandler(w io.Writer, cfg config.Log) slog.Handler {
	var handler slog.Handler

	switch cfg.Format {
	case config.LogFormatText:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: time.RFC3339,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				// errors are printed in red
				if err, ok := a.Value.Any().(error); ok && a.Value.Kind() == slog.KindAny {
					return slog.Attr{Key: a.Key, Value: tint.Err(err).Value}
				}
				return a
			},
		})
	default:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.Level,
			AddSource: cfg.AddSource,
		})
	}

	return contextHandler{next: handler}
}
