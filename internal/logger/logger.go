// Package logger builds the JSON line logger shared by the server, migrations and middleware.
// Every line carries "ts" (RFC3339Nano in the configured location), "level" and "msg".
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// New returns a JSON logger writing to w with timestamps rendered in loc.
func New(w io.Writer, loc *time.Location) *slog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
			case slog.LevelKey:
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					return slog.String(slog.LevelKey, strings.ToLower(lvl.String()))
				}
			}
			return a
		},
	})
	return slog.New(h)
}

// Default writes to stdout.
func Default(loc *time.Location) *slog.Logger {
	return New(os.Stdout, loc)
}

// Discard drops everything; used by tests and optional collaborators.
func Discard() *slog.Logger {
	return New(io.Discard, time.UTC)
}
