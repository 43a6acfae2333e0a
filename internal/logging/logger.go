// Package logging builds the JSON line logger shared by the server components.
package logging

import (
	"io"
	"log/slog"
	"time"
)

// New returns a JSON slog logger writing one object per line to w. The time
// attribute is emitted as "ts" in RFC3339Nano, in the given location.
func New(w io.Writer, loc *time.Location, level slog.Level) *slog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
			}
			return a
		},
	})
	return slog.New(h)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
