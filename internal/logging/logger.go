package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns the application logger: a text handler on Stderr, keeping
// Stdout free for reports and JSON-RPC. The "error" key is shortened to
// "err" for consistent grep-ability across adapters.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
