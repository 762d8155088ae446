package analytics

import (
	"context"
	"log/slog"
)

// Logger writes every event as a structured log record. Useful during
// development and as a local mirror of whatever remote sink the host wires.
type Logger struct {
	log *slog.Logger
}

// NewLogger creates a sink writing through the given logger.
// A nil logger falls back to slog.Default.
func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log}
}

func (l *Logger) Track(ctx context.Context, event string, params Params) {
	attrs := make([]any, 0, len(params)*2)
	for k, v := range params {
		attrs = append(attrs, k, v)
	}
	l.log.InfoContext(ctx, "analytics event", append([]any{"event", event}, attrs...)...)
}
