package observability

import (
	"context"
	"log/slog"
)

// SlogObserver writes events to a slog.Logger. The event type is the log
// message, the source and every Data entry become attributes.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver returns a SlogObserver writing to logger, or to
// slog.Default when logger is nil.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	attrs := make([]slog.Attr, 0, len(event.Data)+1)
	attrs = append(attrs, slog.String("source", event.Source))
	for k, v := range event.Data {
		attrs = append(attrs, slog.Any(k, v))
	}

	o.logger.LogAttrs(ctx, event.Level.SlogLevel(), string(event.Type), attrs...)
}
