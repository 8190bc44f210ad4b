package sink

import (
	"chat-pair/contract"
	"chat-pair/domain/event"
	"context"
	"log/slog"
)

var _ contract.EventSink = LogSink{}

// LogSink writes every lifecycle event to the structured log.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) LogSink {
	return LogSink{log: log}
}

func (l LogSink) Consume(ctx context.Context, e event.DomainEvent) error {
	attrs := []any{"event", e.Name(), "handle", e.Handle()}
	level := slog.LevelDebug
	switch evt := e.(type) {
	case event.SearchStarted:
		attrs = append(attrs, "waiting", evt.Waiting)
	case event.PairFormed:
		attrs = append(attrs, "partner", evt.Partner, "total", evt.Total)
		level = slog.LevelInfo
	case event.ChatEnded:
		attrs = append(attrs, "partner", evt.Partner, "reason", evt.Reason)
		level = slog.LevelInfo
	case event.DeliveryFailed:
		attrs = append(attrs, "partner", evt.Partner, "error", evt.Err)
		level = slog.LevelWarn
	case event.PayloadRelayed:
		attrs = append(attrs, "partner", evt.Partner, "kind", evt.Kind)
	case event.InconsistencyDetected:
		level = slog.LevelError
	}
	l.log.Log(ctx, level, "Session event", attrs...)
	return nil
}
