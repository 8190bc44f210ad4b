package sink

import (
	"chat-pair/contract"
	"chat-pair/domain"
	"chat-pair/domain/event"
	"chat-pair/repositories"
	"context"
	"log/slog"
)

var _ contract.EventSink = JournalSink{}

// JournalSink persists session lifecycle transitions.
// Relayed payloads are not journaled.
type JournalSink struct {
	repository repositories.IJournalRepository
	log        *slog.Logger
}

func NewJournalSink(repository repositories.IJournalRepository, log *slog.Logger) JournalSink {
	return JournalSink{repository: repository, log: log}
}

func (j JournalSink) Consume(ctx context.Context, e event.DomainEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry, ok := toJournalEntry(e)
	if !ok {
		return nil
	}
	return j.repository.Append(entry)
}

func toJournalEntry(e event.DomainEvent) (repositories.JournalEntry, bool) {
	entry := repositories.JournalEntry{
		ID:     e.EventID(),
		Event:  e.Name(),
		Handle: int64(e.Handle()),
		Reason: domain.ReasonNone.String(),
		At:     e.OccurredAt(),
	}
	switch evt := e.(type) {
	case event.SearchStarted, event.SearchCancelled:
	case event.PairFormed:
		entry.Partner = int64(evt.Partner)
	case event.ChatEnded:
		entry.Partner = int64(evt.Partner)
		entry.Reason = evt.Reason.String()
	case event.DeliveryFailed:
		entry.Partner = int64(evt.Partner)
		entry.Reason = domain.ReasonDeliveryFailed.String()
	case event.InconsistencyDetected:
		entry.Reason = domain.ReasonPartnerMissing.String()
	default:
		return repositories.JournalEntry{}, false
	}
	return entry, true
}
