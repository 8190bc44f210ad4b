package pairing

import (
	"chat-pair/contract"
	"chat-pair/domain"
	"chat-pair/domain/event"
	"context"
	"log/slog"
)

// Relay forwards payloads from a sender to its current partner.
// A failed delivery ends the chat: the partner is not told, its own
// channel is presumed to be the cause.
type Relay struct {
	core      *Core
	transport contract.Transport
	log       *slog.Logger
}

func NewRelay(core *Core, transport contract.Transport, log *slog.Logger) *Relay {
	return &Relay{core: core, transport: transport, log: log}
}

// Relay sends payload to the partner of sender. The returned outcome only
// holds notices for the sender, the forwarded payload is already delivered.
func (r *Relay) Relay(ctx context.Context, sender domain.UserHandle, payload domain.Payload) Outcome {
	partner, out, ok := r.resolve(sender, payload)
	if !ok {
		return out
	}

	if err := r.transport.Send(ctx, partner, payload); err != nil {
		return r.abort(sender, partner, err)
	}

	out.emit(event.PayloadRelayed{Base: event.NewBase(sender), Partner: partner, Kind: payload.Kind()})
	return out
}

// resolve checks the sender may relay payload and returns its partner.
func (r *Relay) resolve(sender domain.UserHandle, payload domain.Payload) (domain.UserHandle, Outcome, bool) {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	store := r.core.store
	switch store.State(sender) {
	case domain.Searching:
		return 0, rejected(domain.ReasonStillSearching, sender, domain.NoticeStillSearching), false
	case domain.Idle:
		return 0, rejected(domain.ReasonNotInChat, sender, domain.NoticeNotInChat), false
	}

	partner, ok := store.Partner(sender)
	back, backOK := store.Partner(partner)
	if !ok || !backOK || back != sender {
		r.log.Error("Chatting handle without a resolvable partner, resetting to idle",
			"handle", sender, "partner", partner)
		store.SetState(sender, domain.Idle)
		out := rejected(domain.ReasonPartnerMissing, sender, domain.NoticePartnerMissing)
		out.emit(event.InconsistencyDetected{Base: event.NewBase(sender)})
		return 0, out, false
	}

	if !domain.IsForwardable(payload) {
		return 0, rejected(domain.ReasonUnsupportedContent, sender, domain.NoticeUnsupportedContent), false
	}
	if err := domain.ValidatePayload(payload); err != nil {
		r.log.Debug("Invalid payload", "handle", sender, "kind", payload.Kind(), "error", err)
		return 0, rejected(domain.ReasonInvalidContent, sender, domain.NoticeInvalidContent), false
	}
	return partner, Outcome{}, true
}

// abort tears the chat down after a failed delivery, unless the sender
// already moved on while the lock was released.
func (r *Relay) abort(sender, partner domain.UserHandle, cause error) Outcome {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	r.log.Warn("Delivery failed, ending dialog", "handle", sender, "partner", partner, "error", cause)

	out := rejected(domain.ReasonDeliveryFailed, sender, domain.NoticeDeliveryFailed)
	out.emit(event.DeliveryFailed{Base: event.NewBase(sender), Partner: partner, Err: cause.Error()})

	if current, ok := r.core.store.Partner(sender); !ok || current != partner {
		return out
	}
	r.core.store.ClearPartnership(sender)
	out.notify(sender, domain.NewNotice(domain.NoticeDialogEnded))
	out.emit(event.ChatEnded{Base: event.NewBase(sender), Partner: partner, Reason: domain.ReasonDeliveryFailed})
	return out
}
