package pairing

import (
	"chat-pair/domain"
	"chat-pair/domain/event"
	"log/slog"
)

// Engine drives the per-user state machine:
// Idle -> Searching -> Chatting -> Idle, Searching -> Idle on cancel,
// Chatting -> Searching through NextPartner only.
type Engine struct {
	core *Core
	log  *slog.Logger
}

func NewEngine(core *Core, log *slog.Logger) *Engine {
	return &Engine{core: core, log: log}
}

// StartSearch queues h, or pairs it at once with the longest waiting searcher.
func (e *Engine) StartSearch(h domain.UserHandle) Outcome {
	e.core.mu.Lock()
	defer e.core.mu.Unlock()
	return e.startSearch(h)
}

// EndChat leaves the current chat, notifying the partner, or cancels a search.
func (e *Engine) EndChat(h domain.UserHandle) Outcome {
	e.core.mu.Lock()
	defer e.core.mu.Unlock()

	switch e.core.store.State(h) {
	case domain.Chatting:
		out := e.leaveChat(h)
		out.notify(h, domain.NewNotice(domain.NoticeChatEnded))
		return out
	case domain.Searching:
		return e.cancelSearch(h)
	default:
		return Outcome{
			Reason:     domain.ReasonNothingToEnd,
			Deliveries: []domain.Delivery{domain.NoticeTo(h, domain.NewNotice(domain.NoticeNothingToEnd))},
		}
	}
}

// NextPartner ends the current chat and searches again in one atomic step.
func (e *Engine) NextPartner(h domain.UserHandle) Outcome {
	e.core.mu.Lock()
	defer e.core.mu.Unlock()

	switch e.core.store.State(h) {
	case domain.Searching:
		return rejected(domain.ReasonAlreadySearching, h, domain.NoticeAlreadySearching)
	case domain.Chatting:
		out := e.leaveChat(h)
		out.notify(h, domain.NewNotice(domain.NoticeLookingForNext))
		return out.then(e.startSearch(h))
	default:
		return e.startSearch(h)
	}
}

// Reset brings h back to Idle from any state and greets it.
func (e *Engine) Reset(h domain.UserHandle) Outcome {
	e.core.mu.Lock()
	defer e.core.mu.Unlock()

	var out Outcome
	switch e.core.store.State(h) {
	case domain.Chatting:
		out = e.leaveChat(h)
	case domain.Searching:
		e.core.queue.Remove(h)
		out.emit(event.SearchCancelled{Base: event.NewBase(h)})
	}
	e.core.store.SetState(h, domain.Idle)
	out.notify(h, domain.NewNotice(domain.NoticeWelcome))
	return out
}

// Status reports the current state of h.
func (e *Engine) Status(h domain.UserHandle) Outcome {
	e.core.mu.RLock()
	state := e.core.store.State(h)
	e.core.mu.RUnlock()

	var out Outcome
	out.notify(h, domain.Notice{Key: domain.NoticeStatus, State: state})
	return out
}

func (e *Engine) Help(h domain.UserHandle) Outcome {
	var out Outcome
	out.notify(h, domain.NewNotice(domain.NoticeHelp))
	return out
}

func (e *Engine) startSearch(h domain.UserHandle) Outcome {
	store, queue := e.core.store, e.core.queue

	switch store.State(h) {
	case domain.Chatting:
		return rejected(domain.ReasonAlreadyChatting, h, domain.NoticeAlreadyInChat)
	case domain.Searching:
		return rejected(domain.ReasonAlreadySearching, h, domain.NoticeAlreadySearching)
	}

	store.SetState(h, domain.Searching)

	var out Outcome
	candidate, ok := queue.DequeueNext()
	if !ok {
		queue.Enqueue(h)
		out.notify(h, domain.Notice{Key: domain.NoticeSearchingQueued, Waiting: queue.Len()})
		out.emit(event.SearchStarted{Base: event.NewBase(h), Waiting: queue.Len()})
		e.log.Debug("Searching", "handle", h, "waiting", queue.Len())
		return out
	}

	// Entries only go stale when a cancel raced the dequeue: drop it and wait.
	if store.State(candidate) != domain.Searching {
		e.log.Debug("Discarding stale queue entry", "handle", candidate)
		queue.Enqueue(h)
		out.notify(h, domain.NewNotice(domain.NoticeSearching))
		out.emit(event.SearchStarted{Base: event.NewBase(h), Waiting: queue.Len()})
		return out
	}

	store.SetPartnership(h, candidate)
	e.core.pairings++
	out.notify(h, domain.NewNotice(domain.NoticePartnerFound))
	out.notify(candidate, domain.NewNotice(domain.NoticePartnerFound))
	out.emit(event.PairFormed{Base: event.NewBase(h), Partner: candidate, Total: e.core.pairings})
	e.log.Debug("Pair formed", "handle", h, "partner", candidate, "total", e.core.pairings)
	return out
}

// leaveChat tears the partnership of h down and notifies the partner.
func (e *Engine) leaveChat(h domain.UserHandle) Outcome {
	var out Outcome
	partner, ok := e.core.store.ClearPartnership(h)
	if !ok {
		return out
	}
	out.notify(partner, domain.NewNotice(domain.NoticePartnerLeft))
	out.emit(event.ChatEnded{Base: event.NewBase(h), Partner: partner})
	e.log.Debug("Chat ended", "handle", h, "partner", partner)
	return out
}

func (e *Engine) cancelSearch(h domain.UserHandle) Outcome {
	e.core.queue.Remove(h)
	e.core.store.SetState(h, domain.Idle)

	var out Outcome
	out.notify(h, domain.NewNotice(domain.NoticeSearchCancelled))
	out.emit(event.SearchCancelled{Base: event.NewBase(h)})
	return out
}
