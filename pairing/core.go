// Package pairing is the session engine: it pairs searching users, tears chats
// down and relays payloads between partners.
//
// Every operation that reads then writes the store, the queue or the pairing
// counter runs under the write lock of the shared Core. Outbound delivery never
// happens under that lock: operations return an Outcome listing what to send and
// the caller delivers it once the lock is released. The relay is the exception
// that proves the rule, it releases the lock before calling the transport and
// takes it again to recover from a failed delivery.
package pairing

import (
	"chat-pair/domain"
	"chat-pair/domain/event"
	"chat-pair/session"
	"fmt"
	"log/slog"
	"sync"
)

// Core is the single shared state domain of the process.
type Core struct {
	mu       sync.RWMutex
	store    *session.Store
	queue    *session.Queue
	pairings uint64
	log      *slog.Logger
}

func NewCore(log *slog.Logger) *Core {
	return &Core{
		store: session.NewStore(),
		queue: session.NewQueue(),
		log:   log,
	}
}

// Session returns a copy of the record of h.
func (c *Core) Session(h domain.UserHandle) domain.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sess, _ := c.store.Session(h)
	return sess
}

// Queue returns the searching handles from head to tail.
func (c *Core) Queue() []domain.UserHandle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.queue.Snapshot()
}

// CheckInvariants verifies partner symmetry and queue membership.
func (c *Core) CheckInvariants() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, h := range c.store.Handles() {
		state := c.store.State(h)
		queued := c.queue.Contains(h)
		if queued != (state == domain.Searching) {
			return fmt.Errorf("handle %s is %s but queued=%t", h, state, queued)
		}
		partner, ok := c.store.Partner(h)
		if ok != (state == domain.Chatting) {
			return fmt.Errorf("handle %s is %s but has partner=%t", h, state, ok)
		}
		if !ok {
			continue
		}
		if back, ok := c.store.Partner(partner); !ok || back != h {
			return fmt.Errorf("handle %s points to %s which does not point back", h, partner)
		}
	}
	for _, h := range c.queue.Snapshot() {
		if c.store.State(h) != domain.Searching {
			return fmt.Errorf("queued handle %s is %s", h, c.store.State(h))
		}
	}
	return nil
}

// Outcome is the closed result of a core operation.
type Outcome struct {
	Reason     domain.Reason
	Deliveries []domain.Delivery
	Events     []event.DomainEvent
}

func (o Outcome) OK() bool {
	return o.Reason == domain.ReasonNone
}

func (o *Outcome) notify(to domain.UserHandle, notice domain.Notice) {
	o.Deliveries = append(o.Deliveries, domain.NoticeTo(to, notice))
}

func (o *Outcome) emit(e event.DomainEvent) {
	o.Events = append(o.Events, e)
}

// then appends the deliveries and events of next, next's reason wins.
func (o Outcome) then(next Outcome) Outcome {
	return Outcome{
		Reason:     next.Reason,
		Deliveries: append(o.Deliveries, next.Deliveries...),
		Events:     append(o.Events, next.Events...),
	}
}

func rejected(reason domain.Reason, to domain.UserHandle, key domain.NoticeKey) Outcome {
	out := Outcome{Reason: reason}
	out.notify(to, domain.NewNotice(key))
	return out
}
