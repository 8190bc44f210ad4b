package event

import (
	"chat-pair/domain"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a session lifecycle fact. Events never carry message content.
type DomainEvent interface {
	EventID() uuid.UUID
	Name() string
	Handle() domain.UserHandle
	OccurredAt() time.Time
}

type Base struct {
	ID   uuid.UUID
	User domain.UserHandle
	At   time.Time
}

func NewBase(user domain.UserHandle) Base {
	return Base{ID: uuid.New(), User: user, At: time.Now().UTC()}
}

func (b Base) EventID() uuid.UUID        { return b.ID }
func (b Base) Handle() domain.UserHandle { return b.User }
func (b Base) OccurredAt() time.Time     { return b.At }

type SearchStarted struct {
	Base
	Waiting int
}

type SearchCancelled struct {
	Base
}

type PairFormed struct {
	Base
	Partner domain.UserHandle
	Total   uint64
}

type ChatEnded struct {
	Base
	Partner domain.UserHandle
	Reason  domain.Reason
}

type DeliveryFailed struct {
	Base
	Partner domain.UserHandle
	Err     string
}

type PayloadRelayed struct {
	Base
	Partner domain.UserHandle
	Kind    domain.ContentKind
}

// InconsistencyDetected is raised when a chatting handle has no resolvable partner.
type InconsistencyDetected struct {
	Base
}

func (SearchStarted) Name() string         { return "search_started" }
func (SearchCancelled) Name() string       { return "search_cancelled" }
func (PairFormed) Name() string            { return "pair_formed" }
func (ChatEnded) Name() string             { return "chat_ended" }
func (DeliveryFailed) Name() string        { return "delivery_failed" }
func (PayloadRelayed) Name() string        { return "payload_relayed" }
func (InconsistencyDetected) Name() string { return "inconsistency_detected" }
