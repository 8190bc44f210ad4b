//go:generate go run go.uber.org/mock/mockgen -source=pairing_service.go -destination=../mocks/mock_pairing_service.go -package=mocks
package services

import (
	"chat-pair/contract"
	"chat-pair/domain"
	"chat-pair/errors"
	"fmt"
	"log/slog"
	"time"
)

type IPairingService interface {
	Submit(cmd domain.Command) error
	Connect(handle domain.UserHandle, sink contract.PayloadSink) error
	Disconnect(handle domain.UserHandle, sink contract.PayloadSink)
}

// SessionReader gives read access to session records.
type SessionReader interface {
	Session(h domain.UserHandle) domain.Session
}

// PairingService is the single entry point of the front-ends.
type PairingService struct {
	orchestrator contract.IOrchestrator
	registry     contract.IRegistry
	sessions     SessionReader
	log          *slog.Logger
}

func NewPairingService(orchestrator contract.IOrchestrator, registry contract.IRegistry,
	sessions SessionReader, log *slog.Logger) *PairingService {
	return &PairingService{orchestrator: orchestrator, registry: registry, sessions: sessions, log: log}
}

// Submit hands a command to the orchestrator. Commands are processed asynchronously,
// the answer reaches the sender through its transport.
func (s *PairingService) Submit(cmd domain.Command) error {
	if cmd.Sender == 0 {
		return errors.ErrInvalidHandle
	}
	if cmd.Kind == domain.CommandUnknown {
		return errors.ErrUnknownCommand
	}
	if cmd.Kind == domain.CommandForwardPayload && cmd.Payload == nil {
		return fmt.Errorf("%w: forward without payload", errors.ErrInvalidPayload)
	}
	if cmd.ReceivedAt.IsZero() {
		cmd.ReceivedAt = time.Now().UTC()
	}
	return s.orchestrator.Dispatch(cmd)
}

// Connect registers the stream of handle. Stream based front-ends only.
func (s *PairingService) Connect(handle domain.UserHandle, sink contract.PayloadSink) error {
	if handle == 0 {
		return errors.ErrInvalidHandle
	}
	if s.registry == nil {
		return fmt.Errorf("no stream registry configured")
	}
	if err := s.registry.Subscribe(handle, sink); err != nil {
		return err
	}
	s.log.Debug("Stream connected", "handle", handle)
	return nil
}

// Disconnect drops the stream of handle and ends its chat or search.
func (s *PairingService) Disconnect(handle domain.UserHandle, sink contract.PayloadSink) {
	if s.registry != nil {
		s.registry.Unsubscribe(handle, sink)
	}
	if s.sessions.Session(handle).State == domain.Idle {
		return
	}
	if err := s.Submit(domain.Command{Sender: handle, Kind: domain.CommandEndChat}); err != nil {
		s.log.Warn("Failed to end session of disconnected user", "handle", handle, "error", err)
	}
}
