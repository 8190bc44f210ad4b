//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-pair/domain"
	"chat-pair/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Transport is the outbound delivery capability of the external messaging platform.
// Any non-nil error is a delivery failure.
type Transport interface {
	Send(ctx context.Context, to domain.UserHandle, payload domain.Payload) error
}

// CommandHandler processes one inbound command end to end.
type CommandHandler interface {
	Handle(ctx context.Context, cmd domain.Command)
}

// PayloadSink receives the outbound payloads of one connected user.
type PayloadSink interface {
	Deliver(ctx context.Context, payload domain.Payload) error
}

type IRegistry interface {
	Transport
	Subscribe(handle domain.UserHandle, sink PayloadSink) error
	Unsubscribe(handle domain.UserHandle, sink PayloadSink)
	IsConnected(handle domain.UserHandle) bool
}

type IOrchestrator interface {
	Dispatch(cmd domain.Command) error
	Start(ctx context.Context) error
	Stop()
}
