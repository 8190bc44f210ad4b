package runtime

import (
	"chat-pair/contract"
	"chat-pair/domain"
	"chat-pair/errors"
	"context"
	"fmt"
	"sync"
)

var _ contract.IRegistry = (*Registry)(nil)

// Registry maps every connected user to the sink of its open stream.
// It is the Transport of stream based front-ends.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.UserHandle]contract.PayloadSink
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.UserHandle]contract.PayloadSink),
	}
}

// Subscribe registers the connection of handle.
// A second connection for the same handle is refused.
func (r *Registry) Subscribe(handle domain.UserHandle, sink contract.PayloadSink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[handle]; ok {
		return fmt.Errorf("%w: %s", errors.ErrAlreadyConnected, handle)
	}
	r.sessions[handle] = sink
	return nil
}

// Unsubscribe removes the connection of handle, only if sink is still the registered one.
func (r *Registry) Unsubscribe(handle domain.UserHandle, sink contract.PayloadSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[handle]; ok && current == sink {
		delete(r.sessions, handle)
	}
}

func (r *Registry) IsConnected(handle domain.UserHandle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[handle]
	return ok
}

// Send hands the payload to the sink of to. The registry lock is not held while delivering.
func (r *Registry) Send(ctx context.Context, to domain.UserHandle, payload domain.Payload) error {
	r.mu.RLock()
	sink, ok := r.sessions[to]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s is not connected", errors.ErrRecipientUnreachable, to)
	}
	return sink.Deliver(ctx, payload)
}
