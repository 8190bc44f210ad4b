package sink

import (
	"chat-pair/contract"
	"chat-pair/domain"
	"chat-pair/errors"
	"context"
	"fmt"
	"sync"
)

var _ contract.PayloadSink = (*StreamSink)(nil)

// StreamSink buffers the outbound payloads of one connected stream.
// The stream handler drains Payloads and writes them on the wire.
type StreamSink struct {
	handle   domain.UserHandle
	payloads chan domain.Payload
	closed   chan struct{}
	once     sync.Once
}

func NewStreamSink(handle domain.UserHandle, bufferSize int) *StreamSink {
	return &StreamSink{
		handle:   handle,
		payloads: make(chan domain.Payload, bufferSize),
		closed:   make(chan struct{}),
	}
}

func (s *StreamSink) Payloads() <-chan domain.Payload {
	return s.payloads
}

// Deliver waits for room in the buffer until ctx expires.
// A closed stream or an expired context is a failed delivery.
func (s *StreamSink) Deliver(ctx context.Context, payload domain.Payload) error {
	select {
	case <-s.closed:
		return fmt.Errorf("%w: stream of %s closed", errors.ErrRecipientUnreachable, s.handle)
	default:
	}
	select {
	case s.payloads <- payload:
		return nil
	case <-s.closed:
		return fmt.Errorf("%w: stream of %s closed", errors.ErrRecipientUnreachable, s.handle)
	case <-ctx.Done():
		return fmt.Errorf("%w: %s is not reading: %v", errors.ErrRecipientUnreachable, s.handle, ctx.Err())
	}
}

// Close marks the stream gone.
func (s *StreamSink) Close() {
	s.once.Do(func() { close(s.closed) })
}
