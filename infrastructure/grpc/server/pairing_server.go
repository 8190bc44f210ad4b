package server

import (
	"chat-pair/domain"
	"chat-pair/errors"
	"chat-pair/i18n"
	"chat-pair/services"
	"chat-pair/sink"
	"context"
	"log/slog"

	"google.golang.org/protobuf/types/known/structpb"
)

var _ PairingServiceServer = (*PairingServer)(nil)

type PairingServer struct {
	service              services.IPairingService
	renderer             *i18n.Renderer
	connectionBufferSize int
	log                  *slog.Logger
}

func NewPairingServer(log *slog.Logger, service services.IPairingService,
	renderer *i18n.Renderer, connectionBufferSize int) *PairingServer {
	return &PairingServer{
		service:              service,
		renderer:             renderer,
		connectionBufferSize: connectionBufferSize,
		log:                  log,
	}
}

// Dispatch submits a command. It only acknowledges reception: the outcome
// reaches the sender through its Connect stream.
func (s *PairingServer) Dispatch(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	cmd, err := toCommand(in)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	if err := s.service.Submit(cmd); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return structpb.NewStruct(map[string]any{"accepted": true})
}

// Connect registers a stream sink for the handle and pushes every payload
// addressed to it. It blocks until the client goes away, which ends the
// chat or the search of the handle.
func (s *PairingServer) Connect(in *structpb.Struct, stream PairingService_ConnectServer) error {
	handle, err := parseHandle(in.GetFields())
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	locale := in.GetFields()["locale"].GetStringValue()

	out := sink.NewStreamSink(handle, s.connectionBufferSize)
	if err := s.service.Connect(handle, out); err != nil {
		return errors.MapToGRPCError(err)
	}
	defer func() {
		out.Close()
		s.service.Disconnect(handle, out)
	}()

	for {
		select {
		case <-stream.Context().Done():
			s.log.Info("Client disconnected", "handle", handle)
			return nil
		case payload := <-out.Payloads():
			var rendered string
			if notice, ok := payload.(domain.Notice); ok {
				rendered = s.renderer.Render(locale, notice)
			}
			msg, err := fromPayload(payload, rendered)
			if err != nil {
				s.log.Warn("Dropping payload", "handle", handle, "kind", payload.Kind(), "error", err)
				continue
			}
			if err := stream.Send(msg); err != nil {
				s.log.Error("Failed to push payload to stream", "handle", handle, "error", err)
				return err
			}
		}
	}
}
