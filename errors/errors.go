package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrRecipientUnreachable = fmt.Errorf("recipient unreachable")
	ErrUnsupportedContent   = fmt.Errorf("unsupported content")
	ErrInvalidPayload       = fmt.Errorf("invalid payload")
	ErrUnknownCommand       = fmt.Errorf("unknown command")
	ErrCommandQueueFull     = fmt.Errorf("command queue full")
	ErrInvalidHandle        = fmt.Errorf("invalid user handle")
	ErrAlreadyConnected     = fmt.Errorf("handle already connected")
	ErrOrchestratorStopped  = fmt.Errorf("orchestrator not running")
	ErrMissingCatalog       = fmt.Errorf("missing locale catalog")
)

// MapToGRPCError translates sentinel errors into gRPC statuses at the transport edge.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrInvalidPayload), errors.Is(err, ErrUnknownCommand),
		errors.Is(err, ErrInvalidHandle), errors.Is(err, ErrUnsupportedContent):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrAlreadyConnected):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, ErrCommandQueueFull):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, ErrRecipientUnreachable), errors.Is(err, ErrOrchestratorStopped):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
