package sink

import (
	"chat-pair/domain"
	"chat-pair/domain/event"
	"chat-pair/mocks"
	"chat-pair/repositories"
	"context"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestJournalSink_Consume_ChatEnded(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIJournalRepository(ctrl)
	journal := NewJournalSink(repository, logs.GetLoggerFromLevel(slog.LevelDebug))
	evt := event.ChatEnded{Base: event.NewBase(1), Partner: 2, Reason: domain.ReasonDeliveryFailed}

	// Given the repository stores the transition
	repository.EXPECT().Append(repositories.JournalEntry{
		ID:      evt.ID,
		Event:   "chat_ended",
		Handle:  1,
		Partner: 2,
		Reason:  "delivery_failed",
		At:      evt.At,
	}).Return(nil).Times(1)

	// When the event is consumed
	err := journal.Consume(context.Background(), evt)

	// Then
	req.NoError(err)
}

func TestJournalSink_Consume_SkipsRelayedPayloads(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIJournalRepository(ctrl)
	journal := NewJournalSink(repository, logs.GetLoggerFromLevel(slog.LevelDebug))

	// Given the repository is never called
	repository.EXPECT().Append(gomock.Any()).Times(0)

	// When a relayed payload is consumed
	err := journal.Consume(context.Background(),
		event.PayloadRelayed{Base: event.NewBase(1), Partner: 2, Kind: domain.KindText})

	// Then nothing is journaled
	req.NoError(err)
}

func TestJournalSink_Consume_ExpiredContext(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIJournalRepository(ctrl)
	journal := NewJournalSink(repository, logs.GetLoggerFromLevel(slog.LevelDebug))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repository.EXPECT().Append(gomock.Any()).Times(0)

	err := journal.Consume(ctx, event.SearchCancelled{Base: event.NewBase(1)})

	req.ErrorIs(err, context.Canceled)
}
