package workers

import (
	"chat-pair/contract"
	"chat-pair/domain"
	"context"
	"log/slog"
)

// Ensure *CommandWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*CommandWorker)(nil)

// CommandWorker drains one shard of inbound commands. Every command of a
// given sender lands on the same shard, which keeps per-sender ordering.
type CommandWorker struct {
	shard    int
	commands chan domain.Command
	handler  contract.CommandHandler
	log      *slog.Logger
}

func NewCommandWorker(
	shard int,
	commands chan domain.Command,
	handler contract.CommandHandler,
	log *slog.Logger) *CommandWorker {
	return &CommandWorker{
		shard:    shard,
		commands: commands,
		handler:  handler,
		log:      log.With("shard", shard),
	}
}

func (w *CommandWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.handler.Handle(ctx, cmd)
		}
	}
}
