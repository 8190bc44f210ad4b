// Package runtime wires inbound commands to the session engine and carries its
// outcomes back out. It holds no pairing rule of its own.
package runtime

import (
	"chat-pair/contract"
	"chat-pair/domain"
	"chat-pair/domain/event"
	"chat-pair/errors"
	"chat-pair/observability"
	"chat-pair/pairing"
	"chat-pair/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var (
	_ contract.IOrchestrator  = (*Orchestrator)(nil)
	_ contract.CommandHandler = (*Orchestrator)(nil)
)

type Orchestrator struct {
	mu              sync.Mutex
	log             *slog.Logger
	shards          []chan domain.Command
	events          chan event.DomainEvent
	sinks           []contract.EventSink
	supervisor      *workers.Supervisor
	engine          *pairing.Engine
	relay           *pairing.Relay
	stats           *pairing.Stats
	transport       contract.Transport
	monitoring      *observability.MonitoringManager
	sinkTimeout     time.Duration
	deliveryTimeout time.Duration
	reportInterval  time.Duration
	capacityWarn    int
	running         atomic.Bool
	cancel          context.CancelFunc
	done            chan struct{}
}

type Config struct {
	NumberOfWorkers int
	BufferSize      int
	SinkTimeout     time.Duration
	DeliveryTimeout time.Duration
	ReportInterval  time.Duration
	// CapacityWarnPercent is the queue fill ratio logged as a warning, 0 disables the check.
	CapacityWarnPercent int
}

func NewOrchestrator(log *slog.Logger, supervisor *workers.Supervisor, core *pairing.Core,
	transport contract.Transport, monitoring *observability.MonitoringManager, cfg Config) *Orchestrator {
	numWorkers := max(cfg.NumberOfWorkers, 1)
	shards := make([]chan domain.Command, numWorkers)
	for i := range shards {
		shards[i] = make(chan domain.Command, cfg.BufferSize)
	}
	return &Orchestrator{
		log:             log,
		shards:          shards,
		events:          make(chan event.DomainEvent, cfg.BufferSize),
		supervisor:      supervisor,
		engine:          pairing.NewEngine(core, log),
		relay:           pairing.NewRelay(core, transport, log),
		stats:           pairing.NewStats(core),
		transport:       transport,
		monitoring:      monitoring,
		sinkTimeout:     cfg.SinkTimeout,
		deliveryTimeout: cfg.DeliveryTimeout,
		reportInterval:  cfg.ReportInterval,
		capacityWarn:    cfg.CapacityWarnPercent,
	}
}

// Add registers sinks for lifecycle events. Must be called before Start.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sinks = append(o.sinks, sinks...)
}

// Stats exposes the read-only statistics view.
func (o *Orchestrator) Stats() *pairing.Stats {
	return o.stats
}

// Dispatch queues cmd on the shard of its sender without blocking.
func (o *Orchestrator) Dispatch(cmd domain.Command) error {
	if !o.running.Load() {
		return errors.ErrOrchestratorStopped
	}
	if cmd.ReceivedAt.IsZero() {
		cmd.ReceivedAt = time.Now()
	}
	select {
	case o.shardOf(cmd.Sender) <- cmd:
		return nil
	default:
		o.log.Warn("Command channel full, dropping command",
			"sender", cmd.Sender, "command", cmd.Kind)
		return errors.ErrCommandQueueFull
	}
}

func (o *Orchestrator) shardOf(h domain.UserHandle) chan domain.Command {
	return o.shards[uint64(h)%uint64(len(o.shards))]
}

// Handle runs one command through the engine, then delivers the resulting
// notices and publishes its events.
func (o *Orchestrator) Handle(ctx context.Context, cmd domain.Command) {
	out := o.Route(ctx, cmd)
	if !out.OK() {
		o.log.Debug("Command rejected",
			"sender", cmd.Sender, "command", cmd.Kind, "reason", out.Reason)
	}
	o.deliver(ctx, out.Deliveries)
	o.publish(out.Events)
}

// Route maps a command on the engine operation serving it.
func (o *Orchestrator) Route(ctx context.Context, cmd domain.Command) pairing.Outcome {
	switch cmd.Kind {
	case domain.CommandStartSearch:
		return o.engine.StartSearch(cmd.Sender)
	case domain.CommandEndChat:
		return o.engine.EndChat(cmd.Sender)
	case domain.CommandNextPartner:
		return o.engine.NextPartner(cmd.Sender)
	case domain.CommandStatsQuery:
		return o.stats.Report(cmd.Sender)
	case domain.CommandForwardPayload:
		// A partner that stops reading must not hold the shard.
		sendCtx, cancel := context.WithTimeout(ctx, o.deliveryTimeout)
		defer cancel()
		return o.relay.Relay(sendCtx, cmd.Sender, cmd.Payload)
	case domain.CommandReset:
		return o.engine.Reset(cmd.Sender)
	case domain.CommandHelp:
		return o.engine.Help(cmd.Sender)
	case domain.CommandStatus:
		return o.engine.Status(cmd.Sender)
	default:
		o.log.Warn("Unknown command", "sender", cmd.Sender, "command", cmd.Kind)
		return pairing.Outcome{
			Reason:     domain.ReasonUnknownCommand,
			Deliveries: []domain.Delivery{domain.NoticeTo(cmd.Sender, domain.NewNotice(domain.NoticeHelp))},
		}
	}
}

// deliver sends notices once the engine lock is released.
// A failed notice is logged, it never changes a session.
func (o *Orchestrator) deliver(ctx context.Context, deliveries []domain.Delivery) {
	for _, d := range deliveries {
		sendCtx, cancel := context.WithTimeout(ctx, o.deliveryTimeout)
		if err := o.transport.Send(sendCtx, d.To, d.Payload); err != nil {
			o.log.Warn("Failed to deliver notice", "to", d.To, "kind", d.Payload.Kind(), "error", err)
		}
		cancel()
	}
}

func (o *Orchestrator) publish(events []event.DomainEvent) {
	for _, evt := range events {
		select {
		case o.events <- evt:
		default:
			o.log.Warn("Event channel full, dropping event", "event", evt.Name(), "handle", evt.Handle())
		}
	}
}

func (o *Orchestrator) namedChannels() []workers.NamedChannel {
	channels := make([]workers.NamedChannel, 0, len(o.shards)+1)
	for i, shard := range o.shards {
		channels = append(channels, workers.NamedChannel{Name: fmt.Sprintf("commands-%d", i), Channel: shard})
	}
	return append(channels, workers.NamedChannel{Name: "events", Channel: o.events})
}

// Start registers every worker to the supervisor and runs it in the background.
func (o *Orchestrator) Start(ctx context.Context) error {
	if o.running.Load() {
		return fmt.Errorf("orchestrator already started")
	}

	o.mu.Lock()
	for i, shard := range o.shards {
		o.supervisor.Add(workers.NewCommandWorker(i, shard, o, o.log))
	}
	o.supervisor.Add(workers.NewEventFanout(o.log, o.events, o.sinkTimeout, o.sinks...))
	if o.reportInterval > 0 {
		o.supervisor.Add(workers.NewReporterWorker(o.log, o.stats.Snapshot, o.monitoring, o.reportInterval))
	}
	if o.reportInterval > 0 && o.capacityWarn > 0 {
		o.supervisor.Add(workers.NewChannelCapacityWorker(o.log, o.namedChannels(), o.capacityWarn, o.reportInterval))
	}
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.done = make(chan struct{})
	done := o.done
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers", "shards", len(o.shards))
	o.running.Store(true)
	go func() {
		defer close(done)
		o.supervisor.Run(runCtx)
	}()
	return nil
}

// Stop cancels the supervised workers and waits for them to return.
// Commands still queued are dropped.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.running.Store(false)
	o.supervisor.Stop()

	o.mu.Lock()
	cancel, done := o.cancel, o.done
	o.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	o.log.Debug("Orchestrator stopped")
}
