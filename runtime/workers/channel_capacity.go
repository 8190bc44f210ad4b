package workers

import (
	"chat-pair/contract"
	"context"
	"log/slog"
	"reflect"
	"time"
)

var _ contract.Worker = (*ChannelCapacityWorker)(nil)

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelCapacityWorker periodically samples the length of the internal queues
// and warns once one of them fills past warnPercent of its capacity.
// Reading len and cap of a channel does not block its users.
type ChannelCapacityWorker struct {
	log         *slog.Logger
	channels    []NamedChannel
	warnPercent int
	interval    time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel,
	warnPercent int, interval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:         log,
		channels:    channels,
		warnPercent: warnPercent,
		interval:    interval,
	}
}

func (w ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check samples every channel once and returns the names of the saturated ones.
func (w ChannelCapacityWorker) Check() []string {
	var saturated []string
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		capacity, length := v.Cap(), v.Len()
		if capacity == 0 {
			continue
		}
		if length*100 >= capacity*w.warnPercent {
			saturated = append(saturated, nc.Name)
			w.log.Warn("Channel close to saturation",
				"channel", nc.Name, "length", length, "capacity", capacity)
			continue
		}
		w.log.Debug("Channel capacity", "channel", nc.Name, "length", length, "capacity", capacity)
	}
	return saturated
}
