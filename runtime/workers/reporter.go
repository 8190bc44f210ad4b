package workers

import (
	"chat-pair/contract"
	"chat-pair/domain"
	"chat-pair/observability"
	"context"
	"log/slog"
	"time"
)

var _ contract.Worker = (*ReporterWorker)(nil)

type StatsProvider func() domain.Stats

// ReporterWorker logs the pairing statistics and process usage periodically.
type ReporterWorker struct {
	log        *slog.Logger
	stats      StatsProvider
	monitoring *observability.MonitoringManager
	interval   time.Duration
}

func NewReporterWorker(log *slog.Logger, stats StatsProvider,
	monitoring *observability.MonitoringManager, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, stats: stats, monitoring: monitoring, interval: interval}
}

// Run starts the reporting loop until context cancellation.
func (w *ReporterWorker) Run(ctx context.Context) error {
	startTime := time.Now()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.report(startTime)
			return nil
		case <-ticker.C:
			w.report(startTime)
		}
	}
}

func (w *ReporterWorker) report(startTime time.Time) {
	stats := w.stats()
	attrs := []any{
		"uptime", time.Since(startTime).Round(time.Second).String(),
		"users", stats.TotalTrackedUsers,
		"chatting", stats.ChattingCount,
		"searching", stats.SearchingCount,
		"pairings", stats.TotalPairingsFormed,
	}
	if w.monitoring != nil {
		proc, err := w.monitoring.Sample()
		if err != nil {
			w.log.Warn("Failed to collect process stats", "error", err)
		} else {
			attrs = append(attrs,
				"rss_mb", proc.RSSBytes/1024/1024,
				"cpu", proc.CPUPercent,
				"goroutines", proc.Goroutines)
		}
	}
	w.log.Info("Pairing stats", attrs...)
}
