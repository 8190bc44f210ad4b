package workers

import (
	"bytes"
	"chat-pair/domain"
	"chat-pair/observability"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReporterWorker_LogsStats(t *testing.T) {
	req := require.New(t)
	out := &syncBuffer{}
	log := slog.New(slog.NewTextHandler(out, nil))
	monitoring, err := observability.NewMonitoringManager(log)
	req.NoError(err)

	stats := func() domain.Stats {
		return domain.Stats{TotalTrackedUsers: 3, ChattingCount: 2, SearchingCount: 1, TotalPairingsFormed: 7}
	}
	worker := NewReporterWorker(log, stats, monitoring, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req.NoError(worker.Run(ctx))

	logged := out.String()
	req.Contains(logged, "Pairing stats")
	req.Contains(logged, "pairings=7")
	req.Contains(logged, "searching=1")
	req.Contains(logged, "rss_mb=")
}
