package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ProcessStats is the resource usage of the running process.
type ProcessStats struct {
	RSSBytes   uint64
	CPUPercent float64
	Goroutines int
	NumGC      uint32
}

// MonitoringManager samples process metrics for the periodic reporter.
type MonitoringManager struct {
	log     *slog.Logger
	mu      sync.RWMutex
	proc    *process.Process
	latest  ProcessStats
	sampled time.Time
}

func NewMonitoringManager(log *slog.Logger) (*MonitoringManager, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &MonitoringManager{log: log, proc: p}, nil
}

// Sample refreshes the latest process statistics.
func (mm *MonitoringManager) Sample() (ProcessStats, error) {
	memInfo, err := mm.proc.MemoryInfo()
	if err != nil {
		return ProcessStats{}, err
	}
	cpu, err := mm.proc.CPUPercent()
	if err != nil {
		return ProcessStats{}, err
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := ProcessStats{
		RSSBytes:   memInfo.RSS,
		CPUPercent: cpu,
		Goroutines: runtime.NumGoroutine(),
		NumGC:      mem.NumGC,
	}

	mm.mu.Lock()
	mm.latest, mm.sampled = stats, time.Now()
	mm.mu.Unlock()
	return stats, nil
}

func (mm *MonitoringManager) GetLatest() (ProcessStats, time.Time) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latest, mm.sampled
}
