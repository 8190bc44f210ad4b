package pairing

import "chat-pair/domain"

// Stats is a read-only view over the core.
type Stats struct {
	core *Core
}

func NewStats(core *Core) *Stats {
	return &Stats{core: core}
}

func (s *Stats) Snapshot() domain.Stats {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()
	return domain.Stats{
		TotalTrackedUsers:   s.core.store.Len(),
		ChattingCount:       s.core.store.Count(domain.Chatting),
		SearchingCount:      s.core.queue.Len(),
		TotalPairingsFormed: s.core.pairings,
	}
}

// Report answers a stats query from h.
func (s *Stats) Report(h domain.UserHandle) Outcome {
	snapshot := s.Snapshot()
	var out Outcome
	out.notify(h, domain.Notice{Key: domain.NoticeStats, Stats: &snapshot})
	return out
}
