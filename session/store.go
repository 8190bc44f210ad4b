// Package session holds the authoritative session records and the search queue.
// Neither type synchronizes itself: callers serialize every read-then-write
// sequence that spans both of them.
package session

import (
	"chat-pair/domain"

	"github.com/samber/lo"
)

// Store maps a user handle to its session.
// A handle without a record is Idle. Records are reset to Idle rather than
// deleted so that Len approximates the number of users seen.
type Store struct {
	sessions map[domain.UserHandle]*domain.Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[domain.UserHandle]*domain.Session)}
}

func (s *Store) State(h domain.UserHandle) domain.SessionState {
	if sess, ok := s.sessions[h]; ok {
		return sess.State
	}
	return domain.Idle
}

// SetState moves h to Idle or Searching and drops any partner pointer.
// Chatting is only reachable through SetPartnership.
func (s *Store) SetState(h domain.UserHandle, state domain.SessionState) {
	if state == domain.Chatting {
		return
	}
	sess := s.record(h)
	sess.State = state
	sess.Partner = nil
}

func (s *Store) Partner(h domain.UserHandle) (domain.UserHandle, bool) {
	sess, ok := s.sessions[h]
	if !ok {
		return 0, false
	}
	return sess.PartnerOf()
}

// SetPartnership puts a and b in a chat with each other.
func (s *Store) SetPartnership(a, b domain.UserHandle) {
	first, second := s.record(a), s.record(b)
	first.State, first.Partner = domain.Chatting, lo.ToPtr(b)
	second.State, second.Partner = domain.Chatting, lo.ToPtr(a)
}

// ClearPartnership reverts a to Idle. The partner is reverted too, and
// returned, only when its pointer leads back to a.
func (s *Store) ClearPartnership(a domain.UserHandle) (domain.UserHandle, bool) {
	sess, ok := s.sessions[a]
	if !ok {
		return 0, false
	}
	partner, hasPartner := sess.PartnerOf()
	sess.State, sess.Partner = domain.Idle, nil
	if !hasPartner {
		return 0, false
	}
	if back, ok := s.Partner(partner); ok && back == a {
		s.SetState(partner, domain.Idle)
	}
	return partner, true
}

// Session returns a copy of the record of h.
func (s *Store) Session(h domain.UserHandle) (domain.Session, bool) {
	sess, ok := s.sessions[h]
	if !ok {
		return domain.Session{State: domain.Idle}, false
	}
	return *sess, true
}

// Len is the number of handles that ever had a record.
func (s *Store) Len() int {
	return len(s.sessions)
}

func (s *Store) Count(state domain.SessionState) int {
	return lo.CountBy(lo.Values(s.sessions), func(sess *domain.Session) bool {
		return sess.State == state
	})
}

// Handles returns every tracked handle, in no particular order.
func (s *Store) Handles() []domain.UserHandle {
	return lo.Keys(s.sessions)
}

func (s *Store) record(h domain.UserHandle) *domain.Session {
	sess, ok := s.sessions[h]
	if !ok {
		sess = &domain.Session{State: domain.Idle}
		s.sessions[h] = sess
	}
	return sess
}
