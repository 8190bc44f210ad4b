// Package domain contains core concepts of the pairing system.
// This file defines user handles, session states and session records.
// No runtime, network, or UI logic should be added here.
package domain

import "strconv"

// UserHandle is the opaque identifier supplied by the transport.
// It is never generated internally.
type UserHandle int64

func (h UserHandle) String() string {
	return strconv.FormatInt(int64(h), 10)
}

type SessionState int

const (
	Idle SessionState = iota
	Searching
	Chatting
)

func (s SessionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Chatting:
		return "chatting"
	default:
		return "unknown"
	}
}

// Session is the mutable per-handle record.
// Partner is set if and only if State is Chatting.
type Session struct {
	State   SessionState
	Partner *UserHandle
}

// PartnerOf returns the partner handle when the session is in a chat.
func (s Session) PartnerOf() (UserHandle, bool) {
	if s.State != Chatting || s.Partner == nil {
		return 0, false
	}
	return *s.Partner, true
}
