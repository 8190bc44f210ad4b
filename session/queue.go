package session

import (
	"chat-pair/domain"
	"slices"

	"github.com/samber/lo"
)

// Queue is the FIFO of searching users. A handle is present at most once.
type Queue struct {
	items   []domain.UserHandle
	members map[domain.UserHandle]struct{}
}

func NewQueue() *Queue {
	return &Queue{members: make(map[domain.UserHandle]struct{})}
}

// Enqueue appends h to the tail. It is a no-op when h is already queued.
func (q *Queue) Enqueue(h domain.UserHandle) bool {
	if q.Contains(h) {
		return false
	}
	q.items = append(q.items, h)
	q.members[h] = struct{}{}
	return true
}

// DequeueNext pops the longest waiting handle.
func (q *Queue) DequeueNext() (domain.UserHandle, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	head := q.items[0]
	q.items = q.items[1:]
	delete(q.members, head)
	return head, true
}

// Remove drops h wherever it is positioned.
func (q *Queue) Remove(h domain.UserHandle) bool {
	if !q.Contains(h) {
		return false
	}
	q.items = lo.Without(q.items, h)
	delete(q.members, h)
	return true
}

func (q *Queue) Contains(h domain.UserHandle) bool {
	_, ok := q.members[h]
	return ok
}

func (q *Queue) Len() int {
	return len(q.items)
}

// Snapshot returns the queue from head to tail.
func (q *Queue) Snapshot() []domain.UserHandle {
	return slices.Clone(q.items)
}
