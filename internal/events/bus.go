package events

import (
	"sync"
)

// Event types pushed to clients over the SSE stream.
const (
	TypeConnectionUpdated = "connection.updated"
	TypeMessageNew        = "message.new"
	TypeUnreadCount       = "unread.count"
	TypeReportUpdated     = "report.updated"
)

// Event is one realtime notification addressed to a single user.
type Event struct {
	Type    string      `json:"type"`
	UserID  uint        `json:"-"`
	Payload interface{} `json:"payload,omitempty"`
}

const subscriberBuffer = 16

// Bus fans events out to per-user subscribers. Slow subscribers drop events
// rather than block publishers; clients reconcile via re-fetch, so a dropped
// invalidation costs latency, not correctness.
type Bus struct {
	mu   sync.RWMutex
	subs map[uint]map[chan Event]struct{}
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[uint]map[chan Event]struct{}),
	}
}

// Subscribe registers a listener for one user's events. The returned cancel
// func must be called on disconnect.
func (b *Bus) Subscribe(userID uint) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan Event]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[userID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(b.subs, userID)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every local subscriber of its user.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[ev.UserID] {
		select {
		case ch <- ev:
		default:
			// subscriber is behind; drop
		}
	}
}

// ActiveUsers lists users with at least one live subscription, used by the
// unread reconciler to bound its work.
func (b *Bus) ActiveUsers() []uint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	users := make([]uint, 0, len(b.subs))
	for id := range b.subs {
		users = append(users, id)
	}
	return users
}
