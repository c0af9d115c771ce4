package registry

import (
	"sync"

	"sheet-alert-bot/internal/ticker"
)

// Registry is the in-memory store of standing alerts, keyed by chat ID.
// Alerts do not survive a restart. Every access is serialized by one
// mutex; callers must never hold it across network calls, so all
// methods return copies.
type Registry struct {
	mu     sync.Mutex
	alerts map[int64][]ticker.Alert
}

func New() *Registry {
	return &Registry{alerts: make(map[int64][]ticker.Alert)}
}

// Add appends an alert to the chat's list. Duplicates are allowed and
// fire independently.
func (r *Registry) Add(chatID int64, a ticker.Alert) {
	a.Symbol = ticker.Normalize(a.Symbol)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[chatID] = append(r.alerts[chatID], a)
}

// List returns a copy of the chat's alerts in insertion order.
func (r *Registry) List(chatID int64) []ticker.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ticker.Alert, len(r.alerts[chatID]))
	copy(out, r.alerts[chatID])
	return out
}

// Remove deletes every alert matching (symbol, target within epsilon)
// and returns how many were removed. Removing a missing alert is a no-op.
func (r *Registry) Remove(chatID int64, a ticker.Alert) int {
	a.Symbol = ticker.Normalize(a.Symbol)

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.alerts[chatID][:0]
	removed := 0
	for _, existing := range r.alerts[chatID] {
		if existing.Equal(a) {
			removed++
			continue
		}
		kept = append(kept, existing)
	}

	if len(kept) == 0 {
		delete(r.alerts, chatID)
	} else {
		r.alerts[chatID] = kept
	}
	return removed
}

// PopIfTriggered removes exactly one matching alert and reports whether
// it was still present. The reconciliation loop calls this after a
// delivered notification so a concurrent manual removal (or a duplicate
// pass) can never fire the same alert twice.
func (r *Registry) PopIfTriggered(chatID int64, a ticker.Alert) bool {
	a.Symbol = ticker.Normalize(a.Symbol)

	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.alerts[chatID]
	for i, existing := range list {
		if existing.Equal(a) {
			list = append(list[:i], list[i+1:]...)
			if len(list) == 0 {
				delete(r.alerts, chatID)
			} else {
				r.alerts[chatID] = list
			}
			return true
		}
	}
	return false
}

// Chats returns the chat IDs that currently have standing alerts.
func (r *Registry) Chats() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int64, 0, len(r.alerts))
	for chatID := range r.alerts {
		out = append(out, chatID)
	}
	return out
}

// Len returns the total number of standing alerts across all chats.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, list := range r.alerts {
		n += len(list)
	}
	return n
}
