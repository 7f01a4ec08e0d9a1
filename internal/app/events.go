package service

import (
	"sync"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
)

// feed is the append-only notification log. Notifications are part of
// the observable contract: exactly one per successful operation.
type feed struct {
	mu      sync.RWMutex
	entries []model.Notification
}

func newFeed() *feed {
	return &feed{}
}

func (f *feed) append(n model.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, n)
}

// page applies the uniform pagination contract to the feed.
func (f *feed) page(offset, limit int) ([]model.Notification, int) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	total := len(f.entries)
	if offset < 0 || limit < 0 || offset >= total {
		return []model.Notification{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]model.Notification, end-offset)
	copy(out, f.entries[offset:end])
	return out, total
}
