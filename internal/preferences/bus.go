package preferences

import (
	"sync"

	"aifinverse-backend/internal/types"

	log "github.com/sirupsen/logrus"
)

// Bus fans typed change events out to subscribers. It replaces the synthetic
// whole-store "storage changed" signal with events that say which account and
// which field moved, so consumers reload only what they need.
type Bus struct {
	mu   sync.RWMutex
	subs []chan types.Change
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a buffered listener channel. Subscribers are never
// unregistered; they live as long as the process.
func (b *Bus) Subscribe() <-chan types.Change {
	ch := make(chan types.Change, 16)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers an event to every subscriber. A subscriber with a full
// buffer is skipped; delivery carries no ordering guarantee between writers.
func (b *Bus) Publish(c types.Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- c:
		default:
			log.Debugf("dropping change event for slow subscriber: %s/%s", c.Email, c.Field)
		}
	}
}
