package store

import (
	"context"
	"sync"

	"github.com/HollaG/letsmeetup-bot/internal/domain"
)

// feedBuffer is the per-subscriber channel depth. A subscriber that
// falls further behind than this loses events rather than blocking
// writers.
const feedBuffer = 128

// Feed fans meetup change events out to subscribers. It stands in for
// the document-change subscription of a hosted datastore: the repo
// publishes after each successful write, and per-meetup delivery order
// matches write order.
type Feed struct {
	mu   sync.Mutex
	subs map[int]chan domain.Event
	next int
}

// NewFeed creates an empty Feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan domain.Event)}
}

// Subscribe registers a new subscriber. The returned channel is closed
// when ctx is done.
func (f *Feed) Subscribe(ctx context.Context) <-chan domain.Event {
	ch := make(chan domain.Event, feedBuffer)

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Publish delivers an event to every subscriber. Slow subscribers with
// a full buffer are skipped; a full meetup record arrives with the
// next event, so a dropped event costs at most one summary refresh.
func (f *Feed) Publish(ev domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
