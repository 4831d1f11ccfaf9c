package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/HollaG/letsmeetup-bot/internal/domain"
)

// Dispatcher is the engine's message-delivery port. The Telegram layer
// implements it; tests use fakes.
type Dispatcher interface {
	// MeetupAdded announces a brand-new meetup to its creator.
	MeetupAdded(ctx context.Context, m *domain.Meetup) error
	// MeetupUpdated refreshes every tracked summary message.
	MeetupUpdated(ctx context.Context, m *domain.Meetup) error
	// MeetupRemoved marks tracked messages as deleted.
	MeetupRemoved(ctx context.Context, m *domain.Meetup) error
	// NotifyCreator sends a standalone message to the meetup creator.
	NotifyCreator(ctx context.Context, m *domain.Meetup, text string) error
}

// Flags persists meetup-level notification state.
type Flags interface {
	SetNotified(ctx context.Context, meetupID string, notified bool) error
}

// Engine processes change-feed events: it refreshes summaries, diffs
// the meetup against its snapshot, and notifies the creator. Events
// for the same meetup are serialized; different meetups may be
// processed concurrently.
type Engine struct {
	cache      Cache
	dispatcher Dispatcher
	flags      Flags
	log        *zap.Logger
	baseURL    string

	locks *xsync.Map[string, *sync.Mutex]
}

// NewEngine creates an Engine. baseURL feeds the links inside
// threshold notifications.
func NewEngine(cache Cache, dispatcher Dispatcher, flags Flags, baseURL string, log *zap.Logger) *Engine {
	return &Engine{
		cache:      cache,
		dispatcher: dispatcher,
		flags:      flags,
		log:        log,
		baseURL:    baseURL,
		locks:      xsync.NewMap[string, *sync.Mutex](),
	}
}

// HandleEvent processes one change-feed event to completion. The
// snapshot read-modify-write is serialized per meetup id: overlapping
// events for the same meetup cannot interleave their diff and commit.
func (e *Engine) HandleEvent(ctx context.Context, ev domain.Event) error {
	m := ev.Meetup
	mu, _ := e.locks.LoadOrStore(m.ID, &sync.Mutex{})
	mu.Lock()
	defer mu.Unlock()

	switch ev.Kind {
	case domain.ChangeAdded:
		return e.handleAdded(ctx, m)
	case domain.ChangeModified:
		return e.handleModified(ctx, m)
	case domain.ChangeRemoved:
		return e.handleRemoved(ctx, m)
	default:
		return fmt.Errorf("unknown change kind %q", ev.Kind)
	}
}

func (e *Engine) handleAdded(ctx context.Context, m *domain.Meetup) error {
	if err := e.dispatcher.MeetupAdded(ctx, m); err != nil {
		return fmt.Errorf("announce meetup %s: %w", m.ID, err)
	}
	e.cache.Set(m.ID, SnapshotOf(m))
	return nil
}

func (e *Engine) handleModified(ctx context.Context, m *domain.Meetup) error {
	// Summary edits come first and are best-effort: a failed edit on
	// one chat must not block the creator notification.
	if err := e.dispatcher.MeetupUpdated(ctx, m); err != nil {
		e.log.Warn("summary update failed", zap.String("meetup", m.ID), zap.Error(err))
	}

	if err := e.maybeNotifyThreshold(ctx, m); err != nil {
		return err
	}

	prev, ok := e.cache.Get(m.ID)
	if !ok {
		// First sighting since startup: capture the baseline silently.
		// Notifying here would replay every change made while the
		// process was down.
		e.cache.Set(m.ID, SnapshotOf(m))
		return nil
	}

	d := Compare(prev, m)
	if d.Empty() {
		// No-op diffs (including our own write-backs resurfacing
		// through the feed) must not notify and need no new snapshot.
		return nil
	}

	if m.Options.NotifyOnEveryResponse {
		text := RenderChanges(m, d)
		if err := e.dispatcher.NotifyCreator(ctx, m, text); err != nil {
			// Snapshot deliberately not committed: a retried event will
			// re-diff against the last state the creator actually saw.
			return fmt.Errorf("notify creator of %s: %w", m.ID, err)
		}
	}

	e.cache.Set(m.ID, SnapshotOf(m))
	return nil
}

func (e *Engine) handleRemoved(ctx context.Context, m *domain.Meetup) error {
	defer e.cache.Evict(m.ID)
	if err := e.dispatcher.MeetupRemoved(ctx, m); err != nil {
		return fmt.Errorf("mark meetup %s removed: %w", m.ID, err)
	}
	return nil
}

// maybeNotifyThreshold sends the one-time threshold notification when
// the respondent count first reaches the configured threshold.
func (e *Engine) maybeNotifyThreshold(ctx context.Context, m *domain.Meetup) error {
	threshold := m.Options.NotificationThreshold
	if m.Notified || threshold <= 0 || len(m.Users) < threshold {
		return nil
	}
	if err := e.dispatcher.NotifyCreator(ctx, m, RenderThreshold(m, e.baseURL)); err != nil {
		return fmt.Errorf("threshold notify for %s: %w", m.ID, err)
	}
	if err := e.flags.SetNotified(ctx, m.ID, true); err != nil {
		return fmt.Errorf("mark %s notified: %w", m.ID, err)
	}
	m.Notified = true
	return nil
}
