package store

import (
	"context"
	"time"

	"github.com/HollaG/letsmeetup-bot/internal/domain"
)

// Repo defines storage operations for meetups and their tracked
// messages. Every successful write is also published on the change
// feed (see Feed) so the notification engine sees it.
type Repo interface {
	// PutMeetup inserts or replaces a meetup. An empty id gets a fresh
	// one assigned; the stored id is returned either way.
	PutMeetup(ctx context.Context, m *domain.Meetup) (string, error)
	GetMeetup(ctx context.Context, id string) (*domain.Meetup, error)
	// ListByCreator returns the creator's meetups, newest first.
	ListByCreator(ctx context.Context, creatorID int64) ([]domain.Meetup, error)
	SetEnded(ctx context.Context, id string, ended bool) error
	SetNotified(ctx context.Context, id string, notified bool) error
	// AddMessageRef registers a chat or inline message that shows this
	// meetup and must be edited on future changes.
	AddMessageRef(ctx context.Context, id string, ref domain.MessageRef) error
	SetCreatorMessage(ctx context.Context, id string, messageID int) error
	DeleteMeetup(ctx context.Context, id string) error
	// PurgeOlderThan deletes meetups created before cutoff and returns
	// how many were removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	// Subscribe returns a channel of change events. The channel closes
	// when ctx is done.
	Subscribe(ctx context.Context) <-chan domain.Event
	Close() error
}
