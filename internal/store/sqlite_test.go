package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HollaG/letsmeetup-bot/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "meetup.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleMeetup(title string, createdAt time.Time) *domain.Meetup {
	creator := domain.Respondent{ID: 42, Type: "telegram", Username: "carol", FirstName: "Carol"}
	return &domain.Meetup{
		Creator:   creator,
		Title:     title,
		IsFullDay: false,
		Dates:     []string{"2024-01-05"},
		SelectionMap: map[string][]domain.Respondent{
			"540::2024-01-05": {creator},
		},
		Users: []domain.MeetupUser{
			{User: creator, Comment: "can shift earlier", Selected: []string{"540::2024-01-05"}},
		},
		Options:   domain.Options{NotificationThreshold: 3, NotifyOnEveryResponse: true},
		CreatedAt: createdAt,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	m := sampleMeetup("Lunch", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	id, err := repo.PutMeetup(ctx, m)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.GetMeetup(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Lunch", got.Title)
	require.Equal(t, int64(42), got.Creator.ID)
	require.Equal(t, m.SelectionMap, got.SelectionMap)
	require.Equal(t, m.Users, got.Users)
	require.Equal(t, m.CreatedAt, got.CreatedAt)
	require.True(t, got.Options.NotifyOnEveryResponse)
}

func TestGetMeetupNotFound(t *testing.T) {
	repo := openTestRepo(t)
	_, err := repo.GetMeetup(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListByCreatorNewestFirst(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	_, err := repo.PutMeetup(ctx, sampleMeetup("older", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	_, err = repo.PutMeetup(ctx, sampleMeetup("newer", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	list, err := repo.ListByCreator(ctx, 42)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "newer", list[0].Title)
	require.Equal(t, "older", list[1].Title)
}

func TestFlagsAndMessageRefs(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	id, err := repo.PutMeetup(ctx, sampleMeetup("Lunch", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, repo.SetEnded(ctx, id, true))
	require.NoError(t, repo.SetNotified(ctx, id, true))
	require.NoError(t, repo.AddMessageRef(ctx, id, domain.MessageRef{ChatID: 7, MessageID: 100}))
	require.NoError(t, repo.AddMessageRef(ctx, id, domain.MessageRef{InlineMessageID: "inline-1"}))
	require.NoError(t, repo.SetCreatorMessage(ctx, id, 100))

	got, err := repo.GetMeetup(ctx, id)
	require.NoError(t, err)
	require.True(t, got.IsEnded)
	require.True(t, got.Notified)
	require.Equal(t, 100, got.CreatorMessageID)
	require.Equal(t, []domain.MessageRef{
		{ChatID: 7, MessageID: 100},
		{InlineMessageID: "inline-1"},
	}, got.Messages)

	require.ErrorIs(t, repo.SetEnded(ctx, "missing", true), ErrNotFound)
}

func TestFeedPublishesWrites(t *testing.T) {
	repo := openTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := repo.Subscribe(ctx)

	m := sampleMeetup("Lunch", time.Now().UTC())
	id, err := repo.PutMeetup(ctx, m)
	require.NoError(t, err)

	ev := <-events
	require.Equal(t, domain.ChangeAdded, ev.Kind)
	require.Equal(t, id, ev.Meetup.ID)

	stored, err := repo.GetMeetup(ctx, id)
	require.NoError(t, err)
	stored.Users = append(stored.Users, domain.MeetupUser{
		User:     domain.Respondent{ID: 43, Type: "telegram", Username: "dave", FirstName: "Dave"},
		Selected: []string{"570::2024-01-05"},
	})
	_, err = repo.PutMeetup(ctx, stored)
	require.NoError(t, err)

	ev = <-events
	require.Equal(t, domain.ChangeModified, ev.Kind)
	require.Len(t, ev.Meetup.Users, 2)
}

func TestPurgeOlderThan(t *testing.T) {
	repo := openTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	oldID, err := repo.PutMeetup(ctx, sampleMeetup("stale", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	freshID, err := repo.PutMeetup(ctx, sampleMeetup("fresh", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	events := repo.Subscribe(ctx)

	n, err := repo.PurgeOlderThan(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = repo.GetMeetup(ctx, oldID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetMeetup(ctx, freshID)
	require.NoError(t, err)

	ev := <-events
	require.Equal(t, domain.ChangeRemoved, ev.Kind)
	require.Equal(t, oldID, ev.Meetup.ID)
}
