package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/HollaG/letsmeetup-bot/internal/domain"
)

// ErrNotFound is returned when a meetup id does not exist.
var ErrNotFound = errors.New("meetup not found")

// SQLiteRepo implements Repo using an embedded SQLite database. The
// meetup document is stored as JSON alongside the scalar columns used
// for lookups; tracked messages live in their own table.
type SQLiteRepo struct {
	db   *sql.DB
	feed *Feed
}

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db, feed: NewFeed()}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// Subscribe returns the change feed.
func (r *SQLiteRepo) Subscribe(ctx context.Context) <-chan domain.Event {
	return r.feed.Subscribe(ctx)
}

// PutMeetup inserts or replaces a meetup and publishes an added or
// modified event accordingly.
func (r *SQLiteRepo) PutMeetup(ctx context.Context, m *domain.Meetup) (string, error) {
	if m == nil {
		return "", errors.New("nil meetup")
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM meetups WHERE id = ?)`, m.ID).Scan(&exists)
	if err != nil {
		return "", err
	}

	doc, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode meetup %s: %w", m.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO meetups (id, creator_id, title, created_at, is_ended, notified, doc)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			creator_id = excluded.creator_id,
			title      = excluded.title,
			is_ended   = excluded.is_ended,
			notified   = excluded.notified,
			doc        = excluded.doc`,
		m.ID, m.Creator.ID, m.Title, m.CreatedAt.UTC().Unix(),
		boolToInt(m.IsEnded), boolToInt(m.Notified), string(doc),
	)
	if err != nil {
		return "", err
	}

	kind := domain.ChangeAdded
	if exists {
		kind = domain.ChangeModified
	}
	r.publish(ctx, kind, m.ID)
	return m.ID, nil
}

// GetMeetup returns a meetup by id or ErrNotFound.
func (r *SQLiteRepo) GetMeetup(ctx context.Context, id string) (*domain.Meetup, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT doc, created_at, is_ended, notified
		FROM meetups
		WHERE id = ?`, id)

	var (
		doc         string
		createdAt   int64
		endedInt    int
		notifiedInt int
	)
	if err := row.Scan(&doc, &createdAt, &endedInt, &notifiedInt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	m := &domain.Meetup{}
	if err := json.Unmarshal([]byte(doc), m); err != nil {
		return nil, fmt.Errorf("decode meetup %s: %w", id, err)
	}
	// Flag columns win over whatever the document carried.
	m.ID = id
	m.CreatedAt = time.Unix(createdAt, 0).UTC()
	m.IsEnded = endedInt != 0
	m.Notified = notifiedInt != 0

	refs, err := r.messageRefs(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Messages = refs
	return m, nil
}

// ListByCreator returns a creator's meetups ordered by creation time
// descending, for inline-query search.
func (r *SQLiteRepo) ListByCreator(ctx context.Context, creatorID int64) ([]domain.Meetup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id
		FROM meetups
		WHERE creator_id = ?
		ORDER BY created_at DESC`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	res := make([]domain.Meetup, 0, len(ids))
	for _, id := range ids {
		m, err := r.GetMeetup(ctx, id)
		if err != nil {
			return nil, err
		}
		res = append(res, *m)
	}
	return res, nil
}

// SetEnded flips the ended flag and publishes the change.
func (r *SQLiteRepo) SetEnded(ctx context.Context, id string, ended bool) error {
	if err := r.setFlag(ctx, id, "is_ended", ended); err != nil {
		return err
	}
	r.publish(ctx, domain.ChangeModified, id)
	return nil
}

// SetNotified records that the threshold notification was sent. The
// change is deliberately not published: it is the engine's own
// write-back and resurfacing it would only produce an empty diff.
func (r *SQLiteRepo) SetNotified(ctx context.Context, id string, notified bool) error {
	return r.setFlag(ctx, id, "notified", notified)
}

func (r *SQLiteRepo) setFlag(ctx context.Context, id, column string, v bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE meetups SET `+column+` = ? WHERE id = ?`, boolToInt(v), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMessageRef registers a message that shows this meetup's summary.
// No event is published: the new message already holds the current
// summary text.
func (r *SQLiteRepo) AddMessageRef(ctx context.Context, id string, ref domain.MessageRef) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (meetup_id, chat_id, message_id, inline_message_id)
		VALUES (?, ?, ?, ?)`,
		id, ref.ChatID, ref.MessageID, ref.InlineMessageID)
	return err
}

// SetCreatorMessage records the creator's pinned info message id.
func (r *SQLiteRepo) SetCreatorMessage(ctx context.Context, id string, messageID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE meetups
		 SET doc = json_set(doc, '$.creator_message_id', ?)
		 WHERE id = ?`, messageID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMeetup removes a meetup and publishes a removed event carrying
// its final state.
func (r *SQLiteRepo) DeleteMeetup(ctx context.Context, id string) error {
	m, err := r.GetMeetup(ctx, id)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM meetups WHERE id = ?`, id); err != nil {
		return err
	}
	r.feed.Publish(domain.Event{Kind: domain.ChangeRemoved, Meetup: m})
	return nil
}

// PurgeOlderThan deletes meetups created before cutoff, publishing a
// removed event for each.
func (r *SQLiteRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM meetups WHERE created_at < ?`, cutoff.UTC().Unix())
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := r.DeleteMeetup(ctx, id); err != nil {
			return 0, fmt.Errorf("purge %s: %w", id, err)
		}
	}
	return len(ids), nil
}

// messageRefs loads the tracked messages of a meetup in insertion order.
func (r *SQLiteRepo) messageRefs(ctx context.Context, id string) ([]domain.MessageRef, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT chat_id, message_id, inline_message_id
		FROM messages
		WHERE meetup_id = ?
		ORDER BY rowid`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []domain.MessageRef
	for rows.Next() {
		var ref domain.MessageRef
		if err := rows.Scan(&ref.ChatID, &ref.MessageID, &ref.InlineMessageID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// publish re-reads the meetup and emits a feed event with its current
// state, so subscribers always see a full record.
func (r *SQLiteRepo) publish(ctx context.Context, kind, id string) {
	m, err := r.GetMeetup(ctx, id)
	if err != nil {
		return
	}
	r.feed.Publish(domain.Event{Kind: kind, Meetup: m})
}

// boolToInt converts a boolean to 1/0 for SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
