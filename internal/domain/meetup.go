package domain

import "time"

// Change kinds emitted by the store feed, mirroring document-level
// change events.
const (
	ChangeAdded    = "added"
	ChangeModified = "modified"
	ChangeRemoved  = "removed"
)

// Respondent identifies a person who registered availability.
// Type is "telegram" for users coming through the bot and "guest"
// for people who filled the web form without a Telegram account.
type Respondent struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// MeetupUser is one respondent's full submission: the slots they
// picked plus an optional free-text comment.
type MeetupUser struct {
	User     Respondent `json:"user"`
	Comment  string     `json:"comments"`
	Selected []string   `json:"selected"`
}

// Options holds per-meetup limits and notification settings.
// A limit <= 0 means unlimited.
type Options struct {
	LimitNumberRespondents  int  `json:"limit_number_respondents"`
	LimitPerSlot            int  `json:"limit_per_slot"`
	LimitSlotsPerRespondent int  `json:"limit_slots_per_respondent"`
	NotificationThreshold   int  `json:"notification_threshold"`
	NotifyOnEveryResponse   bool `json:"notify_on_every_response"`
}

// MessageRef points at a chat message (or inline message) that shows
// this meetup's summary and must be edited on every change.
type MessageRef struct {
	ChatID          int64  `json:"chat_id,omitempty"`
	MessageID       int    `json:"message_id,omitempty"`
	InlineMessageID string `json:"inline_message_id,omitempty"`
}

// Meetup is the full meetup document as stored and broadcast by the
// change feed. SelectionMap is keyed by slot key (see slotkey.go):
// "minute::yyyy-MM-dd" for part-day meetups, bare "yyyy-MM-dd" for
// full-day ones. Respondent order inside each slot is selection order.
type Meetup struct {
	ID          string     `json:"id"`
	Creator     Respondent `json:"creator"`
	Title       string     `json:"title"`
	Description string     `json:"description"`

	IsFullDay bool     `json:"is_full_day"`
	Dates     []string `json:"dates"`
	Timeslots []string `json:"timeslots"`

	SelectionMap map[string][]Respondent `json:"selection_map"`
	Users        []MeetupUser            `json:"users"`
	CannotMakeIt []Respondent            `json:"cannot_make_it"`

	Options Options `json:"options"`

	CreatedAt time.Time `json:"date_created"`
	IsEnded   bool      `json:"is_ended"`
	Notified  bool      `json:"notified"`

	Messages         []MessageRef `json:"messages"`
	CreatorMessageID int          `json:"creator_message_id"`
}

// Event is one change-feed entry: a change kind plus the full meetup
// record at the time of the change.
type Event struct {
	Kind   string
	Meetup *Meetup
}

// Respondents returns the overall respondent list in submission order.
func (m *Meetup) Respondents() []Respondent {
	res := make([]Respondent, 0, len(m.Users))
	for _, u := range m.Users {
		res = append(res, u.User)
	}
	return res
}

// SelectionsByUser returns respondent id -> selected slot keys for
// every current respondent. The slices alias the meetup's own data and
// must be copied before mutation.
func (m *Meetup) SelectionsByUser() map[int64][]string {
	res := make(map[int64][]string, len(m.Users))
	for _, u := range m.Users {
		res[u.User.ID] = u.Selected
	}
	return res
}
