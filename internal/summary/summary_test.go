package summary

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HollaG/letsmeetup-bot/internal/domain"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{0, "|□□□□□□□□□□| 0%"},
		{30, "|■■■□□□□□□□| 30%"},
		{33, "|■■■□□□□□□□| 33%"},
		{67, "|■■■■■■□□□□| 67%"},
		{100, "|■■■■■■■■■■| 100%"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ProgressBar(tt.percent))
	}
}

func TestPercentRounding(t *testing.T) {
	require.Equal(t, 33, percentOf(1, 3))
	require.Equal(t, 67, percentOf(2, 3))
	require.Equal(t, 50, percentOf(1, 2))
	// 0/0 is defined as 0%, never a division error.
	require.Equal(t, 0, percentOf(0, 0))
}

func fullDayMeetup() *domain.Meetup {
	a := domain.Respondent{ID: 1, Type: "telegram", Username: "alice", FirstName: "Alice"}
	b := domain.Respondent{ID: 2, Type: "telegram", Username: "bob", FirstName: "Bob"}
	return &domain.Meetup{
		ID:        "m1",
		Creator:   a,
		Title:     "Lunch",
		IsFullDay: true,
		Dates:     []string{"2024-01-01", "2024-01-02"},
		SelectionMap: map[string][]domain.Respondent{
			"2024-01-02": {a, b},
			"2024-01-01": {a},
		},
		Users: []domain.MeetupUser{
			{User: a, Selected: []string{"2024-01-01", "2024-01-02"}},
			{User: b, Selected: []string{"2024-01-02"}},
		},
		CreatedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestDaysFullDay(t *testing.T) {
	days := Days(fullDayMeetup())

	require.Len(t, days, 2)
	require.Equal(t, "2024-01-01", days[0].Date)
	require.Equal(t, "2024-01-02", days[1].Date)

	require.Len(t, days[0].Lines[0].Respondents, 1)
	require.Equal(t, 50, days[0].Lines[0].Percent)
	require.Len(t, days[1].Lines[0].Respondents, 2)
	require.Equal(t, 100, days[1].Lines[0].Percent)
}

func TestDaysPartDayMergesRuns(t *testing.T) {
	a := domain.Respondent{ID: 1, Type: "telegram", Username: "alice", FirstName: "Alice"}
	b := domain.Respondent{ID: 2, Type: "telegram", Username: "bob", FirstName: "Bob"}
	m := &domain.Meetup{
		ID:    "m2",
		Title: "Dinner",
		SelectionMap: map[string][]domain.Respondent{
			domain.EncodeSlot(540, "2024-01-05"): {a, b},
			domain.EncodeSlot(570, "2024-01-05"): {a, b},
			domain.EncodeSlot(600, "2024-01-05"): {a, b},
			domain.EncodeSlot(630, "2024-01-05"): {a},
		},
		Users: []domain.MeetupUser{
			{User: a}, {User: b},
		},
	}

	days := Days(m)
	require.Len(t, days, 1)
	require.Len(t, days[0].Lines, 2)

	// 9:00-10:30 with both, then 10:30-11:00 with just Alice.
	require.Equal(t, 540, days[0].Lines[0].StartMinute)
	require.Equal(t, 630, days[0].Lines[0].EndMinute)
	require.Equal(t, 100, days[0].Lines[0].Percent)

	require.Equal(t, 630, days[0].Lines[1].StartMinute)
	require.Equal(t, 660, days[0].Lines[1].EndMinute)
	require.Equal(t, 50, days[0].Lines[1].Percent)
}

func TestDaysPartDayNumericMinuteOrder(t *testing.T) {
	a := domain.Respondent{ID: 1, Type: "telegram"}
	b := domain.Respondent{ID: 2, Type: "telegram"}
	// "1020" sorts before "990" as a string; numerically it must come after.
	m := &domain.Meetup{
		SelectionMap: map[string][]domain.Respondent{
			domain.EncodeSlot(1020, "2024-01-05"): {a},
			domain.EncodeSlot(990, "2024-01-05"):  {b},
		},
		Users: []domain.MeetupUser{{User: a}, {User: b}},
	}

	days := Days(m)
	require.Len(t, days[0].Lines, 2)
	require.Equal(t, 990, days[0].Lines[0].StartMinute)
	require.Equal(t, 1020, days[0].Lines[1].StartMinute)
}

func TestDaysPartDayLastSlotOfDaySaturates(t *testing.T) {
	a := domain.Respondent{ID: 1, Type: "telegram"}
	m := &domain.Meetup{
		SelectionMap: map[string][]domain.Respondent{
			domain.EncodeSlot(1410, "2024-01-05"): {a},
		},
		Users: []domain.MeetupUser{{User: a}},
	}

	days := Days(m)
	// 23:30 + one slot would be 24:00; the display end clamps to 23:59.
	require.Equal(t, 1439, days[0].Lines[0].EndMinute)
}

func TestRenderFullDayScenario(t *testing.T) {
	r := &Renderer{BotUsername: "letsmeetup_bot", BaseURL: "https://example.com/"}
	msg := r.Render(fullDayMeetup(), false)

	require.Contains(t, msg, "<b><u>Lunch</u></b>")
	require.Contains(t, msg, "Responded: 2")
	require.Contains(t, msg, "Monday, 1 January 2024")
	require.Contains(t, msg, "Tuesday, 2 January 2024")
	require.Contains(t, msg, "|■■■■■□□□□□| 50%")
	require.Contains(t, msg, "|■■■■■■■■■■| 100%")
	// Dates render in ascending order.
	require.Less(t, strings.Index(msg, "1 January"), strings.Index(msg, "2 January"))
	// Respondents keep their selection order.
	require.Less(t, strings.Index(msg, "Alice"), strings.Index(msg, "Bob"))
}

func TestRenderEscapesUserText(t *testing.T) {
	m := fullDayMeetup()
	m.Title = "<script>alert(1)</script>"
	r := &Renderer{BotUsername: "letsmeetup_bot", BaseURL: "https://example.com/"}
	msg := r.Render(m, false)

	require.NotContains(t, msg, "<script>")
	require.Contains(t, msg, "&lt;script&gt;")
}

func TestRenderAdminFooter(t *testing.T) {
	r := &Renderer{BotUsername: "letsmeetup_bot", BaseURL: "https://example.com/"}
	m := fullDayMeetup()

	admin := r.Render(m, true)
	require.Contains(t, admin, "sharable link")
	require.Contains(t, admin, "Created on 01 Jan 2024")

	shared := r.Render(m, false)
	require.NotContains(t, shared, "sharable link")
	require.NotContains(t, shared, "Created on")
}

func TestRenderTruncationFallback(t *testing.T) {
	m := fullDayMeetup()
	r := &Renderer{BotUsername: "letsmeetup_bot", BaseURL: "https://example.com/", MaxLength: 400}
	msg := r.Render(m, false)

	require.Contains(t, msg, "<b><u>Lunch</u></b>")
	require.Contains(t, msg, "Please view the meetup details")
	require.Contains(t, msg, "View this meetup in your browser")
	// The day-by-day body is dropped entirely.
	require.NotContains(t, msg, "January 2024")
}

func TestRenderEndedBanner(t *testing.T) {
	m := fullDayMeetup()
	m.IsEnded = true
	r := &Renderer{BotUsername: "letsmeetup_bot", BaseURL: "https://example.com/"}
	require.Contains(t, r.Render(m, false), "This meetup has ended")
}
