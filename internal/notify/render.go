package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/HollaG/letsmeetup-bot/internal/domain"
)

// RenderChanges builds the creator-facing change notification for a
// diff. Respondents appear in the meetup's submission order; withdrawn
// respondents are listed last. Returns "" for an empty diff.
func RenderChanges(m *domain.Meetup, d Diff) string {
	if d.Empty() {
		return ""
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔔 Changes to <b><u>%s</u></b>:\n\n", html.EscapeString(m.Title)))

	for _, u := range m.Users {
		changes, ok := d.Changes[u.User.ID]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("<b>%s</b>\n", html.EscapeString(u.User.FirstName)))
		if len(changes.Added) > 0 {
			b.WriteString("➕ " + formatKeys(changes.Added, m.IsFullDay) + "\n")
		}
		if len(changes.Removed) > 0 {
			b.WriteString("➖ " + formatKeys(changes.Removed, m.IsFullDay) + "\n")
		}
		b.WriteString("\n")
	}

	for _, user := range d.Withdrawn {
		b.WriteString(fmt.Sprintf("🚫 <b>%s</b> withdrew their availability\n", html.EscapeString(user.FirstName)))
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderThreshold builds the one-time notification sent when a meetup
// reaches its configured response threshold.
func RenderThreshold(m *domain.Meetup, baseURL string) string {
	return fmt.Sprintf("❗️ Your meetup <b><u><a href='%smeetup/%s'>%s</a></u></b> has reached %d responses!",
		baseURL, m.ID, html.EscapeString(m.Title), m.Options.NotificationThreshold)
}

// formatKeys renders a sorted slot-key list for a notification line.
// Part-day keys are compressed into contiguous ranges first; full-day
// meetups report the raw date list.
func formatKeys(keys []string, fullDay bool) string {
	if fullDay {
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, domain.FormatDateShort(k))
		}
		return strings.Join(parts, ", ")
	}

	ranges := CompressRanges(keys)
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		parts = append(parts, domain.FormatSlotRange(r.Start, r.End))
	}
	return strings.Join(parts, ", ")
}
