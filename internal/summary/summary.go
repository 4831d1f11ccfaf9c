package summary

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"

	"github.com/HollaG/letsmeetup-bot/internal/domain"
)

const (
	maxTitleLen       = 256
	maxDescriptionLen = 1024
	maxCommentLen     = 512

	// DefaultMaxLength is the rendered-summary budget. Anything longer
	// falls back to header + footer only; Telegram rejects messages
	// past ~4096 chars and the markup needs headroom.
	DefaultMaxLength = 3000
)

// Line is one availability line of the digest: a merged slot range (or
// a whole date in full-day mode) with the respondents free during it.
type Line struct {
	Date        string
	StartMinute int
	EndMinute   int // display end, exclusive; equals StartMinute in full-day mode
	Respondents []domain.Respondent
	Percent     int
}

// Day groups the digest lines of a single date.
type Day struct {
	Date  string
	Lines []Line
}

// Days computes the structured availability digest: dates ascending,
// and within each date the merged ranges in ascending start time. This
// is the data behind Render, exposed for callers that want structure
// rather than text.
func Days(m *domain.Meetup) []Day {
	total := len(m.Users)
	if m.IsFullDay {
		return fullDays(m, total)
	}
	return partDays(m, total)
}

func fullDays(m *domain.Meetup, total int) []Day {
	dates := make([]string, 0, len(m.SelectionMap))
	for date := range m.SelectionMap {
		dates = append(dates, date)
	}
	// yyyy-MM-dd sorts chronologically as plain strings.
	sort.Strings(dates)

	days := make([]Day, 0, len(dates))
	for _, date := range dates {
		people := m.SelectionMap[date]
		days = append(days, Day{
			Date: date,
			Lines: []Line{{
				Date:        date,
				Respondents: people,
				Percent:     percentOf(len(people), total),
			}},
		})
	}
	return days
}

func partDays(m *domain.Meetup, total int) []Day {
	// Group the selection keys by date first.
	byDate := make(map[string][]int)
	for key := range m.SelectionMap {
		minute, date := domain.DecodeSlot(key)
		byDate[date] = append(byDate[date], minute)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	days := make([]Day, 0, len(dates))
	for _, date := range dates {
		// Minutes must be ordered numerically: as strings, "1000"
		// sorts before "999".
		minutes := byDate[date]
		sort.Ints(minutes)

		day := Day{Date: date}
		for _, minute := range minutes {
			key := domain.EncodeSlot(minute, date)
			if SameAsPrevious(key, m.SelectionMap) {
				continue
			}
			run := RunLength(key, m.SelectionMap)
			end := minute + (run+1)*domain.MinutesPerSlot
			if end >= domain.MinutesPerDay {
				end = domain.MinutesPerDay - 1
			}
			people := m.SelectionMap[key]
			day.Lines = append(day.Lines, Line{
				Date:        date,
				StartMinute: minute,
				EndMinute:   end,
				Respondents: people,
				Percent:     percentOf(len(people), total),
			})
		}
		days = append(days, day)
	}
	return days
}

// percentOf rounds n/total to a whole percentage, defining 0/0 as 0.
func percentOf(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

// Renderer builds the summary message text for a meetup. BotUsername
// and BaseURL feed the deep links in the footer.
type Renderer struct {
	BotUsername string
	BaseURL     string
	MaxLength   int // 0 means DefaultMaxLength
}

// Render produces the meetup digest with Telegram HTML markup. admin
// selects the creator-facing variant, which additionally shows the
// notification threshold, the sharable link and the created-by line.
// When the full text exceeds the length budget, the day-by-day body is
// dropped and a pointer to the web view is rendered instead.
func (r *Renderer) Render(m *domain.Meetup, admin bool) string {
	var b strings.Builder

	if m.IsEnded {
		b.WriteString("<b><u>❗️ This meetup has ended ❗️</u></b>\n\n")
	}
	b.WriteString(fmt.Sprintf("<b><u>%s</u></b>\n", escapeClip(m.Title, maxTitleLen)))
	if desc := escapeClip(m.Description, maxDescriptionLen); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	total := len(m.Users)
	if m.Options.LimitNumberRespondents > 0 {
		b.WriteString(fmt.Sprintf("👥 <b>Responded: %d / %d</b>\n\n", total, m.Options.LimitNumberRespondents))
	} else {
		b.WriteString(fmt.Sprintf("👥 <b>Responded: %d</b>\n\n", total))
	}

	if m.Options.LimitPerSlot > 0 || (admin && m.Options.NotificationThreshold > 0) {
		b.WriteString("<b>⚙️ Advanced settings</b>\n")
		if m.Options.LimitPerSlot > 0 {
			b.WriteString(fmt.Sprintf("Max. # of respondents / slot: %d\n", m.Options.LimitPerSlot))
		}
		if admin && m.Options.NotificationThreshold > 0 {
			b.WriteString(fmt.Sprintf("Notification threshold: %d\n", m.Options.NotificationThreshold))
		}
		b.WriteString("\n")
	}

	header := b.String()

	for _, day := range Days(m) {
		if m.IsFullDay {
			b.WriteString(fmt.Sprintf("<b>%s</b>\n", domain.FormatDateLong(day.Date)))
		} else {
			b.WriteString(fmt.Sprintf("<b><u>%s</u></b>\n", domain.FormatDateLong(day.Date)))
		}
		for _, line := range day.Lines {
			if !m.IsFullDay {
				b.WriteString(fmt.Sprintf("<b>%s - %s</b>\n",
					domain.FormatTimeAMPM(line.StartMinute), domain.FormatTimeAMPM(line.EndMinute)))
			}
			b.WriteString(ProgressBar(line.Percent))
			b.WriteString("\n")
			for i, person := range line.Respondents {
				b.WriteString(fmt.Sprintf("%d. %s\n", i+1, respondentLink(person)))
			}
			b.WriteString("\n")
		}
	}

	withComments := make([]domain.MeetupUser, 0)
	for _, u := range m.Users {
		if strings.TrimSpace(u.Comment) != "" {
			withComments = append(withComments, u)
		}
	}
	if len(withComments) > 0 {
		b.WriteString(fmt.Sprintf("<b><u>Comments (%d)</u></b>\n", len(withComments)))
		for _, u := range withComments {
			b.WriteString(fmt.Sprintf("<a href=\"t.me/%s\"><b>%s</b></a>\n%s\n\n",
				u.User.Username, html.EscapeString(u.User.FirstName), escapeClip(u.Comment, maxCommentLen)))
		}
	}

	footer := r.footer(m, admin)
	b.WriteString(footer)

	msg := b.String()
	maxLen := r.MaxLength
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	if len([]rune(msg)) > maxLen {
		return header + "❗️ Please view the meetup details by clicking the button below.\n\n" + footer
	}
	return msg
}

func (r *Renderer) footer(m *domain.Meetup, admin bool) string {
	var b strings.Builder
	if admin {
		b.WriteString(fmt.Sprintf(
			"<i>🔗 For a sharable link, copy <a href='https://t.me/%s/meetup?startapp=indicate__%s'>this link</a></i>\n\n",
			r.BotUsername, m.ID))
	}
	b.WriteString(fmt.Sprintf("<i><a href='%smeetup/%s'>🌐 View this meetup in your browser</a></i>\n\n", r.BaseURL, m.ID))
	b.WriteString(fmt.Sprintf("<i><a href='t.me/%s?start=indicate__%s'>ℹ️ Click here if the Indicate button does not work.</a></i>\n\n",
		r.BotUsername, m.ID))
	if admin {
		b.WriteString(fmt.Sprintf("Created on %s by <a href='t.me/%s'>%s</a>\n",
			m.CreatedAt.Format("02 Jan 2006 3:04 pm"),
			m.Creator.Username, html.EscapeString(m.Creator.FirstName)))
	}
	return b.String()
}

// respondentLink renders a respondent's name, linked to their Telegram
// profile when they came through the bot.
func respondentLink(r domain.Respondent) string {
	name := html.EscapeString(r.FirstName)
	if r.Type == "telegram" {
		return fmt.Sprintf("<a href=\"t.me/%s\">%s</a>", r.Username, name)
	}
	return name
}

// escapeClip strips HTML and caps the text at limit runes.
func escapeClip(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return html.EscapeString(string(runes))
}
