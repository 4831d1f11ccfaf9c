package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotSeparator joins the minute-of-day and date parts of a slot key.
// It is reserved: date strings never contain it.
const SlotSeparator = "::"

// DateLayout is the calendar-date format used inside slot keys.
const DateLayout = "2006-01-02"

const (
	// MinutesPerSlot is the granularity of availability selection.
	MinutesPerSlot = 30
	// MinutesPerDay is the number of minutes in one calendar day.
	MinutesPerDay = 24 * 60
)

// EncodeSlot builds a slot key from a minute-of-day and a date string.
// EncodeSlot(570, "2024-01-05") == "570::2024-01-05".
func EncodeSlot(minute int, date string) string {
	return fmt.Sprintf("%d%s%s", minute, SlotSeparator, date)
}

// DecodeSlot splits a slot key into its minute-of-day and date parts.
// A key without the separator (or with a non-numeric minute part) is
// the full-day convention: the whole string is the date and the minute
// is 0. DecodeSlot never fails.
func DecodeSlot(key string) (minute int, date string) {
	before, after, found := strings.Cut(key, SlotSeparator)
	if !found {
		return 0, key
	}
	minute, err := strconv.Atoi(before)
	if err != nil {
		return 0, key
	}
	return minute, after
}

// SlotDate returns only the date part of a slot key.
func SlotDate(key string) string {
	_, date := DecodeSlot(key)
	return date
}

// SlotMinute returns only the minute-of-day part of a slot key.
func SlotMinute(key string) int {
	minute, _ := DecodeSlot(key)
	return minute
}

// AddHalfHour returns the slot key 30 minutes later on the same date.
// There is no cross-midnight carry: the result saturates at the last
// representable minute of the day (1439), so range ends render as
// 11:59 pm instead of rolling into the next date.
func AddHalfHour(key string) string {
	minute, date := DecodeSlot(key)
	next := minute + MinutesPerSlot
	if next >= MinutesPerDay {
		next = MinutesPerDay - 1
	}
	return EncodeSlot(next, date)
}

// FormatTimeAMPM renders a minute-of-day as "h:mm am/pm".
func FormatTimeAMPM(minute int) string {
	hours := minute / 60
	mins := minute % 60
	ampm := "am"
	if hours >= 12 {
		ampm = "pm"
	}
	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, mins, ampm)
}

// ParseDate parses a slot-key date string.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// FormatDateLong renders a slot-key date as e.g. "Friday, 5 January 2024".
// Unparseable dates are returned as-is rather than failing the render.
func FormatDateLong(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Monday, 2 January 2006")
}

// FormatDateShort renders a slot-key date as e.g. "05 Jan 2024".
func FormatDateShort(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("02 Jan 2006")
}

// FormatSlotRange renders a [start, end) pair of slot keys for change
// notifications: part-day ranges become "05 Jan 2024 9:00 am - 11:00 am",
// full-day keys just the short date.
func FormatSlotRange(startKey, endKey string) string {
	startMin, date := DecodeSlot(startKey)
	if !strings.Contains(startKey, SlotSeparator) {
		return FormatDateShort(date)
	}
	endMin, _ := DecodeSlot(endKey)
	return fmt.Sprintf("%s %s - %s", FormatDateShort(date), FormatTimeAMPM(startMin), FormatTimeAMPM(endMin))
}
