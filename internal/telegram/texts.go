package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/HollaG/letsmeetup-bot/internal/domain"
)

// UI texts in English
const (
	startText    = "Hello! Click the button below to create a new meetup"
	indicateText = "Please click the button below to indicate your availability."
	deletedText  = "Your meetup has been deleted!"
)

// createKeyboard opens the meetup creation page.
func createKeyboard(baseURL string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Create a meetup", baseURL+"create"),
		),
	)
}

// indicateKeyboard opens a specific meetup's availability page.
func indicateKeyboard(baseURL, meetupID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Indicate availability",
				fmt.Sprintf("%smeetup/%s", baseURL, meetupID)),
		),
	)
}

// creatorKeyboard is attached to the creator's pinned info message:
// share, indicate, edit and end.
func creatorKeyboard(baseURL string, m *domain.Meetup) tgbotapi.InlineKeyboardMarkup {
	if m.IsEnded {
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("View meetup details",
					fmt.Sprintf("%smeetup/%s", baseURL, m.ID)),
			),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonSwitch("Share meetup", m.Title),
			tgbotapi.NewInlineKeyboardButtonURL("Indicate availability",
				fmt.Sprintf("%smeetup/%s/", baseURL, m.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Edit meetup",
				fmt.Sprintf("%smeetup/%s/edit/", baseURL, m.ID)),
			tgbotapi.NewInlineKeyboardButtonData("End meetup", endPrefix+m.ID),
		),
	)
}

// sharedKeyboard is attached to summaries shared into other chats.
func sharedKeyboard(botUsername, baseURL string, m *domain.Meetup) tgbotapi.InlineKeyboardMarkup {
	if m.IsEnded {
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("View meetup details",
					fmt.Sprintf("%smeetup/%s/", baseURL, m.ID)),
			),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Indicate your availability",
				fmt.Sprintf("https://t.me/%s?start=%s%s", botUsername, indicatePrefix, m.ID)),
		),
	)
}
