// Package notify posts registration activity to the organizers' Telegram
// chat. Delivery is best effort: failures are logged and never surfaced to
// the participant's request.
package notify

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/technohack/backend/internal/models"
	"gopkg.in/telebot.v4"
)

type Telegram struct {
	bot  telebot.API
	chat *telebot.Chat
}

func NewTelegram(bot telebot.API, chatID int64) *Telegram {
	return &Telegram{
		bot:  bot,
		chat: &telebot.Chat{ID: chatID},
	}
}

func (t *Telegram) RegistrationCreated(user *models.User, event *models.Event, reg *models.Registration) {
	text := fmt.Sprintf(
		"New registration: %s <%s> for %s (₹%d due)",
		user.FullName(),
		user.Email,
		event.Title,
		reg.AmountDue,
	)
	if reg.TeamName != "" {
		text += fmt.Sprintf(", team %q", reg.TeamName)
	}

	if _, err := t.bot.Send(t.chat, text); err != nil {
		logrus.Warnf("failed to send registration notification: %v", err)
	}
}

func (t *Telegram) PaymentUpdated(reg *models.Registration) {
	text := fmt.Sprintf(
		"Payment update: registration %s is now %s (paid ₹%d of ₹%d)",
		reg.ID,
		reg.PaymentStatus,
		reg.AmountPaid,
		reg.AmountDue,
	)

	if _, err := t.bot.Send(t.chat, text); err != nil {
		logrus.Warnf("failed to send payment notification: %v", err)
	}
}

// Noop is used when no Telegram token is configured.
type Noop struct{}

func (Noop) RegistrationCreated(*models.User, *models.Event, *models.Registration) {}

func (Noop) PaymentUpdated(*models.Registration) {}
