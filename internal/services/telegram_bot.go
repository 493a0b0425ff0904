package services

import (
	"context"
	"html"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskflow/internal/models"
	"taskflow/internal/repositories"
)

// Notifier delivers a short message to a user. Delivery failures never fail
// the operation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, userID, text string) error
}

type TelegramService struct {
	api   *tgbotapi.BotAPI
	users repositories.UserRepository
}

func NewTelegramService(api *tgbotapi.BotAPI, users repositories.UserRepository) *TelegramService {
	return &TelegramService{api: api, users: users}
}

func (t *TelegramService) Notify(ctx context.Context, userID, text string) error {
	if t == nil || t.api == nil {
		return nil
	}
	u, err := t.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.TelegramChatID == 0 {
		log.Printf("[tg][skip] user=%s has no chat", userID)
		return nil
	}

	msg := tgbotapi.NewMessage(u.TelegramChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		return err
	}
	log.Printf("[tg][send] user=%s chatID=%d", userID, u.TelegramChatID)
	return nil
}

func formatTask(prefix string, t *models.Task) string {
	return prefix + "\n" +
		"• <b>" + html.EscapeString(t.Title) + "</b>\n" +
		"• Status: <code>" + string(t.Status) + "</code>\n" +
		"• Link: " + html.EscapeString(t.Link)
}
