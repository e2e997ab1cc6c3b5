package services

import (
	"fmt"
	"log"

	"backend_customerpro/config"
	"backend_customerpro/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NotificationService pushes short admin notifications to a Telegram chat.
// Without a configured bot token the service stays disabled and every call is
// a silent no-op, notifications must never block or fail a request.
type NotificationService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotificationService creates the service; a missing token disables it.
func NewNotificationService(cfg *config.Config) *NotificationService {
	ns := &NotificationService{chatID: cfg.Telegram.ChatID}
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == 0 {
		return ns
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Printf("[NOTIFY] Telegram disabled: %v", err)
		return ns
	}
	bot.Debug = false
	ns.bot = bot
	log.Printf("[NOTIFY] Telegram bot authorized: %s", bot.Self.UserName)
	return ns
}

// Enabled reports whether notifications actually go anywhere.
func (ns *NotificationService) Enabled() bool {
	return ns.bot != nil
}

// NotifyUserCreated announces a new account.
func (ns *NotificationService) NotifyUserCreated(user *models.User) {
	ns.send(fmt.Sprintf("Neuer Benutzer angelegt: %s (%s)", user.Username, user.Role))
}

// NotifyTourCompleted announces a tour archival.
func (ns *NotificationService) NotifyTourCompleted(tour *models.Tour, by string) {
	ns.send(fmt.Sprintf("Tour abgeschlossen: %q von %s", tour.Title, by))
}

func (ns *NotificationService) send(text string) {
	if ns.bot == nil {
		return
	}
	// Fire and forget, a Telegram outage must not slow down the API.
	go func() {
		if _, err := ns.bot.Send(tgbotapi.NewMessage(ns.chatID, text)); err != nil {
			log.Printf("[NOTIFY] Telegram send failed: %v", err)
		}
	}()
}
