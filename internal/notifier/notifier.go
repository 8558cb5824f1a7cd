// Package notifier pushes a short Telegram message when a detection run
// produced changes. Send failures are logged and swallowed; notification
// is best-effort and never fails a run.
package notifier

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bajij/competitive-scrape/internal/models"
	"gopkg.in/telebot.v4"
)

// Notifier contains the send-only bot API instance and the target chat.
type Notifier struct {
	bot    *telebot.Bot
	log    *slog.Logger
	chatID int64
}

// New creates a send-only Notifier. No poller is attached; the bot never
// consumes updates.
func New(log *slog.Logger, token string, chatID int64) (*Notifier, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", bot.Me.Username)

	return &Notifier{bot: bot, log: log, chatID: chatID}, nil
}

// NotifyChanges sends one message describing the changes detected on a
// page during a single run.
func (n *Notifier) NotifyChanges(page models.Page, changes []*models.Change) {
	if len(changes) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Changes detected on %s\n", page.URL)
	for _, change := range changes {
		fmt.Fprintf(&b, "- [%s] %s\n", change.Kind, change.Summary)
	}

	if _, err := n.bot.Send(telebot.ChatID(n.chatID), b.String()); err != nil {
		n.log.Error("Failed to send change notification", "page_id", page.ID, "error", err)
	}
}
