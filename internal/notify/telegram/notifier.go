package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"moltbot/internal/core/domain"
	"moltbot/internal/core/ports"
)

// maxMessageLen stays under Telegram's 4096 hard limit, leaving room
// for the part prefix.
const maxMessageLen = 4000

// Notifier delivers cycle reports to a fixed Telegram chat. Delivery is
// one-way; failures are wrapped as *domain.NotificationError and the
// caller decides how loudly to ignore them.
type Notifier struct {
	Bot    *tgbotapi.BotAPI
	ChatID int64
}

func NewNotifier(token, chatIDStr string) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat id: %v", err)
	}

	return &Notifier{Bot: bot, ChatID: chatID}, nil
}

// Ensure Notifier implements the Notifier port
var _ ports.Notifier = (*Notifier)(nil)

// Send implements ports.Notifier. Long reports are split into
// "[Part i/n]" chunks with a short pause between sends so Telegram does
// not throttle the burst.
func (n *Notifier) Send(ctx context.Context, text string) error {
	parts := SplitMessage(text, maxMessageLen)

	for i, part := range parts {
		if len(parts) > 1 {
			part = fmt.Sprintf("[Part %d/%d]\n\n%s", i+1, len(parts), part)
		}
		msg := tgbotapi.NewMessage(n.ChatID, part)
		if _, err := n.Bot.Send(msg); err != nil {
			return &domain.NotificationError{Err: fmt.Errorf("part %d/%d: %w", i+1, len(parts), err)}
		}
		if i < len(parts)-1 {
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return &domain.NotificationError{Err: ctx.Err()}
			}
		}
	}
	return nil
}

// SplitMessage chops text into chunks of at most max runes.
func SplitMessage(text string, max int) []string {
	runes := []rune(text)
	if len(runes) <= max {
		return []string{text}
	}

	var parts []string
	for start := 0; start < len(runes); start += max {
		end := start + max
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
