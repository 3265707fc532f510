// Package botapi sends operator notices through the Telegram Bot API.
package botapi

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/config"
	"github.com/samber/oops"
)

// Notifier posts plain text messages into the configured review chat
type Notifier struct {
	bot    *bot.Bot
	chatID any
}

// New creates a notifier for the review chat. The bot is not contacted until
// the first message is sent.
func New(cfg *config.Config, opts ...bot.Option) (*Notifier, error) {
	opts = append([]bot.Option{bot.WithSkipGetMe()}, opts...)

	b, err := bot.New(cfg.ReviewBotToken, opts...)
	if err != nil {
		return nil, oops.With("context", "failed to create review bot").Wrap(err)
	}

	return &Notifier{
		bot:    b,
		chatID: ParseChatID(cfg.ReviewChatID),
	}, nil
}

// Notify sends text to the review chat
func (n *Notifier) Notify(ctx context.Context, text string) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		return oops.With("chat_id", n.chatID, "context", "failed to send review notice").Wrap(err)
	}
	return nil
}

// ParseChatID returns numeric chat IDs as int64 and usernames as "@name"
func ParseChatID(raw string) any {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id
	}
	if raw != "" && !strings.HasPrefix(raw, "@") {
		return "@" + raw
	}
	return raw
}
