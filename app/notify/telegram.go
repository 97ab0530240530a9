package notify

import (
	"context"
	"fmt"
	"net/http"

	tele "gopkg.in/telebot.v4"
)

// maxTelegramRunes is the Telegram message length limit.
const maxTelegramRunes = 4096

type TelegramOptions struct {
	Token  string
	ChatID int64
	// APIURL overrides the Bot API endpoint, mostly for tests.
	APIURL     string
	HTTPClient *http.Client
}

// Telegram sends notifications to a single chat through the Bot API.
type Telegram struct {
	bot  *tele.Bot
	chat tele.ChatID
}

func NewTelegram(opts TelegramOptions) (*Telegram, error) {
	settings := tele.Settings{
		Token:   opts.Token,
		Offline: true,
		Client:  opts.HTTPClient,
	}
	if opts.APIURL != "" {
		settings.URL = opts.APIURL
	}

	bot, err := tele.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Telegram{bot: bot, chat: tele.ChatID(opts.ChatID)}, nil
}

func (t *Telegram) Name() string {
	return "telegram"
}

func (t *Telegram) Deliver(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := t.bot.Send(t.chat, truncateRunes(message, maxTelegramRunes), &tele.SendOptions{
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
