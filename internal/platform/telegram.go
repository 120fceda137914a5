package platform

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/hainm/keobot/internal/bot"
)

// Telegram delivers group-chat commands via long polling.
type Telegram struct {
	api     *tgbotapi.BotAPI
	handler *bot.Handler
	prefix  string
	log     zerolog.Logger
}

func NewTelegram(token, prefix string, handler *bot.Handler, logger zerolog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Telegram{api: api, handler: handler, prefix: prefix, log: logger}, nil
}

func (t *Telegram) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.api.GetUpdatesChan(u)

	go func() {
		for update := range updates {
			t.handleUpdate(update)
		}
	}()

	t.log.Info().Str("bot", t.api.Self.UserName).Msg("telegram adapter running")
	return nil
}

func (t *Telegram) Stop() error {
	t.api.StopReceivingUpdates()
	return nil
}

func (t *Telegram) handleUpdate(update tgbotapi.Update) {
	m := update.Message
	if m == nil || m.From == nil || m.From.IsBot {
		return
	}
	// Direct messages are out of scope.
	if !m.Chat.IsGroup() && !m.Chat.IsSuperGroup() {
		return
	}
	if !bot.IsCommand(m.Text, t.prefix) {
		return
	}

	threadName := m.Chat.Title
	if threadName == "" {
		threadName = m.Chat.UserName
	}

	reply, err := t.handler.Handle(context.Background(), bot.Message{
		ThreadID:   strconv.FormatInt(m.Chat.ID, 10),
		ThreadName: threadName,
		SenderID:   strconv.FormatInt(m.From.ID, 10),
		SenderName: telegramSenderName(m.From),
		Text:       m.Text,
	})
	if err != nil {
		reply = errorGlyph + err.Error()
	}

	out := tgbotapi.NewMessage(m.Chat.ID, reply)
	out.ReplyToMessageID = m.MessageID
	if _, err := t.api.Send(out); err != nil {
		t.log.Error().Err(err).Int64("chat_id", m.Chat.ID).Msg("failed to send telegram reply")
	}
}

func telegramSenderName(u *tgbotapi.User) string {
	var parts []string
	if u.FirstName != "" {
		parts = append(parts, u.FirstName)
	}
	if u.LastName != "" {
		parts = append(parts, u.LastName)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if u.UserName != "" {
		return u.UserName
	}
	return "Unknown"
}
