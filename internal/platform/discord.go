package platform

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/hainm/keobot/internal/bot"
)

// Discord delivers guild-channel commands over the gateway.
type Discord struct {
	session *discordgo.Session
	handler *bot.Handler
	prefix  string
	log     zerolog.Logger
}

func NewDiscord(token, prefix string, handler *bot.Handler, logger zerolog.Logger) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	d := &Discord{session: session, handler: handler, prefix: prefix, log: logger}
	session.AddHandler(d.onReady)
	session.AddHandler(d.onMessageCreate)
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	return d, nil
}

func (d *Discord) Start() error {
	if err := d.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	return nil
}

func (d *Discord) Stop() error {
	return d.session.Close()
}

func (d *Discord) onReady(_ *discordgo.Session, event *discordgo.Ready) {
	d.log.Info().Str("user", event.User.Username).Msg("discord adapter connected")
}

func (d *Discord) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	// Direct messages are out of scope.
	if m.GuildID == "" {
		return
	}
	if !bot.IsCommand(m.Content, d.prefix) {
		return
	}

	threadName := ""
	if ch, err := s.State.Channel(m.ChannelID); err == nil {
		threadName = ch.Name
	} else if ch, err := s.Channel(m.ChannelID); err == nil {
		threadName = ch.Name
	}

	senderName := m.Author.Username
	if m.Member != nil && m.Member.Nick != "" {
		senderName = m.Member.Nick
	}

	reply, err := d.handler.Handle(context.Background(), bot.Message{
		ThreadID:   m.ChannelID,
		ThreadName: threadName,
		SenderID:   m.Author.ID,
		SenderName: senderName,
		Text:       m.Content,
	})
	if err != nil {
		reply = errorGlyph + err.Error()
	}

	if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
		d.log.Error().Err(err).Str("channel_id", m.ChannelID).Msg("failed to send discord reply")
	}
}
