package server

import (
	"context"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leadrelay/leadrelay/internal/biz/domain"
	"github.com/leadrelay/leadrelay/internal/service"
	"github.com/leadrelay/leadrelay/telegram"
)

const greeting = "Hi! Describe your question here and a member of our team will reply shortly."

// TelegramServer consumes bot updates and dispatches them to the router:
// private-chat messages go through the inbound flow, operator-group replies
// through the reply flow, everything else is ignored.
type TelegramServer struct {
	client *telegram.Client
	router *service.Router
	log    zerolog.Logger
}

// NewTelegramServer creates the update loop.
func NewTelegramServer(client *telegram.Client, router *service.Router, log zerolog.Logger) *TelegramServer {
	return &TelegramServer{client: client, router: router, log: log}
}

// Start begins consuming updates and blocks until ctx is cancelled.
func (s *TelegramServer) Start(ctx context.Context) {
	s.client.OnUpdate(s.handleUpdate)
	s.log.Info().Int64("group_id", s.client.GroupID()).Msg("update loop started")
	s.client.Start(ctx)
}

func (s *TelegramServer) handleUpdate(ctx context.Context, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return
	}

	log := s.log.With().Str("event_id", uuid.NewString()).Logger()

	switch {
	case msg.Chat.ID == s.client.GroupID():
		s.handleGroupMessage(ctx, log, msg)
	case msg.Chat.Type == "private":
		s.handlePrivateMessage(ctx, log, msg)
	}
}

func (s *TelegramServer) handlePrivateMessage(ctx context.Context, log zerolog.Logger, msg *models.Message) {
	if strings.HasPrefix(msg.Text, "/start") {
		if err := s.client.SendDM(ctx, msg.Chat.ID, greeting); err != nil {
			log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("failed to send greeting")
		}
		return
	}

	inbound := domain.InboundMessage{
		User: domain.User{
			ID:        msg.From.ID,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
			Username:  msg.From.Username,
		},
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      msg.Text,
		Caption:   msg.Caption,
		HasMedia:  msg.Text == "",
	}

	if err := s.router.HandleInbound(ctx, inbound); err != nil {
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("inbound relay failed")
	}
}

func (s *TelegramServer) handleGroupMessage(ctx context.Context, log zerolog.Logger, msg *models.Message) {
	replyTo := msg.ReplyToMessage
	if replyTo == nil {
		return
	}
	// Messages posted in a topic carry an implicit reply to the topic's
	// service message; that is chatter, not a reply to a user.
	if replyTo.ID == msg.MessageThreadID {
		return
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if text == "" {
		log.Debug().Int("message_id", msg.ID).Msg("ignoring non-text operator reply")
		return
	}

	reply := domain.OperatorReply{
		ReplyToMessageID: replyTo.ID,
		ThreadID:         msg.MessageThreadID,
		Text:             text,
	}

	if err := s.router.HandleReply(ctx, reply); err != nil {
		log.Error().Err(err).Int("reply_to", replyTo.ID).Msg("reply delivery failed")
	}
}
