package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// UpdateHandler receives every update the bot is delivered.
type UpdateHandler func(ctx context.Context, update *models.Update)

// Client wraps the Bot API for the two destinations this service talks to:
// the operator group (topics, relayed messages, diagnostics) and users'
// private chats.
type Client struct {
	bot     *bot.Bot
	groupID int64
	handler UpdateHandler
}

// NewClient creates a long-polling Telegram client bound to one operator group.
func NewClient(token string, groupID int64) (*Client, error) {
	c := &Client{groupID: groupID}

	b, err := bot.New(token, bot.WithDefaultHandler(c.dispatch))
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	c.bot = b
	return c, nil
}

// OnUpdate registers the update handler. Must be called before Start.
func (c *Client) OnUpdate(handler UpdateHandler) {
	c.handler = handler
}

// Start begins long polling and blocks until ctx is cancelled.
func (c *Client) Start(ctx context.Context) {
	c.bot.Start(ctx)
}

// GroupID returns the operator group this client is bound to.
func (c *Client) GroupID() int64 {
	return c.groupID
}

func (c *Client) dispatch(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if c.handler != nil {
		c.handler(ctx, update)
	}
}

// CreateTopic creates a forum topic in the operator group and returns its
// thread id. Fails if the group is not a forum.
func (c *Client) CreateTopic(ctx context.Context, name string) (int, error) {
	topic, err := c.bot.CreateForumTopic(ctx, &bot.CreateForumTopicParams{
		ChatID: c.groupID,
		Name:   name,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create topic: %w", err)
	}
	return topic.MessageThreadID, nil
}

// SendToGroup posts text into the operator group, inside threadID when it is
// non-zero. Returns the id of the sent message.
func (c *Client) SendToGroup(ctx context.Context, text string, threadID int) (int, error) {
	params := &bot.SendMessageParams{
		ChatID: c.groupID,
		Text:   text,
	}
	if threadID != 0 {
		params.MessageThreadID = threadID
	}

	msg, err := c.bot.SendMessage(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to send group message: %w", err)
	}
	return msg.ID, nil
}

// CopyToGroup copies a message (typically media) from a user's chat into the
// operator group. Returns the id of the copy.
func (c *Client) CopyToGroup(ctx context.Context, fromChatID int64, messageID, threadID int) (int, error) {
	params := &bot.CopyMessageParams{
		ChatID:     c.groupID,
		FromChatID: fromChatID,
		MessageID:  messageID,
	}
	if threadID != 0 {
		params.MessageThreadID = threadID
	}

	copied, err := c.bot.CopyMessage(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to copy message to group: %w", err)
	}
	return copied.ID, nil
}

// SendDM delivers text to a user's private chat.
func (c *Client) SendDM(ctx context.Context, userID int64, text string) error {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: userID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send direct message to %d: %w", userID, err)
	}
	return nil
}
