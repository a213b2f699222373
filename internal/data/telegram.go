package data

import (
	"context"

	"github.com/leadrelay/leadrelay/internal/biz/repo"
	"github.com/leadrelay/leadrelay/telegram"
)

// chatRepo adapts the Telegram client to the transport interface.
type chatRepo struct {
	client *telegram.Client
}

// NewChatRepo creates the Telegram-backed transport repository.
func NewChatRepo(client *telegram.Client) repo.ChatRepo {
	return &chatRepo{client: client}
}

func (r *chatRepo) CreateTopic(ctx context.Context, name string) (int, error) {
	return r.client.CreateTopic(ctx, name)
}

func (r *chatRepo) SendToGroup(ctx context.Context, text string, threadID int) (int, error) {
	return r.client.SendToGroup(ctx, text, threadID)
}

func (r *chatRepo) CopyToGroup(ctx context.Context, fromChatID int64, messageID, threadID int) (int, error) {
	return r.client.CopyToGroup(ctx, fromChatID, messageID, threadID)
}

func (r *chatRepo) SendDM(ctx context.Context, userID int64, text string) error {
	return r.client.SendDM(ctx, userID, text)
}
