package repo

import "context"

// NoThread addresses the operator group without a topic.
const NoThread = 0

// ChatRepo is the messaging transport: delivery into the operator group and
// back out to users' private chats.
type ChatRepo interface {
	// CreateTopic creates a named discussion topic in the operator group and
	// returns its thread id. Fails if the group has topics disabled.
	CreateTopic(ctx context.Context, name string) (int, error)

	// SendToGroup posts text into the operator group, addressed to threadID
	// unless it is NoThread. Returns the id of the delivered message.
	SendToGroup(ctx context.Context, text string, threadID int) (int, error)

	// CopyToGroup copies a user's media message into the operator group.
	// Returns the id of the delivered copy.
	CopyToGroup(ctx context.Context, fromChatID int64, messageID, threadID int) (int, error)

	// SendDM delivers text to a user's private chat.
	SendDM(ctx context.Context, userID int64, text string) error
}
