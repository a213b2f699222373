package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/leadrelay/leadrelay/internal/biz/domain"
	"github.com/leadrelay/leadrelay/internal/biz/repo"
)

// maxTopicNameRunes is the transport's cap on topic labels.
const maxTopicNameRunes = 128

// ThreadUsecase provisions one operator-group topic per user. The thread
// link is durable, so a process restart never re-creates an existing topic.
type ThreadUsecase struct {
	links repo.LinkRepo
	chat  repo.ChatRepo
	log   zerolog.Logger
}

// NewThreadUsecase creates the thread provisioner.
func NewThreadUsecase(links repo.LinkRepo, chat repo.ChatRepo, log zerolog.Logger) *ThreadUsecase {
	return &ThreadUsecase{links: links, chat: chat, log: log}
}

// EnsureThread returns the topic id for a user, creating the topic on first
// contact. A stored link is returned without any network call. Creation
// failure propagates to the caller: a group without topics enabled is a
// configuration problem, not a transient one, so there is no retry here.
func (uc *ThreadUsecase) EnsureThread(ctx context.Context, user domain.User) (int, error) {
	threadID, ok, err := uc.links.ThreadByUser(ctx, user.ID)
	if err != nil {
		return 0, err
	}
	if ok {
		return threadID, nil
	}

	threadID, err = uc.chat.CreateTopic(ctx, truncateRunes(user.DisplayName(), maxTopicNameRunes))
	if err != nil {
		return 0, fmt.Errorf("failed to create topic for user %d: %w", user.ID, err)
	}

	// The id must be durable before it is handed out for reuse.
	if err := uc.links.SaveThreadLink(ctx, user.ID, threadID); err != nil {
		return 0, fmt.Errorf("failed to persist thread link for user %d: %w", user.ID, err)
	}

	uc.log.Info().
		Int64("user_id", user.ID).
		Int("thread_id", threadID).
		Msg("topic created")

	return threadID, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
