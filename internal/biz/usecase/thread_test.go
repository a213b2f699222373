package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/leadrelay/leadrelay/internal/biz/domain"
)

// Mock implementations

type mockLinkRepo struct {
	threads   map[int64]int
	saveErr   error
	saveCalls int
}

func newMockLinkRepo() *mockLinkRepo {
	return &mockLinkRepo{threads: make(map[int64]int)}
}

func (m *mockLinkRepo) SaveMessageLink(ctx context.Context, groupMessageID int, userID int64) error {
	return nil
}

func (m *mockLinkRepo) UserByGroupMessage(ctx context.Context, groupMessageID int) (int64, bool, error) {
	return 0, false, nil
}

func (m *mockLinkRepo) SaveLeadLink(ctx context.Context, userID, leadID int64) error {
	return nil
}

func (m *mockLinkRepo) LeadByUser(ctx context.Context, userID int64) (int64, bool, error) {
	return 0, false, nil
}

func (m *mockLinkRepo) SaveThreadLink(ctx context.Context, userID int64, threadID int) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.threads[userID] = threadID
	return nil
}

func (m *mockLinkRepo) ThreadByUser(ctx context.Context, userID int64) (int, bool, error) {
	threadID, ok := m.threads[userID]
	return threadID, ok, nil
}

func (m *mockLinkRepo) Close() error { return nil }

type mockChatRepo struct {
	createCalls int
	createErr   error
	lastName    string
	nextThread  int
}

func (m *mockChatRepo) CreateTopic(ctx context.Context, name string) (int, error) {
	m.createCalls++
	m.lastName = name
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextThread++
	return m.nextThread, nil
}

func (m *mockChatRepo) SendToGroup(ctx context.Context, text string, threadID int) (int, error) {
	return 0, nil
}

func (m *mockChatRepo) CopyToGroup(ctx context.Context, fromChatID int64, messageID, threadID int) (int, error) {
	return 0, nil
}

func (m *mockChatRepo) SendDM(ctx context.Context, userID int64, text string) error {
	return nil
}

func TestEnsureThreadIdempotent(t *testing.T) {
	links := newMockLinkRepo()
	chat := &mockChatRepo{}
	uc := NewThreadUsecase(links, chat, zerolog.Nop())
	user := domain.User{ID: 100, FirstName: "Alice"}

	first, err := uc.EnsureThread(context.Background(), user)
	require.NoError(t, err)

	second, err := uc.EnsureThread(context.Background(), user)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, chat.createCalls, "creation must be issued at most once")
	require.Equal(t, "Alice", chat.lastName)
}

func TestEnsureThreadCreationFailurePropagates(t *testing.T) {
	links := newMockLinkRepo()
	chat := &mockChatRepo{createErr: errors.New("topics are disabled")}
	uc := NewThreadUsecase(links, chat, zerolog.Nop())

	_, err := uc.EnsureThread(context.Background(), domain.User{ID: 100})
	require.Error(t, err)
	require.Empty(t, links.threads, "no link may be stored on failure")
}

func TestEnsureThreadPersistFailurePropagates(t *testing.T) {
	links := newMockLinkRepo()
	links.saveErr = errors.New("disk full")
	chat := &mockChatRepo{}
	uc := NewThreadUsecase(links, chat, zerolog.Nop())

	_, err := uc.EnsureThread(context.Background(), domain.User{ID: 100})
	require.Error(t, err, "an id that was not persisted must not be handed out")
}

func TestEnsureThreadTruncatesTopicName(t *testing.T) {
	links := newMockLinkRepo()
	chat := &mockChatRepo{}
	uc := NewThreadUsecase(links, chat, zerolog.Nop())

	user := domain.User{ID: 100, FirstName: strings.Repeat("я", 200)}
	_, err := uc.EnsureThread(context.Background(), user)
	require.NoError(t, err)
	require.Equal(t, 128, len([]rune(chat.lastName)))
}
