package data

import (
	"github.com/leadrelay/leadrelay/internal/biz/repo"
	"github.com/leadrelay/leadrelay/lptracker"
	"github.com/leadrelay/leadrelay/telegram"
)

// Repositories contains all repositories
type Repositories struct {
	Links repo.LinkRepo
	Chat  repo.ChatRepo
	CRM   repo.CRMRepo
}

// NewRepositories creates all repositories
func NewRepositories(
	tgClient *telegram.Client,
	lpClient *lptracker.Client,
	dbPath string,
) (*Repositories, error) {
	linkRepo, err := NewLinkRepo(dbPath)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Links: linkRepo,
		Chat:  NewChatRepo(tgClient),
		CRM:   NewCRMRepo(lpClient),
	}, nil
}

// Close releases the link store.
func (r *Repositories) Close() error {
	return r.Links.Close()
}
