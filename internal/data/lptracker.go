package data

import (
	"context"

	"github.com/leadrelay/leadrelay/internal/biz/repo"
	"github.com/leadrelay/leadrelay/lptracker"
)

// crmRepo adapts the LPTracker client to the CRM interface. The disabled
// state lives in the client itself: without credentials every call below is
// a no-op returning zero values.
type crmRepo struct {
	client *lptracker.Client
}

// NewCRMRepo creates the LPTracker-backed CRM repository.
func NewCRMRepo(client *lptracker.Client) repo.CRMRepo {
	return &crmRepo{client: client}
}

func (r *crmRepo) Enabled() bool {
	return r.client.Enabled()
}

func (r *crmRepo) CreateLead(ctx context.Context, name string) (int64, error) {
	return r.client.CreateLead(ctx, name)
}

func (r *crmRepo) AddComment(ctx context.Context, leadID int64, text string) error {
	return r.client.AddComment(ctx, leadID, text)
}
