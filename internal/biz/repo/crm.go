package repo

import "context"

// CRMRepo exposes the two CRM operations the relay needs. Implementations
// must be safe to call when the CRM is not configured: Enabled reports false
// and the operations return zero values without error.
type CRMRepo interface {
	Enabled() bool

	// CreateLead creates a lead named after the user and returns its id.
	CreateLead(ctx context.Context, name string) (int64, error)

	// AddComment appends free text to an existing lead.
	AddComment(ctx context.Context, leadID int64, text string) error
}
