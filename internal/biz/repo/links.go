package repo

import "context"

// LinkRepo is the correlation store: three independent key-value relations
// persisted in SQLite. Lookups report absence with a false second return —
// a missing row is a normal state (first contact), never an error.
type LinkRepo interface {
	// SaveMessageLink records which user a relayed group message belongs to.
	// Write-once per group message id; the store itself permits overwrite.
	SaveMessageLink(ctx context.Context, groupMessageID int, userID int64) error

	// UserByGroupMessage resolves a group message back to its originating user.
	UserByGroupMessage(ctx context.Context, groupMessageID int) (int64, bool, error)

	// SaveLeadLink records the CRM lead created for a user.
	SaveLeadLink(ctx context.Context, userID, leadID int64) error

	// LeadByUser returns the CRM lead linked to a user.
	LeadByUser(ctx context.Context, userID int64) (int64, bool, error)

	// SaveThreadLink records the operator-group topic provisioned for a user.
	SaveThreadLink(ctx context.Context, userID int64, threadID int) error

	// ThreadByUser returns the topic linked to a user.
	ThreadByUser(ctx context.Context, userID int64) (int, bool, error)

	// Close releases the underlying storage.
	Close() error
}
