package vault

import "context"

// Repository is the persistence contract for credential rows.
type Repository interface {
	// Upsert writes or overwrites the row for c.ChatID.
	Upsert(ctx context.Context, c *Credential) error

	// Get returns the row for chatID, or common.ErrNotFound.
	Get(ctx context.Context, chatID int64) (*Credential, error)
}
