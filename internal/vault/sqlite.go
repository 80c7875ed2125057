package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ikarpovich/nsbot/internal/common"
	"github.com/ikarpovich/nsbot/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert inserts a credential row by chat id. On conflict the school, login
// and password columns are replaced.
func (r *SQLiteRepository) Upsert(ctx context.Context, c *Credential) error {
	query := `INSERT INTO users (chat_id, school, login, password)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(chat_id) DO UPDATE SET school = excluded.school,
				login = excluded.login,
				password = excluded.password
	`
	_, err := r.db.ExecContext(ctx, query, c.ChatID, c.School, c.Login, c.Password)
	if err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}
	return nil
}

// Get returns the credential row for chatID or common.ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, chatID int64) (*Credential, error) {
	query := `SELECT chat_id, school, login, password FROM users WHERE chat_id = ?`

	var c Credential
	err := r.db.QueryRowContext(ctx, query, chatID).
		Scan(&c.ChatID, &c.School, &c.Login, &c.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select credential: %w", err)
	}
	return &c, nil
}
