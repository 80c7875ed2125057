package vault

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ikarpovich/nsbot/internal/cryptox"
	"github.com/ikarpovich/nsbot/internal/dbx"
)

// Vault encrypts credentials with a process-wide key and stores them through
// the sqlite repository.
type Vault struct {
	db  *sql.DB
	key []byte
}

// New returns a Vault over db using the given AES key
// (see cryptox.LoadOrCreateKey).
func New(db *sql.DB, key []byte) *Vault {
	return &Vault{db: db, key: key}
}

func (v *Vault) getRepo(db dbx.DBTX) Repository {
	return NewSQLiteRepository(db)
}

// Upsert seals the password and writes or overwrites the row for chatID.
func (v *Vault) Upsert(ctx context.Context, chatID int64, school, login, password string) error {
	sealed, err := cryptox.Seal([]byte(password), v.key)
	if err != nil {
		return fmt.Errorf("seal password: %w", err)
	}

	return dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return v.getRepo(tx).Upsert(ctx, &Credential{
			ChatID:   chatID,
			School:   school,
			Login:    login,
			Password: sealed,
		})
	})
}

// Load returns the decrypted credential for chatID.
//
// Errors: common.ErrNotFound when no row exists; common.ErrDecryptionFailed
// when the stored ciphertext does not authenticate under the current key.
// Callers must treat the latter as "no usable credential" and prompt the
// user to re-enter, not crash.
func (v *Vault) Load(ctx context.Context, chatID int64) (school, login, password string, err error) {
	c, err := v.getRepo(v.db).Get(ctx, chatID)
	if err != nil {
		return "", "", "", err
	}

	plaintext, err := cryptox.Open(c.Password, v.key)
	if err != nil {
		return "", "", "", err
	}

	return c.School, c.Login, string(plaintext), nil
}
