// Package common defines shared sentinel errors and small utilities used
// across the bot's layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Vault-level errors. ErrDecryptionFailed means the stored ciphertext
	// cannot be authenticated under the current key (key file rotated or
	// corrupted); callers must treat it as "no usable credential".
	ErrDecryptionFailed = errors.New("decryption failed")
)
