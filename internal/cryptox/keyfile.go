package cryptox

import (
	"fmt"
	"os"

	"github.com/ikarpovich/nsbot/internal/common"
)

const (
	saltSize   = 16
	secretSize = 32
)

// LoadOrCreateKey reads the key file at path, generating and persisting it
// on first run, and returns the derived AES key. The file holds
// salt||secret so the derivation is stable across restarts. Replacing the
// file makes previously stored ciphertexts undecryptable, which surfaces
// to callers as common.ErrDecryptionFailed.
func LoadOrCreateKey(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		raw = common.GenerateRandByteArray(saltSize + secretSize)
		if err := os.WriteFile(path, raw, 0o600); err != nil {
			return nil, fmt.Errorf("write key file %s: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("read key file %s: %w", path, err)
	}

	if len(raw) != saltSize+secretSize {
		return nil, fmt.Errorf("key file %s: unexpected size %d", path, len(raw))
	}

	return DeriveKey(raw[saltSize:], raw[:saltSize]), nil
}
