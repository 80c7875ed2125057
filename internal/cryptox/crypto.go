// Package cryptox implements the vault's encryption primitive: AES-GCM with
// a key derived (argon2id) from a secret kept in a local key file.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/ikarpovich/nsbot/internal/common"
	"golang.org/x/crypto/argon2"
)

const nonceSize = 12

// DeriveKey stretches the key-file secret into a 32-byte AES-256 key.
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

// Seal encrypts plaintext with AES-GCM under key and returns nonce||ciphertext.
// A new random 12-byte nonce is generated for each call.
func Seal(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	nonce := common.GenerateRandByteArray(nonceSize)

	// шифруем
	ciphertext := aesgcm.Seal(nil, nonce, plaintext, nil)

	return append(nonce, ciphertext...), nil
}

// Open decrypts data produced by Seal. It returns common.ErrDecryptionFailed
// when the ciphertext cannot be authenticated under key, which is how a
// rotated or corrupted key file manifests.
func Open(sealed, key []byte) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, common.ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	plaintext, err := aesgcm.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	return plaintext, nil
}
