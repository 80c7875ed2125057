// Package vault persists portal credentials, one row per chat, with the
// password encrypted at rest. Plaintext passwords never cross this package's
// boundary except through Upsert (in) and Load (out).
package vault

// Credential is a stored credential row. Password holds the sealed
// ciphertext (nonce||ciphertext), never plaintext.
type Credential struct {
	ChatID   int64
	School   string
	Login    string
	Password []byte
}
