package crypto

import (
	"crypto/rand"
	"crypto/sha1" // #nosec G505 -- fixed by the on-disk format, see below
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the PBKDF2 salt length stored at the front of symmetric blobs.
	SaltSize = 32
	// KeySize is the derived AES-256 key length.
	KeySize = 32

	// kdfIterations matches the KDF defaults of the original deployment so
	// that existing blobs keep decrypting. Changing it breaks the format.
	kdfIterations = 1000
)

// DeriveKey derives a 32-byte AES key from the password with PBKDF2-HMAC-SHA1.
// When salt is nil a fresh 32-byte salt is generated; the salt actually used
// is returned alongside the key. Same password and salt always yield the same
// key.
func DeriveKey(password string, salt []byte) ([]byte, []byte, error) {
	if salt == nil {
		salt = make([]byte, SaltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, nil, fmt.Errorf("generate salt: %w", err)
		}
	}
	key := pbkdf2.Key([]byte(password), salt, kdfIterations, KeySize, sha1.New)
	return key, salt, nil
}
