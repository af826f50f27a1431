package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	// IVSize is the AES-CBC initialization vector length.
	IVSize = aes.BlockSize
	// DigestSize is the length of the hex-encoded SHA-256 plaintext digest
	// trailing every symmetric blob.
	DigestSize = 64

	// minSymmetricBlob is salt + IV + digest; anything shorter cannot be
	// sliced into its components.
	minSymmetricBlob = SaltSize + IVSize + DigestSize
)

// EncryptSymmetric encrypts plaintext with a key derived from the password and
// returns salt || iv || ciphertext || sha256-hex(plaintext).
func EncryptSymmetric(plaintext []byte, password string) ([]byte, error) {
	key, salt, err := DeriveKey(password, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncrypt, err)
	}
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncrypt, err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncrypt, err)
	}
	padded := pad(plaintext, aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	sum := sha256.Sum256(plaintext)
	digest := hex.EncodeToString(sum[:])

	blob := make([]byte, 0, SaltSize+IVSize+len(ct)+DigestSize)
	blob = append(blob, salt...)
	blob = append(blob, iv...)
	blob = append(blob, ct...)
	blob = append(blob, digest...)
	return blob, nil
}

// DecryptSymmetric reverses EncryptSymmetric. It fails with ErrMalformed when
// the blob is too short to slice, ErrDecrypt when unpadding fails (usually a
// wrong password), and ErrIntegrity when the recovered plaintext does not
// match the stored digest.
func DecryptSymmetric(blob []byte, password string) ([]byte, error) {
	if len(blob) < minSymmetricBlob {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformed, len(blob))
	}
	salt := blob[:SaltSize]
	iv := blob[SaltSize : SaltSize+IVSize]
	stored := blob[len(blob)-DigestSize:]
	ct := blob[SaltSize+IVSize : len(blob)-DigestSize]
	if len(ct)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext not block aligned", ErrDecrypt)
	}

	key, _, err := DeriveKey(password, salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	padded := make([]byte, len(ct))
	if len(ct) > 0 {
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ct)
	}
	plaintext, err := unpad(padded, aes.BlockSize)
	if err != nil {
		return nil, err
	}

	// Digest covers the plaintext, so it can only be checked after the
	// decrypt. Kept this way for blob compatibility.
	sum := sha256.Sum256(plaintext)
	if hex.EncodeToString(sum[:]) != string(stored) {
		return nil, ErrIntegrity
	}
	return plaintext, nil
}
