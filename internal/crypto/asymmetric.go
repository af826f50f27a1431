package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" // #nosec G505 -- OAEP hash fixed by the on-disk format
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
)

// ParsePublicKey decodes a PEM-encoded RSA public key, accepting both PKIX
// ("PUBLIC KEY") and PKCS#1 ("RSA PUBLIC KEY") encodings.
func ParsePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrKeyParse)
	}
	if pub, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA key", ErrKeyParse)
		}
		return rsaPub, nil
	}
	rsaPub, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyParse, err)
	}
	return rsaPub, nil
}

// EncryptAsymmetric encrypts plaintext with a fresh random AES-256 key, wraps
// that key with RSA-OAEP under the given PEM public key, and returns
// wrappedKey(modulus size) || iv || ciphertext. No integrity digest is
// embedded on this path; OAEP unwrapping is the recipient's check.
//
// There is no decrypting counterpart: unwrapping happens on the key holder's
// side, never in this service.
func EncryptAsymmetric(plaintext, publicKeyPEM []byte) ([]byte, error) {
	pub, err := ParsePublicKey(publicKeyPEM)
	if err != nil {
		return nil, err
	}

	aesKey := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, aesKey); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncrypt, err)
	}
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncrypt, err)
	}

	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncrypt, err)
	}
	padded := pad(plaintext, aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	wrapped, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, pub, aesKey, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncrypt, err)
	}

	blob := make([]byte, 0, len(wrapped)+IVSize+len(ct))
	blob = append(blob, wrapped...)
	blob = append(blob, iv...)
	blob = append(blob, ct...)
	return blob, nil
}
