package crypto

import "errors"

var (
	// ErrMalformed reports a blob too short to contain salt, IV and digest.
	ErrMalformed = errors.New("crypto: malformed encrypted blob")
	// ErrIntegrity reports a digest mismatch after decryption: wrong
	// password, corruption, or tampering.
	ErrIntegrity = errors.New("crypto: integrity check failed")
	// ErrDecrypt reports a cipher or padding failure during decryption,
	// typically a wrong password.
	ErrDecrypt = errors.New("crypto: decryption failed")
	// ErrEncrypt reports a cipher failure during encryption.
	ErrEncrypt = errors.New("crypto: encryption failed")
	// ErrKeyParse reports an unusable PEM public key.
	ErrKeyParse = errors.New("crypto: invalid public key")
)
