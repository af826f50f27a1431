// Package crypto implements the file encryption formats served by the API:
// password-derived AES-256-CBC blobs with a trailing plaintext digest, and
// RSA/AES hybrid blobs where a per-file AES key is wrapped with RSA-OAEP.
//
// The byte layouts are fixed for compatibility with files produced by earlier
// deployments and must not change:
//
//	symmetric:  salt(32) || iv(16) || ciphertext || sha256-hex(64)
//	asymmetric: wrappedKey(modulus) || iv(16) || ciphertext
//
// The symmetric digest covers the plaintext and is checked after decryption.
package crypto
