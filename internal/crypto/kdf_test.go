package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func errorsIsAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{0x5a}, SaltSize)

	k1, s1, err := DeriveKey("Valid123Pass", salt)
	require.NoError(t, err)
	k2, s2, err := DeriveKey("Valid123Pass", salt)
	require.NoError(t, err)

	require.Equal(t, KeySize, len(k1))
	require.Equal(t, k1, k2)
	require.Equal(t, salt, s1)
	require.Equal(t, salt, s2)
}

func TestDeriveKeyGeneratesSalt(t *testing.T) {
	k1, s1, err := DeriveKey("Valid123Pass", nil)
	require.NoError(t, err)
	k2, s2, err := DeriveKey("Valid123Pass", nil)
	require.NoError(t, err)

	require.Equal(t, SaltSize, len(s1))
	require.NotEqual(t, s1, s2)
	require.NotEqual(t, k1, k2)
}

func TestDeriveKeyDifferentSaltsDifferentKeys(t *testing.T) {
	saltA := bytes.Repeat([]byte{0x00}, SaltSize)
	saltB := bytes.Repeat([]byte{0x01}, SaltSize)

	kA, _, err := DeriveKey("Valid123Pass", saltA)
	require.NoError(t, err)
	kB, _, err := DeriveKey("Valid123Pass", saltB)
	require.NoError(t, err)

	require.NotEqual(t, kA, kB)
}

func TestDeriveKeyDifferentPasswords(t *testing.T) {
	salt := bytes.Repeat([]byte{0x33}, SaltSize)

	kA, _, err := DeriveKey("Valid123Pass", salt)
	require.NoError(t, err)
	kB, _, err := DeriveKey("Other456Pass", salt)
	require.NoError(t, err)

	require.NotEqual(t, kA, kB)
}
