package crypto

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	SaltSize        = 16 // Argon2id salt size in bytes
	KeySize         = 32 // AES-256 key size
	NonceSize       = 12 // GCM nonce size
	TagSize         = 16 // GCM authentication tag size
	MinEnvelopeSize = SaltSize + NonceSize + TagSize
)

var (
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrMalformedEnvelope     = errors.New("malformed envelope")
	ErrAuthenticationFailure = errors.New("authentication failed")
)

// CheckPassword rejects empty and whitespace-only passwords.
func CheckPassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: password must not be empty or whitespace", ErrInvalidArgument)
	}
	return nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// readRandom fills a new n-byte slice from r.
func readRandom(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
