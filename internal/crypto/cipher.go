package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

// ValueCipher encrypts and decrypts single scalar values.
// It holds no key material between calls and is safe for concurrent use
// when its random source is.
type ValueCipher struct {
	kdf    *KeyDeriver
	random io.Reader
}

// NewValueCipher creates a ValueCipher. Without options it uses
// DefaultParams and crypto/rand.
func NewValueCipher(opts ...Option) (*ValueCipher, error) {
	cfg := &config{
		params: DefaultParams(),
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.random == nil {
		return nil, fmt.Errorf("%w: random source is nil", ErrInvalidArgument)
	}

	kdf, err := NewKeyDeriver(cfg.params)
	if err != nil {
		return nil, err
	}

	return &ValueCipher{
		kdf:    kdf,
		random: cfg.random,
	}, nil
}

// Params returns the key derivation parameters in use
func (c *ValueCipher) Params() Params {
	return c.kdf.Params()
}

// EncryptScalar encrypts plaintext under a key derived from password and
// returns the envelope text.
func (c *ValueCipher) EncryptScalar(plaintext, password string) (string, error) {
	if err := CheckPassword(password); err != nil {
		return "", err
	}

	salt, err := readRandom(c.random, SaltSize)
	if err != nil {
		return "", err
	}

	key, err := c.kdf.Derive(password, salt)
	if err != nil {
		return "", err
	}
	defer ClearBytes(key)

	nonce, err := readRandom(c.random, NonceSize)
	if err != nil {
		return "", err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	// Seal returns ciphertext with the tag appended
	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	split := len(sealed) - TagSize
	ciphertext, tag := sealed[:split], sealed[split:]

	return Pack(salt, nonce, tag, ciphertext), nil
}

// DecryptScalar opens envelope text produced by EncryptScalar.
// No plaintext is returned unless the authentication tag verifies.
func (c *ValueCipher) DecryptScalar(envelope, password string) (string, error) {
	if err := CheckPassword(password); err != nil {
		return "", err
	}

	env, err := Unpack(envelope)
	if err != nil {
		return "", err
	}

	key, err := c.kdf.Derive(password, env.Salt)
	if err != nil {
		return "", err
	}
	defer ClearBytes(key)

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	sealed := make([]byte, 0, len(env.Ciphertext)+TagSize)
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.Tag...)

	plaintext, err := gcm.Open(nil, env.Nonce, sealed, nil)
	if err != nil {
		return "", ErrAuthenticationFailure
	}
	defer ClearBytes(plaintext)

	return strings.ToValidUTF8(string(plaintext), "\uFFFD"), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
