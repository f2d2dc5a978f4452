package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestNewValueCipher_Defaults(t *testing.T) {
	c, err := NewValueCipher()
	require.NoError(t, err)
	require.Equal(t, DefaultParams(), c.Params())
}

func TestNewValueCipher_InvalidOptions(t *testing.T) {
	_, err := NewValueCipher(WithParams(Params{}))
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewValueCipher(WithRandom(nil))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"simple text", "hello"},
		{"empty", ""},
		{"json string literal", `"hello"`},
		{"number", "1"},
		{"unicode", "こんにちは世界"},
		{"large", strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := c.EncryptScalar(tt.plaintext, "correct horse")
			require.NoError(t, err)

			plaintext, err := c.DecryptScalar(envelope, "correct horse")
			require.NoError(t, err)
			require.Equal(t, tt.plaintext, plaintext)
		})
	}
}

func TestEncrypt_CiphertextLengthMatchesPlaintext(t *testing.T) {
	c := newTestCipher(t)

	for _, plaintext := range []string{"", "a", "hello", "ü", strings.Repeat("z", 257)} {
		envelope, err := c.EncryptScalar(plaintext, "pw")
		require.NoError(t, err)

		env, err := Unpack(envelope)
		require.NoError(t, err)
		require.Len(t, env.Salt, SaltSize)
		require.Len(t, env.Nonce, NonceSize)
		require.Len(t, env.Tag, TagSize)
		require.Len(t, env.Ciphertext, len(plaintext))
	}
}

func TestEncrypt_Randomized(t *testing.T) {
	c := newTestCipher(t)

	e1, err := c.EncryptScalar("same value", "pw")
	require.NoError(t, err)
	e2, err := c.EncryptScalar("same value", "pw")
	require.NoError(t, err)
	require.NotEqual(t, e1, e2)

	env1, err := Unpack(e1)
	require.NoError(t, err)
	env2, err := Unpack(e2)
	require.NoError(t, err)
	require.NotEqual(t, env1.Salt, env2.Salt)
	require.NotEqual(t, env1.Nonce, env2.Nonce)

	for _, e := range []string{e1, e2} {
		plaintext, err := c.DecryptScalar(e, "pw")
		require.NoError(t, err)
		require.Equal(t, "same value", plaintext)
	}
}

func TestEncrypt_UsesRandomSource(t *testing.T) {
	entropy := bytes.Repeat([]byte{0x42}, SaltSize+NonceSize)

	c1 := newTestCipher(t, WithRandom(bytes.NewReader(entropy)))
	c2 := newTestCipher(t, WithRandom(bytes.NewReader(entropy)))

	e1, err := c1.EncryptScalar("value", "pw")
	require.NoError(t, err)
	e2, err := c2.EncryptScalar("value", "pw")
	require.NoError(t, err)
	require.Equal(t, e1, e2)

	env, err := Unpack(e1)
	require.NoError(t, err)
	require.Equal(t, entropy[:SaltSize], env.Salt)
	require.Equal(t, entropy[SaltSize:], env.Nonce)
}

func TestEncrypt_RandomFailure(t *testing.T) {
	c := newTestCipher(t, WithRandom(failingReader{}))

	_, err := c.EncryptScalar("value", "pw")
	require.Error(t, err)
}

func TestDecrypt_WrongPassword(t *testing.T) {
	c := newTestCipher(t)

	envelope, err := c.EncryptScalar("secret", "correct horse")
	require.NoError(t, err)

	for _, pw := range []string{"Correct horse", "correct horse ", "battery staple", "x"} {
		plaintext, err := c.DecryptScalar(envelope, pw)
		require.ErrorIs(t, err, ErrAuthenticationFailure)
		require.Empty(t, plaintext)
	}
}

func TestDecrypt_WrongParams(t *testing.T) {
	c := newTestCipher(t)
	other, err := NewValueCipher(WithParams(Params{Time: 2, Memory: 64, Threads: 1}))
	require.NoError(t, err)

	envelope, err := c.EncryptScalar("secret", "pw")
	require.NoError(t, err)

	_, err = other.DecryptScalar(envelope, "pw")
	require.ErrorIs(t, err, ErrAuthenticationFailure)
}

func TestDecrypt_TamperDetection(t *testing.T) {
	c := newTestCipher(t)

	envelope, err := c.EncryptScalar("tamper me", "pw")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(envelope)
	require.NoError(t, err)

	// every byte is covered: salt and nonce change the key or counter,
	// tag and ciphertext fail verification directly
	for i := range raw {
		tampered := append([]byte(nil), raw...)
		tampered[i] ^= 0x01

		plaintext, err := c.DecryptScalar(base64.StdEncoding.EncodeToString(tampered), "pw")
		require.ErrorIs(t, err, ErrAuthenticationFailure, "byte %d", i)
		require.Empty(t, plaintext)
	}
}

func TestDecrypt_Truncated(t *testing.T) {
	c := newTestCipher(t)

	envelope, err := c.EncryptScalar("truncate me", "pw")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(envelope)
	require.NoError(t, err)

	// still long enough to parse, but the ciphertext is short
	_, err = c.DecryptScalar(base64.StdEncoding.EncodeToString(raw[:len(raw)-1]), "pw")
	require.ErrorIs(t, err, ErrAuthenticationFailure)

	// below the minimum layout
	_, err = c.DecryptScalar(base64.StdEncoding.EncodeToString(raw[:MinEnvelopeSize-1]), "pw")
	require.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestDecrypt_Malformed(t *testing.T) {
	c := newTestCipher(t)

	for _, text := range []string{"", "hello", "1", "true", "null"} {
		_, err := c.DecryptScalar(text, "pw")
		require.ErrorIs(t, err, ErrMalformedEnvelope, "input %q", text)
	}
}

func TestEncryptDecrypt_BlankPassword(t *testing.T) {
	c := newTestCipher(t, WithRandom(failingReader{}))

	// password is checked before the random source is touched
	for _, pw := range []string{"", " ", "\t"} {
		_, err := c.EncryptScalar("value", pw)
		require.ErrorIs(t, err, ErrInvalidArgument)

		_, err = c.DecryptScalar("not even an envelope", pw)
		require.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestClearBytes(t *testing.T) {
	b := []byte("sensitive")
	ClearBytes(b)
	require.Equal(t, make([]byte, 9), b)
}

func TestCheckPassword(t *testing.T) {
	require.NoError(t, CheckPassword("pw"))
	require.NoError(t, CheckPassword(" pw "))
	require.ErrorIs(t, CheckPassword(""), ErrInvalidArgument)
	require.ErrorIs(t, CheckPassword("   "), ErrInvalidArgument)
}
