package crypto

import "io"

// Option is a functional option for configuring a ValueCipher.
type Option func(*config)

type config struct {
	params Params
	random io.Reader
}

// WithParams overrides the Argon2id parameters.
// Envelopes produced with non-default parameters can only be opened by a
// cipher configured with the same parameters.
func WithParams(p Params) Option {
	return func(c *config) {
		c.params = p
	}
}

// WithRandom sets the entropy source for salts and nonces.
// Default is crypto/rand.Reader.
func WithRandom(r io.Reader) Option {
	return func(c *config) {
		c.random = r
	}
}
