package crypto

import (
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Params holds the Argon2id cost parameters.
type Params struct {
	Time    uint32 // passes over memory
	Memory  uint32 // KiB
	Threads uint8  // lanes
}

// DefaultParams returns the parameters every envelope is produced with.
func DefaultParams() Params {
	return Params{
		Time:    4,
		Memory:  64 * 1024,
		Threads: 8,
	}
}

func (p Params) validate() error {
	if p.Time == 0 {
		return fmt.Errorf("%w: argon2 time cost must be at least 1", ErrInvalidArgument)
	}
	if p.Threads == 0 {
		return fmt.Errorf("%w: argon2 parallelism must be at least 1", ErrInvalidArgument)
	}
	// argon2 requires at least 8 KiB per lane
	if p.Memory < 8*uint32(p.Threads) {
		return fmt.Errorf("%w: argon2 memory must be at least %d KiB", ErrInvalidArgument, 8*uint32(p.Threads))
	}
	return nil
}

// KeyDeriver turns a password and salt into a 32-byte key
type KeyDeriver struct {
	params Params
}

// NewKeyDeriver creates a KeyDeriver bound to the given parameters
func NewKeyDeriver(p Params) (*KeyDeriver, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &KeyDeriver{params: p}, nil
}

// Params returns the parameters the deriver was created with
func (d *KeyDeriver) Params() Params {
	return d.params
}

// Derive derives an encryption key from a password and a 16-byte salt.
// The caller owns the returned key and should clear it after use.
func (d *KeyDeriver) Derive(password string, salt []byte) ([]byte, error) {
	if err := CheckPassword(password); err != nil {
		return nil, err
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrInvalidArgument, SaltSize, len(salt))
	}

	pw := []byte(password)
	defer ClearBytes(pw)

	return argon2.IDKey(pw, salt, d.params.Time, d.params.Memory, d.params.Threads, KeySize), nil
}
