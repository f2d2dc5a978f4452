package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fastParams keeps Argon2id cheap enough for table-driven tests.
var fastParams = Params{Time: 1, Memory: 64, Threads: 1}

func newTestCipher(t *testing.T, opts ...Option) *ValueCipher {
	t.Helper()
	c, err := NewValueCipher(append([]Option{WithParams(fastParams)}, opts...)...)
	require.NoError(t, err)
	return c
}
