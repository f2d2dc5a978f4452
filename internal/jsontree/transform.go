package jsontree

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/illarion/jsonlock/internal/crypto"
)

// Direction selects which half of the pipeline a transform runs.
type Direction int

const (
	Encrypt Direction = iota
	Decrypt
)

func (d Direction) String() string {
	switch d {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	default:
		return "direction(" + strconv.Itoa(int(d)) + ")"
	}
}

// ParseDirection parses "encrypt" or "decrypt", ignoring case.
func ParseDirection(s string) (Direction, error) {
	switch {
	case strings.EqualFold(s, "encrypt"):
		return Encrypt, nil
	case strings.EqualFold(s, "decrypt"):
		return Decrypt, nil
	}
	return 0, fmt.Errorf("%w: unknown operation %q, expected encrypt or decrypt", crypto.ErrInvalidArgument, s)
}

// ScalarCipher seals and opens single scalar values.
type ScalarCipher interface {
	EncryptScalar(plaintext, password string) (string, error)
	DecryptScalar(envelope, password string) (string, error)
}

// Transformer applies a ScalarCipher to every leaf of a tree.
type Transformer struct {
	cipher ScalarCipher
	onLeaf func(pointer string)
}

// TransformOption configures a Transformer.
type TransformOption func(*Transformer)

// WithLeafHook registers fn to be called with the JSON pointer of each
// leaf before it is processed. Values are never passed to the hook.
func WithLeafHook(fn func(pointer string)) TransformOption {
	return func(t *Transformer) {
		t.onLeaf = fn
	}
}

// NewTransformer creates a Transformer that uses c for every leaf.
func NewTransformer(c ScalarCipher, opts ...TransformOption) *Transformer {
	t := &Transformer{cipher: c}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform returns a new tree with every scalar of root encrypted or
// decrypted. root is not modified. The first failing leaf aborts the whole
// transform and no tree is returned. A nil ctx means context.Background.
func (t *Transformer) Transform(ctx context.Context, root Value, password string, dir Direction) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if isNil(root) {
		return nil, fmt.Errorf("%w: no JSON tree supplied", crypto.ErrInvalidArgument)
	}
	if err := crypto.CheckPassword(password); err != nil {
		return nil, err
	}
	if dir != Encrypt && dir != Decrypt {
		return nil, fmt.Errorf("%w: unknown direction %d", crypto.ErrInvalidArgument, int(dir))
	}
	if t.cipher == nil {
		return nil, fmt.Errorf("%w: no cipher configured", crypto.ErrInvalidArgument)
	}

	w := walker{t: t, ctx: ctx, password: password, dir: dir}
	return w.walk(root, "")
}

type walker struct {
	t        *Transformer
	ctx      context.Context
	password string
	dir      Direction
}

func (w *walker) walk(v Value, pointer string) (Value, error) {
	if isNil(v) {
		return nil, fmt.Errorf("%w: missing value at %s", crypto.ErrInvalidArgument, displayPointer(pointer))
	}

	switch n := v.(type) {
	case *Object:
		out := &Object{
			members: make([]Member, 0, len(n.members)),
			index:   make(map[string]int, len(n.members)),
		}
		for _, m := range n.Members() {
			child, err := w.walk(m.Value, childPointer(pointer, m.Key))
			if err != nil {
				return nil, err
			}
			out.Set(m.Key, child)
		}
		return out, nil
	case *Array:
		out := &Array{items: make([]Value, 0, len(n.items))}
		for i, item := range n.items {
			child, err := w.walk(item, childPointer(pointer, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			out.items = append(out.items, child)
		}
		return out, nil
	case *Scalar:
		return w.leaf(n, pointer)
	}
	return nil, fmt.Errorf("%w: unsupported node %T at %s", crypto.ErrInvalidArgument, v, displayPointer(pointer))
}

func (w *walker) leaf(s *Scalar, pointer string) (Value, error) {
	if err := w.ctx.Err(); err != nil {
		return nil, err
	}
	if w.t.onLeaf != nil {
		w.t.onLeaf(pointer)
	}

	if w.dir == Encrypt {
		envelope, err := w.t.cipher.EncryptScalar(s.Canonical(), w.password)
		if err != nil {
			return nil, fmt.Errorf("encrypt %s: %w", displayPointer(pointer), err)
		}
		return String(envelope), nil
	}

	plaintext, err := w.t.cipher.DecryptScalar(s.Text, w.password)
	if err != nil {
		return nil, fmt.Errorf("decrypt %s: %w", displayPointer(pointer), err)
	}
	if restored, ok := parseLiteral(plaintext); ok {
		return restored, nil
	}
	return String(plaintext), nil
}

func displayPointer(pointer string) string {
	if pointer == "" {
		return "document root"
	}
	return pointer
}
