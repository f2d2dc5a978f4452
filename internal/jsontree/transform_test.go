package jsontree

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/illarion/jsonlock/internal/crypto"
)

func newTestTransformer(t *testing.T, opts ...TransformOption) *Transformer {
	t.Helper()
	c, err := crypto.NewValueCipher(crypto.WithParams(crypto.Params{Time: 1, Memory: 64, Threads: 1}))
	require.NoError(t, err)
	return NewTransformer(c, opts...)
}

// countingCipher wraps a ScalarCipher and can fail on a given call.
type countingCipher struct {
	inner  ScalarCipher
	calls  int
	failOn int
}

var errInjected = errors.New("injected failure")

func (c *countingCipher) EncryptScalar(plaintext, password string) (string, error) {
	c.calls++
	if c.calls == c.failOn {
		return "", errInjected
	}
	return c.inner.EncryptScalar(plaintext, password)
}

func (c *countingCipher) DecryptScalar(envelope, password string) (string, error) {
	c.calls++
	if c.calls == c.failOn {
		return "", errInjected
	}
	return c.inner.DecryptScalar(envelope, password)
}

func TestTransform_Scenario(t *testing.T) {
	tr := newTestTransformer(t)
	ctx := context.Background()
	input := mustParse(t, `{"a": "hello", "b": [1, true, null]}`)

	encrypted, err := tr.Transform(ctx, input, "correct horse", Encrypt)
	require.NoError(t, err)

	obj := encrypted.(*Object)
	require.Equal(t, []string{"a", "b"}, obj.Keys())

	a, _ := obj.Get("a")
	require.Equal(t, KindString, a.(*Scalar).Kind)
	_, err = crypto.Unpack(a.(*Scalar).Text)
	require.NoError(t, err)

	b, _ := obj.Get("b")
	require.Equal(t, 3, b.(*Array).Len())
	for _, item := range b.(*Array).Items() {
		s := item.(*Scalar)
		require.Equal(t, KindString, s.Kind)
		_, err := crypto.Unpack(s.Text)
		require.NoError(t, err)
	}

	decrypted, err := tr.Transform(ctx, encrypted, "correct horse", Decrypt)
	require.NoError(t, err)
	require.True(t, Equal(input, decrypted))

	before, err := Marshal(input)
	require.NoError(t, err)
	after, err := Marshal(decrypted)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestTransform_RoundTrip(t *testing.T) {
	tr := newTestTransformer(t)
	ctx := context.Background()

	docs := []string{
		`{}`,
		`[]`,
		`"top-level string"`,
		`42`,
		`{"nested": {"deeper": {"deepest": [1, [2, [3, {"x": "y"}]]]}}}`,
		`{"numbers": [0, -1, 1.50, 2e10, 12345678901234567890], "empty": ""}`,
		`{"looks like json": "\"quoted\"", "number string": "1", "bool string": "true", "null string": "null"}`,
		`{"unicode": "こんにちは", "escapes": "line\nbreak\ttab", "html": "<b>&</b>"}`,
	}

	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			input := mustParse(t, doc)

			encrypted, err := tr.Transform(ctx, input, "pw", Encrypt)
			require.NoError(t, err)
			require.True(t, SameShape(input, encrypted))

			decrypted, err := tr.Transform(ctx, encrypted, "pw", Decrypt)
			require.NoError(t, err)
			require.True(t, Equal(input, decrypted))
		})
	}
}

func TestTransform_StringsThatLookTyped(t *testing.T) {
	tr := newTestTransformer(t)
	ctx := context.Background()
	input := NewArray(String("1"), String("true"), String("null"), Number("1"), Bool(true), Null())

	encrypted, err := tr.Transform(ctx, input, "pw", Encrypt)
	require.NoError(t, err)
	decrypted, err := tr.Transform(ctx, encrypted, "pw", Decrypt)
	require.NoError(t, err)

	arr := decrypted.(*Array)
	require.Equal(t, String("1"), arr.At(0))
	require.Equal(t, String("true"), arr.At(1))
	require.Equal(t, String("null"), arr.At(2))
	require.Equal(t, Number("1"), arr.At(3))
	require.Equal(t, Bool(true), arr.At(4))
	require.Equal(t, Null(), arr.At(5))
}

func TestTransform_DoesNotMutateInput(t *testing.T) {
	tr := newTestTransformer(t)
	input := mustParse(t, `{"a": "hello", "b": [1, {"c": false}]}`)
	snapshot := mustParse(t, `{"a": "hello", "b": [1, {"c": false}]}`)

	_, err := tr.Transform(context.Background(), input, "pw", Encrypt)
	require.NoError(t, err)
	require.True(t, Equal(snapshot, input))
}

func TestTransform_Randomized(t *testing.T) {
	tr := newTestTransformer(t)
	ctx := context.Background()
	input := mustParse(t, `{"a": "same", "b": "same"}`)

	e1, err := tr.Transform(ctx, input, "pw", Encrypt)
	require.NoError(t, err)
	e2, err := tr.Transform(ctx, input, "pw", Encrypt)
	require.NoError(t, err)

	a1, _ := e1.(*Object).Get("a")
	b1, _ := e1.(*Object).Get("b")
	a2, _ := e2.(*Object).Get("a")
	require.NotEqual(t, a1.(*Scalar).Text, b1.(*Scalar).Text)
	require.NotEqual(t, a1.(*Scalar).Text, a2.(*Scalar).Text)

	for _, e := range []Value{e1, e2} {
		d, err := tr.Transform(ctx, e, "pw", Decrypt)
		require.NoError(t, err)
		require.True(t, Equal(input, d))
	}
}

func TestTransform_WrongPassword(t *testing.T) {
	tr := newTestTransformer(t)
	ctx := context.Background()

	encrypted, err := tr.Transform(ctx, mustParse(t, `{"a": "secret", "b": [1]}`), "correct horse", Encrypt)
	require.NoError(t, err)

	decrypted, err := tr.Transform(ctx, encrypted, "wrong horse", Decrypt)
	require.ErrorIs(t, err, crypto.ErrAuthenticationFailure)
	require.Nil(t, decrypted)
}

func TestTransform_DecryptPlainDocument(t *testing.T) {
	tr := newTestTransformer(t)

	out, err := tr.Transform(context.Background(), mustParse(t, `{"a": "not encrypted"}`), "pw", Decrypt)
	require.ErrorIs(t, err, crypto.ErrMalformedEnvelope)
	require.Nil(t, out)

	out, err = tr.Transform(context.Background(), mustParse(t, `{"a": 5}`), "pw", Decrypt)
	require.ErrorIs(t, err, crypto.ErrMalformedEnvelope)
	require.Nil(t, out)
}

func TestTransform_BarePlaintextBecomesString(t *testing.T) {
	c, err := crypto.NewValueCipher(crypto.WithParams(crypto.Params{Time: 1, Memory: 64, Threads: 1}))
	require.NoError(t, err)

	// envelopes whose plaintext is not a JSON literal come back as strings
	envelope, err := c.EncryptScalar("hello", "pw")
	require.NoError(t, err)

	out, err := NewTransformer(c).Transform(context.Background(), NewObject(Member{"a", String(envelope)}), "pw", Decrypt)
	require.NoError(t, err)

	a, _ := out.(*Object).Get("a")
	require.Equal(t, String("hello"), a)
}

func TestTransform_BareLiteralPlaintextKeepsItsKind(t *testing.T) {
	c, err := crypto.NewValueCipher(crypto.WithParams(crypto.Params{Time: 1, Memory: 64, Threads: 1}))
	require.NoError(t, err)

	// bare text that happens to be a JSON literal is restored as that literal
	number, err := c.EncryptScalar("123", "pw")
	require.NoError(t, err)
	flag, err := c.EncryptScalar("true", "pw")
	require.NoError(t, err)

	out, err := NewTransformer(c).Transform(context.Background(),
		NewObject(Member{"n", String(number)}, Member{"b", String(flag)}), "pw", Decrypt)
	require.NoError(t, err)

	n, _ := out.(*Object).Get("n")
	require.Equal(t, Number("123"), n)
	b, _ := out.(*Object).Get("b")
	require.Equal(t, Bool(true), b)
}

func TestTransform_InvalidArguments(t *testing.T) {
	counter := &countingCipher{inner: nil}
	tr := NewTransformer(counter)
	ctx := context.Background()

	var nilObject *Object

	tests := []struct {
		name     string
		root     Value
		password string
		dir      Direction
	}{
		{"nil root", nil, "pw", Encrypt},
		{"typed nil root", nilObject, "pw", Encrypt},
		{"empty password", String("x"), "", Encrypt},
		{"whitespace password", String("x"), "  \t", Decrypt},
		{"unknown direction", String("x"), "pw", Direction(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tr.Transform(ctx, tt.root, tt.password, tt.dir)
			require.ErrorIs(t, err, crypto.ErrInvalidArgument)
			require.Nil(t, out)
		})
	}

	require.Zero(t, counter.calls)
}

func TestTransform_AbortsOnFirstFailure(t *testing.T) {
	c, err := crypto.NewValueCipher(crypto.WithParams(crypto.Params{Time: 1, Memory: 64, Threads: 1}))
	require.NoError(t, err)
	counter := &countingCipher{inner: c, failOn: 3}

	out, err := NewTransformer(counter).Transform(context.Background(), mustParse(t, `[1, 2, 3, 4, 5]`), "pw", Encrypt)
	require.ErrorIs(t, err, errInjected)
	require.Contains(t, err.Error(), "/2")
	require.Nil(t, out)
	require.Equal(t, 3, counter.calls)
}

func TestTransform_Cancelled(t *testing.T) {
	counter := &countingCipher{inner: nil}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := NewTransformer(counter).Transform(ctx, mustParse(t, `{"a": 1}`), "pw", Encrypt)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, out)
	require.Zero(t, counter.calls)
}

func TestTransform_NilContext(t *testing.T) {
	tr := newTestTransformer(t)
	input := mustParse(t, `{"a": [1, "x"]}`)

	var ctx context.Context
	encrypted, err := tr.Transform(ctx, input, "pw", Encrypt)
	require.NoError(t, err)

	decrypted, err := tr.Transform(ctx, encrypted, "pw", Decrypt)
	require.NoError(t, err)
	require.True(t, Equal(input, decrypted))
}

func TestTransform_LeafHookOrder(t *testing.T) {
	var visited []string
	tr := newTestTransformer(t, WithLeafHook(func(pointer string) {
		visited = append(visited, pointer)
	}))

	_, err := tr.Transform(context.Background(), mustParse(t, `{"b": [1, {"x": 2}], "a": 3, "e": {}, "a/b": 4}`), "pw", Encrypt)
	require.NoError(t, err)
	require.Equal(t, []string{"/b/0", "/b/1/x", "/a", "/a~1b"}, visited)
}

func TestTransform_NilLeafInTree(t *testing.T) {
	tr := newTestTransformer(t)

	out, err := tr.Transform(context.Background(), NewArray(String("x"), nil), "pw", Encrypt)
	require.ErrorIs(t, err, crypto.ErrInvalidArgument)
	require.Nil(t, out)
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"encrypt", Encrypt, true},
		{"Encrypt", Encrypt, true},
		{"DECRYPT", Decrypt, true},
		{"decrypt", Decrypt, true},
		{"", 0, false},
		{"enc", 0, false},
		{"rotate", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if !tt.ok {
				require.ErrorIs(t, err, crypto.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, strings.ToLower(tt.in), got.String())
		})
	}
}
