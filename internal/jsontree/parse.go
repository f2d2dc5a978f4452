package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// maxDepth bounds nesting so hostile input cannot exhaust the stack.
const maxDepth = 10000

var ErrInvalidJSON = errors.New("invalid JSON document")

// Parse decodes a single JSON value, keeping object key order and number
// literals exactly as written.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec, 0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: unexpected end of input", ErrInvalidJSON)
		}
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrInvalidJSON)
	}
	return v, nil
}

func parseValue(dec *json.Decoder, depth int) (Value, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrInvalidJSON, maxDepth)
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, wrapSyntax(err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec, depth)
		case '[':
			return parseArray(dec, depth)
		}
		return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidJSON, t)
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("%w: unexpected token %v", ErrInvalidJSON, tok)
}

func parseObject(dec *json.Decoder, depth int) (Value, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, wrapSyntax(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key must be a string", ErrInvalidJSON)
		}

		v, err := parseValue(dec, depth+1)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, wrapSyntax(err)
	}
	return obj, nil
}

func parseArray(dec *json.Decoder, depth int) (Value, error) {
	arr := NewArray()
	for dec.More() {
		v, err := parseValue(dec, depth+1)
		if err != nil {
			return nil, err
		}
		arr.Append(v)
	}

	// closing bracket
	if _, err := dec.Token(); err != nil {
		return nil, wrapSyntax(err)
	}
	return arr, nil
}

func wrapSyntax(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, ErrInvalidJSON) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
}

// parseLiteral returns the scalar whose canonical text is exactly text.
func parseLiteral(text string) (*Scalar, bool) {
	v, err := Parse([]byte(text))
	if err != nil {
		return nil, false
	}
	s, ok := v.(*Scalar)
	if !ok || s.Canonical() != text {
		return nil, false
	}
	return s, true
}
