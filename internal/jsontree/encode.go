package jsontree

import (
	"bytes"
	"fmt"
)

const indent = "  "

// Marshal renders v as indented JSON with a trailing newline.
func Marshal(v Value) ([]byte, error) {
	if isNil(v) {
		return nil, fmt.Errorf("%w: nothing to marshal", ErrInvalidJSON)
	}

	var buf bytes.Buffer
	if err := writeValue(&buf, v, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v Value, depth int) error {
	if isNil(v) {
		return fmt.Errorf("%w: nil value", ErrInvalidJSON)
	}

	switch n := v.(type) {
	case *Object:
		if n.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, m := range n.members {
			writeIndent(buf, depth+1)
			buf.WriteString(quote(m.Key))
			buf.WriteString(": ")
			if err := writeValue(buf, m.Value, depth+1); err != nil {
				return err
			}
			if i < len(n.members)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte('}')
	case *Array:
		if n.Len() == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range n.items {
			writeIndent(buf, depth+1)
			if err := writeValue(buf, item, depth+1); err != nil {
				return err
			}
			if i < len(n.items)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte(']')
	case *Scalar:
		buf.WriteString(n.Canonical())
	}
	return nil
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString(indent)
	}
}
