package jsontree

import (
	"strconv"
	"strings"
)

// Shape describes the structure of v with every scalar replaced by "_".
// Two trees have the same shape when their keys, key order, array lengths
// and node kinds match at every position.
func Shape(v Value) string {
	var sb strings.Builder
	writeShape(&sb, v)
	return sb.String()
}

// SameShape reports whether a and b differ only in scalar content.
func SameShape(a, b Value) bool {
	return Shape(a) == Shape(b)
}

func writeShape(sb *strings.Builder, v Value) {
	if isNil(v) {
		sb.WriteString("<nil>")
		return
	}

	switch n := v.(type) {
	case *Object:
		sb.WriteByte('{')
		for i, m := range n.members {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quote(m.Key))
			sb.WriteByte(':')
			writeShape(sb, m.Value)
		}
		sb.WriteByte('}')
	case *Array:
		sb.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeShape(sb, item)
		}
		sb.WriteByte(']')
	case *Scalar:
		sb.WriteByte('_')
	}
}

// Leaves counts the scalars in v.
func Leaves(v Value) int {
	if isNil(v) {
		return 0
	}

	switch n := v.(type) {
	case *Object:
		total := 0
		for _, m := range n.members {
			total += Leaves(m.Value)
		}
		return total
	case *Array:
		total := 0
		for _, item := range n.items {
			total += Leaves(item)
		}
		return total
	}
	return 1
}

// FirstLeaf returns the first scalar in traversal order and its pointer.
func FirstLeaf(v Value) (*Scalar, string, bool) {
	return firstLeaf(v, "")
}

func firstLeaf(v Value, pointer string) (*Scalar, string, bool) {
	if isNil(v) {
		return nil, "", false
	}

	switch n := v.(type) {
	case *Object:
		for _, m := range n.members {
			if s, p, ok := firstLeaf(m.Value, childPointer(pointer, m.Key)); ok {
				return s, p, true
			}
		}
	case *Array:
		for i, item := range n.items {
			if s, p, ok := firstLeaf(item, childPointer(pointer, strconv.Itoa(i))); ok {
				return s, p, true
			}
		}
	case *Scalar:
		return n, pointer, true
	}
	return nil, "", false
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// childPointer appends one reference token to a JSON pointer (RFC 6901).
func childPointer(parent, token string) string {
	return parent + "/" + pointerEscaper.Replace(token)
}
