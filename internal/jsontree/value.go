package jsontree

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value is a JSON node: *Object, *Array or *Scalar.
type Value interface {
	isValue()
}

// Kind identifies the type of a scalar.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Scalar is a JSON leaf. Text holds the decoded content for strings and
// the literal for numbers, booleans and null.
type Scalar struct {
	Kind Kind
	Text string
}

// String returns a string scalar.
func String(s string) *Scalar { return &Scalar{Kind: KindString, Text: s} }

// Number returns a number scalar from its literal, e.g. "1.50".
func Number(literal string) *Scalar { return &Scalar{Kind: KindNumber, Text: literal} }

// Bool returns a boolean scalar.
func Bool(b bool) *Scalar { return &Scalar{Kind: KindBool, Text: strconv.FormatBool(b)} }

// Null returns the null scalar.
func Null() *Scalar { return &Scalar{Kind: KindNull, Text: "null"} }

// Canonical returns the scalar as a JSON literal.
func (s *Scalar) Canonical() string {
	if s.Kind == KindString {
		return quote(s.Text)
	}
	return s.Text
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object that remembers insertion order.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject returns an object holding members in order. Later duplicates
// replace the value of an earlier key without moving it.
func NewObject(members ...Member) *Object {
	o := &Object{index: make(map[string]int, len(members))}
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return o
}

// Set adds key or replaces its value in place.
func (o *Object) Set(key string, v Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.members) }

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Members returns a copy of the members in insertion order.
func (o *Object) Members() []Member {
	return append([]Member(nil), o.members...)
}

// Array is a JSON array.
type Array struct {
	items []Value
}

// NewArray returns an array holding items in order.
func NewArray(items ...Value) *Array {
	return &Array{items: append([]Value(nil), items...)}
}

// Append adds v to the end of the array.
func (a *Array) Append(v Value) { a.items = append(a.items, v) }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.items) }

// At returns the element at index i.
func (a *Array) At(i int) Value { return a.items[i] }

// Items returns a copy of the elements.
func (a *Array) Items() []Value {
	return append([]Value(nil), a.items...)
}

func (*Object) isValue() {}
func (*Array) isValue()  {}
func (*Scalar) isValue() {}

// isNil reports whether v is absent, including typed nil pointers.
func isNil(v Value) bool {
	switch n := v.(type) {
	case nil:
		return true
	case *Object:
		return n == nil
	case *Array:
		return n == nil
	case *Scalar:
		return n == nil
	}
	return false
}

// Equal reports whether a and b have the same shape and the same scalar
// kinds and text.
func Equal(a, b Value) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i := range x.members {
			if x.members[i].Key != y.members[i].Key || !Equal(x.members[i].Value, y.members[i].Value) {
				return false
			}
		}
		return true
	case *Array:
		y, ok := b.(*Array)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}
		return true
	case *Scalar:
		y, ok := b.(*Scalar)
		return ok && *x == *y
	}
	return false
}

// quote encodes s as a JSON string literal without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// encoding a string cannot fail
	_ = enc.Encode(s)
	return string(bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}))
}
