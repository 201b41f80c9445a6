// Package istring provides IString, an immutable text value that is cheap to
// clone, compare and pass through attribute pipelines.
//
// An IString is either static, pointing at text with process lifetime such
// as a string literal, or shared, holding a reference on an rc buffer.
// Equality and hashing depend only on the bytes, never on the variant:
//
//	var label = istring.Static("Save")
//
//	name := istring.FromString(userName)
//	defer name.Release()
//
//	label.EqualString("Save") // true
//	label.Equal(name)         // content comparison
//
// The == operator compares representations, not content; use Equal.
// The zero IString is the empty static value.
//
// Assigning an IString borrows it. Clone creates a new owner in O(1) without
// touching the bytes, and every owner of a shared value calls Release once.
// Like rc, reference counting is single-goroutine.
package istring

import (
	"strings"

	"github.com/conneroisu/istring/pkg/attr"
	"github.com/conneroisu/istring/pkg/rc"
)

type variant uint8

const (
	variantStatic variant = iota
	variantShared
)

// IString is an immutable text value.
type IString struct {
	kind   variant
	static string
	shared rc.Str
}

// Static wraps text with process lifetime. It never allocates.
func Static(s string) IString {
	return IString{static: s}
}

// FromString adopts an owned string as a shared value with one reference.
// Go strings are immutable, so the bytes are not copied.
func FromString(s string) IString {
	return IString{kind: variantShared, shared: rc.New(s)}
}

// FromBytes copies b once into a shared value with one reference.
func FromBytes(b []byte) IString {
	return IString{kind: variantShared, shared: rc.Copy(b)}
}

// FromBuilder adopts the contents of b without copying and resets b.
// A nil builder yields the empty static value.
func FromBuilder(b *strings.Builder) IString {
	if b == nil {
		return IString{}
	}
	s := b.String()
	b.Reset()
	return FromString(s)
}

// FromShared shares an existing buffer, adding a reference to it.
// The caller keeps its own reference.
func FromShared(s rc.Str) IString {
	if !s.Valid() {
		return IString{}
	}
	return IString{kind: variantShared, shared: s.Retain()}
}

// FromAttr maps an attribute value tag for tag: static values stay static
// and shared values share the same buffer.
func FromAttr(v attr.Value) IString {
	if buf, ok := v.Buffer(); ok {
		return FromShared(buf)
	}
	text, _ := v.StaticText()
	return Static(text)
}

// Attr maps s to an attribute value owned by the caller, tag for tag and
// without copying.
func (s IString) Attr() attr.Value {
	if s.kind == variantShared {
		return attr.Shared(s.shared.Retain())
	}
	return attr.Static(s.static)
}

// IntoAttr implements attr.Into.
func (s IString) IntoAttr() attr.Value {
	return s.Attr()
}

// IsStatic reports whether s holds process-lifetime text.
func (s IString) IsStatic() bool {
	return s.kind == variantStatic
}

// IsShared reports whether s holds a reference-counted buffer.
func (s IString) IsShared() bool {
	return s.kind == variantShared
}

// String returns the text. The view is read-only and identical for both variants.
func (s IString) String() string {
	if s.kind == variantShared {
		return s.shared.String()
	}
	return s.static
}

// Len returns the length in bytes.
func (s IString) Len() int {
	return len(s.String())
}

// IsEmpty reports whether s holds no bytes.
func (s IString) IsEmpty() bool {
	return s.Len() == 0
}

// Clone returns a new owner of the same text in O(1).
func (s IString) Clone() IString {
	if s.kind == variantShared {
		return IString{kind: variantShared, shared: s.shared.Retain()}
	}
	return s
}

// Release drops the reference held by s. It is a no-op for static values.
func (s IString) Release() {
	if s.kind == variantShared {
		s.shared.Release()
	}
}
