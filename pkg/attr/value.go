// Package attr holds the attribute values and attribute slots of the render layer.
//
// A Value is either static text that lives for the whole process or a shared
// rc buffer. Attribute slots own the values put into them and release them
// when replaced, deleted, or when the whole Set is released.
package attr

import "github.com/conneroisu/istring/pkg/rc"

// Kind identifies the representation of a Value.
type Kind uint8

const (
	// KindStatic is text with process lifetime.
	KindStatic Kind = iota
	// KindShared is text in a reference-counted buffer.
	KindShared
)

// String returns the string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindShared:
		return "shared"
	default:
		return "unknown"
	}
}

// Value is an attribute value.
type Value struct {
	kind   Kind
	static string
	shared rc.Str
}

// Into is implemented by types that can become an attribute value.
// The returned Value is owned by the caller.
type Into interface {
	IntoAttr() Value
}

// Static wraps process-lifetime text.
func Static(s string) Value {
	return Value{kind: KindStatic, static: s}
}

// Shared wraps a buffer, taking over the reference held by s.
// An invalid handle yields the empty static value.
func Shared(s rc.Str) Value {
	if !s.Valid() {
		return Value{}
	}
	return Value{kind: KindShared, shared: s}
}

// Kind returns the representation of v.
func (v Value) Kind() Kind {
	return v.kind
}

// String returns the text of v.
func (v Value) String() string {
	if v.kind == KindShared {
		return v.shared.String()
	}
	return v.static
}

// StaticText returns the static text when v is static.
func (v Value) StaticText() (string, bool) {
	if v.kind != KindStatic {
		return "", false
	}
	return v.static, true
}

// Buffer returns the borrowed buffer when v is shared.
func (v Value) Buffer() (rc.Str, bool) {
	if v.kind != KindShared {
		return rc.Str{}, false
	}
	return v.shared, true
}

// Clone returns a new owner of the same text without copying it.
func (v Value) Clone() Value {
	if v.kind == KindShared {
		return Value{kind: KindShared, shared: v.shared.Retain()}
	}
	return v
}

// Release drops the reference held by v.
func (v Value) Release() {
	if v.kind == KindShared {
		v.shared.Release()
	}
}

// Equal compares by content.
func (v Value) Equal(o Value) bool {
	return v.String() == o.String()
}

// IntoAttr returns a clone of v.
func (v Value) IntoAttr() Value {
	return v.Clone()
}
