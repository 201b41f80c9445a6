package istring

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Text is any string-like or byte-buffer type IString can be compared with.
type Text interface {
	~string | ~[]byte
}

// Equal reports whether s and o hold the same bytes.
func (s IString) Equal(o IString) bool {
	return s.String() == o.String()
}

// EqualString reports whether s holds t.
func (s IString) EqualString(t string) bool {
	return s.String() == t
}

// EqualStringPtr reports whether s holds *t. A nil pointer is never equal.
func (s IString) EqualStringPtr(t *string) bool {
	return t != nil && s.String() == *t
}

// EqualBytes reports whether s holds the bytes of b.
func (s IString) EqualBytes(b []byte) bool {
	return string(b) == s.String()
}

// EqualBuilder reports whether s holds the contents of b. A nil builder is never equal.
func (s IString) EqualBuilder(b *strings.Builder) bool {
	return b != nil && s.String() == b.String()
}

// Eq compares s with any string-like or byte-buffer value.
func Eq[T Text](s IString, t T) bool {
	return s.String() == string(t)
}

// Compare orders a and b by content, returning -1, 0 or +1.
func Compare(a, b IString) int {
	return strings.Compare(a.String(), b.String())
}

// Hash returns the xxhash64 of the content.
func (s IString) Hash() uint64 {
	return xxhash.Sum64String(s.String())
}

// WriteHash feeds the content into d.
func (s IString) WriteHash(d *xxhash.Digest) {
	_, _ = d.WriteString(s.String())
}
