// Package rc provides reference-counted immutable text buffers.
//
// A Str is a handle on a buffer shared by every holder that retained it. The
// buffer is freed when the last holder releases it and its Pool counts the
// free. Strings already read from the buffer stay valid after that.
//
// Counting is not atomic. A Str and all of its retained handles must stay on
// one goroutine, the same way a render loop owns its widget tree.
package rc

// releasedMsg is the panic value for reads and releases after the count hit zero.
const releasedMsg = "rc: use of released buffer"

type buffer struct {
	text string
	refs int
	pool *Pool
}

// Str is a handle on a shared immutable text buffer.
//
// Copying a Str by assignment borrows the same reference; only Retain
// creates a new owner that must be paired with a Release.
// The zero Str is invalid and reads as the empty string.
type Str struct {
	b *buffer
}

// New adopts s into a buffer from the default pool with a count of one.
// The bytes of s are not copied.
func New(s string) Str {
	return Default.New(s)
}

// Copy copies b once into a buffer from the default pool with a count of one.
func Copy(b []byte) Str {
	return Default.Copy(b)
}

// live returns the buffer, panicking if the handle outlived its last reference.
func (s Str) live() *buffer {
	if s.b == nil {
		return nil
	}
	if s.b.refs <= 0 {
		panic(releasedMsg)
	}
	return s.b
}

// Valid reports whether s refers to a buffer.
func (s Str) Valid() bool {
	return s.b != nil
}

// String returns the buffer content.
func (s Str) String() string {
	b := s.live()
	if b == nil {
		return ""
	}
	return b.text
}

// Len returns the content length in bytes.
func (s Str) Len() int {
	return len(s.String())
}

// RefCount returns the number of live references, zero once freed.
func (s Str) RefCount() int {
	if s.b == nil {
		return 0
	}
	return s.b.refs
}

// Retain adds a reference and returns the new owning handle.
func (s Str) Retain() Str {
	b := s.live()
	if b == nil {
		return Str{}
	}
	b.refs++
	return s
}

// Release drops one reference. The buffer is freed when the count reaches zero.
func (s Str) Release() {
	b := s.live()
	if b == nil {
		return
	}
	b.refs--
	if b.refs == 0 {
		b.free()
	}
}

// Same reports whether s and o share one buffer.
func (s Str) Same(o Str) bool {
	return s.b == o.b
}

// Equal reports whether s and o hold the same bytes.
func (s Str) Equal(o Str) bool {
	return s.String() == o.String()
}

func (b *buffer) free() {
	b.text = ""
	b.pool.freed++
}
