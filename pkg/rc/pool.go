package rc

// Default is the pool used by New and Copy.
var Default = NewPool()

// Stats is a snapshot of pool bookkeeping.
type Stats struct {
	// Allocated counts buffers created by the pool.
	Allocated int
	// Freed counts buffers whose count reached zero.
	Freed int
	// Live is Allocated minus Freed.
	Live int
}

// Pool creates buffers and accounts for their lifetimes. Text handed out by
// a buffer is an ordinary Go string, so freeing a buffer never touches bytes
// a reader may still hold; it only drops the buffer's reference to them.
type Pool struct {
	allocated int
	freed     int
}

// NewPool creates a pool.
func NewPool() *Pool {
	return &Pool{}
}

// New adopts s without copying its bytes.
func (p *Pool) New(s string) Str {
	p.allocated++
	return Str{b: &buffer{text: s, refs: 1, pool: p}}
}

// Copy copies b once into an immutable string.
func (p *Pool) Copy(b []byte) Str {
	return p.New(string(b))
}

// Stats returns the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Allocated: p.allocated,
		Freed:     p.freed,
		Live:      p.allocated - p.freed,
	}
}
