package data

import (
	"sync"
)

// DefaultCapacity is the default maximum outstanding buffer count.
const DefaultCapacity = 10

// Pool is a per-output-pin free list of Data buffers with a maximum
// outstanding count, providing backpressure on the producer side.
// Safe for concurrent use: Acquire may be called from the owning module's
// executor while release (via Data.Unref) happens from whichever goroutine
// drops the last reference.
type Pool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	free     []*Data
	capacity int
	outstand int // buffers currently acquired and not yet released
}

// NewPool returns a Pool bounding outstanding buffers to capacity.
// capacity <= 0 uses DefaultCapacity.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	p := &Pool{capacity: capacity}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Acquire returns a buffer of the given size, blocking while the pool is at
// capacity. The returned Data carries a single reference; call Unref when done, which
// returns it to this pool.
func (p *Pool) Acquire(size int) *Data {
	p.mu.Lock()
	for p.outstand >= p.capacity && len(p.free) == 0 {
		p.cond.Wait()
	}
	var d *Data
	if n := len(p.free); n > 0 {
		d = p.free[n-1]
		p.free = p.free[:n-1]
		d.Resize(size)
		d.refs.Store(1)
	} else {
		d = newData(size, p)
	}
	p.outstand++
	p.mu.Unlock()
	return d
}

// release returns d to the free list. Called from Data.Unref when the last
// reference drops.
func (p *Pool) release(d *Data) {
	p.mu.Lock()
	p.outstand--
	p.free = append(p.free, d)
	p.mu.Unlock()
	p.cond.Signal()
}

// Len returns the number of buffers currently sitting in the free list.
// Buffers are allocated lazily by Acquire, so once every buffer has been
// released this equals the number of buffers allocated so far (at most
// Capacity), not necessarily Capacity; Outstanding() == 0 is the no-leak
// check.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Outstanding returns the number of buffers acquired but not yet released.
func (p *Pool) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outstand
}

// Capacity returns the pool's configured maximum outstanding count.
func (p *Pool) Capacity() int {
	return p.capacity
}
