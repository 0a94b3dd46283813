// Package pin implements the typed edges between Modules: an Output owns a
// Signal and a BufferPool; an Input owns a bounded FIFO and a back-reference
// to the Module it feeds.
package pin

import (
	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/signal"
	"github.com/rs/zerolog"
)

// DataFunc is the callback signature an Input's enqueue slot exposes to an
// Output's Signal. The int result is unused by void-style callbacks, by
// convention 0.
type DataFunc = func(*data.Data) int

// DataSignal is the concrete Signal specialization carrying data buffers
// between an Output and every connected Input.
type DataSignal = signal.Signal[*data.Data, int]

// Output is a typed edge source: one Signal fanning out to every connected
// Input, backed by one BufferPool for buffer reuse.
type Output struct {
	log   *zerolog.Logger
	sig   *DataSignal
	pool  *data.Pool
	index int
}

// NewOutput builds an Output with the given policy/result mode for its
// underlying Signal and a BufferPool of the given capacity.
func NewOutput(index int, policy signal.Policy[*data.Data, int], mode signal.ResultMode, poolCapacity int, log *zerolog.Logger) *Output {
	return &Output{
		log:   log,
		sig:   signal.New[*data.Data, int](policy, mode, log),
		pool:  data.NewPool(poolCapacity),
		index: index,
	}
}

// Index returns this Output's position in its Module's output list.
func (o *Output) Index() int { return o.index }

// GetBuffer acquires a buffer of the given size from this Output's pool,
// blocking while the pool is exhausted.
func (o *Output) GetBuffer(size int) *data.Data {
	return o.pool.Acquire(size)
}

// Pool exposes the underlying BufferPool, e.g. so tests can assert on
// Len()/Outstanding() for the no-buffer-leak property.
func (o *Output) Pool() *data.Pool { return o.pool }

// Emit delivers data to every connected Input's enqueue slot via the
// underlying Signal's Emit, in caller order. A nil data is the
// end-of-stream sentinel.
//
// d arrives holding the caller's one reference. Emit distributes that
// reference across every connected Input: it Refs once per additional
// fan-out target, so a buffer wired to N inputs carries N references, one
// per consumer, and the buffer only returns to its pool once every consumer
// has Unreffed its copy. An Output wired to no Input drops the reference
// immediately, since nothing downstream will ever consume it.
func (o *Output) Emit(d *data.Data) error {
	if d != nil {
		if n := o.sig.Len(); n == 0 {
			d.Unref()
		} else {
			for i := 1; i < n; i++ {
				d.Ref()
			}
		}
	}
	_, err := o.sig.Emit(d)
	return err
}

// Connect wires slot (typically an Input's Push) to this Output's Signal,
// returning a connection id usable with Disconnect.
func (o *Output) Connect(slot DataFunc) uint64 {
	return o.sig.Connect(slot)
}

// Disconnect removes a previously Connect-ed slot.
func (o *Output) Disconnect(id uint64) bool {
	return o.sig.Disconnect(id)
}

// NumConnections reports how many Inputs are currently wired to this Output.
func (o *Output) NumConnections() int {
	return o.sig.Len()
}

// Signal exposes the underlying DataSignal for direct wiring.
func (o *Output) Signal() *DataSignal { return o.sig }

// Close shuts down the Output's Signal executor policy.
func (o *Output) Close() { o.sig.Close() }
