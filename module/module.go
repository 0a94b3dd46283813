// Package module defines the Module contract: a unit of processing that
// declares input/output pins and implements process, flush, destroy.
// Grounded on original_source's modules/internal/module.hpp (IModule/Module
// split, the destroy-before-teardown protocol), unified here into a single
// interface rather than a separate synchronous variant.
package module

import (
	"errors"
	"sync"

	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/pin"
)

// ErrClosed is returned by Process when called after Destroy: a recoverable
// error instead of an assertion for what would otherwise be a shutdown race.
var ErrClosed = errors.New("module: process called after destroy")

// State is a Module's lifecycle stage: idle, running, or flushed.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateFlushed
)

// Module is the contract external collaborators (codec/IO authors) implement.
// SourceInput is passed as the input index to Process by modules with no
// declared inputs (sources are polled rather than fed through a pin).
const SourceInput = -1

type Module interface {
	// Process consumes one datum arriving on the given input index (nil
	// means end-of-stream on that input) and emits zero or more buffers onto
	// its output pins. Source modules (no declared inputs) are polled with
	// (SourceInput, nil).
	Process(inputIndex int, d *data.Data) error

	// Flush drains any buffered internal state upon end-of-stream.
	Flush() error

	// Destroy breaks outbound callback references before destruction. It is
	// called after Flush, before the Module is dropped; calling it again is
	// a no-op for modules embedding Base.
	Destroy()

	// Inputs returns the Module's declared input pins, in order.
	Inputs() []*pin.Input

	// Outputs returns the Module's declared output pins, in order.
	Outputs() []*pin.Output
}

// Base implements the bookkeeping common to every concrete Module
// (pin lists, state, the destroy-idempotency guard) so codec/IO authors
// only need to embed Base and implement Process.
type Base struct {
	mu        sync.Mutex
	state     State
	inputs    []*pin.Input
	outputs   []*pin.Output
	destroyed bool
}

// AddInput declares an input pin, assigning it the next index.
func (b *Base) AddInput(owner pin.Owner, bound int) *pin.Input {
	b.mu.Lock()
	defer b.mu.Unlock()
	in := pin.NewInput(len(b.inputs), bound, owner)
	b.inputs = append(b.inputs, in)
	return in
}

// AddOutput declares an output pin, assigning it the next index. Callers
// build the pin.Output themselves (its Signal policy varies per use) and
// register it here so Outputs()/IsSink() see it.
func (b *Base) AddOutput(out *pin.Output) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outputs = append(b.outputs, out)
}

// Inputs returns the declared input pins.
func (b *Base) Inputs() []*pin.Input {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inputs
}

// Outputs returns the declared output pins.
func (b *Base) Outputs() []*pin.Output {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.outputs
}

// IsSource reports whether this Module has no declared inputs. Only the
// number of inputs is considered: a module with a single input that accepts
// any payload is not classified as a source, and pipeline.PipelinedModule
// attaches no synthetic input to sources.
func (b *Base) IsSource() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.inputs) == 0
}

// IsSink reports whether this Module has no declared outputs.
func (b *Base) IsSink() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.outputs) == 0
}

// State returns the Module's current lifecycle state.
func (b *Base) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// SetState transitions the Module's lifecycle state. Concrete Modules call
// this from Process (idle -> running) and Flush (running -> flushed).
func (b *Base) SetState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

// Closed reports whether Destroy has already run.
func (b *Base) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.destroyed
}

// CheckClosed returns ErrClosed if Destroy has already run, nil otherwise.
// Concrete Modules call this at the top of Process so a call arriving after
// teardown fails cleanly instead of touching closed output Signals.
func (b *Base) CheckClosed() error {
	if b.Closed() {
		return ErrClosed
	}
	return nil
}

// Destroy closes every output pin's Signal, breaking any callback cycle
// between a module and its downstream connections. Safe to call more than
// once: only the first call has any effect.
func (b *Base) Destroy() {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	b.destroyed = true
	outputs := b.outputs
	b.outputs = nil
	b.mu.Unlock()

	for _, o := range outputs {
		o.Close()
	}
}
