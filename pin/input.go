package pin

import (
	"github.com/castforge/castforge/data"
)

// DefaultQueueBound is the default number of buffered data references an
// Input holds before Push blocks, to discourage unbounded queues.
// Low-latency pipelines use a smaller bound.
const DefaultQueueBound = 32

// LowLatencyQueueBound is used by Pipelines with the low-latency flag set.
const LowLatencyQueueBound = 4

// Owner is the minimal hook an Input needs back into the Module (or
// PipelinedModule wrapper) that owns it, to schedule downstream dispatch
// after data lands.
type Owner interface {
	// Process is invoked after a Push, unless the pipeline layer schedules
	// it through an executor instead (the PipelinedInput wrapper does this;
	// a bare Module used standalone may leave this nil).
	Process()
}

// Input is a bounded FIFO of data references plus a reference to the Module
// it feeds.
type Input struct {
	index int
	ch    chan *data.Data
	owner Owner
}

// NewInput allocates an Input with the given queue bound and owning Module.
// owner may be nil for inputs driven purely through Pop/TryPop (e.g. in
// tests), in which case Push never triggers Process.
func NewInput(index int, bound int, owner Owner) *Input {
	if bound <= 0 {
		bound = DefaultQueueBound
	}
	return &Input{index: index, ch: make(chan *data.Data, bound), owner: owner}
}

// Index returns this Input's position in its Module's input list.
func (in *Input) Index() int { return in.index }

// Push enqueues d, blocking if the FIFO is full, then invokes the owner's
// Process hook if one was given. A nil d is the end-of-stream sentinel and
// is enqueued like any other value.
func (in *Input) Push(d *data.Data) int {
	in.ch <- d
	if in.owner != nil {
		in.owner.Process()
	}
	return 0
}

// Pop dequeues the next data reference, blocking while empty.
func (in *Input) Pop() *data.Data {
	return <-in.ch
}

// TryPop dequeues without blocking. Returns false if the FIFO was empty.
func (in *Input) TryPop() (*data.Data, bool) {
	select {
	case d := <-in.ch:
		return d, true
	default:
		return nil, false
	}
}

// Len reports how many data references are currently queued.
func (in *Input) Len() int {
	return len(in.ch)
}

// Cap reports the Input's configured queue bound.
func (in *Input) Cap() int {
	return cap(in.ch)
}
