package pipeline

import (
	"sync/atomic"

	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/pin"
)

// PipelinedInput wraps a raw pin.Input so a Push onto it schedules the
// owning PipelinedModule's dispatch through the pipeline's executor instead
// of calling back synchronously.
type PipelinedInput struct {
	raw     *pin.Input
	owner   *PipelinedModule
	index   int
	gotEOS  atomic.Bool
}

func newPipelinedInput(owner *PipelinedModule, index int, bound int) *PipelinedInput {
	pi := &PipelinedInput{owner: owner, index: index}
	pi.raw = pin.NewInput(index, bound, pi)
	return pi
}

// Process implements pin.Owner: called synchronously inside Push, right
// after a datum lands in the raw FIFO. It hands off to the owning
// PipelinedModule's executor so the actual delegate.Process call happens on
// the pipeline's worker pool rather than on the producer's goroutine.
func (pi *PipelinedInput) Process() {
	pi.owner.schedule(pi.index)
}

// Raw exposes the underlying pin.Input, e.g. so an Output can Connect to
// its Push method.
func (pi *PipelinedInput) Raw() *pin.Input { return pi.raw }

func (pi *PipelinedInput) pop() *data.Data {
	return pi.raw.Pop()
}
