package in

import (
	"github.com/castforge/castforge/clock"
	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/module"
	"github.com/castforge/castforge/pin"
	"github.com/castforge/castforge/signal"
)

// Generator is a synthetic source module.Module emitting count fixed-size,
// timestamped buffers, used to exercise the pipeline without real media
// files (original_source's Modules::In::SoundGenerator), e.g. the order-
// preservation and backpressure scenarios.
type Generator struct {
	module.Base
	out *pin.Output
	clk *clock.Clock

	bufSize int
	count   int
	emitted int
}

// NewGenerator builds a source that emits count buffers of bufSize bytes,
// the i-th stamped with i milliseconds expressed in the clock's ticks.
func NewGenerator(count, bufSize int, clk *clock.Clock, poolCapacity int) *Generator {
	if clk == nil {
		clk = clock.New(clock.Rate)
	}
	g := &Generator{clk: clk, bufSize: bufSize, count: count}
	g.out = pin.NewOutput(0, signal.SyncPolicy[*data.Data, int]{}, signal.ResultNone, poolCapacity, nil)
	g.AddOutput(g.out)
	return g
}

// Output returns the single output pin buffers are emitted on.
func (g *Generator) Output() *pin.Output { return g.out }

// Process emits the next synthetic buffer, or returns module.ErrEndOfStream
// once count buffers have been produced.
func (g *Generator) Process(_ int, _ *data.Data) error {
	if err := g.CheckClosed(); err != nil {
		return err
	}
	if g.emitted >= g.count {
		return module.ErrEndOfStream
	}
	buf := g.out.GetBuffer(g.bufSize)
	buf.SetTimestamp(int64(g.emitted) * g.clk.Rate() / 1000)
	buf.SetKind(data.KindAudio)
	g.emitted++
	return g.out.Emit(buf)
}

// Flush is a no-op: Generator holds no external resources.
func (g *Generator) Flush() error { return nil }
