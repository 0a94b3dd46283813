// Package codec holds transform-module stand-ins: Encoder wires a pluggable
// EncodeFunc into the pin/buffer-pool/output-emit machinery, grounded on
// original_source's modules/src/encode/jpegturbo_encode.cpp. The codec body
// itself (real bitstream encode) is out of scope here.
package codec

import (
	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/module"
	"github.com/castforge/castforge/pin"
	"github.com/castforge/castforge/signal"
)

// EncodeFunc transforms one input buffer into zero or one output buffers.
// Returning nil, nil drops the input without emitting (e.g. while buffering
// enough samples/frames to produce one output unit).
type EncodeFunc func(out *pin.Output, in *data.Data) (*data.Data, error)

// Encoder is a single-input, single-output transform module.Module that
// calls a pluggable EncodeFunc per buffer (original_source's
// Modules::Encode::JPEGTurboEncode, generalized beyond one codec).
type Encoder struct {
	module.Base
	in  *pin.Input
	out *pin.Output
	fn  EncodeFunc
}

// NewEncoder builds an Encoder calling fn for every received buffer.
func NewEncoder(fn EncodeFunc, queueBound, poolCapacity int) *Encoder {
	e := &Encoder{fn: fn}
	e.in = e.AddInput(nil, queueBound)
	e.out = pin.NewOutput(0, signal.SyncPolicy[*data.Data, int]{}, signal.ResultNone, poolCapacity, nil)
	e.AddOutput(e.out)
	return e
}

// Input returns the single input pin upstream should connect to.
func (e *Encoder) Input() *pin.Input { return e.in }

// Output returns the single output pin encoded buffers are emitted on.
func (e *Encoder) Output() *pin.Output { return e.out }

// Process runs fn on d and emits its result, if any. End-of-stream is
// forwarded unchanged.
func (e *Encoder) Process(_ int, d *data.Data) error {
	if err := e.CheckClosed(); err != nil {
		return err
	}
	if data.IsEOS(d) {
		return e.out.Emit(nil)
	}
	res, err := e.fn(e.out, d)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}
	return e.out.Emit(res)
}

// Flush is a no-op: any pending output is expected to have been emitted by
// Process already.
func (e *Encoder) Flush() error { return nil }
