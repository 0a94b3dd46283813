// Package in collects source modules: File reads chunks off disk, Generator
// synthesizes timestamped buffers for tests, grounded on
// original_source's modules/src/in/file.cpp and in/sound_generator.hpp.
package in

import (
	"io"
	"os"

	"github.com/castforge/castforge/clock"
	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/module"
	"github.com/castforge/castforge/pin"
	"github.com/castforge/castforge/signal"
)

// ChunkSize is the read granularity for File, matching original_source's
// IOSIZE (64KiB): downstream modules that cannot reassemble fragmented
// reads on their own need to account for this.
const ChunkSize = 64 * 1024

// File is a source module.Module that streams a file's contents in
// ChunkSize-sized buffers (original_source's Modules::In::File).
type File struct {
	module.Base
	out *pin.Output
	f   *os.File
	clk *clock.Clock
}

// NewFile opens path for reading and returns a ready-to-run source.
// clk timestamps each emitted chunk; a nil clk uses clock.Rate.
func NewFile(path string, clk *clock.Clock, poolCapacity int) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New(clock.Rate)
	}
	file := &File{f: f, clk: clk}
	file.out = pin.NewOutput(0, signal.SyncPolicy[*data.Data, int]{}, signal.ResultNone, poolCapacity, nil)
	file.AddOutput(file.out)
	return file, nil
}

// Output returns the single output pin chunks are emitted on.
func (fl *File) Output() *pin.Output { return fl.out }

// Process reads and emits the next chunk. Source modules are polled with
// (module.SourceInput, nil); see pipeline.PipelinedModule.runSource.
func (fl *File) Process(_ int, _ *data.Data) error {
	if err := fl.CheckClosed(); err != nil {
		return err
	}
	buf := fl.out.GetBuffer(ChunkSize)
	n, err := fl.f.Read(buf.Bytes())
	if n > 0 {
		buf.Resize(n)
		buf.SetTimestamp(fl.clk.Now())
		if emitErr := fl.out.Emit(buf); emitErr != nil {
			return emitErr
		}
	} else {
		buf.Unref()
	}
	if err == io.EOF || n == 0 {
		return module.ErrEndOfStream
	}
	if err != nil {
		return err
	}
	return nil
}

// Flush closes the underlying file.
func (fl *File) Flush() error {
	return fl.f.Close()
}
