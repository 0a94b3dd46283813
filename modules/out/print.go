// Package out collects sink modules: Print logs each buffer it receives,
// File writes each buffer's bytes to disk, grounded on original_source's
// modules/src/out/print.cpp and out/file.hpp.
package out

import (
	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/module"
	"github.com/rs/zerolog"
)

// Print is a sink module.Module that logs the size of every buffer it
// receives (original_source's Modules::Out::Print).
type Print struct {
	module.Base
	log *zerolog.Logger
}

// NewPrint builds a Print sink logging through log (nil defaults to no-op).
func NewPrint(log *zerolog.Logger) *Print {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	p := &Print{log: log}
	p.AddInput(nil, 0)
	return p
}

// Process logs the received buffer's size, or end-of-stream.
func (p *Print) Process(_ int, d *data.Data) error {
	if err := p.CheckClosed(); err != nil {
		return err
	}
	if data.IsEOS(d) {
		p.log.Info().Msg("print: end of stream")
		return nil
	}
	p.log.Info().Int("bytes", len(d.Bytes())).Int64("ts", d.Timestamp()).Msg("print: received data")
	return nil
}

// Flush is a no-op.
func (p *Print) Flush() error { return nil }
