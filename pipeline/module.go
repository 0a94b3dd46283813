// Package pipeline implements the executor that drives plain module.Module
// implementations concurrently: PipelinedModule schedules delegate.Process
// calls onto a worker pool whenever data lands on one of its wrapped inputs,
// propagates end-of-stream across the graph, and a Pipeline coordinates
// source startup and sink-completion counting via a mutex/condvar, mirroring
// original_source's Filter::process()/PipelinedModule dispatch loop and the
// Stream::dispatch()/finished() callback pair.
package pipeline

import (
	"sync"

	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/module"
	"github.com/castforge/castforge/pin"
	"github.com/castforge/castforge/signal"
	"github.com/rs/zerolog"
)

// PipelinedModule wraps a user module.Module so pushes onto its inputs are
// dispatched asynchronously through a shared executor instead of calling the
// delegate inline on the producer's goroutine.
type PipelinedModule struct {
	log      *zerolog.Logger
	delegate module.Module
	pipeline *Pipeline
	executor *signal.WorkerPool

	mu       sync.Mutex
	inputs   []*PipelinedInput
	eosLeft  int // number of distinct inputs still awaiting EOS
	finished bool

	// dispatchMu serialises dispatch so the delegate sees one Process call at
	// a time, each input's data in the order it was pushed.
	dispatchMu sync.Mutex
}

// newPipelinedModule wraps delegate for use inside p. The executor defaults
// to the Pipeline's shared worker pool; call SetExecutor before Start to
// give a module its own DedicatedWorker instead.
func newPipelinedModule(p *Pipeline, delegate module.Module, log *zerolog.Logger) *PipelinedModule {
	pm := &PipelinedModule{
		log:      log,
		delegate: delegate,
		pipeline: p,
		executor: p.sharedPool,
	}
	bound := pin.DefaultQueueBound
	if p.lowLatency {
		bound = pin.LowLatencyQueueBound
	}
	for _, raw := range delegate.Inputs() {
		pm.inputs = append(pm.inputs, newPipelinedInput(pm, raw.Index(), bound))
	}
	pm.eosLeft = len(pm.inputs)
	return pm
}

// SetExecutor overrides the worker pool this module's dispatches run on,
// e.g. a DedicatedWorker pool for a module that must not share a thread with
// others.
func (pm *PipelinedModule) SetExecutor(pool *signal.WorkerPool) {
	pm.mu.Lock()
	pm.executor = pool
	pm.mu.Unlock()
}

// Delegate returns the wrapped Module.
func (pm *PipelinedModule) Delegate() module.Module { return pm.delegate }

// Input returns the PipelinedInput at index i, the pin an upstream Output
// should Connect to via its Raw().Push.
func (pm *PipelinedModule) Input(i int) *PipelinedInput {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.inputs[i]
}

// IsSource reports whether the delegate declares no inputs.
func (pm *PipelinedModule) IsSource() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return len(pm.inputs) == 0
}

// schedule is called by a PipelinedInput's Process hook right after a push;
// it submits the actual dispatch to the executor so the producer's Push call
// returns immediately.
func (pm *PipelinedModule) schedule(inputIndex int) {
	pool := pm.executor
	pool.Submit(func() {
		pm.dispatch(inputIndex)
	})
}

// dispatch pops the next datum from the given input and drives the delegate
// with it, handling end-of-stream bookkeeping.
func (pm *PipelinedModule) dispatch(inputIndex int) {
	pm.dispatchMu.Lock()
	defer pm.dispatchMu.Unlock()

	pm.mu.Lock()
	in := pm.inputs[inputIndex]
	pm.mu.Unlock()

	d := in.pop()

	if err := pm.delegate.Process(inputIndex, d); err != nil {
		if pm.log != nil {
			pm.log.Error().Err(err).Msg("module process failed")
		}
	}
	d.Unref()

	if data.IsEOS(d) {
		if in.gotEOS.CompareAndSwap(false, true) {
			pm.mu.Lock()
			pm.eosLeft--
			allDone := pm.eosLeft <= 0
			pm.mu.Unlock()
			if allDone {
				pm.finish()
			}
		}
	}
}

// runSource drives a source module (len(inputs) == 0) by repeatedly polling
// it with a null datum until it reports module.ErrEndOfStream, or the owning
// Pipeline's ExitSync requests shutdown.
func (pm *PipelinedModule) runSource() {
	for {
		if pm.pipeline.cancelled.Load() {
			pm.finish()
			return
		}
		err := pm.delegate.Process(module.SourceInput, nil)
		if err == module.ErrEndOfStream {
			pm.finish()
			return
		}
		if err != nil {
			if pm.log != nil {
				pm.log.Error().Err(err).Msg("source process failed")
			}
			pm.finish()
			return
		}
	}
}

// finish flushes the delegate, propagates end-of-stream to every output,
// destroys the delegate, and notifies the owning Pipeline if this module is
// a sink.
func (pm *PipelinedModule) finish() {
	pm.mu.Lock()
	if pm.finished {
		pm.mu.Unlock()
		return
	}
	pm.finished = true
	pm.mu.Unlock()

	if err := pm.delegate.Flush(); err != nil {
		if pm.log != nil {
			pm.log.Error().Err(err).Msg("module flush failed")
		}
	}
	outputs := pm.delegate.Outputs()
	for _, o := range outputs {
		_ = o.Emit(nil)
	}
	pm.delegate.Destroy()

	if len(outputs) == 0 {
		pm.pipeline.notifySinkFinished()
	}
}
