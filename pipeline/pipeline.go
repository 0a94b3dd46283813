package pipeline

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/castforge/castforge/module"
	"github.com/castforge/castforge/signal"
	"github.com/rs/zerolog"
)

// Pipeline owns a set of PipelinedModules, wires them together, drives every
// source, and blocks until every sink has reported completion. Completion
// is tracked with a mutex/condvar-guarded counter, mirroring
// original_source's Signals::PipelinedModule completion notification.
type Pipeline struct {
	log        *zerolog.Logger
	lowLatency bool
	sharedPool *signal.WorkerPool

	cancelled atomic.Bool

	mu        sync.Mutex
	cond      *sync.Cond
	modules   []*PipelinedModule
	remaining int
	started   bool
	done      bool
}

// New builds an empty Pipeline. lowLatency shrinks every module's input
// queue bound. A nil logger defaults to a no-op logger.
func New(lowLatency bool, log *zerolog.Logger) *Pipeline {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	p := &Pipeline{
		log:        log,
		lowLatency: lowLatency,
		sharedPool: signal.NewWorkerPool(runtime.GOMAXPROCS(0)),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// AddModule wraps delegate in a PipelinedModule and registers it with this
// Pipeline. Sink modules (no outputs) increment the completion counter that
// ExitSync/Wait block on.
func (p *Pipeline) AddModule(delegate module.Module) *PipelinedModule {
	pm := newPipelinedModule(p, delegate, p.log)

	p.mu.Lock()
	p.modules = append(p.modules, pm)
	if len(delegate.Outputs()) == 0 {
		p.remaining++
	}
	p.mu.Unlock()

	return pm
}

// Connect wires output outIdx of src to input inIdx of dst.
func (p *Pipeline) Connect(src *PipelinedModule, outIdx int, dst *PipelinedModule, inIdx int) error {
	outs := src.Delegate().Outputs()
	if outIdx < 0 || outIdx >= len(outs) {
		return ErrInvalidConnection
	}
	dst.mu.Lock()
	inCount := len(dst.inputs)
	dst.mu.Unlock()
	if inIdx < 0 || inIdx >= inCount {
		return ErrInvalidConnection
	}
	outs[outIdx].Connect(dst.Input(inIdx).Raw().Push)
	return nil
}

// Start launches every source module's drive loop on its own goroutine.
// Non-source modules are driven reactively by PipelinedInput.Process and
// need no goroutine of their own.
func (p *Pipeline) Start() {
	p.mu.Lock()
	p.started = true
	modules := append([]*PipelinedModule(nil), p.modules...)
	empty := p.remaining == 0
	p.mu.Unlock()

	if empty {
		p.mu.Lock()
		p.done = true
		p.cond.Broadcast()
		p.mu.Unlock()
		return
	}

	for _, pm := range modules {
		if pm.IsSource() {
			go pm.runSource()
		}
	}
}

// notifySinkFinished decrements the completion counter and wakes any
// goroutine blocked in Wait/ExitSync once every sink has finished.
func (p *Pipeline) notifySinkFinished() {
	p.mu.Lock()
	p.remaining--
	if p.remaining <= 0 {
		p.done = true
		p.cond.Broadcast()
	}
	p.mu.Unlock()
}

// Wait blocks until every sink module has finished.
func (p *Pipeline) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for !p.done {
		p.cond.Wait()
	}
}

// ExitSync requests shutdown and blocks until the pipeline has drained.
// It sets the cancellation flag every running source's drive loop checks
// between Process calls, so a source that has not reached end-of-stream on
// its own stops at its next poll instead of running forever; it then waits
// for that shutdown to propagate through the graph (mirroring natural
// end-of-stream completion) and releases the shared worker pool. Safe to
// call concurrently with Start's goroutines still running. A source whose
// own Process call is itself blocked (e.g. on a slow read) only stops once
// that call returns; there is no preemption of in-flight work.
func (p *Pipeline) ExitSync() {
	p.cancelled.Store(true)
	p.Wait()
	p.sharedPool.Close()
}

// Running reports whether Start has been called.
func (p *Pipeline) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}
