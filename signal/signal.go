// Package signal implements the typed many-to-many callback channel at the
// heart of the pipeline runtime: connect/disconnect callbacks, dispatch
// through a pluggable Policy, and aggregate results according to a
// ResultMode. Grounded on original_source's signals/protosignal.hpp
// (connection-id map, emit/results split) and
// signals/internal/core/caller.hpp (the five calling policies).
package signal

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ResultMode selects how per-callback results are aggregated by Results.
type ResultMode int

const (
	// ResultNone discards every result (the default).
	ResultNone ResultMode = iota
	// ResultLast keeps only the value of the last callback dispatched.
	ResultLast
	// ResultQueue collects results into a thread-safe FIFO; producers
	// (Emit) never block on it.
	ResultQueue
)

type connection[T any, R any] struct {
	id      uint64
	order   int
	fn      func(T) R
	enabled atomic.Bool

	// limiter, when non-nil, caps how often this callback fires. limitSkip
	// true drops the call when the limit is exceeded instead of blocking.
	limiter   *rate.Limiter
	limitSkip bool
}

// Signal is a typed channel parameterised by a callback signature func(T) R,
// a Policy controlling where callbacks run, and a ResultMode
// controlling how their results are aggregated.
type Signal[T any, R any] struct {
	log *zerolog.Logger

	policy Policy[T, R]
	mode   ResultMode

	conns  *xsync.MapOf[uint64, *connection[T, R]]
	nextID atomic.Uint64

	emitting atomic.Bool // set around a Sync-policy dispatch, for reentrancy detection

	resMu   sync.Mutex
	futures []Future[R]
	closed  atomic.Bool
}

// New builds a Signal with the given Policy and ResultMode.
// A nil logger defaults to a no-op logger.
func New[T any, R any](policy Policy[T, R], mode ResultMode, log *zerolog.Logger) *Signal[T, R] {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Signal[T, R]{
		policy: policy,
		mode:   mode,
		conns:  xsync.NewMapOf[uint64, *connection[T, R]](),
		log:    log,
	}
}

// Connect registers cb and returns its connection id. Ids are monotonic and
// never reused, even across Disconnect.
func (s *Signal[T, R]) Connect(cb func(T) R) uint64 {
	id := s.nextID.Add(1)
	c := &connection[T, R]{id: id, fn: cb}
	c.enabled.Store(true)
	s.conns.Store(id, c)
	return id
}

// ConnectLimited registers cb like Connect, but caps its invocation rate
// with limiter, for pacing callbacks against a live-mode clock. If skip is
// true, calls beyond the limit are dropped; otherwise Emit blocks the
// calling goroutine until the limiter admits the call.
func (s *Signal[T, R]) ConnectLimited(cb func(T) R, limiter *rate.Limiter, skip bool) uint64 {
	id := s.nextID.Add(1)
	c := &connection[T, R]{id: id, fn: cb, limiter: limiter, limitSkip: skip}
	c.enabled.Store(true)
	s.conns.Store(id, c)
	return id
}

// Disconnect removes the callback with the given id. Returns false if id was
// never connected or was already disconnected (idempotent after the first
// success).
func (s *Signal[T, R]) Disconnect(id uint64) bool {
	_, existed := s.conns.LoadAndDelete(id)
	return existed
}

// Len reports the number of currently connected callbacks.
func (s *Signal[T, R]) Len() int {
	return s.conns.Size()
}

// Emit invokes every callback connected at the time Emit was called (a
// connection added mid-emit takes effect on the next Emit) via the executor
// Policy, clears any previous result buffer, and collects the resulting
// Futures. It returns the number of callbacks invoked. Calling Emit
// re-entrantly on the same Signal from within one of its own
// Sync-dispatched callbacks returns ErrReentrantEmit instead of deadlocking
// or silently nesting.
func (s *Signal[T, R]) Emit(arg T) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	if _, isSync := s.policy.(SyncPolicy[T, R]); isSync {
		if !s.emitting.CompareAndSwap(false, true) {
			return 0, ErrReentrantEmit
		}
		defer s.emitting.Store(false)
	}

	// snapshot connections present right now; ordering across connections
	// isn't guaranteed at this layer (that's a Pin/Input-level concern) but
	// insertion order (ascending connection id) is restored for determinism
	// in tests.
	var conns []*connection[T, R]
	s.conns.Range(func(_ uint64, c *connection[T, R]) bool {
		if c.enabled.Load() {
			conns = append(conns, c)
		}
		return true
	})
	sort.Slice(conns, func(i, j int) bool { return conns[i].id < conns[j].id })

	s.resMu.Lock()
	s.futures = s.futures[:0]
	s.resMu.Unlock()

	called := 0
	for _, c := range conns {
		if c.limiter != nil {
			if c.limitSkip {
				if !c.limiter.Allow() {
					continue
				}
			} else {
				_ = c.limiter.Wait(context.Background())
			}
		}
		f := s.policy.Call(c.fn, arg)
		s.collect(f)
		called++
	}

	return called, nil
}

func (s *Signal[T, R]) collect(f Future[R]) {
	switch s.mode {
	case ResultNone:
		return
	case ResultLast:
		s.resMu.Lock()
		s.futures = append(s.futures, f)
		s.resMu.Unlock()
	case ResultQueue:
		s.resMu.Lock()
		s.futures = append(s.futures, f)
		s.resMu.Unlock()
	}
}

// Results drains the futures accumulated since the last Emit, aggregating
// according to ResultMode. If wait is true, it blocks on any future not yet
// ready; otherwise unready futures are skipped this round. If clear is true,
// the internal buffer is reset afterwards.
//
// For ResultLast, it returns the value of the last callback dispatched by
// the most recent Emit (among those read this round) and a bool
// reporting whether any value was available. For ResultQueue, it returns all
// collected values in completion-request order. ResultNone always returns a
// zero value, false/empty.
func (s *Signal[T, R]) Results(wait bool, clear bool) (last R, queue []R, ok bool) {
	s.resMu.Lock()
	futures := s.futures
	if clear {
		s.futures = nil
	}
	s.resMu.Unlock()

	for _, f := range futures {
		if !wait && !f.Ready() {
			continue
		}
		v := f.Get()
		switch s.mode {
		case ResultLast:
			last = v
			ok = true
		case ResultQueue:
			queue = append(queue, v)
			ok = true
		}
	}
	return last, queue, ok
}

// FlushAvailableResults discards any pending futures whose result is ready
// without blocking, leaving not-yet-ready futures queued for a later
// Results call.
func (s *Signal[T, R]) FlushAvailableResults() {
	s.resMu.Lock()
	defer s.resMu.Unlock()
	remaining := s.futures[:0]
	for _, f := range s.futures {
		if !f.Ready() {
			remaining = append(remaining, f)
		}
	}
	s.futures = remaining
}

// Close shuts down the Signal's executor policy (releasing any worker
// goroutines it owns) and marks the Signal closed: further Emit calls
// return ErrClosed. Connect/Disconnect remain safe to call after Close.
func (s *Signal[T, R]) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.policy.Close()
	}
}
