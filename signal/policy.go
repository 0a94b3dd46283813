package signal

// Policy is the axis controlling *where* a connected callback runs. The
// module/callback code calling through a Signal is unaware of which Policy
// is in effect.
type Policy[T any, R any] interface {
	// Call invokes fn(arg) according to the policy and returns a Future
	// for the eventual result.
	Call(fn func(T) R, arg T) Future[R]

	// Close releases any goroutines/workers the policy owns. Safe to call
	// on policies that own nothing (Sync, Lazy, Async).
	Close()
}

// SyncPolicy runs the callback inline on the calling goroutine, in strict
// caller order, result immediately available.
type SyncPolicy[T any, R any] struct{}

func (SyncPolicy[T, R]) Call(fn func(T) R, arg T) Future[R] {
	return immediateFuture[R]{val: fn(arg)}
}
func (SyncPolicy[T, R]) Close() {}

// LazyPolicy defers the callback until its result is demanded via
// Future.Get, running it at most once.
type LazyPolicy[T any, R any] struct{}

func (LazyPolicy[T, R]) Call(fn func(T) R, arg T) Future[R] {
	return &lazyFuture[R]{fn: func() R { return fn(arg) }}
}
func (LazyPolicy[T, R]) Close() {}

// AsyncPolicy runs each invocation on a fresh goroutine, with no ordering
// guarantee between calls.
type AsyncPolicy[T any, R any] struct{}

func (AsyncPolicy[T, R]) Call(fn func(T) R, arg T) Future[R] {
	f := newChanFuture[R]()
	go func() {
		f.complete(fn(arg))
	}()
	return f
}
func (AsyncPolicy[T, R]) Close() {}

// DedicatedWorkerPolicy runs every invocation on one worker goroutine owned
// by this policy instance, strictly FIFO.
type DedicatedWorkerPolicy[T any, R any] struct {
	pool *WorkerPool
}

// NewDedicatedWorkerPolicy starts the policy's single worker goroutine.
func NewDedicatedWorkerPolicy[T any, R any]() *DedicatedWorkerPolicy[T, R] {
	return &DedicatedWorkerPolicy[T, R]{pool: NewWorkerPool(1)}
}

func (p *DedicatedWorkerPolicy[T, R]) Call(fn func(T) R, arg T) Future[R] {
	f := newChanFuture[R]()
	p.pool.Submit(func() {
		f.complete(fn(arg))
	})
	return f
}
func (p *DedicatedWorkerPolicy[T, R]) Close() { p.pool.Close() }

// SharedPoolPolicy dispatches invocations to a WorkerPool shared across
// Signals, FIFO per worker stripe but with no global ordering guarantee
// across the pool.
type SharedPoolPolicy[T any, R any] struct {
	pool  *WorkerPool
	owned bool
}

// NewSharedPoolPolicy wraps an existing, possibly shared, WorkerPool.
func NewSharedPoolPolicy[T any, R any](pool *WorkerPool) *SharedPoolPolicy[T, R] {
	return &SharedPoolPolicy[T, R]{pool: pool}
}

// NewSharedPoolPolicyN starts a fresh pool of n workers owned by this policy.
func NewSharedPoolPolicyN[T any, R any](n int) *SharedPoolPolicy[T, R] {
	return &SharedPoolPolicy[T, R]{pool: NewWorkerPool(n), owned: true}
}

func (p *SharedPoolPolicy[T, R]) Call(fn func(T) R, arg T) Future[R] {
	f := newChanFuture[R]()
	p.pool.Submit(func() {
		f.complete(fn(arg))
	})
	return f
}

func (p *SharedPoolPolicy[T, R]) Close() {
	if p.owned {
		p.pool.Close()
	}
}
