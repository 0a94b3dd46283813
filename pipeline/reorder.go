package pipeline

import (
	"sync"

	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/pin"
	"github.com/castforge/castforge/signal"
)

// TransformFunc is the delegate work a Reorder dispatches asynchronously.
type TransformFunc = func(*data.Data) (*data.Data, error)

// Reorder restores call order on the output side of an otherwise
// out-of-order-completing async delegate. It is a two-stage
// dispatch: Process assigns each input a monotonic ticket synchronously, in
// call order (the "synchronizer" stage, mirroring SyncPolicy's inline,
// ordered dispatch); the transform itself then runs on a worker pool that
// may complete tickets out of order (the "internal" stage, the same
// WorkerPool primitive DedicatedWorkerPolicy/SharedPoolPolicy use), and
// results are buffered until every lower-numbered ticket has emitted before
// being released to out, in order.
type Reorder struct {
	transform TransformFunc
	workers   *signal.WorkerPool
	ownsPool  bool
	out       *pin.Output

	mu         sync.Mutex
	nextTicket uint64
	nextEmit   uint64
	pending    map[uint64]*data.Data
	errs       map[uint64]error
}

// NewReorder builds a Reorder dispatching transform across workerCount
// goroutines and emitting reassembled, order-preserved results on out.
func NewReorder(transform TransformFunc, workerCount int, out *pin.Output) *Reorder {
	return &Reorder{
		transform: transform,
		workers:   signal.NewWorkerPool(workerCount),
		ownsPool:  true,
		out:       out,
		pending:   make(map[uint64]*data.Data),
		errs:      make(map[uint64]error),
	}
}

// NewReorderOnPool is like NewReorder but dispatches onto a caller-owned
// pool instead of spawning its own.
func NewReorderOnPool(transform TransformFunc, pool *signal.WorkerPool, out *pin.Output) *Reorder {
	return &Reorder{
		transform: transform,
		workers:   pool,
		out:       out,
		pending:   make(map[uint64]*data.Data),
		errs:      make(map[uint64]error),
	}
}

// Process assigns d the next ticket, in the order Process is called, then
// submits the transform for asynchronous execution. A nil d (end-of-stream)
// is ticketed and forwarded like any other value, so EOS is emitted only
// after every preceding buffer has drained.
func (r *Reorder) Process(d *data.Data) error {
	r.mu.Lock()
	ticket := r.nextTicket
	r.nextTicket++
	r.mu.Unlock()

	r.workers.Submit(func() {
		if data.IsEOS(d) {
			r.complete(ticket, nil, nil)
			return
		}
		res, err := r.transform(d)
		r.complete(ticket, res, err)
	})
	return nil
}

// complete records ticket's result and releases every contiguous completed
// ticket starting at nextEmit, in order.
func (r *Reorder) complete(ticket uint64, res *data.Data, err error) {
	r.mu.Lock()
	r.pending[ticket] = res
	r.errs[ticket] = err

	for {
		v, ok := r.pending[r.nextEmit]
		if !ok {
			break
		}
		e := r.errs[r.nextEmit]
		delete(r.pending, r.nextEmit)
		delete(r.errs, r.nextEmit)
		r.nextEmit++
		r.mu.Unlock()

		if e == nil {
			_ = r.out.Emit(v)
		}

		r.mu.Lock()
	}
	r.mu.Unlock()
}

// Close releases the worker pool if this Reorder owns it.
func (r *Reorder) Close() {
	if r.ownsPool {
		r.workers.Close()
	}
}
