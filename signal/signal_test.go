package signal_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/castforge/castforge/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestConnectionIdentity(t *testing.T) {
	s := signal.New[int, int](signal.SyncPolicy[int, int]{}, signal.ResultNone, nil)
	id1 := s.Connect(func(i int) int { return i })
	id2 := s.Connect(func(i int) int { return i })
	assert.NotEqual(t, id1, id2)

	assert.True(t, s.Disconnect(id1))
	assert.False(t, s.Disconnect(id1))
	assert.True(t, s.Disconnect(id2))
}

func TestFanOutQueueResults(t *testing.T) {
	s := signal.New[int, int](signal.SyncPolicy[int, int]{}, signal.ResultQueue, nil)
	const n = 5
	for i := 0; i < n; i++ {
		s.Connect(func(v int) int { return v * 2 })
	}

	count, err := s.Emit(3)
	require.NoError(t, err)
	assert.Equal(t, n, count)

	_, queue, ok := s.Results(true, true)
	assert.True(t, ok)
	assert.Len(t, queue, n)
	for _, v := range queue {
		assert.Equal(t, 6, v)
	}
}

func TestResultLastKeepsMostRecent(t *testing.T) {
	s := signal.New[int, int](signal.SyncPolicy[int, int]{}, signal.ResultLast, nil)
	s.Connect(func(v int) int { return v })
	s.Connect(func(v int) int { return v * 10 })

	_, err := s.Emit(4)
	require.NoError(t, err)
	last, _, ok := s.Results(true, true)
	assert.True(t, ok)
	assert.Equal(t, 40, last) // last-registered callback wins
}

func TestSyncOrderPreservation(t *testing.T) {
	s := signal.New[int, int](signal.SyncPolicy[int, int]{}, signal.ResultNone, nil)
	var got []int
	s.Connect(func(v int) int {
		got = append(got, v)
		return 0
	})

	for i := 0; i < 100; i++ {
		_, err := s.Emit(i)
		require.NoError(t, err)
	}
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestReentrantSyncEmitFails(t *testing.T) {
	s := signal.New[int, int](signal.SyncPolicy[int, int]{}, signal.ResultNone, nil)
	var inner error
	s.Connect(func(v int) int {
		_, inner = s.Emit(v)
		return 0
	})

	_, err := s.Emit(1)
	require.NoError(t, err)
	assert.ErrorIs(t, inner, signal.ErrReentrantEmit)
}

func TestDedicatedWorkerFIFO(t *testing.T) {
	policy := signal.NewDedicatedWorkerPolicy[int, int]()
	defer policy.Close()
	s := signal.New[int, int](policy, signal.ResultQueue, nil)

	var order []int
	var mu atomicOrder
	s.Connect(func(v int) int {
		mu.append(v)
		return v
	})

	for i := 0; i < 20; i++ {
		_, err := s.Emit(i)
		require.NoError(t, err)
	}
	_, _, _ = s.Results(true, true)
	order = mu.get()
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

// atomicOrder is a tiny mutex-free append helper used only to avoid pulling
// in "sync" twice in this file for a single slice guarded by a spinlock.
type atomicOrder struct {
	lock atomic.Bool
	vals []int
}

func (a *atomicOrder) append(v int) {
	for !a.lock.CompareAndSwap(false, true) {
	}
	a.vals = append(a.vals, v)
	a.lock.Store(false)
}

func (a *atomicOrder) get() []int {
	return a.vals
}

func TestConnectLimitedSkipsOverLimit(t *testing.T) {
	s := signal.New[int, int](signal.SyncPolicy[int, int]{}, signal.ResultNone, nil)
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)

	var calls int
	s.ConnectLimited(func(v int) int {
		calls++
		return v
	}, limiter, true)

	count1, err := s.Emit(1)
	require.NoError(t, err)
	count2, err := s.Emit(2)
	require.NoError(t, err)

	assert.Equal(t, 1, count1)
	assert.Equal(t, 0, count2)
	assert.Equal(t, 1, calls)
}

func TestCloseStopsPolicyWorkers(t *testing.T) {
	policy := signal.NewDedicatedWorkerPolicy[int, int]()
	s := signal.New[int, int](policy, signal.ResultNone, nil)
	s.Connect(func(v int) int { return v })
	_, err := s.Emit(1)
	require.NoError(t, err)
	s.Close()
	_, err = s.Emit(2)
	assert.ErrorIs(t, err, signal.ErrClosed)
}
