package pipeline_test

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/pin"
	"github.com/castforge/castforge/pipeline"
	"github.com/castforge/castforge/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorderPreservesOrderUnderAsyncDelegate(t *testing.T) {
	out := pin.NewOutput(0, signal.SyncPolicy[*data.Data, int]{}, signal.ResultNone, 256, nil)

	var mu sync.Mutex
	var got []int64
	out.Connect(func(d *data.Data) int {
		mu.Lock()
		if !data.IsEOS(d) {
			got = append(got, d.Timestamp())
		}
		mu.Unlock()
		return 0
	})

	transform := func(d *data.Data) (*data.Data, error) {
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
		return d, nil
	}

	ro := pipeline.NewReorder(transform, 8, out)
	defer ro.Close()

	const n = 50
	for i := 0; i < n; i++ {
		d := out.GetBuffer(1)
		d.SetTimestamp(int64(i))
		require.NoError(t, ro.Process(d))
	}
	require.NoError(t, ro.Process(nil))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == n
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		assert.Equal(t, int64(i), v)
	}
}
