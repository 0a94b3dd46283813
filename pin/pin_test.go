package pin_test

import (
	"testing"

	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/pin"
	"github.com/castforge/castforge/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputToInputDelivery(t *testing.T) {
	out := pin.NewOutput(0, signal.SyncPolicy[*data.Data, int]{}, signal.ResultNone, 4, nil)
	in := pin.NewInput(0, 4, nil)
	out.Connect(in.Push)

	d := out.GetBuffer(16)
	d.SetTimestamp(42)
	require.NoError(t, out.Emit(d))

	got := in.Pop()
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.Timestamp())
}

func TestOutputOrderPreservation(t *testing.T) {
	out := pin.NewOutput(0, signal.SyncPolicy[*data.Data, int]{}, signal.ResultNone, 64, nil)
	in := pin.NewInput(0, 64, nil)
	out.Connect(in.Push)

	for i := 0; i < 20; i++ {
		d := out.GetBuffer(1)
		d.SetTimestamp(int64(i))
		require.NoError(t, out.Emit(d))
	}
	for i := 0; i < 20; i++ {
		got := in.Pop()
		assert.Equal(t, int64(i), got.Timestamp())
	}
}

func TestEOSPassthrough(t *testing.T) {
	out := pin.NewOutput(0, signal.SyncPolicy[*data.Data, int]{}, signal.ResultNone, 4, nil)
	in := pin.NewInput(0, 4, nil)
	out.Connect(in.Push)

	require.NoError(t, out.Emit(nil))
	assert.True(t, data.IsEOS(in.Pop()))
}

func TestFanOutToMultipleInputs(t *testing.T) {
	out := pin.NewOutput(0, signal.SyncPolicy[*data.Data, int]{}, signal.ResultNone, 4, nil)
	in1 := pin.NewInput(0, 4, nil)
	in2 := pin.NewInput(1, 4, nil)
	out.Connect(in1.Push)
	out.Connect(in2.Push)

	d := out.GetBuffer(1)
	require.NoError(t, out.Emit(d))

	assert.Equal(t, 1, in1.Len())
	assert.Equal(t, 1, in2.Len())
}

func TestEmitRecyclesBufferOnSingleConsumerUnref(t *testing.T) {
	out := pin.NewOutput(0, signal.SyncPolicy[*data.Data, int]{}, signal.ResultNone, 4, nil)
	in := pin.NewInput(0, 4, nil)
	out.Connect(in.Push)

	d := out.GetBuffer(16)
	require.NoError(t, out.Emit(d))
	assert.Equal(t, 1, out.Pool().Outstanding())

	got := in.Pop()
	got.Unref()
	assert.Equal(t, 0, out.Pool().Outstanding())
}

func TestEmitRefsOncePerFanOutConnection(t *testing.T) {
	out := pin.NewOutput(0, signal.SyncPolicy[*data.Data, int]{}, signal.ResultNone, 4, nil)
	in1 := pin.NewInput(0, 4, nil)
	in2 := pin.NewInput(1, 4, nil)
	out.Connect(in1.Push)
	out.Connect(in2.Push)

	d := out.GetBuffer(16)
	require.NoError(t, out.Emit(d))

	got1 := in1.Pop()
	got2 := in2.Pop()
	got1.Unref()
	assert.Equal(t, 1, out.Pool().Outstanding(), "second connection's reference still outstanding")
	got2.Unref()
	assert.Equal(t, 0, out.Pool().Outstanding())
}

func TestEmitDropsBufferWithNoConnections(t *testing.T) {
	out := pin.NewOutput(0, signal.SyncPolicy[*data.Data, int]{}, signal.ResultNone, 4, nil)
	d := out.GetBuffer(16)
	require.NoError(t, out.Emit(d))
	assert.Equal(t, 0, out.Pool().Outstanding())
}

type countingOwner struct{ n int }

func (c *countingOwner) Process() { c.n++ }

func TestPushInvokesOwner(t *testing.T) {
	owner := &countingOwner{}
	in := pin.NewInput(0, 4, owner)
	in.Push(nil)
	in.Push(nil)
	assert.Equal(t, 2, owner.n)
}
