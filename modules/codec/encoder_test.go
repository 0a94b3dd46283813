package codec_test

import (
	"testing"

	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/modules/codec"
	"github.com/castforge/castforge/pin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderPassthrough(t *testing.T) {
	double := func(out *pin.Output, in *data.Data) (*data.Data, error) {
		b := out.GetBuffer(len(in.Bytes()))
		copy(b.Bytes(), in.Bytes())
		b.SetTimestamp(in.Timestamp() * 2)
		return b, nil
	}
	enc := codec.NewEncoder(double, 4, 4)

	var got int64
	enc.Output().Connect(func(d *data.Data) int {
		if !data.IsEOS(d) {
			got = d.Timestamp()
		}
		return 0
	})

	src := enc.Output().Pool().Acquire(4)
	src.SetTimestamp(21)
	require.NoError(t, enc.Process(0, src))
	assert.Equal(t, int64(42), got)
}

func TestEncoderDropsOnNilResult(t *testing.T) {
	drop := func(out *pin.Output, in *data.Data) (*data.Data, error) {
		return nil, nil
	}
	enc := codec.NewEncoder(drop, 4, 4)
	called := false
	enc.Output().Connect(func(d *data.Data) int {
		called = true
		return 0
	})
	d := enc.Output().Pool().Acquire(1)
	require.NoError(t, enc.Process(0, d))
	assert.False(t, called)
}
