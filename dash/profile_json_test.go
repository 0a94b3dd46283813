package dash_test

import (
	"testing"

	"github.com/castforge/castforge/dash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfileFromJSON(t *testing.T) {
	raw := []byte(`{
		"live": true,
		"segDurationMs": "4000",
		"audio": {"id": "0", "mimeType": "audio/mp4", "bandwidth": 59557, "sampleRate": 44100},
		"video": {"id": "1", "mimeType": "video/mp4", "width": 1280, "height": 720, "frameRate": 24}
	}`)

	p, err := dash.LoadProfile(raw)
	require.NoError(t, err)
	assert.True(t, p.Live)
	assert.Equal(t, int64(4000), p.SegDurationMs)
	assert.Equal(t, "0", p.Audio.ID)
	assert.Equal(t, 44100, p.Audio.SampleRate)
	assert.Equal(t, 1280, p.Video.Width)
	assert.Equal(t, 720, p.Video.Height)
}
