package dash_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/castforge/castforge/clock"
	"github.com/castforge/castforge/dash"
	"github.com/castforge/castforge/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterPairsAudioVideoAndWritesManifest(t *testing.T) {
	dir := t.TempDir()
	profile := dash.Profile{
		SegDurationMs: 2000,
		Audio:         dash.Representation{ID: "0", MimeType: "audio/mp4"},
		Video:         dash.Representation{ID: "1", MimeType: "video/mp4"},
	}
	w, err := dash.NewWriter(profile, dir, clock.New(clock.Rate), nil)
	require.NoError(t, err)

	pool := data.NewPool(4)
	a := pool.Acquire(4)
	v := pool.Acquire(4)

	require.NoError(t, w.Process(dash.AudioInput, a))
	require.NoError(t, w.Process(dash.VideoInput, v))
	require.NoError(t, w.Flush())

	assert.Equal(t, uint64(1), w.SegmentCount())
	_, err = os.Stat(filepath.Join(dir, "dash.mpd"))
	assert.NoError(t, err)
}
