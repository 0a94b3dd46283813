package in_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/module"
	"github.com/castforge/castforge/modules/in"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileEmitsChunksThenEndOfStream(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.bin")
	payload := make([]byte, in.ChunkSize+17)
	for i := range payload {
		payload[i] = byte(i)
	}
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	f, err := in.NewFile(path, nil, 4)
	require.NoError(t, err)

	var total int
	f.Output().Connect(func(d *data.Data) int {
		if !data.IsEOS(d) {
			total += len(d.Bytes())
		}
		return 0
	})

	for {
		err := f.Process(module.SourceInput, nil)
		if err == module.ErrEndOfStream {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, len(payload), total)
	require.NoError(t, f.Flush())
}
