package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveArgs(t *testing.T) {
	_, err := resolveArgs(nil)
	assert.ErrorIs(t, err, ErrMissingURL)

	url, err := resolveArgs([]string{"file.mp4"})
	assert.NoError(t, err)
	assert.Equal(t, "file.mp4", url)

	_, err = resolveArgs([]string{"a.mp4", "b.mp4"})
	assert.ErrorIs(t, err, ErrMultipleURLs)
}

func TestParseResolution(t *testing.T) {
	w, h, err := parseResolution("")
	assert.NoError(t, err)
	assert.Zero(t, w)
	assert.Zero(t, h)

	w, h, err = parseResolution("1280x720")
	assert.NoError(t, err)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)

	_, _, err = parseResolution("garbage")
	assert.ErrorIs(t, err, ErrInvalidResolution)
}
