package main

import (
	"errors"

	"github.com/spf13/cast"
)

// ErrMissingURL is returned when no input URL was given on the command line
// (original_source's options.cpp: "argc == 0 || nonOptionsCount() == 0").
var ErrMissingURL = errors.New("dashcastx: missing input URL")

// ErrMultipleURLs is returned when more than one positional argument is
// given (original_source's "Several URLs detected").
var ErrMultipleURLs = errors.New("dashcastx: several URLs detected, expected exactly one")

// ErrInvalidResolution is returned when --res does not parse as WxH.
var ErrInvalidResolution = errors.New("dashcastx: resolution must be of the form WxH")

// Options mirrors original_source's dashcastXOptions (url, isLive,
// segmentDuration, res).
type Options struct {
	URL           string
	Live          bool
	SegDurationMs int64
	Width, Height int
}

// resolveArgs validates the positional arguments: exactly one URL.
func resolveArgs(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrMissingURL
	case 1:
		return args[0], nil
	default:
		return "", ErrMultipleURLs
	}
}

// parseResolution parses a "WxH" string using spf13/cast for the numeric
// coercion rather than a hand-rolled sscanf equivalent.
func parseResolution(s string) (w, h int, err error) {
	if s == "" {
		return 0, 0, nil
	}
	var wStr, hStr string
	var i int
	for i = 0; i < len(s); i++ {
		if s[i] == 'x' || s[i] == 'X' {
			break
		}
	}
	if i == 0 || i >= len(s)-1 {
		return 0, 0, ErrInvalidResolution
	}
	wStr, hStr = s[:i], s[i+1:]
	w, err = cast.ToIntE(wStr)
	if err != nil {
		return 0, 0, ErrInvalidResolution
	}
	h, err = cast.ToIntE(hStr)
	if err != nil {
		return 0, 0, ErrInvalidResolution
	}
	return w, h, nil
}
