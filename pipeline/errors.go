package pipeline

import "errors"

// ErrInvalidConnection is returned by Connect when an output or input index
// is out of range for the given module.
var ErrInvalidConnection = errors.New("pipeline: invalid connection")
