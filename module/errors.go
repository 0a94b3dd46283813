package module

import "errors"

// ErrEndOfStream is returned by a source Module's Process once it has
// nothing further to produce. It tells the pipeline executor to stop driving
// this source and begin its teardown sequence (Flush, then an end-of-stream
// (nil) buffer on every output, then Destroy); the source need not emit the
// nil itself.
var ErrEndOfStream = errors.New("module: end of stream")
