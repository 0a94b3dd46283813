package signal

import "errors"

// ErrReentrantEmit is returned by Emit when a Sync-policy Signal is emitted
// again from within one of its own callbacks on the same goroutine.
var ErrReentrantEmit = errors.New("signal: reentrant emit under sync policy")

// ErrClosed is returned by Emit once the Signal has been closed.
var ErrClosed = errors.New("signal: closed")
