package dash

import "errors"

// ErrSegmentDuration is returned by NewMPD when segDurationMs is zero or negative
// (original_source's MPD constructor: "Segment duration too small").
var ErrSegmentDuration = errors.New("dash: segment duration too small")
