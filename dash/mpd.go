// Package dash implements a simplified DASH manifest writer, grounded on
// original_source's Modules::Stream::MPEG_DASH (src/lib_media/stream/mpeg_dash.cpp):
// a sink that pairs audio and video buffers in lock-step and periodically
// serializes an MPD. It is not a standards-complete ISO/IEC 23009-1 encoder.
package dash

import (
	"fmt"
	"strings"
	"time"
)

// Representation describes one adaptation-set representation in the MPD.
type Representation struct {
	ID        string
	MimeType  string
	Codecs    string
	Bandwidth int

	// Video-only.
	Width, Height int
	FrameRate     int

	// Audio-only.
	SampleRate int
}

// Profile configures the MPD a Writer produces: segment duration, liveness,
// and the audio/video representations advertised (original_source hardcodes
// a single audio + single video Representation; here both are configurable,
// loaded e.g. from JSON via LoadProfile in profile_json.go).
type Profile struct {
	Live          bool
	SegDurationMs int64
	Audio         Representation
	Video         Representation
}

// MPD holds the state needed to serialize a manifest (original_source's
// nested "struct MPD").
type MPD struct {
	profile Profile
	started time.Time
}

// NewMPD validates profile and returns an MPD ready to Serialize.
func NewMPD(profile Profile) (*MPD, error) {
	if profile.SegDurationMs <= 0 {
		return nil, ErrSegmentDuration
	}
	return &MPD{profile: profile, started: time.Now().UTC()}, nil
}

// Serialize writes the current manifest as DASH XML to w.
func (m *MPD) Serialize(w *strings.Builder) {
	p := m.profile
	fmt.Fprintln(w, `<?xml version="1.0"?>`)
	fmt.Fprintln(w, `<!--MPD file generated by castforge-->`)

	const mediaPresentationDuration = "PT0H0M47.68S" // TODO: derive from actual total duration
	if p.Live {
		fmt.Fprintf(w, "<MPD xmlns=\"urn:mpeg:dash:schema:mpd:2011\" minBufferTime=\"PT1.5S\" type=\"dynamic\" "+
			"availabilityStartTime=\"%s\" profiles=\"urn:mpeg:dash:profile:full:2011\" minimumUpdatePeriod=\"PT%.3fS\">\n",
			m.started.Format("2006-01-02T15:04:05.000Z"), float64(p.SegDurationMs)/1000)
	} else {
		fmt.Fprintf(w, "<MPD xmlns=\"urn:mpeg:dash:schema:mpd:2011\" minBufferTime=\"PT1.5S\" type=\"static\" "+
			"availabilityStartTime=\"%s\" mediaPresentationDuration=\"%s\" profiles=\"urn:mpeg:dash:profile:full:2011\">\n",
			m.started.Format("2006-01-02T15:04:05.000Z"), mediaPresentationDuration)
	}
	fmt.Fprintln(w, ` <ProgramInformation>`)
	fmt.Fprintln(w, `  <Title>castforge-generated manifest</Title>`)
	fmt.Fprintln(w, ` </ProgramInformation>`)
	fmt.Fprintf(w, " <Period duration=\"%s\">\n", mediaPresentationDuration)

	writeRepresentation(w, "audio", p.Audio, p.SegDurationMs)
	writeRepresentation(w, "video", p.Video, p.SegDurationMs)

	fmt.Fprintln(w, " </Period>")
	fmt.Fprintln(w, "</MPD>")
}

func writeRepresentation(w *strings.Builder, kind string, r Representation, segDurationMs int64) {
	if r.ID == "" {
		return
	}
	const timescale = 90000
	segDurTicks := segDurationMs * timescale / 1000

	if kind == "video" {
		fmt.Fprintf(w, "  <AdaptationSet segmentAlignment=\"true\" maxWidth=\"%d\" maxHeight=\"%d\" maxFrameRate=\"%d\">\n",
			r.Width, r.Height, r.FrameRate)
	} else {
		fmt.Fprintln(w, "  <AdaptationSet segmentAlignment=\"true\">")
	}
	fmt.Fprintf(w, "   <SegmentTemplate timescale=\"%d\" media=\"$RepresentationID$.mp4_$Number$\" startNumber=\"0\" duration=\"%d\" initialization=\"$RepresentationID$.mp4\"/>\n",
		timescale, segDurTicks)

	if kind == "video" {
		fmt.Fprintf(w, "   <Representation id=\"%s\" mimeType=\"%s\" codecs=\"%s\" width=\"%d\" height=\"%d\" frameRate=\"%d\" bandwidth=\"%d\"/>\n",
			r.ID, r.MimeType, r.Codecs, r.Width, r.Height, r.FrameRate, r.Bandwidth)
	} else {
		fmt.Fprintf(w, "   <Representation id=\"%s\" mimeType=\"%s\" codecs=\"%s\" audioSamplingRate=\"%d\" bandwidth=\"%d\"/>\n",
			r.ID, r.MimeType, r.Codecs, r.SampleRate, r.Bandwidth)
	}
	fmt.Fprintln(w, "  </AdaptationSet>")
}
