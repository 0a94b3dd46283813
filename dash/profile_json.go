package dash

import (
	jsp "github.com/buger/jsonparser"
	"github.com/spf13/cast"
)

// LoadProfile parses a Profile out of a small hand-authored JSON descriptor,
// e.g.:
//
//	{"live": true, "segDurationMs": "2000", "audio": {...}, "video": {...}}
//
// Numeric fields are coerced through spf13/cast so a descriptor may supply
// them as either JSON numbers or strings, rather than hand-rolling type
// coercion.
func LoadProfile(raw []byte) (Profile, error) {
	var p Profile

	if live, err := jsp.GetBoolean(raw, "live"); err == nil {
		p.Live = live
	}
	if v, _, _, err := jsp.Get(raw, "segDurationMs"); err == nil {
		n, castErr := cast.ToInt64E(string(v))
		if castErr != nil {
			return Profile{}, castErr
		}
		p.SegDurationMs = n
	}

	if audioRaw, _, _, err := jsp.Get(raw, "audio"); err == nil {
		rep, err := loadRepresentation(audioRaw)
		if err != nil {
			return Profile{}, err
		}
		p.Audio = rep
	}
	if videoRaw, _, _, err := jsp.Get(raw, "video"); err == nil {
		rep, err := loadRepresentation(videoRaw)
		if err != nil {
			return Profile{}, err
		}
		p.Video = rep
	}

	return p, nil
}

func loadRepresentation(raw []byte) (Representation, error) {
	var r Representation
	if v, err := jsp.GetString(raw, "id"); err == nil {
		r.ID = v
	}
	if v, err := jsp.GetString(raw, "mimeType"); err == nil {
		r.MimeType = v
	}
	if v, err := jsp.GetString(raw, "codecs"); err == nil {
		r.Codecs = v
	}
	if v, _, _, err := jsp.Get(raw, "bandwidth"); err == nil {
		n, castErr := cast.ToIntE(string(v))
		if castErr != nil {
			return Representation{}, castErr
		}
		r.Bandwidth = n
	}
	if v, _, _, err := jsp.Get(raw, "width"); err == nil {
		n, _ := cast.ToIntE(string(v))
		r.Width = n
	}
	if v, _, _, err := jsp.Get(raw, "height"); err == nil {
		n, _ := cast.ToIntE(string(v))
		r.Height = n
	}
	if v, _, _, err := jsp.Get(raw, "frameRate"); err == nil {
		n, _ := cast.ToIntE(string(v))
		r.FrameRate = n
	}
	if v, _, _, err := jsp.Get(raw, "sampleRate"); err == nil {
		n, _ := cast.ToIntE(string(v))
		r.SampleRate = n
	}
	return r, nil
}
