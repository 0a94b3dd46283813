package data

import (
	"strconv"

	jsp "github.com/buger/jsonparser"
)

// MarshalFormat renders a Format as a compact JSON object using
// append-to-byte-slice helpers rather than encoding/json, to stay consistent
// with the rest of this codebase's lightweight-JSON style.
func MarshalFormat(f Format) []byte {
	dst := make([]byte, 0, 128)
	dst = append(dst, '{')
	dst = appendIntField(dst, "width", int64(f.Width), true)
	dst = appendIntField(dst, "height", int64(f.Height), false)
	dst = appendIntField(dst, "sampleRate", int64(f.SampleRate), false)
	dst = append(dst, `,"codec":"`...)
	dst = append(dst, f.Codec...)
	dst = append(dst, '"')
	if len(f.Extra) > 0 {
		dst = append(dst, `,"extra":{`...)
		first := true
		for k, v := range f.Extra {
			if !first {
				dst = append(dst, ',')
			}
			first = false
			dst = append(dst, '"')
			dst = append(dst, k...)
			dst = append(dst, `":"`...)
			dst = append(dst, v...)
			dst = append(dst, '"')
		}
		dst = append(dst, '}')
	}
	dst = append(dst, '}')
	return dst
}

func appendIntField(dst []byte, key string, v int64, first bool) []byte {
	if !first {
		dst = append(dst, ',')
	}
	dst = append(dst, '"')
	dst = append(dst, key...)
	dst = append(dst, `":`...)
	return strconv.AppendInt(dst, v, 10)
}

// UnmarshalFormat parses a Format out of the JSON object produced by
// MarshalFormat (or a hand-authored DASH profile descriptor), using
// buger/jsonparser field lookups rather than a full encoding/json Unmarshal.
func UnmarshalFormat(src []byte) (Format, error) {
	var f Format

	if w, err := jsp.GetInt(src, "width"); err == nil {
		f.Width = int(w)
	}
	if h, err := jsp.GetInt(src, "height"); err == nil {
		f.Height = int(h)
	}
	if sr, err := jsp.GetInt(src, "sampleRate"); err == nil {
		f.SampleRate = int(sr)
	}
	if codec, err := jsp.GetString(src, "codec"); err == nil {
		f.Codec = codec
	}

	if extraRaw, _, _, err := jsp.Get(src, "extra"); err == nil {
		f.Extra = make(map[string]string)
		_ = jsp.ObjectEach(extraRaw, func(key, val []byte, _ jsp.ValueType, _ int) error {
			f.Extra[string(key)] = string(val)
			return nil
		})
	}

	return f, nil
}
