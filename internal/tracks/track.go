package tracks

import (
	"fmt"
	"strings"

	"subclean/internal/srt"
)

// Descriptor is the inspector's view of one subtitle stream.
type Descriptor struct {
	Index           int
	Codec           string
	Language        string
	Title           string
	HearingImpaired bool
	Forced          bool
}

// Track pairs a descriptor with its demuxed cues.
type Track struct {
	Descriptor
	Cues []srt.Cue
}

// bitmapCodecs cannot be converted to text without OCR.
var bitmapCodecs = map[string]struct{}{
	"hdmv_pgs_subtitle": {},
	"pgssub":            {},
	"dvd_subtitle":      {},
	"dvdsub":            {},
	"dvb_subtitle":      {},
	"dvbsub":            {},
	"xsub":              {},
}

// IsBitmap reports whether the codec is an image-based subtitle format.
func (d Descriptor) IsBitmap() bool {
	_, ok := bitmapCodecs[strings.ToLower(strings.TrimSpace(d.Codec))]
	return ok
}

// Label returns a short human-readable summary of the stream.
func (d Descriptor) Label() string {
	parts := []string{fmt.Sprintf("#%d", d.Index)}
	if d.Codec != "" {
		parts = append(parts, d.Codec)
	}
	if d.Language != "" {
		parts = append(parts, d.Language)
	}
	if d.Title != "" {
		parts = append(parts, fmt.Sprintf("%q", d.Title))
	}
	if d.HearingImpaired {
		parts = append(parts, "SDH")
	}
	if d.Forced {
		parts = append(parts, "forced")
	}
	return strings.Join(parts, " ")
}
