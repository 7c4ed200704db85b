package gazelle

import "regexp"

// Format pairs the API's format/encoding strings for a transcode target.
type Format struct {
	Format   string
	Encoding string
}

// Formats maps the supported transcode keys to their tracker-side
// format/bitrate values.
var Formats = map[string]Format{
	"FLAC": {Format: "FLAC", Encoding: "Lossless"},
	"V0":   {Format: "MP3", Encoding: "V0 (VBR)"},
	"320":  {Format: "MP3", Encoding: "320"},
}

// FormatKeys lists the transcode keys in a stable order.
var FormatKeys = []string{"FLAC", "V0", "320"}

// MediaSearchNames maps lowercase media names to the exact casing the
// search API expects; Gazelle is picky about case in &media= searches.
var MediaSearchNames = map[string]string{
	"cd":         "CD",
	"dvd":        "DVD",
	"vinyl":      "Vinyl",
	"soundboard": "Soundboard",
	"sacd":       "SACD",
	"dat":        "DAT",
	"web":        "WEB",
	"blu-ray":    "Blu-ray",
}

// LosslessMedia is the set of media types eligible as transcode sources.
var LosslessMedia = func() map[string]bool {
	set := make(map[string]bool, len(MediaSearchNames))
	for m := range MediaSearchNames {
		set[m] = true
	}
	return set
}()

// Pre-emphasized masters cannot be safely transcoded. Matches the spelling
// variants seen in remaster titles: pre-emphasis, preemphasis,
// pre-emphasised, pre-emphasized.
var preemphasisRe = regexp.MustCompile(`(?i)pre[- ]?emphasi(s(ed)?|zed)`)

// AllowedTranscodes returns the transcode keys permitted for a torrent,
// or nil when its remaster title marks it as pre-emphasized.
func AllowedTranscodes(t Torrent) []string {
	if preemphasisRe.MatchString(t.RemasterTitle) {
		return nil
	}
	keys := make([]string, len(FormatKeys))
	copy(keys, FormatKeys)
	return keys
}
