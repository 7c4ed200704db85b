package gazelle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedTranscodes(t *testing.T) {
	tests := []struct {
		name          string
		remasterTitle string
		want          []string
	}{
		{"plain remaster", "Deluxe Edition", []string{"FLAC", "V0", "320"}},
		{"empty title", "", []string{"FLAC", "V0", "320"}},
		{"pre-emphasis", "Japan Pre-Emphasis", nil},
		{"preemphasis", "preemphasis pressing", nil},
		{"pre emphasised", "Pre Emphasised", nil},
		{"pre-emphasized", "PRE-EMPHASIZED", nil},
		{"emphasis without pre", "Heavy Emphasis Mix", []string{"FLAC", "V0", "320"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllowedTranscodes(Torrent{RemasterTitle: tt.remasterTitle})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllowedTranscodesCopyIsIndependent(t *testing.T) {
	got := AllowedTranscodes(Torrent{})
	got[0] = "mutated"
	assert.Equal(t, []string{"FLAC", "V0", "320"}, FormatKeys)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, Format{Format: "FLAC", Encoding: "Lossless"}, Formats["FLAC"])
	assert.Equal(t, Format{Format: "MP3", Encoding: "V0 (VBR)"}, Formats["V0"])
	assert.Equal(t, Format{Format: "MP3", Encoding: "320"}, Formats["320"])

	for _, key := range FormatKeys {
		_, ok := Formats[key]
		assert.True(t, ok, "key %s missing from Formats", key)
	}
}

func TestMediaSearchNames(t *testing.T) {
	assert.Equal(t, "CD", MediaSearchNames["cd"])
	assert.Equal(t, "Blu-ray", MediaSearchNames["blu-ray"])
	assert.True(t, LosslessMedia["vinyl"])
	assert.False(t, LosslessMedia["cassette"])
}
