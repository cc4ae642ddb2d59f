package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		ext      string
		expected string
	}{
		{"simple", "/videos/clip.mp4", ".vtt", "/videos/clip.vtt"},
		{"ext without dot", "/videos/clip.mp4", "vtt", "/videos/clip.vtt"},
		{"no extension", "/videos/clip", ".vtt", "/videos/clip.vtt"},
		{"hidden file", "/videos/.config", ".vtt", "/videos/.config.vtt"},
		{"multiple dots", "/videos/clip.final.mp4", ".vtt", "/videos/clip.final.vtt"},
		{"empty path", "", ".vtt", ""},
		{"empty ext strips", "/videos/clip.mp4", "", "/videos/clip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReplaceExt(tt.path, tt.ext))
		})
	}
}

func TestStripExt(t *testing.T) {
	assert.Equal(t, "clip", StripExt("/videos/clip.mp4"))
	assert.Equal(t, "clip.final", StripExt("/videos/clip.final.mp4"))
	assert.Equal(t, "clip", StripExt("clip"))
	assert.Equal(t, "V1_en", StripExt("V1_en.vtt"))
}
