package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestListTemp(t *testing.T) {
	tempDir := t.TempDir()
	locator := NewLocator(tempDir, t.TempDir())

	writeFile(t, tempDir, "V2.vtt", "WEBVTT\n")
	writeFile(t, tempDir, "V1.vtt", "WEBVTT\n")
	writeFile(t, tempDir, "notes.txt", "not a caption")
	writeFile(t, tempDir, "empty.vtt", "")
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "subdir"), 0755))

	artifacts, unparseable, err := locator.ListTemp()
	require.NoError(t, err)

	require.Len(t, artifacts, 2)
	assert.Equal(t, "V1", artifacts[0].VideoID)
	assert.Equal(t, "V2", artifacts[1].VideoID)
	assert.Equal(t, filepath.Join(tempDir, "V1.vtt"), artifacts[0].Path)

	// the text file and the zero-byte cue file are surfaced, not guessed at
	assert.ElementsMatch(t, []string{
		filepath.Join(tempDir, "notes.txt"),
		filepath.Join(tempDir, "empty.vtt"),
	}, unparseable)
}

func TestListPublished(t *testing.T) {
	publishedDir := t.TempDir()
	locator := NewLocator(t.TempDir(), publishedDir)

	writeFile(t, publishedDir, "V1_en.vtt", "WEBVTT\n")
	writeFile(t, publishedDir, "V1_pt-BR.vtt", "WEBVTT\n")
	// underscores in the video id: the language is after the last one
	writeFile(t, publishedDir, "intro_clip_de.vtt", "WEBVTT\n")
	writeFile(t, publishedDir, "no-language.vtt", "WEBVTT\n")
	writeFile(t, publishedDir, "V9_notalanguagecode.vtt", "WEBVTT\n")
	writeFile(t, publishedDir, "_en.vtt", "WEBVTT\n")

	artifacts, unparseable, err := locator.ListPublished()
	require.NoError(t, err)

	require.Len(t, artifacts, 3)
	assert.Equal(t, PublishedArtifact{VideoID: "V1", Language: "en", Path: filepath.Join(publishedDir, "V1_en.vtt")}, artifacts[0])
	assert.Equal(t, "pt-BR", artifacts[1].Language)
	assert.Equal(t, "intro_clip", artifacts[2].VideoID)
	assert.Equal(t, "de", artifacts[2].Language)

	assert.ElementsMatch(t, []string{
		filepath.Join(publishedDir, "no-language.vtt"),
		filepath.Join(publishedDir, "V9_notalanguagecode.vtt"),
		filepath.Join(publishedDir, "_en.vtt"),
	}, unparseable)
}

func TestList_MissingDirectoryIsEmpty(t *testing.T) {
	locator := NewLocator(
		filepath.Join(t.TempDir(), "does-not-exist"),
		filepath.Join(t.TempDir(), "also-missing"),
	)

	temp, tempUnparseable, err := locator.ListTemp()
	require.NoError(t, err)
	assert.Empty(t, temp)
	assert.Empty(t, tempUnparseable)

	published, pubUnparseable, err := locator.ListPublished()
	require.NoError(t, err)
	assert.Empty(t, published)
	assert.Empty(t, pubUnparseable)
}

func TestExpectedPaths(t *testing.T) {
	locator := NewLocator("/tmp/work", "/srv/captions")

	assert.Equal(t, filepath.Join("/tmp/work", "V1.vtt"), locator.TempPath("V1"))
	assert.Equal(t, filepath.Join("/srv/captions", "V1_en.vtt"), locator.PublishedPath("V1", "en"))
}

func TestPublishedKey(t *testing.T) {
	locator := NewLocator("", "")

	tests := []struct {
		name     string
		videoID  string
		language string
		ok       bool
	}{
		{"V1_en.vtt", "V1", "en", true},
		{"my_video_zh.vtt", "my_video", "zh", true},
		{"clip_pt-BR.vtt", "clip", "pt-BR", true},
		{"V1.vtt", "", "", false},
		{"V1_.vtt", "", "", false},
		{"V1_en.srt", "", "", false},
		{"V1_x.vtt", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			videoID, language, ok := locator.publishedKey(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.videoID, videoID)
				assert.Equal(t, tt.language, language)
			}
		})
	}
}

func TestPublishedArtifactKey(t *testing.T) {
	artifact := PublishedArtifact{VideoID: "V1", Language: "en"}
	assert.Equal(t, "V1_en", artifact.Key())
}
