package artifact

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/lumavid/captionpipe/internal/cue"
)

// languageRe matches the ISO-ish short codes used in published file names,
// e.g. "en" or "pt-BR".
var languageRe = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z0-9]{2,8})?$`)

// Locator enumerates caption artifacts in the temp and published
// directories. File names are treated as a derived read-only index; files
// whose names do not fit the expected key pattern are excluded from the
// structured result and surfaced separately as unparseable.
type Locator struct {
	tempDir      string
	publishedDir string
	ext          string
}

func NewLocator(tempDir, publishedDir string) *Locator {
	return &Locator{
		tempDir:      tempDir,
		publishedDir: publishedDir,
		ext:          cue.Extension,
	}
}

func (l *Locator) TempDir() string      { return l.tempDir }
func (l *Locator) PublishedDir() string { return l.publishedDir }

// ListTemp returns the temp artifacts keyed by video id. A missing directory
// yields an empty set. Zero-byte files cannot be valid cue documents and are
// reported as unparseable.
func (l *Locator) ListTemp() ([]TempArtifact, []string, error) {
	entries, err := readDirTolerant(l.tempDir)
	if err != nil {
		return nil, nil, err
	}

	artifacts := make([]TempArtifact, 0, len(entries))
	unparseable := make([]string, 0)

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(l.tempDir, name)

		videoID, ok := l.tempKey(name)
		if !ok || isEmptyFile(entry) {
			unparseable = append(unparseable, path)
			continue
		}
		artifacts = append(artifacts, TempArtifact{
			VideoID: videoID,
			Path:    path,
		})
	}

	sortTemp(artifacts)
	return artifacts, unparseable, nil
}

// ListPublished returns the published artifacts keyed by video id and
// language.
func (l *Locator) ListPublished() ([]PublishedArtifact, []string, error) {
	entries, err := readDirTolerant(l.publishedDir)
	if err != nil {
		return nil, nil, err
	}

	artifacts := make([]PublishedArtifact, 0, len(entries))
	unparseable := make([]string, 0)

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(l.publishedDir, name)

		videoID, lang, ok := l.publishedKey(name)
		if !ok {
			unparseable = append(unparseable, path)
			continue
		}
		artifacts = append(artifacts, PublishedArtifact{
			VideoID:  videoID,
			Language: lang,
			Path:     path,
		})
	}

	sortPublished(artifacts)
	return artifacts, unparseable, nil
}

// PublishedPath is the expected on-disk location for a video/language pair.
func (l *Locator) PublishedPath(videoID, language string) string {
	return filepath.Join(l.publishedDir, videoID+"_"+language+l.ext)
}

// TempPath is the expected on-disk location of a video's temp artifact.
func (l *Locator) TempPath(videoID string) string {
	return filepath.Join(l.tempDir, videoID+l.ext)
}

// tempKey extracts the video id from a temp file name ({video_id}{ext}).
func (l *Locator) tempKey(name string) (string, bool) {
	if !strings.EqualFold(filepath.Ext(name), l.ext) {
		return "", false
	}
	videoID := strings.TrimSuffix(name, filepath.Ext(name))
	if videoID == "" {
		return "", false
	}
	return videoID, true
}

// publishedKey extracts video id and language from a published file name
// ({video_id}_{language}{ext}). The language is taken after the last
// underscore; a name that does not yield a plausible language code is not
// guessed at.
func (l *Locator) publishedKey(name string) (videoID, language string, ok bool) {
	if !strings.EqualFold(filepath.Ext(name), l.ext) {
		return "", "", false
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	idx := strings.LastIndex(stem, "_")
	if idx <= 0 || idx == len(stem)-1 {
		return "", "", false
	}
	videoID = stem[:idx]
	language = stem[idx+1:]
	if !languageRe.MatchString(language) {
		return "", "", false
	}
	return videoID, language, true
}

func readDirTolerant(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	files := make([]os.DirEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, entry)
	}
	return files, nil
}

func isEmptyFile(entry os.DirEntry) bool {
	info, err := entry.Info()
	if err != nil {
		return false
	}
	return info.Size() == 0
}

func sortTemp(artifacts []TempArtifact) {
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].VideoID < artifacts[j].VideoID
	})
}

func sortPublished(artifacts []PublishedArtifact) {
	sort.Slice(artifacts, func(i, j int) bool {
		if artifacts[i].VideoID != artifacts[j].VideoID {
			return artifacts[i].VideoID < artifacts[j].VideoID
		}
		return artifacts[i].Language < artifacts[j].Language
	})
}
