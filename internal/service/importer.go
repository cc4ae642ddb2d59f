package service

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/text/language"

	"github.com/lumavid/captionpipe/internal/artifact"
	"github.com/lumavid/captionpipe/internal/caperr"
	"github.com/lumavid/captionpipe/internal/cue"
	"github.com/lumavid/captionpipe/internal/registry"
	"github.com/lumavid/captionpipe/pkg/log"
)

// Importer promotes a temp artifact into the published captions directory
// and records it in the registry. Re-importing the same video/language pair
// updates the existing row instead of duplicating it.
type Importer struct {
	registry registry.Registry
	locator  *artifact.Locator
}

func NewImporter(reg registry.Registry, locator *artifact.Locator) *Importer {
	return &Importer{
		registry: reg,
		locator:  locator,
	}
}

// Import copies the temp artifact of videoID into the published directory
// under {video_id}_{language} and upserts the registry row. An empty
// language is resolved by detecting the dominant language of the cue text.
// The temp artifact is left in place; the reconciler marks it stale and the
// garbage collector removes it on the next cleanup run.
func (i *Importer) Import(ctx context.Context, videoID, lang string) (registry.CaptionRecord, error) {
	if videoID == "" {
		return registry.CaptionRecord{}, caperr.New(caperr.ErrValidation, "video id is required")
	}

	tempPath := i.locator.TempPath(videoID)
	segments, err := cue.ParseFile(tempPath)
	if err != nil {
		if caperr.IsType(err, caperr.ErrNotFound) {
			return registry.CaptionRecord{}, err
		}
		return registry.CaptionRecord{}, caperr.Wrap(err, caperr.ErrValidation, "temp artifact is not a valid cue document").
			WithContext("path", tempPath)
	}

	if lang == "" {
		lang = cue.DetectLanguage(segments)
		if lang == "" {
			return registry.CaptionRecord{}, caperr.New(caperr.ErrValidation, "could not detect the caption language, pass it explicitly")
		}
		log.Info("detected caption language %q for %s", lang, videoID)
	}
	lang, err = normalizeLanguage(lang)
	if err != nil {
		return registry.CaptionRecord{}, err
	}

	publishedPath := i.locator.PublishedPath(videoID, lang)
	if err := copyFileAtomic(tempPath, publishedPath); err != nil {
		return registry.CaptionRecord{}, err
	}

	record := registry.CaptionRecord{
		VideoID:  videoID,
		Language: lang,
		FilePath: publishedPath,
	}
	if err := i.registry.Upsert(ctx, record); err != nil {
		return registry.CaptionRecord{}, caperr.Wrap(err, caperr.ErrService, "failed to upsert caption record").
			WithContext("video", videoID).
			WithContext("language", lang)
	}

	log.Info("imported captions for %s (%s) to %s", videoID, lang, publishedPath)
	return record, nil
}

// normalizeLanguage reduces a language code or BCP 47 tag to its base code
// ("zh-CN" → "zh").
func normalizeLanguage(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", caperr.Wrap(err, caperr.ErrValidation, "invalid language code").
			WithContext("language", code)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// copyFileAtomic writes dst via a temp name and rename so readers of the
// published directory never observe a partial caption file.
func copyFileAtomic(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return caperr.Wrap(err, caperr.ErrFileRead, "failed to read temp artifact").
			WithContext("path", src)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return caperr.Wrap(err, caperr.ErrFileWrite, "failed to create published directory")
	}
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return caperr.Wrap(err, caperr.ErrFileWrite, "failed to write published caption").
			WithContext("path", tmp)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return caperr.Wrap(err, caperr.ErrFileWrite, "failed to publish caption").
			WithContext("path", dst)
	}
	return nil
}
