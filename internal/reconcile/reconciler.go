package reconcile

import (
	"fmt"
	"sort"

	"github.com/lumavid/captionpipe/internal/artifact"
	"github.com/lumavid/captionpipe/internal/registry"
)

// Report is the outcome of comparing the three independently owned sources
// of truth: the caption registry, the temp working directory and the
// published captions directory. Every finding is a warning, never an error;
// the stores are expected to drift.
type Report struct {
	// VideosWithoutCaptions lists video ids with no registry record at all.
	VideosWithoutCaptions []string `json:"videos_without_captions"`

	// PublishedWithoutRegistry lists published artifacts with no matching
	// registry record (data-integrity warning).
	PublishedWithoutRegistry []artifact.PublishedArtifact `json:"published_without_registry"`

	// StaleTempArtifacts lists temp artifacts already superseded by at
	// least one published artifact for the same video id.
	StaleTempArtifacts []artifact.TempArtifact `json:"stale_temp_artifacts"`

	// OrphanedTempArtifacts lists temp artifacts whose video no longer
	// exists.
	OrphanedTempArtifacts []artifact.TempArtifact `json:"orphaned_temp_artifacts"`

	// RegistryWithoutFile lists registry records whose expected published
	// file is missing on disk (broken reference).
	RegistryWithoutFile []registry.CaptionRecord `json:"registry_without_file"`

	// Warnings collects malformed-input findings that degraded instead of
	// failing the reconciliation.
	Warnings []string `json:"warnings,omitempty"`
}

// Deletable returns the union of stale and orphaned temp artifacts, stale
// first, deduplicated by path.
func (r Report) Deletable() []artifact.TempArtifact {
	seen := make(map[string]bool, len(r.StaleTempArtifacts)+len(r.OrphanedTempArtifacts))
	ret := make([]artifact.TempArtifact, 0, len(r.StaleTempArtifacts)+len(r.OrphanedTempArtifacts))
	for _, a := range r.StaleTempArtifacts {
		if seen[a.Path] {
			continue
		}
		seen[a.Path] = true
		ret = append(ret, a)
	}
	for _, a := range r.OrphanedTempArtifacts {
		if seen[a.Path] {
			continue
		}
		seen[a.Path] = true
		ret = append(ret, a)
	}
	return ret
}

// Reconcile is a pure function over four snapshots taken at call time. It is
// total: malformed entries degrade into report warnings, never into errors.
// A temp artifact that is both stale and orphaned is reported once, as
// stale, since supersession is the stronger deletion justification.
func Reconcile(
	records []registry.CaptionRecord,
	tempArtifacts []artifact.TempArtifact,
	publishedArtifacts []artifact.PublishedArtifact,
	allVideoIDs []string,
) Report {
	report := Report{
		VideosWithoutCaptions:    make([]string, 0),
		PublishedWithoutRegistry: make([]artifact.PublishedArtifact, 0),
		StaleTempArtifacts:       make([]artifact.TempArtifact, 0),
		OrphanedTempArtifacts:    make([]artifact.TempArtifact, 0),
		RegistryWithoutFile:      make([]registry.CaptionRecord, 0),
	}

	knownVideos := make(map[string]bool, len(allVideoIDs))
	for _, id := range allVideoIDs {
		if id == "" {
			report.warn("video catalog contains an empty video id")
			continue
		}
		knownVideos[id] = true
	}

	captionedVideos := make(map[string]bool, len(records))
	recordKeys := make(map[string]bool, len(records))
	for _, record := range records {
		if record.VideoID == "" {
			report.warn("registry record with empty video id (language=%q)", record.Language)
			continue
		}
		if record.Language == "" {
			report.warn("registry record with empty language (video=%q)", record.VideoID)
		}
		captionedVideos[record.VideoID] = true
		recordKeys[record.VideoID+"_"+record.Language] = true
	}

	publishedVideos := make(map[string]bool, len(publishedArtifacts))
	publishedKeys := make(map[string]bool, len(publishedArtifacts))
	for _, published := range publishedArtifacts {
		if published.VideoID == "" || published.Language == "" {
			report.warn("published artifact with incomplete key: %s", published.Path)
			continue
		}
		publishedVideos[published.VideoID] = true
		publishedKeys[published.Key()] = true
		if !recordKeys[published.Key()] {
			report.PublishedWithoutRegistry = append(report.PublishedWithoutRegistry, published)
		}
	}

	for _, temp := range tempArtifacts {
		if temp.VideoID == "" {
			report.warn("temp artifact with empty video id: %s", temp.Path)
			continue
		}
		switch {
		case publishedVideos[temp.VideoID]:
			// supersession wins over orphaning
			report.StaleTempArtifacts = append(report.StaleTempArtifacts, temp)
		case !knownVideos[temp.VideoID]:
			report.OrphanedTempArtifacts = append(report.OrphanedTempArtifacts, temp)
		}
	}

	for id := range knownVideos {
		if !captionedVideos[id] {
			report.VideosWithoutCaptions = append(report.VideosWithoutCaptions, id)
		}
	}
	sort.Strings(report.VideosWithoutCaptions)

	for _, record := range records {
		if record.VideoID == "" || record.Language == "" {
			continue
		}
		if !publishedKeys[record.VideoID+"_"+record.Language] {
			report.RegistryWithoutFile = append(report.RegistryWithoutFile, record)
		}
	}

	return report
}

func (r *Report) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
