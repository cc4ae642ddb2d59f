package service

import (
	"context"
	"os"

	"github.com/lumavid/captionpipe/internal/artifact"
	"github.com/lumavid/captionpipe/internal/cleanup"
	"github.com/lumavid/captionpipe/internal/reconcile"
	"github.com/lumavid/captionpipe/internal/registry"
)

// Snapshot holds the point-in-time listings the reconciler consumes. Each
// read is cheap and independently owned; no locking is involved.
type Snapshot struct {
	Records     []registry.CaptionRecord     `json:"records"`
	Temp        []artifact.TempArtifact      `json:"temp"`
	Published   []artifact.PublishedArtifact `json:"published"`
	VideoIDs    []string                     `json:"video_ids"`
	Unparseable []string                     `json:"unparseable,omitempty"`
}

// RecordCheck correlates one registry record with its expected on-disk path.
type RecordCheck struct {
	Record       registry.CaptionRecord `json:"record"`
	ExpectedPath string                 `json:"expected_path"`
	FileExists   bool                   `json:"file_exists"`
}

// Diagnostics is the read-only report surfaced by the report command and
// the HTTP API.
type Diagnostics struct {
	VideoCount     int              `json:"video_count"`
	CaptionCount   int              `json:"caption_count"`
	TempCount      int              `json:"temp_count"`
	PublishedCount int              `json:"published_count"`
	Report         reconcile.Report `json:"report"`
	RecordChecks   []RecordCheck    `json:"record_checks"`
	Unparseable    []string         `json:"unparseable,omitempty"`
}

// Auditor wires the artifact locator, the registry and the reconciler into
// the audit and cleanup surfaces.
type Auditor struct {
	registry  registry.Registry
	catalog   registry.VideoCatalog
	locator   *artifact.Locator
	collector *cleanup.Collector
}

func NewAuditor(reg registry.Registry, catalog registry.VideoCatalog, locator *artifact.Locator) *Auditor {
	return &Auditor{
		registry:  reg,
		catalog:   catalog,
		locator:   locator,
		collector: cleanup.NewCollector(locator.TempDir()),
	}
}

// Snapshot takes fresh listings of all three stores plus the video catalog.
func (a *Auditor) Snapshot(ctx context.Context) (Snapshot, error) {
	records, err := a.registry.ListAll(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	videoIDs, err := a.catalog.ListVideoIDs(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	temp, tempUnparseable, err := a.locator.ListTemp()
	if err != nil {
		return Snapshot{}, err
	}
	published, pubUnparseable, err := a.locator.ListPublished()
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Records:     records,
		Temp:        temp,
		Published:   published,
		VideoIDs:    videoIDs,
		Unparseable: append(tempUnparseable, pubUnparseable...),
	}, nil
}

// Report reconciles a fresh snapshot.
func (a *Auditor) Report(ctx context.Context) (reconcile.Report, Snapshot, error) {
	snapshot, err := a.Snapshot(ctx)
	if err != nil {
		return reconcile.Report{}, Snapshot{}, err
	}
	report := reconcile.Reconcile(snapshot.Records, snapshot.Temp, snapshot.Published, snapshot.VideoIDs)
	return report, snapshot, nil
}

// Diagnose builds the full diagnostic report, optionally narrowed to one
// video id. Every registry record is correlated with its expected on-disk
// path.
func (a *Auditor) Diagnose(ctx context.Context, videoID string) (Diagnostics, error) {
	report, snapshot, err := a.Report(ctx)
	if err != nil {
		return Diagnostics{}, err
	}

	records := snapshot.Records
	if videoID != "" {
		filtered := make([]registry.CaptionRecord, 0, len(records))
		for _, record := range records {
			if record.VideoID == videoID {
				filtered = append(filtered, record)
			}
		}
		records = filtered
	}

	checks := make([]RecordCheck, 0, len(records))
	for _, record := range records {
		expected := record.FilePath
		if expected == "" {
			expected = a.locator.PublishedPath(record.VideoID, record.Language)
		}
		_, statErr := os.Stat(expected)
		checks = append(checks, RecordCheck{
			Record:       record,
			ExpectedPath: expected,
			FileExists:   statErr == nil,
		})
	}

	return Diagnostics{
		VideoCount:     len(snapshot.VideoIDs),
		CaptionCount:   len(snapshot.Records),
		TempCount:      len(snapshot.Temp),
		PublishedCount: len(snapshot.Published),
		Report:         report,
		RecordChecks:   checks,
		Unparseable:    snapshot.Unparseable,
	}, nil
}

// Cleanup runs locate, reconcile and collect end-to-end.
func (a *Auditor) Cleanup(ctx context.Context, dryRun bool) (reconcile.Report, cleanup.Result, Snapshot, error) {
	report, snapshot, err := a.Report(ctx)
	if err != nil {
		return reconcile.Report{}, cleanup.Result{}, Snapshot{}, err
	}
	result := a.collector.Run(report, dryRun)
	return report, result, snapshot, nil
}
