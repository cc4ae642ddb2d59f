package cleanup

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/lumavid/captionpipe/internal/artifact"
	"github.com/lumavid/captionpipe/internal/caperr"
	"github.com/lumavid/captionpipe/internal/reconcile"
	"github.com/lumavid/captionpipe/pkg/log"
)

// OutcomeStatus describes what happened to one deletion candidate.
type OutcomeStatus string

const (
	StatusDeleted      OutcomeStatus = "deleted"
	StatusAlreadyGone  OutcomeStatus = "already_gone"
	StatusDeleteFailed OutcomeStatus = "delete_failed"
	StatusDryRun       OutcomeStatus = "dry_run"
)

// Outcome is the per-artifact result of a cleanup run.
type Outcome struct {
	VideoID string        `json:"video_id"`
	Path    string        `json:"path"`
	Status  OutcomeStatus `json:"status"`
	Reason  string        `json:"reason,omitempty"`
}

// Result summarizes one cleanup run.
type Result struct {
	DryRun   bool      `json:"dry_run"`
	Outcomes []Outcome `json:"outcomes"`
}

// Failed reports whether any deletion attempt failed.
func (r Result) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Status == StatusDeleteFailed {
			return true
		}
	}
	return false
}

func (r Result) Deleted() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusDeleted {
			n++
		}
	}
	return n
}

// Collector deletes temp artifacts the reconciler marked stale or orphaned.
// Deletion scope is restricted to the temp working directory; published
// artifacts and registry rows are never touched.
type Collector struct {
	tempDir string
}

func NewCollector(tempDir string) *Collector {
	return &Collector{tempDir: filepath.Clean(tempDir)}
}

// Candidates returns the deletable set of a report without deleting
// anything.
func (c *Collector) Candidates(report reconcile.Report) []artifact.TempArtifact {
	return report.Deletable()
}

// Run deletes every candidate of the report, re-verifying existence
// immediately before each removal so a concurrently removed file is recorded
// instead of failing. Each deletion is independent; one failure never aborts
// the rest.
func (c *Collector) Run(report reconcile.Report, dryRun bool) Result {
	candidates := report.Deletable()
	result := Result{
		DryRun:   dryRun,
		Outcomes: make([]Outcome, 0, len(candidates)),
	}

	for _, candidate := range candidates {
		outcome := Outcome{
			VideoID: candidate.VideoID,
			Path:    candidate.Path,
		}

		if !c.inTempDir(candidate.Path) {
			outcome.Status = StatusDeleteFailed
			outcome.Reason = "path is outside the temp working directory"
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		if dryRun {
			outcome.Status = StatusDryRun
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		if _, err := os.Stat(candidate.Path); err != nil {
			if os.IsNotExist(err) {
				outcome.Status = StatusAlreadyGone
			} else {
				outcome.Status = StatusDeleteFailed
				outcome.Reason = err.Error()
			}
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		if err := os.Remove(candidate.Path); err != nil {
			capErr := caperr.Wrap(err, caperr.ErrDeleteFailed, "failed to delete temp artifact").
				WithContext("path", candidate.Path)
			log.Warn("%v", capErr)
			outcome.Status = StatusDeleteFailed
			outcome.Reason = err.Error()
		} else {
			log.Info("deleted temp artifact %s", candidate.Path)
			outcome.Status = StatusDeleted
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result
}

// inTempDir guards against a report assembled over a different directory.
func (c *Collector) inTempDir(path string) bool {
	rel, err := filepath.Rel(c.tempDir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
