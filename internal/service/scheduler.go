package service

import (
	"context"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/lumavid/captionpipe/pkg/log"
)

var auditGroup singleflight.Group

// AuditScheduler periodically reconciles the three stores and logs the
// drift. Deletion stays a manual decision; the scheduled run only reports.
type AuditScheduler struct {
	auditor  *Auditor
	cron     *cron.Cron
	cronExpr string
}

func NewAuditScheduler(auditor *Auditor, c *cron.Cron, cronExpr string) *AuditScheduler {
	return &AuditScheduler{
		auditor:  auditor,
		cron:     c,
		cronExpr: cronExpr,
	}
}

func (s *AuditScheduler) Schedule(ctx context.Context) error {
	runFunc := func() {
		// overlapping runs collapse into one
		_, _, _ = auditGroup.Do("audit", func() (any, error) {
			s.runAudit(ctx)
			return nil, nil
		})
	}
	if _, err := s.cron.AddFunc(s.cronExpr, runFunc); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *AuditScheduler) Stop() {
	s.cron.Stop()
}

func (s *AuditScheduler) runAudit(ctx context.Context) {
	report, snapshot, err := s.auditor.Report(ctx)
	if err != nil {
		log.Error("scheduled audit failed: %v", err)
		return
	}
	log.Info("audit: %d videos, %d caption records, %d temp files, %d published files",
		len(snapshot.VideoIDs), len(snapshot.Records), len(snapshot.Temp), len(snapshot.Published))
	log.Info("audit: %d without captions, %d stale temp, %d orphaned temp, %d published without registry, %d broken registry references",
		len(report.VideosWithoutCaptions),
		len(report.StaleTempArtifacts),
		len(report.OrphanedTempArtifacts),
		len(report.PublishedWithoutRegistry),
		len(report.RegistryWithoutFile))
	for _, warning := range report.Warnings {
		log.Warn("audit: %s", warning)
	}
}
