package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/lumavid/captionpipe/internal/httpapi"
	"github.com/lumavid/captionpipe/internal/service"
	"github.com/lumavid/captionpipe/internal/transcribe"
	"github.com/lumavid/captionpipe/pkg/log"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the transcription API and run scheduled audits",
	Long: `Start the HTTP API: POST /api/transcriptions accepts a binary audio
payload and answers with the URL of the generated cue file, and
GET /api/captions/report exposes the diagnostic report. A cron-scheduled
audit logs drift between the registry and the caption directories.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	transcriber, err := transcribe.New(cfg.FactoryConfig())
	if err != nil {
		return err
	}

	auditor := newAuditor(cfg, store)
	server := httpapi.NewServer(
		transcriber,
		auditor,
		cfg.Artifacts.HTTPDir,
		httpapi.WithTranscribeOptions(transcribe.Options{
			Model:    cfg.Transcribe.Model,
			Language: cfg.Transcribe.Language,
		}),
	)

	scheduler := service.NewAuditScheduler(auditor, cron.New(), cfg.Server.AuditCronExpr)
	if err := scheduler.Schedule(cmd.Context()); err != nil {
		return err
	}
	defer scheduler.Stop()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening on %s", addr)
		errCh <- server.ListenAndServe(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-sigCh:
		log.Info("received %s, shutting down", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
