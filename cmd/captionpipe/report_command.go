package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumavid/captionpipe/internal/service"
)

var (
	reportVideoID string
	reportJSON    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Diagnose drift between registry, temp and published captions",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportVideoID, "video", "", "narrow record checks to one video id")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "emit the report as JSON")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	diagnostics, err := newAuditor(cfg, store).Diagnose(cmd.Context(), reportVideoID)
	if err != nil {
		return err
	}

	if reportJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(diagnostics)
	}

	printDiagnostics(diagnostics)
	return nil
}

func printDiagnostics(d service.Diagnostics) {
	fmt.Printf("videos: %d, caption records: %d, temp files: %d, published files: %d\n",
		d.VideoCount, d.CaptionCount, d.TempCount, d.PublishedCount)

	fmt.Printf("videos without captions (%d):\n", len(d.Report.VideosWithoutCaptions))
	for _, id := range d.Report.VideosWithoutCaptions {
		fmt.Printf("  %s\n", id)
	}

	fmt.Printf("stale temp artifacts (%d):\n", len(d.Report.StaleTempArtifacts))
	for _, a := range d.Report.StaleTempArtifacts {
		fmt.Printf("  %s (%s)\n", a.VideoID, a.Path)
	}

	fmt.Printf("orphaned temp artifacts (%d):\n", len(d.Report.OrphanedTempArtifacts))
	for _, a := range d.Report.OrphanedTempArtifacts {
		fmt.Printf("  %s (%s)\n", a.VideoID, a.Path)
	}

	fmt.Printf("published without registry (%d):\n", len(d.Report.PublishedWithoutRegistry))
	for _, a := range d.Report.PublishedWithoutRegistry {
		fmt.Printf("  %s (%s)\n", a.Key(), a.Path)
	}

	fmt.Printf("registry without file (%d):\n", len(d.Report.RegistryWithoutFile))
	for _, r := range d.Report.RegistryWithoutFile {
		fmt.Printf("  %s (%s) -> %s\n", r.VideoID, r.Language, r.FilePath)
	}

	fmt.Printf("record checks (%d):\n", len(d.RecordChecks))
	for _, check := range d.RecordChecks {
		status := "ok"
		if !check.FileExists {
			status = "MISSING"
		}
		fmt.Printf("  %s (%s) %s: %s\n", check.Record.VideoID, check.Record.Language, status, check.ExpectedPath)
	}

	if len(d.Unparseable) > 0 {
		fmt.Printf("unparseable files (%d):\n", len(d.Unparseable))
		for _, path := range d.Unparseable {
			fmt.Printf("  %s\n", path)
		}
	}

	for _, warning := range d.Report.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}
}
