package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupDryRun bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete stale and orphaned temp artifacts",
	Long: `Snapshot the registry, the temp directory and the published directory,
reconcile them and delete every temp artifact that is superseded by a
published caption or whose video no longer exists. Published captions and
registry rows are never touched. The exit status is non-zero if any
deletion failed.`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "list deletable artifacts without deleting")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	report, result, snapshot, err := newAuditor(cfg, store).Cleanup(cmd.Context(), cleanupDryRun)
	if err != nil {
		return err
	}

	fmt.Printf("videos: %d, caption records: %d, temp files: %d, published files: %d\n",
		len(snapshot.VideoIDs), len(snapshot.Records), len(snapshot.Temp), len(snapshot.Published))

	deletable := report.Deletable()
	fmt.Printf("deletable temp artifacts (%d):\n", len(deletable))
	for _, candidate := range deletable {
		fmt.Printf("  %s (%s)\n", candidate.VideoID, candidate.Path)
	}

	for _, outcome := range result.Outcomes {
		line := fmt.Sprintf("  %s: %s", outcome.Path, outcome.Status)
		if outcome.Reason != "" {
			line += " (" + outcome.Reason + ")"
		}
		fmt.Println(line)
	}

	if cleanupDryRun {
		fmt.Println("dry run: nothing was deleted")
		return nil
	}

	fmt.Printf("deleted %d of %d candidates\n", result.Deleted(), len(deletable))
	if result.Failed() {
		return fmt.Errorf("some temp artifacts could not be deleted")
	}
	return nil
}
