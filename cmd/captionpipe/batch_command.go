package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lumavid/captionpipe/internal/config"
	"github.com/lumavid/captionpipe/internal/pipeline"
	"github.com/lumavid/captionpipe/internal/registry"
	"github.com/lumavid/captionpipe/pkg/log"
)

var (
	batchModel       string
	batchLanguage    string
	batchStrategy    string
	batchConcurrency int
)

// ordered by preference when multiple containers exist for one video id
var videoExtensions = []string{".mp4", ".mkv", ".webm", ".mov", ".avi", ".m4v"}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate captions for every video that has none yet",
	Long: `Enumerate the video catalog, match each video to its source file in the
video source directory and run the generation pipeline for every candidate.
Videos with an existing temp or published artifact are skipped; one failing
video never aborts the rest.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchModel, "model", "m", "", "model size: tiny, base, small, medium, large")
	batchCmd.Flags().StringVarP(&batchLanguage, "language", "l", "", "ISO 639-1 language hint (default: auto-detect)")
	batchCmd.Flags().StringVar(&batchStrategy, "strategy", "", "transcriber strategy: local or remote")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "j", 0, "parallel per-video pipeline runs (default: BATCH_CONCURRENCY)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	sources, missing, err := enumerateSources(cmd, cfg, store)
	if err != nil {
		return err
	}
	for _, video := range missing {
		log.Warn("no source file found for video %s (%q), skipping", video.ID, video.Title)
	}

	generator, err := newGenerator(cfg, batchModel, batchLanguage, batchStrategy)
	if err != nil {
		return err
	}

	concurrency := cfg.Batch.Concurrency
	if batchConcurrency > 0 {
		concurrency = batchConcurrency
	}

	summary := generator.RunBatch(cmd.Context(), sources, concurrency)

	fmt.Printf("batch finished: %d processed, %d skipped, %d failed\n",
		summary.Processed, summary.Skipped, summary.Failed)
	failedIDs := make([]string, 0, len(summary.Failures))
	for id := range summary.Failures {
		failedIDs = append(failedIDs, id)
	}
	sort.Strings(failedIDs)
	for _, id := range failedIDs {
		fmt.Printf("  failed %s: %s\n", id, summary.Failures[id])
	}
	return nil
}

// enumerateSources pairs every catalog video with its file in the source
// directory. Videos without a matching file are reported, not failed.
func enumerateSources(cmd *cobra.Command, cfg *config.Config, catalog registry.VideoCatalog) ([]pipeline.VideoSource, []registry.Video, error) {
	videos, err := catalog.ListVideos(cmd.Context())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list videos: %w", err)
	}

	sources := make([]pipeline.VideoSource, 0, len(videos))
	missing := make([]registry.Video, 0)
	for _, video := range videos {
		path, ok := findVideoFile(cfg.Artifacts.VideoSourceDir, video.ID)
		if !ok {
			missing = append(missing, video)
			continue
		}
		sources = append(sources, pipeline.VideoSource{VideoID: video.ID, Path: path})
	}
	return sources, missing, nil
}

func findVideoFile(dir, videoID string) (string, bool) {
	for _, ext := range videoExtensions {
		candidate := filepath.Join(dir, videoID+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}
