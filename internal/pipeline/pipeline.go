package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lumavid/captionpipe/internal/artifact"
	"github.com/lumavid/captionpipe/internal/cue"
	"github.com/lumavid/captionpipe/internal/transcribe"
	"github.com/lumavid/captionpipe/pkg/log"
)

// AudioExtractor pulls a transcribable audio track out of a video container.
// Satisfied by media.AudioExtractor; tests substitute a fake.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}

// VideoSource is one candidate video for caption generation.
type VideoSource struct {
	VideoID string
	Path    string
}

// Status describes how one video's pipeline run ended.
type Status string

const (
	StatusGenerated Status = "generated"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Summary is the human-facing outcome of a batch run. Individual failures
// never abort the batch.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Failures  map[string]string
}

// Generator drives the per-video pipeline: audio extraction, transcription,
// cue encoding, atomic temp-artifact write.
type Generator struct {
	extractor   AudioExtractor
	transcriber transcribe.Transcriber
	locator     *artifact.Locator
	opts        transcribe.Options
}

func NewGenerator(
	extractor AudioExtractor,
	transcriber transcribe.Transcriber,
	locator *artifact.Locator,
	opts transcribe.Options,
) *Generator {
	return &Generator{
		extractor:   extractor,
		transcriber: transcriber,
		locator:     locator,
		opts:        opts,
	}
}

// Generate runs the pipeline for one video and writes the cue document into
// the temp working directory keyed by video id. An existing valid temp
// artifact or any published artifact for the video skips the run without
// invoking external tools; that existence check is the sole idempotence
// mechanism.
func (g *Generator) Generate(ctx context.Context, source VideoSource) (Status, error) {
	tempPath := g.locator.TempPath(source.VideoID)

	if cue.Valid(tempPath) {
		log.Debug("temp artifact already exists for %s, skipping", source.VideoID)
		return StatusSkipped, nil
	}

	published, _, err := g.locator.ListPublished()
	if err == nil {
		for _, p := range published {
			if p.VideoID == source.VideoID {
				log.Debug("published caption already exists for %s, skipping", source.VideoID)
				return StatusSkipped, nil
			}
		}
	}

	// a leftover invalid (truncated) artifact is absent-equivalent
	_ = os.Remove(tempPath)

	segments, err := g.transcribeVideo(ctx, source)
	if err != nil {
		return StatusFailed, err
	}

	if err := cue.WriteFile(tempPath, segments); err != nil {
		return StatusFailed, err
	}
	log.Info("generated captions for %s (%d cues)", source.VideoID, len(segments))
	return StatusGenerated, nil
}

// GenerateFile runs extraction, transcription and encoding for a single
// video file and writes the cue document to outputPath, bypassing the temp
// directory bookkeeping. Used by the CLI generation entry point.
func (g *Generator) GenerateFile(ctx context.Context, videoPath, outputPath string) error {
	segments, err := g.transcribeVideo(ctx, VideoSource{
		VideoID: filepath.Base(videoPath),
		Path:    videoPath,
	})
	if err != nil {
		return err
	}
	return cue.WriteFile(outputPath, segments)
}

func (g *Generator) transcribeVideo(ctx context.Context, source VideoSource) ([]cue.Segment, error) {
	workDir, err := os.MkdirTemp("", "captionpipe-audio-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(workDir)

	audioPath := filepath.Join(workDir, "audio.wav")
	if err := g.extractor.ExtractAudio(ctx, source.Path, audioPath); err != nil {
		return nil, err
	}

	return g.transcriber.Transcribe(ctx, audioPath, g.opts)
}

// RunBatch processes every source with bounded parallelism. Each video's
// temp write is atomic, so a concurrent reconciler snapshot never sees a
// half-written artifact. One failing video never aborts the others.
func (g *Generator) RunBatch(ctx context.Context, sources []VideoSource, concurrency int) Summary {
	if concurrency < 1 {
		concurrency = 1
	}

	summary := Summary{Failures: make(map[string]string)}
	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for _, source := range sources {
		source := source
		group.Go(func() error {
			status, err := g.Generate(ctx, source)

			mu.Lock()
			defer mu.Unlock()
			switch status {
			case StatusGenerated:
				summary.Processed++
			case StatusSkipped:
				summary.Skipped++
			case StatusFailed:
				summary.Failed++
				if err != nil {
					summary.Failures[source.VideoID] = err.Error()
					log.Error("pipeline failed for %s: %v", source.VideoID, err)
				}
			}
			// per-video failures are reported, never propagated
			return nil
		})
	}

	_ = group.Wait()
	return summary
}
