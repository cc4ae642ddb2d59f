package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumavid/captionpipe/internal/artifact"
	"github.com/lumavid/captionpipe/internal/caperr"
	"github.com/lumavid/captionpipe/internal/cue"
	"github.com/lumavid/captionpipe/internal/transcribe"
)

type fakeExtractor struct {
	calls atomic.Int64
	err   error
}

func (f *fakeExtractor) ExtractAudio(_ context.Context, _, audioPath string) error {
	f.calls.Add(1)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(audioPath, []byte("RIFF"), 0644)
}

type fakeTranscriber struct {
	calls    atomic.Int64
	segments []cue.Segment
	err      error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string, _ transcribe.Options) ([]cue.Segment, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.segments, nil
}

func sampleSegments() []cue.Segment {
	return []cue.Segment{
		{Start: 0, End: 2 * time.Second, Text: "Hello."},
		{Start: 2 * time.Second, End: 4 * time.Second, Text: "Goodbye."},
	}
}

func newTestGenerator(t *testing.T) (*Generator, *fakeExtractor, *fakeTranscriber, *artifact.Locator) {
	t.Helper()
	extractor := &fakeExtractor{}
	transcriber := &fakeTranscriber{segments: sampleSegments()}
	locator := artifact.NewLocator(t.TempDir(), t.TempDir())
	generator := NewGenerator(extractor, transcriber, locator, transcribe.Options{})
	return generator, extractor, transcriber, locator
}

func sourceFile(t *testing.T, name string) VideoSource {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".mp4")
	require.NoError(t, os.WriteFile(path, []byte("video"), 0644))
	return VideoSource{VideoID: name, Path: path}
}

func TestGenerate(t *testing.T) {
	generator, extractor, transcriber, locator := newTestGenerator(t)
	source := sourceFile(t, "V1")

	status, err := generator.Generate(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, StatusGenerated, status)
	assert.EqualValues(t, 1, extractor.calls.Load())
	assert.EqualValues(t, 1, transcriber.calls.Load())

	parsed, err := cue.ParseFile(locator.TempPath("V1"))
	require.NoError(t, err)
	assert.Equal(t, sampleSegments(), parsed)
}

func TestGenerate_SkipsExistingTempArtifact(t *testing.T) {
	generator, extractor, transcriber, _ := newTestGenerator(t)
	source := sourceFile(t, "V1")

	status, err := generator.Generate(context.Background(), source)
	require.NoError(t, err)
	require.Equal(t, StatusGenerated, status)

	// second run finds the valid artifact and invokes no tools
	status, err = generator.Generate(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, status)
	assert.EqualValues(t, 1, extractor.calls.Load())
	assert.EqualValues(t, 1, transcriber.calls.Load())
}

func TestGenerate_SkipsPublishedVideo(t *testing.T) {
	generator, extractor, _, locator := newTestGenerator(t)
	source := sourceFile(t, "V1")

	data, err := cue.Encode(sampleSegments())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(locator.PublishedPath("V1", "en"), data, 0644))

	status, err := generator.Generate(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, status)
	assert.EqualValues(t, 0, extractor.calls.Load())
}

func TestGenerate_RegeneratesTruncatedArtifact(t *testing.T) {
	generator, extractor, _, locator := newTestGenerator(t)
	source := sourceFile(t, "V1")

	// a truncated leftover from a crashed run is absent-equivalent
	require.NoError(t, os.WriteFile(locator.TempPath("V1"), []byte("WEBV"), 0644))

	status, err := generator.Generate(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, StatusGenerated, status)
	assert.EqualValues(t, 1, extractor.calls.Load())
	assert.True(t, cue.Valid(locator.TempPath("V1")))
}

func TestGenerate_ExtractionFailureWritesNothing(t *testing.T) {
	generator, extractor, _, locator := newTestGenerator(t)
	extractor.err = caperr.New(caperr.ErrExternalTool, "ffmpeg exploded")
	source := sourceFile(t, "V1")

	status, err := generator.Generate(context.Background(), source)
	assert.Equal(t, StatusFailed, status)
	assert.True(t, caperr.IsType(err, caperr.ErrExternalTool))
	assert.NoFileExists(t, locator.TempPath("V1"))
}

func TestGenerateFile(t *testing.T) {
	generator, _, _, _ := newTestGenerator(t)
	source := sourceFile(t, "V1")
	output := filepath.Join(t.TempDir(), "V1.vtt")

	require.NoError(t, generator.GenerateFile(context.Background(), source.Path, output))

	parsed, err := cue.ParseFile(output)
	require.NoError(t, err)
	assert.Len(t, parsed, 2)
}

func TestRunBatch(t *testing.T) {
	generator, _, _, locator := newTestGenerator(t)

	sources := []VideoSource{sourceFile(t, "V1"), sourceFile(t, "V2"), sourceFile(t, "V3")}

	// V2 already has a valid temp artifact
	require.NoError(t, cue.WriteFile(locator.TempPath("V2"), sampleSegments()))

	summary := generator.RunBatch(context.Background(), sources, 2)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, summary.Failures)
}

func TestRunBatch_FailuresAreIsolated(t *testing.T) {
	extractor := &fakeExtractor{}
	transcriber := &fakeTranscriber{err: caperr.New(caperr.ErrEmptyTranscription, "no speech detected")}
	locator := artifact.NewLocator(t.TempDir(), t.TempDir())
	generator := NewGenerator(extractor, transcriber, locator, transcribe.Options{})

	// V2 is pre-generated so the batch has one success alongside the failure
	require.NoError(t, cue.WriteFile(locator.TempPath("V2"), sampleSegments()))

	summary := generator.RunBatch(context.Background(), []VideoSource{
		sourceFile(t, "V1"),
		{VideoID: "V2", Path: "unused"},
	}, 1)

	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, summary.Failures["V1"], "no speech detected")
}
