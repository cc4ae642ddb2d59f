package transcribe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumavid/captionpipe/internal/caperr"
)

// installMockWhisper writes a shell script named "whisper" into a fresh
// directory and prepends that directory to PATH for the test.
func installMockWhisper(t *testing.T, script string) {
	t.Helper()
	binDir := t.TempDir()
	path := filepath.Join(binDir, "whisper")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func writeAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0644))
	return path
}

const mockWhisperScript = `audio="$1"
shift
outdir="."
while [ $# -gt 0 ]; do
  if [ "$1" = "--output_dir" ]; then
    outdir="$2"
  fi
  shift
done
base=$(basename "$audio")
printf 'WEBVTT\n\n1\n00:00:00.000 --> 00:00:02.000\nHello from the engine.\n\n' > "$outdir/${base%.*}.vtt"
`

func TestLocalEngine_Transcribe(t *testing.T) {
	installMockWhisper(t, mockWhisperScript)
	engine := NewLocalEngine("whisper", t.TempDir())

	segments, err := engine.Transcribe(context.Background(), writeAudioFile(t), Options{})
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "Hello from the engine.", segments[0].Text)
	assert.Equal(t, 2*time.Second, segments[0].End)
}

func TestLocalEngine_ArgumentsForwarded(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	installMockWhisper(t, `echo "$@" > `+argsFile+"\n"+mockWhisperScript)
	engine := NewLocalEngine("whisper", t.TempDir())

	_, err := engine.Transcribe(context.Background(), writeAudioFile(t), Options{
		Model:    ModelSmall,
		Language: "de",
	})
	require.NoError(t, err)

	args, readErr := os.ReadFile(argsFile)
	require.NoError(t, readErr)
	assert.Contains(t, string(args), "--model small")
	assert.Contains(t, string(args), "--language de")
	assert.Contains(t, string(args), "--output_format vtt")
}

func TestLocalEngine_MissingAudio(t *testing.T) {
	installMockWhisper(t, mockWhisperScript)
	engine := NewLocalEngine("whisper", t.TempDir())

	_, err := engine.Transcribe(context.Background(), filepath.Join(t.TempDir(), "absent.wav"), Options{})
	assert.True(t, caperr.IsType(err, caperr.ErrNotFound))
}

func TestLocalEngine_CommandNotInstalled(t *testing.T) {
	engine := NewLocalEngine("definitely-not-a-real-whisper-binary", t.TempDir())

	_, err := engine.Transcribe(context.Background(), writeAudioFile(t), Options{})
	assert.True(t, caperr.IsType(err, caperr.ErrExternalTool))
}

func TestLocalEngine_CommandFails(t *testing.T) {
	installMockWhisper(t, "echo 'model load failed' >&2\nexit 1\n")
	engine := NewLocalEngine("whisper", t.TempDir())

	_, err := engine.Transcribe(context.Background(), writeAudioFile(t), Options{})
	require.True(t, caperr.IsType(err, caperr.ErrExternalTool))

	var capErr *caperr.CaptionError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "model load failed", capErr.Context["stderr"])
}

func TestLocalEngine_NoSpeechSegments(t *testing.T) {
	installMockWhisper(t, `audio="$1"
shift
outdir="."
while [ $# -gt 0 ]; do
  if [ "$1" = "--output_dir" ]; then
    outdir="$2"
  fi
  shift
done
base=$(basename "$audio")
printf 'WEBVTT\n' > "$outdir/${base%.*}.vtt"
`)
	engine := NewLocalEngine("whisper", t.TempDir())

	_, err := engine.Transcribe(context.Background(), writeAudioFile(t), Options{})
	assert.True(t, caperr.IsType(err, caperr.ErrEmptyTranscription))
}

func TestLocalEngine_NoOutputFile(t *testing.T) {
	installMockWhisper(t, "exit 0\n")
	engine := NewLocalEngine("whisper", t.TempDir())

	_, err := engine.Transcribe(context.Background(), writeAudioFile(t), Options{})
	assert.True(t, caperr.IsType(err, caperr.ErrExternalTool))
}
