package media

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/lumavid/captionpipe/internal/caperr"
	"github.com/lumavid/captionpipe/pkg/log"
)

// Extraction parameters expected by the transcription engines: mono linear
// PCM at 16 kHz.
const (
	audioCodec      = "pcm_s16le"
	audioSampleRate = "16000"
	audioChannels   = "1"
)

// AudioExtractor pulls the audio track out of a video container using ffmpeg.
type AudioExtractor struct {
	ffmpegCmd string
}

type ExtractorOption func(*AudioExtractor)

// WithFfmpegCommand overrides the ffmpeg executable name or path.
func WithFfmpegCommand(cmd string) ExtractorOption {
	return func(x *AudioExtractor) {
		x.ffmpegCmd = cmd
	}
}

func NewAudioExtractor(opts ...ExtractorOption) *AudioExtractor {
	x := &AudioExtractor{
		ffmpegCmd: "ffmpeg",
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// ExtractAudio decodes the audio track of videoPath into a mono 16 kHz WAV
// file at audioPath. The source is never modified. On any failure, including
// cancellation, a partial output file is removed before returning.
func (x *AudioExtractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	if _, err := os.Stat(videoPath); err != nil {
		if os.IsNotExist(err) {
			return caperr.Wrap(err, caperr.ErrNotFound, "video file does not exist").
				WithContext("path", videoPath)
		}
		return caperr.Wrap(err, caperr.ErrFileRead, "cannot access video file").
			WithContext("path", videoPath)
	}

	cmdPath, err := exec.LookPath(x.ffmpegCmd)
	if err != nil {
		return caperr.Wrap(err, caperr.ErrExternalTool, "ffmpeg is not installed").
			WithContext("command", x.ffmpegCmd)
	}

	if err := os.MkdirAll(filepath.Dir(audioPath), 0o755); err != nil {
		return caperr.Wrap(err, caperr.ErrFileWrite, "failed to create audio output directory")
	}

	cmd := exec.CommandContext(ctx, cmdPath, x.extractAudioArgs(videoPath, audioPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// never leave a partial WAV behind
		_ = os.Remove(audioPath)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error("ffmpeg failed for %s: %v", videoPath, err)
		return caperr.Wrap(err, caperr.ErrExternalTool, "ffmpeg exited with an error").
			WithContext("video", videoPath).
			WithContext("stderr", truncateStderr(stderr.String()))
	}

	return nil
}

func (x *AudioExtractor) extractAudioArgs(videoPath, audioPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-vn", // drop the video stream
		"-acodec", audioCodec,
		"-ar", audioSampleRate,
		"-ac", audioChannels,
		audioPath,
	}
}

func truncateStderr(s string) string {
	const max = 512
	if len(s) > max {
		return s[len(s)-max:]
	}
	return s
}
