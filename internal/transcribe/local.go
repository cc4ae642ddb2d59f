package transcribe

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/lumavid/captionpipe/internal/caperr"
	"github.com/lumavid/captionpipe/internal/cue"
	"github.com/lumavid/captionpipe/pkg/file"
	"github.com/lumavid/captionpipe/pkg/log"
)

// LocalEngine runs a locally installed whisper executable as a subprocess
// and reads the cue document it writes into a known output directory.
type LocalEngine struct {
	whisperCmd string
	outputDir  string
}

func NewLocalEngine(whisperCmd, outputDir string) *LocalEngine {
	if whisperCmd == "" {
		whisperCmd = "whisper"
	}
	return &LocalEngine{
		whisperCmd: whisperCmd,
		outputDir:  outputDir,
	}
}

func (e *LocalEngine) Transcribe(ctx context.Context, audioPath string, opts Options) ([]cue.Segment, error) {
	if _, err := os.Stat(audioPath); err != nil {
		if os.IsNotExist(err) {
			return nil, caperr.Wrap(err, caperr.ErrNotFound, "audio file does not exist").
				WithContext("path", audioPath)
		}
		return nil, caperr.Wrap(err, caperr.ErrFileRead, "cannot access audio file").
			WithContext("path", audioPath)
	}

	cmdPath, err := exec.LookPath(e.whisperCmd)
	if err != nil {
		return nil, caperr.Wrap(err, caperr.ErrExternalTool, "whisper is not installed").
			WithContext("command", e.whisperCmd)
	}

	outDir := e.outputDir
	if outDir == "" {
		outDir, err = os.MkdirTemp("", "captionpipe-whisper-")
		if err != nil {
			return nil, caperr.Wrap(err, caperr.ErrFileWrite, "failed to create engine output directory")
		}
		defer os.RemoveAll(outDir)
	} else if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, caperr.Wrap(err, caperr.ErrFileWrite, "failed to create engine output directory")
	}

	started := time.Now()
	cmd := exec.CommandContext(ctx, cmdPath, e.transcribeArgs(audioPath, outDir, opts)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Error("whisper failed for %s: %v", audioPath, err)
		return nil, caperr.Wrap(err, caperr.ErrExternalTool, "whisper exited with an error").
			WithContext("audio", audioPath).
			WithContext("stderr", strings.TrimSpace(stderr.String()))
	}

	outPath, err := e.locateOutput(audioPath, outDir, started)
	if err != nil {
		return nil, err
	}
	defer os.Remove(outPath)

	segments, err := cue.ParseFile(outPath)
	if err != nil {
		if errors.Is(err, cue.ErrNoCues) {
			return nil, caperr.Wrap(err, caperr.ErrEmptyTranscription, "engine produced no speech segments").
				WithContext("audio", audioPath)
		}
		return nil, caperr.Wrap(err, caperr.ErrExternalTool, "engine output is not a valid cue document").
			WithContext("output", outPath)
	}
	return segments, nil
}

// locateOutput resolves the cue file whisper wrote. The expected name is the
// audio base name with the cue extension, but whisper sanitizes some file
// names, so fall back to the newest cue file written after the run started.
func (e *LocalEngine) locateOutput(audioPath, outDir string, started time.Time) (string, error) {
	expected := filepath.Join(outDir, filepath.Base(file.ReplaceExt(audioPath, cue.Extension)))
	if _, err := os.Stat(expected); err == nil {
		return expected, nil
	}

	recent, err := file.FindRecentAfter(outDir, started.Add(-time.Second))
	if err == nil {
		for _, candidate := range recent {
			if strings.EqualFold(filepath.Ext(candidate), cue.Extension) {
				return candidate, nil
			}
		}
	}

	return "", caperr.New(caperr.ErrExternalTool, "engine did not produce a cue file").
		WithContext("expected", expected)
}

func (e *LocalEngine) transcribeArgs(audioPath, outDir string, opts Options) []string {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	args := []string{
		audioPath,
		"--model", string(model),
		"--output_format", "vtt",
		"--output_dir", outDir,
		"--verbose", "False",
	}
	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}
	return args
}
