package transcribe

import (
	"context"
	"errors"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lumavid/captionpipe/internal/caperr"
	"github.com/lumavid/captionpipe/internal/cue"
	"github.com/lumavid/captionpipe/pkg/log"
)

// RemoteEngine uploads the audio payload to a hosted Whisper-compatible
// transcription service and parses its segment-level response.
type RemoteEngine struct {
	client *openai.Client
}

// NewRemoteEngine builds a remote transcriber. baseURL may point at any
// OpenAI-compatible endpoint; empty means the default service.
func NewRemoteEngine(apiKey, baseURL string) *RemoteEngine {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &RemoteEngine{
		client: openai.NewClientWithConfig(cfg),
	}
}

func (e *RemoteEngine) Transcribe(ctx context.Context, audioPath string, opts Options) ([]cue.Segment, error) {
	if _, err := os.Stat(audioPath); err != nil {
		if os.IsNotExist(err) {
			return nil, caperr.Wrap(err, caperr.ErrNotFound, "audio file does not exist").
				WithContext("path", audioPath)
		}
		return nil, caperr.Wrap(err, caperr.ErrFileRead, "cannot access audio file").
			WithContext("path", audioPath)
	}

	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: opts.Language,
	}

	resp, err := e.client.CreateTranscription(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, caperr.Wrap(err, caperr.ErrService, "transcription service request failed").
				WithContext("status", apiErr.HTTPStatusCode).
				WithContext("message", apiErr.Message)
		}
		log.Error("transcription request failed for %s: %v", audioPath, err)
		return nil, caperr.Wrap(err, caperr.ErrService, "transcription service is unreachable")
	}

	if len(resp.Segments) == 0 {
		return nil, caperr.New(caperr.ErrEmptyTranscription, "service returned no speech segments").
			WithContext("audio", audioPath)
	}

	segments := make([]cue.Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, cue.Segment{
			Start: secondsToDuration(s.Start),
			End:   secondsToDuration(s.End),
			Text:  s.Text,
		})
	}
	return segments, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second)).Round(time.Millisecond)
}
