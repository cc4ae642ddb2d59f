package transcribe

import (
	"context"
	"fmt"

	"github.com/lumavid/captionpipe/internal/cue"
)

// Model selects the speech-recognition model size. Larger models trade
// latency for accuracy; the output format is identical across sizes.
type Model string

const (
	ModelTiny   Model = "tiny"
	ModelBase   Model = "base"
	ModelSmall  Model = "small"
	ModelMedium Model = "medium"
	ModelLarge  Model = "large"
)

// DefaultModel is used when no model is configured.
const DefaultModel = ModelBase

// ParseModel validates a model name from configuration or CLI flags.
func ParseModel(s string) (Model, error) {
	switch Model(s) {
	case ModelTiny, ModelBase, ModelSmall, ModelMedium, ModelLarge:
		return Model(s), nil
	case "":
		return DefaultModel, nil
	default:
		return "", fmt.Errorf("unknown model %q (expected tiny, base, small, medium or large)", s)
	}
}

// Options tunes a single transcription pass.
type Options struct {
	Model Model
	// Language is an ISO 639-1 hint. Empty means the engine auto-detects
	// the spoken language.
	Language string
}

// Transcriber converts an audio file into ordered, timed speech segments in
// a single pass.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) ([]cue.Segment, error)
}
