package transcribe

import (
	"fmt"
)

// Strategy selects which transcription engine backs the Transcriber.
type Strategy string

const (
	StrategyLocal  Strategy = "local"
	StrategyRemote Strategy = "remote"
)

// FactoryConfig holds everything needed to build either strategy.
type FactoryConfig struct {
	Strategy Strategy

	// Local strategy
	WhisperCmd      string
	EngineOutputDir string

	// Remote strategy
	APIKey string
	APIURL string
}

// New creates a Transcriber for the configured strategy.
func New(cfg FactoryConfig) (Transcriber, error) {
	switch cfg.Strategy {
	case StrategyLocal, "":
		return NewLocalEngine(cfg.WhisperCmd, cfg.EngineOutputDir), nil
	case StrategyRemote:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("remote transcription requires an API key")
		}
		return NewRemoteEngine(cfg.APIKey, cfg.APIURL), nil
	default:
		return nil, fmt.Errorf("unknown transcriber strategy %q (expected local or remote)", cfg.Strategy)
	}
}

var _ Transcriber = (*LocalEngine)(nil)
var _ Transcriber = (*RemoteEngine)(nil)
