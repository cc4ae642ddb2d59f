package main

import (
	"fmt"

	"github.com/lumavid/captionpipe/internal/artifact"
	"github.com/lumavid/captionpipe/internal/caperr"
	"github.com/lumavid/captionpipe/internal/config"
	"github.com/lumavid/captionpipe/internal/media"
	"github.com/lumavid/captionpipe/internal/pipeline"
	"github.com/lumavid/captionpipe/internal/registry"
	"github.com/lumavid/captionpipe/internal/service"
	"github.com/lumavid/captionpipe/internal/transcribe"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newLocator(cfg *config.Config) *artifact.Locator {
	return artifact.NewLocator(cfg.Artifacts.TempDir, cfg.Artifacts.PublishedDir)
}

func openStore(cfg *config.Config) (*registry.SQLiteStore, error) {
	store, err := registry.NewSQLiteStore(cfg.Artifacts.RegistryDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open caption registry: %w", err)
	}
	return store, nil
}

func newAuditor(cfg *config.Config, store *registry.SQLiteStore) *service.Auditor {
	return service.NewAuditor(store, store, newLocator(cfg))
}

// newGenerator assembles the per-video pipeline, honoring CLI overrides on
// top of the environment configuration.
func newGenerator(cfg *config.Config, modelFlag, languageFlag, strategyFlag string) (*pipeline.Generator, error) {
	factoryCfg := cfg.FactoryConfig()
	if strategyFlag != "" {
		factoryCfg.Strategy = transcribe.Strategy(strategyFlag)
	}

	model := cfg.Transcribe.Model
	if modelFlag != "" {
		parsed, err := transcribe.ParseModel(modelFlag)
		if err != nil {
			return nil, err
		}
		model = parsed
	}

	lang := cfg.Transcribe.Language
	if languageFlag != "" {
		lang = languageFlag
	}

	transcriber, err := transcribe.New(factoryCfg)
	if err != nil {
		return nil, err
	}

	extractor := media.NewAudioExtractor(media.WithFfmpegCommand(cfg.Transcribe.FfmpegCmd))

	return pipeline.NewGenerator(extractor, transcriber, newLocator(cfg), transcribe.Options{
		Model:    model,
		Language: lang,
	}), nil
}

// reportFailure prints actionable advice for typed pipeline errors before
// the error bubbles up as the command result.
func reportFailure(err error) error {
	if err == nil {
		return nil
	}
	caperr.NewDefaultErrorHandler().Handle(err)
	return err
}
