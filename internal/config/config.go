package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"

	"github.com/lumavid/captionpipe/internal/transcribe"
)

// Config holds all pipeline configuration. Everything is injectable through
// environment variables with sensible defaults; nothing is hard-coded.
//
// Environment Variables:
//
// Artifact locations:
// - TEMP_CAPTIONS_DIR: temp working directory for generated cue files (default: ./data/caption_temp)
// - PUBLISHED_CAPTIONS_DIR: published captions directory (default: ./data/captions)
// - HTTP_CAPTIONS_DIR: storage for cue files generated via the HTTP API (default: ./data/http_captions)
// - VIDEO_SOURCE_DIR: directory of source video files for batch runs (default: ./data/videos)
// - REGISTRY_DB_PATH: sqlite database path (default: ./data/captionpipe.db)
//
// Transcription:
// - TRANSCRIBER_STRATEGY: local or remote (default: local)
// - WHISPER_MODEL: tiny, base, small, medium or large (default: base)
// - WHISPER_LANGUAGE: ISO 639-1 hint; empty auto-detects (default: empty)
// - WHISPER_CMD: local whisper executable (default: whisper)
// - WHISPER_OUTPUT_DIR: local engine output directory (default: a fresh temp dir per run)
// - FFMPEG_CMD: ffmpeg executable (default: ffmpeg)
// - OPENAI_API_KEY: API key for the remote strategy (required when remote)
// - OPENAI_API_URL: OpenAI-compatible endpoint override (default: empty)
//
// Server:
// - HTTP_ADDR: listen address (default: :8080)
// - AUDIT_CRON_EXPR: cron expression for the scheduled audit (default: 0 3 * * *)
//
// Batch:
// - BATCH_CONCURRENCY: parallel per-video pipeline runs (default: 1)

type Config struct {
	Artifacts  ArtifactsConfig  `json:"artifacts"`
	Transcribe TranscribeConfig `json:"transcribe"`
	Server     ServerConfig     `json:"server"`
	Batch      BatchConfig      `json:"batch"`
}

type ArtifactsConfig struct {
	TempDir        string `json:"temp_dir"`
	PublishedDir   string `json:"published_dir"`
	HTTPDir        string `json:"http_dir"`
	VideoSourceDir string `json:"video_source_dir"`
	RegistryDBPath string `json:"registry_db_path"`
}

type TranscribeConfig struct {
	Strategy      transcribe.Strategy `json:"strategy"`
	Model         transcribe.Model    `json:"model"`
	Language      string              `json:"language"`
	WhisperCmd    string              `json:"whisper_cmd"`
	WhisperOutDir string              `json:"whisper_out_dir"`
	FfmpegCmd     string              `json:"ffmpeg_cmd"`
	OpenAIAPIKey  string              `json:"-"`
	OpenAIAPIURL  string              `json:"openai_api_url"`
}

type ServerConfig struct {
	Addr          string `json:"addr"`
	AuditCronExpr string `json:"audit_cron_expr"`
}

type BatchConfig struct {
	Concurrency int `json:"concurrency"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment
// variables and options.
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		Artifacts: ArtifactsConfig{
			TempDir:        getEnvString("TEMP_CAPTIONS_DIR", "./data/caption_temp"),
			PublishedDir:   getEnvString("PUBLISHED_CAPTIONS_DIR", "./data/captions"),
			HTTPDir:        getEnvString("HTTP_CAPTIONS_DIR", "./data/http_captions"),
			VideoSourceDir: getEnvString("VIDEO_SOURCE_DIR", "./data/videos"),
			RegistryDBPath: getEnvString("REGISTRY_DB_PATH", "./data/captionpipe.db"),
		},
		Transcribe: TranscribeConfig{
			Strategy:      transcribe.Strategy(getEnvString("TRANSCRIBER_STRATEGY", string(transcribe.StrategyLocal))),
			Model:         transcribe.Model(getEnvString("WHISPER_MODEL", string(transcribe.DefaultModel))),
			Language:      getEnvString("WHISPER_LANGUAGE", ""),
			WhisperCmd:    getEnvString("WHISPER_CMD", "whisper"),
			WhisperOutDir: getEnvString("WHISPER_OUTPUT_DIR", ""),
			FfmpegCmd:     getEnvString("FFMPEG_CMD", "ffmpeg"),
			OpenAIAPIKey:  getEnvString("OPENAI_API_KEY", ""),
			OpenAIAPIURL:  getEnvString("OPENAI_API_URL", ""),
		},
		Server: ServerConfig{
			Addr:          getEnvString("HTTP_ADDR", ":8080"),
			AuditCronExpr: getEnvString("AUDIT_CRON_EXPR", "0 3 * * *"),
		},
		Batch: BatchConfig{
			Concurrency: getEnvInt("BATCH_CONCURRENCY", 1),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// FactoryConfig maps the transcription settings onto the strategy factory.
func (c *Config) FactoryConfig() transcribe.FactoryConfig {
	return transcribe.FactoryConfig{
		Strategy:        c.Transcribe.Strategy,
		WhisperCmd:      c.Transcribe.WhisperCmd,
		EngineOutputDir: c.Transcribe.WhisperOutDir,
		APIKey:          c.Transcribe.OpenAIAPIKey,
		APIURL:          c.Transcribe.OpenAIAPIURL,
	}
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if _, err := transcribe.ParseModel(string(c.Transcribe.Model)); err != nil {
		return fmt.Errorf("WHISPER_MODEL: %w", err)
	}
	switch c.Transcribe.Strategy {
	case transcribe.StrategyLocal:
	case transcribe.StrategyRemote:
		if c.Transcribe.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when TRANSCRIBER_STRATEGY=remote")
		}
	default:
		return fmt.Errorf("TRANSCRIBER_STRATEGY must be local or remote, got %q", c.Transcribe.Strategy)
	}
	if _, err := cron.ParseStandard(c.Server.AuditCronExpr); err != nil {
		return fmt.Errorf("AUDIT_CRON_EXPR is not a valid cron expression: %w", err)
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("BATCH_CONCURRENCY must be at least 1")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
