// Package config loads agent configuration from the environment.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config holds all configuration for the agent. Every field is settable via
// a VA_-prefixed environment variable; a .env file in the working directory
// is honoured when present.
type Config struct {
	// Vertex AI access
	KeyPath string `envconfig:"KEY_PATH" required:"true"` // service-account key file
	Model   string `envconfig:"MODEL" default:"gemini-1.5-flash"`
	Region  string `envconfig:"REGION" default:"us-central1"`

	// Conversation behaviour
	MaxTurns       int    `envconfig:"MAX_TURNS" default:"32"` // round-trip ceiling per prompt
	SystemPrompt   string `envconfig:"SYSTEM_PROMPT" default:""`
	TranscriptPath string `envconfig:"TRANSCRIPT_PATH" default:"conversation.json"`
	VarsFile       string `envconfig:"VARS_FILE" default:""` // optional YAML variable seed

	// Observability
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty  bool   `envconfig:"LOG_PRETTY" default:"false"`
	TraceScope string `envconfig:"TRACE_SCOPE" default:""`
}

// Load reads configuration from the environment, after attempting to load a
// .env file if one exists.
func Load() (*Config, error) {
	// Missing .env is fine; explicit env vars always win.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("va", &cfg); err != nil {
		return nil, errors.Wrap(err, "process environment")
	}
	return &cfg, nil
}
