package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ClientConfig holds configuration for the terminal tutor.
type ClientConfig struct {
	Providers

	Environment string `envconfig:"TUTOR_ENV" default:"development"`

	ProxyURL   string `envconfig:"TUTOR_PROXY_URL" default:"http://localhost:8080"`
	ProxyToken string `envconfig:"TUTOR_PROXY_TOKEN"`

	// Direct provider calls need a credential on this host, so they are off
	// unless explicitly enabled.
	DirectFallback bool `envconfig:"TUTOR_DIRECT_FALLBACK" default:"false"`

	RequestTimeout time.Duration `envconfig:"TUTOR_REQUEST_TIMEOUT" default:"90s"`

	MicLanguage       string `envconfig:"TUTOR_MIC_LANGUAGE" default:"en-US"`
	PlayerCommand     string `envconfig:"TUTOR_PLAYER_COMMAND"`
	RecognizerCommand string `envconfig:"TUTOR_RECOGNIZER_COMMAND"`
	SampleRate        int    `envconfig:"TUTOR_SAMPLE_RATE" default:"24000"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"TUTOR_LOG_FILE"`
}

// LoadClient loads the tutor configuration from environment variables.
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	var cfg ClientConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	return &cfg, nil
}

// IsProduction returns true when the tutor talks to a deployed proxy.
func (c *ClientConfig) IsProduction() bool {
	return c.Environment == "production"
}

// DirectEnabled reports whether in-process provider calls are allowed.
func (c *ClientConfig) DirectEnabled() bool {
	return c.DirectFallback && c.HasCredentials()
}

// PlayerArgs splits the player command into argv.
func (c *ClientConfig) PlayerArgs() []string {
	return strings.Fields(c.PlayerCommand)
}

// RecognizerArgs splits the recognizer command into argv.
func (c *ClientConfig) RecognizerArgs() []string {
	return strings.Fields(c.RecognizerCommand)
}
