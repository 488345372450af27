package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Providers holds the model provider settings shared by the proxy server and
// the tutor's direct transport.
type Providers struct {
	// "gemini" or "openai"
	AIProvider string `envconfig:"AI_PROVIDER" default:"gemini"`

	// Gemini
	GeminiAPIKey       string `envconfig:"GEMINI_API_KEY"`
	GeminiUseVertex    bool   `envconfig:"GEMINI_USE_VERTEX" default:"false"`
	GCPProject         string `envconfig:"GCP_PROJECT"`
	GCPLocation        string `envconfig:"GCP_LOCATION" default:"us-central1"`
	GeminiAnalyzeModel string `envconfig:"GEMINI_ANALYZE_MODEL" default:"gemini-3-flash-preview"`
	GeminiTTSModel     string `envconfig:"GEMINI_TTS_MODEL" default:"gemini-2.5-flash-preview-tts"`
	GeminiVoice        string `envconfig:"GEMINI_VOICE" default:"Fenrir"`

	// OpenAI
	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel    string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAITTSModel string `envconfig:"OPENAI_TTS_MODEL" default:"tts-1"`
	OpenAIVoice    string `envconfig:"OPENAI_VOICE" default:"onyx"`
}

// HasCredentials reports whether the selected provider can be reached from
// this process.
func (p Providers) HasCredentials() bool {
	switch p.AIProvider {
	case "openai":
		return p.OpenAIAPIKey != ""
	default:
		return p.GeminiAPIKey != "" || (p.GeminiUseVertex && p.GCPProject != "")
	}
}

// Config holds all configuration for the proxy server.
type Config struct {
	Providers

	// Server
	Host     string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	HTTPPort int    `envconfig:"SERVER_HTTP_PORT" default:"8080"`

	Environment string `envconfig:"SERVER_ENV" default:"development"`

	// Timeouts
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"90s"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"60s"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Optional bearer token required on /api routes
	ProxyAccessToken string `envconfig:"PROXY_ACCESS_TOKEN"`

	// Redis speech cache
	RedisURL    string        `envconfig:"REDIS_URL"`
	TTSCacheTTL time.Duration `envconfig:"TTS_CACHE_TTL" default:"24h"`

	// Cloudflare R2 speech archive
	CloudflareAccessKeyID string `envconfig:"CLOUDFLARE_ACCESS_KEY_ID"`
	CloudflareSecretKey   string `envconfig:"CLOUDFLARE_SECRET_ACCESS_KEY"`
	CloudflareR2Endpoint  string `envconfig:"CLOUDFLARE_R2_ENDPOINT"`
	CloudflarePublicURL   string `envconfig:"CLOUDFLARE_PUBLIC_URL"`
	CloudflareBucketName  string `envconfig:"CLOUDFLARE_BUCKET_NAME"`

	// CORS
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	CORSAllowedMethods []string `envconfig:"CORS_ALLOWED_METHODS" default:"GET,POST,OPTIONS"`
	CORSAllowedHeaders []string `envconfig:"CORS_ALLOWED_HEADERS" default:"Accept,Authorization,Content-Type,X-Request-ID"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	return &cfg, nil
}

// HTTPAddress returns the HTTP server address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// R2Configured reports whether every Cloudflare R2 setting is present.
func (c *Config) R2Configured() bool {
	return c.CloudflareAccessKeyID != "" && c.CloudflareSecretKey != "" &&
		c.CloudflareR2Endpoint != "" && c.CloudflareBucketName != ""
}
