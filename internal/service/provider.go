package service

import (
	"context"

	"github.com/windfall/gong_studio/internal/client"
	"github.com/windfall/gong_studio/internal/config"
	"github.com/windfall/gong_studio/internal/errors"
)

// Provider is a hosted model that can analyze learner input and read text
// aloud.
type Provider interface {
	Name() string
	Voice() string
	// Analyze returns the model's raw JSON text for the analysis schema.
	Analyze(ctx context.Context, instruction, text string) (string, error)
	// Synthesize returns 24 kHz mono s16le PCM.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// NewProvider builds the provider selected by AI_PROVIDER. Missing
// credentials are reported as NOT_CONFIGURED.
func NewProvider(ctx context.Context, cfg config.Providers) (Provider, error) {
	if !cfg.HasCredentials() {
		return nil, errors.NotConfigured(cfg.AIProvider + " provider")
	}

	switch cfg.AIProvider {
	case "openai":
		return client.NewOpenAIClient(cfg.OpenAIAPIKey).
			WithModel(cfg.OpenAIModel).
			WithSpeech(cfg.OpenAITTSModel, cfg.OpenAIVoice), nil

	case "gemini", "":
		gc, err := client.NewGeminiClient(ctx, client.GeminiOptions{
			APIKey:       cfg.GeminiAPIKey,
			UseVertex:    cfg.GeminiUseVertex,
			ProjectID:    cfg.GCPProject,
			Location:     cfg.GCPLocation,
			AnalyzeModel: cfg.GeminiAnalyzeModel,
			TTSModel:     cfg.GeminiTTSModel,
			Voice:        cfg.GeminiVoice,
		})
		if err != nil {
			return nil, errors.InternalWrap("failed to create gemini client", err)
		}
		return gc, nil

	default:
		return nil, errors.Validation("unknown AI provider: " + cfg.AIProvider)
	}
}

// ProviderName is the name reported by health checks, or "" when no provider
// is configured.
func ProviderName(p Provider) string {
	if p == nil {
		return ""
	}
	return p.Name()
}
