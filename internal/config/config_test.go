package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_HTTP_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddress() != "0.0.0.0:9090" {
		t.Errorf("unexpected address %s", cfg.HTTPAddress())
	}
	if cfg.GeminiVoice != "Fenrir" || cfg.UpstreamTimeout != 60*time.Second {
		t.Errorf("unexpected defaults voice=%s timeout=%s", cfg.GeminiVoice, cfg.UpstreamTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Errorf("expected two origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.R2Configured() {
		t.Error("R2 must not be configured without credentials")
	}
}

func TestHasCredentials(t *testing.T) {
	tests := []struct {
		name string
		p    Providers
		want bool
	}{
		{"gemini key", Providers{AIProvider: "gemini", GeminiAPIKey: "k"}, true},
		{"gemini vertex", Providers{AIProvider: "gemini", GeminiUseVertex: true, GCPProject: "p"}, true},
		{"vertex without project", Providers{AIProvider: "gemini", GeminiUseVertex: true}, false},
		{"openai key", Providers{AIProvider: "openai", OpenAIAPIKey: "k"}, true},
		{"openai with gemini key", Providers{AIProvider: "openai", GeminiAPIKey: "k"}, false},
		{"empty", Providers{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.HasCredentials(); got != tt.want {
				t.Errorf("HasCredentials() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("TUTOR_PLAYER_COMMAND", "aplay -q -")
	t.Setenv("TUTOR_DIRECT_FALLBACK", "true")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args := cfg.PlayerArgs(); len(args) != 3 || args[0] != "aplay" {
		t.Errorf("unexpected player args %v", args)
	}
	if cfg.RecognizerArgs() != nil {
		t.Errorf("expected no recognizer, got %v", cfg.RecognizerArgs())
	}
	if cfg.DirectEnabled() {
		t.Error("direct calls need a local credential")
	}
	if cfg.RequestTimeout != 90*time.Second || cfg.SampleRate != 24000 {
		t.Errorf("unexpected defaults timeout=%s rate=%d", cfg.RequestTimeout, cfg.SampleRate)
	}
}
