package service

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/windfall/gong_studio/internal/config"
	"github.com/windfall/gong_studio/internal/errors"
	"github.com/windfall/gong_studio/internal/logger"
	"github.com/windfall/gong_studio/internal/model"
)

const validAnalysis = `{
  "original": "She go to school.",
  "corrected": "She goes to school.",
  "explanation_en": "Third person singular verbs take -s.",
  "explanation_zh": "",
  "key_points": ["subject-verb agreement"],
  "exercise": {
    "type": "Multiple-Choice",
    "question": "He ___ to work every day.",
    "options": ["go", "goes", "going"],
    "answer": "goes",
    "hint": "third person"
  }
}`

type fakeProvider struct {
	analysis    string
	analyzeErr  error
	pcm         []byte
	synthErr    error
	synthCalls  int
	instruction string
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Voice() string { return "Fenrir" }

func (f *fakeProvider) Analyze(ctx context.Context, instruction, text string) (string, error) {
	f.instruction = instruction
	return f.analysis, f.analyzeErr
}

func (f *fakeProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.synthCalls++
	return f.pcm, f.synthErr
}

type memoryCache struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memoryCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	return nil
}

type fakeArchive struct {
	keys []string
	err  error
}

func (a *fakeArchive) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	return "https://cdn.example.com/" + key, nil
}

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"plain", validAnalysis, false},
		{"fenced", "```json\n" + validAnalysis + "\n```", false},
		{"bare fence", "```" + validAnalysis + "```", false},
		{"empty", "  ", true},
		{"not json", "I cannot help with that.", true},
		{"unknown exercise type", strings.Replace(validAnalysis, "Multiple-Choice", "essay", 1), true},
		{"missing answer", strings.Replace(validAnalysis, `"answer": "goes",`, "", 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAnalysis(tt.raw)
			if tt.wantErr {
				if !errors.HasCode(err, errors.ErrMalformedResponse) {
					t.Fatalf("expected MALFORMED_RESPONSE, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Exercise.Type != model.ExerciseMultipleChoice {
				t.Errorf("expected normalized exercise type, got %q", a.Exercise.Type)
			}
			if a.Corrected != "She goes to school." {
				t.Errorf("unexpected corrected sentence %q", a.Corrected)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	provider := &fakeProvider{analysis: validAnalysis}
	svc := NewTutorService(provider, logger.NewNop())

	a, err := svc.Analyze(context.Background(), "She go to school.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.KeyPoints) != 1 {
		t.Errorf("expected key points, got %v", a.KeyPoints)
	}
	if !strings.Contains(provider.instruction, "explanation_zh") {
		t.Error("expected the language rule in the system instruction")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name     string
		svc      *TutorService
		text     string
		wantCode errors.ErrorCode
	}{
		{"empty text", NewTutorService(&fakeProvider{}, logger.NewNop()), " ", errors.ErrValidation},
		{"no provider", NewTutorService(nil, logger.NewNop()), "hi", errors.ErrNotConfigured},
		{"provider failure", NewTutorService(&fakeProvider{analyzeErr: fmt.Errorf("boom")}, logger.NewNop()), "hi", errors.ErrAIService},
		{"provider timeout", NewTutorService(&fakeProvider{analyzeErr: context.DeadlineExceeded}, logger.NewNop()), "hi", errors.ErrTimeout},
		{"malformed", NewTutorService(&fakeProvider{analysis: "{}"}, logger.NewNop()), "hi", errors.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.Analyze(context.Background(), tt.text)
			if !errors.HasCode(err, tt.wantCode) {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestSpeechUsesCache(t *testing.T) {
	pcm := []byte{0x01, 0x00, 0xff, 0x7f}
	provider := &fakeProvider{pcm: pcm}
	cache := newMemoryCache()
	svc := NewTutorService(provider, logger.NewNop()).WithCache(cache, time.Hour)

	first, err := svc.Speech(context.Background(), "She goes to school.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Speech(context.Background(), "She goes to school.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.synthCalls != 1 {
		t.Errorf("expected one synthesis, got %d", provider.synthCalls)
	}
	want := base64.StdEncoding.EncodeToString(pcm)
	if first.AudioData != want || second.AudioData != want {
		t.Errorf("unexpected audio data %q / %q", first.AudioData, second.AudioData)
	}
}

func TestSpeechCacheFailuresAreIgnored(t *testing.T) {
	provider := &fakeProvider{pcm: []byte{0, 0}}
	cache := &memoryCache{data: map[string][]byte{}, getErr: fmt.Errorf("down"), setErr: fmt.Errorf("down")}
	svc := NewTutorService(provider, logger.NewNop()).WithCache(cache, time.Hour)

	res, err := svc.Speech(context.Background(), "hello")
	if err != nil {
		t.Fatalf("cache failures must not fail the request, got %v", err)
	}
	if res.AudioData == "" {
		t.Error("expected audio data")
	}
}

func TestSpeechArchive(t *testing.T) {
	archive := &fakeArchive{}
	svc := NewTutorService(&fakeProvider{pcm: []byte{0, 0, 1, 0}}, logger.NewNop()).WithArchive(archive)

	res, err := svc.Speech(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(archive.keys) != 1 || !strings.HasPrefix(archive.keys[0], "speech/") || !strings.HasSuffix(archive.keys[0], ".wav") {
		t.Fatalf("unexpected archive keys %v", archive.keys)
	}
	if res.AudioURL != "https://cdn.example.com/"+archive.keys[0] {
		t.Errorf("unexpected audio url %q", res.AudioURL)
	}

	failing := NewTutorService(&fakeProvider{pcm: []byte{0, 0}}, logger.NewNop()).
		WithArchive(&fakeArchive{err: fmt.Errorf("denied")})
	res, err = failing.Speech(context.Background(), "hello")
	if err != nil {
		t.Fatalf("archive failures must not fail the request, got %v", err)
	}
	if res.AudioURL != "" || res.AudioData == "" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestSpeechNoAudio(t *testing.T) {
	svc := NewTutorService(&fakeProvider{}, logger.NewNop())
	res, err := svc.Speech(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AudioData != "" {
		t.Errorf("expected empty audio, got %q", res.AudioData)
	}
}

func TestSpeechProviderFailure(t *testing.T) {
	svc := NewTutorService(&fakeProvider{synthErr: stderrors.New("quota")}, logger.NewNop())
	if _, err := svc.Speech(context.Background(), "hello"); !errors.HasCode(err, errors.ErrAIService) {
		t.Fatalf("expected AI_SERVICE_ERROR, got %v", err)
	}
}

func TestNewProviderSelection(t *testing.T) {
	if _, err := NewProvider(context.Background(), config.Providers{AIProvider: "gemini"}); !errors.HasCode(err, errors.ErrNotConfigured) {
		t.Errorf("expected NOT_CONFIGURED without credentials, got %v", err)
	}
	if _, err := NewProvider(context.Background(), config.Providers{AIProvider: "bard", GeminiAPIKey: "k"}); !errors.HasCode(err, errors.ErrValidation) {
		t.Errorf("expected VALIDATION_ERROR for an unknown provider, got %v", err)
	}

	p, err := NewProvider(context.Background(), config.Providers{AIProvider: "openai", OpenAIAPIKey: "k", OpenAIVoice: "alloy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "openai" || p.Voice() != "alloy" {
		t.Errorf("unexpected provider %s/%s", p.Name(), p.Voice())
	}
}

func TestProviderName(t *testing.T) {
	p, err := NewProvider(context.Background(), config.Providers{AIProvider: "openai"})
	if err == nil {
		t.Fatal("expected an error without credentials")
	}
	if got := ProviderName(p); got != "" {
		t.Errorf("expected no provider name, got %q", got)
	}
	if got := ProviderName(&fakeProvider{}); got != "fake" {
		t.Errorf("expected fake, got %q", got)
	}
}
