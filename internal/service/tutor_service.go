package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/windfall/gong_studio/internal/audio"
	"github.com/windfall/gong_studio/internal/errors"
	"github.com/windfall/gong_studio/internal/model"
)

const speechKeyPrefix = "speech:pcm:"

// SpeechCache stores synthesized PCM between requests.
type SpeechCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// AudioArchive keeps a playable copy of synthesized speech.
type AudioArchive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// SpeechResult is the tts answer: base64 PCM plus an optional archive URL.
type SpeechResult struct {
	AudioData string `json:"audioData"`
	AudioURL  string `json:"audioUrl,omitempty"`
}

// TutorService runs grammar analysis and speech synthesis against the
// configured provider.
type TutorService struct {
	provider Provider
	cache    SpeechCache
	cacheTTL time.Duration
	archive  AudioArchive
	log      zerolog.Logger
}

// NewTutorService creates a new tutor service. A nil provider makes every
// call fail with NOT_CONFIGURED.
func NewTutorService(provider Provider, log zerolog.Logger) *TutorService {
	return &TutorService{
		provider: provider,
		log:      log,
	}
}

// WithCache enables the speech cache.
func (s *TutorService) WithCache(cache SpeechCache, ttl time.Duration) *TutorService {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// WithArchive enables uploading synthesized speech.
func (s *TutorService) WithArchive(archive AudioArchive) *TutorService {
	s.archive = archive
	return s
}

// Analyze returns the validated grammar analysis of text.
func (s *TutorService) Analyze(ctx context.Context, text string) (*model.GrammarAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.Validation("text is required")
	}
	if s.provider == nil {
		return nil, errors.NotConfigured("AI provider")
	}

	raw, err := s.provider.Analyze(ctx, analysisInstruction, text)
	if err != nil {
		s.log.Error().Err(err).Str("provider", s.provider.Name()).Msg("Analysis request failed")
		return nil, providerError("analysis request failed", err)
	}

	analysis, err := ParseAnalysis(raw)
	if err != nil {
		s.log.Warn().Err(err).Str("provider", s.provider.Name()).Msg("Malformed analysis response")
		return nil, err
	}
	return analysis, nil
}

// ParseAnalysis decodes model output into a GrammarAnalysis, tolerating a
// surrounding Markdown code fence.
func ParseAnalysis(raw string) (*model.GrammarAnalysis, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return nil, errors.Malformed("empty model response", nil)
	}

	var analysis model.GrammarAnalysis
	if err := json.Unmarshal([]byte(clean), &analysis); err != nil {
		return nil, errors.Malformed("model response is not valid JSON", err)
	}
	if err := analysis.Validate(); err != nil {
		return nil, errors.Malformed("model response does not match the analysis schema", err)
	}
	return &analysis, nil
}

// Speech synthesizes text. An empty AudioData means the provider returned no
// audio.
func (s *TutorService) Speech(ctx context.Context, text string) (*SpeechResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.Validation("text is required")
	}
	if s.provider == nil {
		return nil, errors.NotConfigured("AI provider")
	}

	key := s.speechKey(text)

	if pcm, ok := s.cachedSpeech(ctx, key); ok {
		return &SpeechResult{AudioData: base64.StdEncoding.EncodeToString(pcm)}, nil
	}

	pcm, err := s.provider.Synthesize(ctx, text)
	if err != nil {
		s.log.Error().Err(err).Str("provider", s.provider.Name()).Msg("Speech synthesis failed")
		return nil, providerError("speech synthesis failed", err)
	}
	if len(pcm) == 0 {
		return &SpeechResult{}, nil
	}

	if s.cache != nil {
		if err := s.cache.SetBytes(ctx, speechKeyPrefix+key, pcm, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Failed to cache speech")
		}
	}

	result := &SpeechResult{AudioData: base64.StdEncoding.EncodeToString(pcm)}
	result.AudioURL = s.archiveSpeech(ctx, key, pcm)
	return result, nil
}

func (s *TutorService) cachedSpeech(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	pcm, ok, err := s.cache.GetBytes(ctx, speechKeyPrefix+key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Speech cache lookup failed")
		return nil, false
	}
	if ok && len(pcm) > 0 {
		s.log.Debug().Str("key", key).Msg("Speech cache hit")
		return pcm, true
	}
	return nil, false
}

func (s *TutorService) archiveSpeech(ctx context.Context, key string, pcm []byte) string {
	if s.archive == nil {
		return ""
	}
	wav, err := audio.EncodeWAV(pcm, audio.DefaultSampleRate)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to encode speech archive")
		return ""
	}
	url, err := s.archive.Upload(ctx, "speech/"+key+".wav", wav, "audio/wav")
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to archive speech")
		return ""
	}
	return url
}

func (s *TutorService) speechKey(text string) string {
	sum := sha256.Sum256([]byte(s.provider.Name() + ":" + s.provider.Voice() + ":" + text))
	return hex.EncodeToString(sum[:])
}

func providerError(message string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrTimeout, "upstream model timed out", err)
	}
	return errors.Wrap(errors.ErrAIService, message, err)
}
