package client

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient wraps the Google Gen AI client for grammar analysis and speech
// synthesis.
type GeminiClient struct {
	client       *genai.Client
	analyzeModel string
	ttsModel     string
	voice        string
}

// GeminiOptions selects the backend and models.
type GeminiOptions struct {
	APIKey       string
	UseVertex    bool
	ProjectID    string
	Location     string
	AnalyzeModel string
	TTSModel     string
	Voice        string
}

// NewGeminiClient creates a client on the Gemini API backend, or on Vertex AI
// when UseVertex is set.
func NewGeminiClient(ctx context.Context, opts GeminiOptions) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.UseVertex {
		cfg = &genai.ClientConfig{
			Project:  opts.ProjectID,
			Location: opts.Location,
			Backend:  genai.BackendVertexAI,
		}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{
		client:       client,
		analyzeModel: opts.AnalyzeModel,
		ttsModel:     opts.TTSModel,
		voice:        opts.Voice,
	}, nil
}

// Name identifies the provider in cache keys and logs.
func (c *GeminiClient) Name() string {
	return "gemini"
}

// Voice returns the prebuilt voice used for synthesis.
func (c *GeminiClient) Voice() string {
	return c.voice
}

// Analyze asks the analysis model for a JSON document matching the grammar
// analysis schema and returns the raw text.
func (c *GeminiClient) Analyze(ctx context.Context, instruction, text string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    analysisSchema(),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](0),
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.analyzeModel, genai.Text(text), config)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Synthesize reads text aloud and returns raw 24 kHz mono s16le PCM.
func (c *GeminiClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	config := &genai.GenerateContentConfig{
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.voice},
			},
		},
	}
	config.ResponseModalities = append(config.ResponseModalities, "AUDIO")

	resp, err := c.client.Models.GenerateContent(ctx, c.ttsModel, genai.Text(text), config)
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil {
			return part.InlineData.Data, nil
		}
	}
	return nil, nil
}

func analysisSchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"original":       str,
			"corrected":      str,
			"explanation_en": str,
			"explanation_zh": str,
			"key_points": {
				Type:  genai.TypeArray,
				Items: str,
			},
			"exercise": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"type": {
						Type: genai.TypeString,
						Enum: []string{"multiple-choice", "fill-in-the-blank"},
					},
					"question": str,
					"options": {
						Type:  genai.TypeArray,
						Items: str,
					},
					"answer": str,
					"hint":   str,
				},
				Required: []string{"type", "question", "answer", "hint"},
			},
		},
		Required: []string{"original", "corrected", "explanation_en", "explanation_zh", "key_points", "exercise"},
	}
}
