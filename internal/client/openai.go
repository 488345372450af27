package client

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// OpenAIClient wraps the OpenAI API client.
type OpenAIClient struct {
	client   *openai.Client
	model    string
	ttsModel string
	voice    string
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client:   openai.NewClient(apiKey),
		model:    openai.GPT4oMini,
		ttsModel: string(openai.TTSModel1),
		voice:    string(openai.VoiceOnyx),
	}
}

// WithModel sets the chat model.
func (c *OpenAIClient) WithModel(model string) *OpenAIClient {
	if model != "" {
		c.model = model
	}
	return c
}

// WithSpeech sets the speech model and voice.
func (c *OpenAIClient) WithSpeech(model, voice string) *OpenAIClient {
	if model != "" {
		c.ttsModel = model
	}
	if voice != "" {
		c.voice = voice
	}
	return c
}

// Name identifies the provider in cache keys and logs.
func (c *OpenAIClient) Name() string {
	return "openai"
}

// Voice returns the voice used for synthesis.
func (c *OpenAIClient) Voice() string {
	return c.voice
}

// Analyze requests a JSON document matching the grammar analysis schema.
func (c *OpenAIClient) Analyze(ctx context.Context, instruction, text string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "grammar_analysis",
				Schema: analysisDefinition(),
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Synthesize returns raw PCM speech. OpenAI's pcm format is 24 kHz mono
// s16le, the same contract as the Gemini voice.
func (c *OpenAIClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.ttsModel),
		Input:          text,
		Voice:          openai.SpeechVoice(c.voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech: %w", err)
	}
	return data, nil
}

func analysisDefinition() *jsonschema.Definition {
	str := jsonschema.Definition{Type: jsonschema.String}
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"original":       str,
			"corrected":      str,
			"explanation_en": str,
			"explanation_zh": str,
			"key_points":     {Type: jsonschema.Array, Items: &str},
			"exercise": {
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"type": {
						Type: jsonschema.String,
						Enum: []string{"multiple-choice", "fill-in-the-blank"},
					},
					"question": str,
					"options":  {Type: jsonschema.Array, Items: &str},
					"answer":   str,
					"hint":     str,
				},
				Required: []string{"type", "question", "answer", "hint"},
			},
		},
		Required: []string{"original", "corrected", "explanation_en", "explanation_zh", "key_points", "exercise"},
	}
}
