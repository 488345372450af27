package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/windfall/gong_studio/internal/errors"
	"github.com/windfall/gong_studio/internal/model"
	"github.com/windfall/gong_studio/pkg/response"
)

const maxResponseBody = 16 << 20

// Proxy calls the backend proxy's /api/chat endpoint.
type Proxy struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewProxy creates a proxy transport for baseURL. token is sent as a bearer
// token when set.
func NewProxy(baseURL, token string) *Proxy {
	return &Proxy{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/chat",
		token:    token,
		client:   &http.Client{},
	}
}

type chatRequest struct {
	Action string `json:"action"`
	Text   string `json:"text"`
}

// Analyze implements Transport.
func (p *Proxy) Analyze(ctx context.Context, text string) (*model.GrammarAnalysis, error) {
	body, err := p.post(ctx, chatRequest{Action: "analyze", Text: text})
	if err != nil {
		return nil, err
	}

	var analysis model.GrammarAnalysis
	if err := json.Unmarshal(body, &analysis); err != nil {
		return nil, errors.Malformed("proxy returned invalid analysis", err)
	}
	if err := analysis.Validate(); err != nil {
		return nil, errors.Malformed("proxy returned invalid analysis", err)
	}
	return &analysis, nil
}

// Speech implements Transport.
func (p *Proxy) Speech(ctx context.Context, text string) (string, error) {
	body, err := p.post(ctx, chatRequest{Action: "tts", Text: text})
	if err != nil {
		return "", err
	}

	var speech struct {
		AudioData string `json:"audioData"`
	}
	if err := json.Unmarshal(body, &speech); err != nil {
		return "", errors.Malformed("proxy returned invalid speech", err)
	}
	return speech.AudioData, nil
}

func (p *Proxy) post(ctx context.Context, payload chatRequest) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrUpstream, "proxy request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, errors.Wrap(errors.ErrUpstream, "failed to read proxy response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, proxyError(resp.StatusCode, body)
	}
	return body, nil
}

func proxyError(status int, body []byte) error {
	var env response.Response
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		return errors.New(errors.ErrUpstream, fmt.Sprintf("proxy returned %d: %s: %s", status, env.Error.Code, env.Error.Message)).
			WithDetails(map[string]interface{}{"status": status, "code": env.Error.Code})
	}
	return errors.New(errors.ErrUpstream, fmt.Sprintf("proxy returned %d", status)).
		WithDetails(map[string]interface{}{"status": status})
}
