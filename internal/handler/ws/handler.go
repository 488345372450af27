package ws

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/windfall/gong_studio/internal/errors"
	"github.com/windfall/gong_studio/internal/model"
	"github.com/windfall/gong_studio/internal/service"
)

// MessageType constants
const (
	TypePing     = "ping"
	TypePong     = "pong"
	TypeAnalyze  = "analyze"
	TypeAnalysis = "analysis"
	TypeTTS      = "tts"
	TypeSpeech   = "speech"
	TypeError    = "error"
)

// TutorService is what the socket needs from the service layer.
type TutorService interface {
	Analyze(ctx context.Context, text string) (*model.GrammarAnalysis, error)
	Speech(ctx context.Context, text string) (*service.SpeechResult, error)
}

// Handler handles WebSocket messages.
type Handler struct {
	log     zerolog.Logger
	service TutorService
	timeout time.Duration
}

// NewHandler creates a new WebSocket handler. Each analyze or tts message is
// bounded by timeout when it is positive.
func NewHandler(log zerolog.Logger, svc TutorService, timeout time.Duration) *Handler {
	return &Handler{log: log, service: svc, timeout: timeout}
}

// Response represents a WebSocket response. ID echoes the request's ID.
type Response struct {
	Type    string      `json:"type"`
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload"`
}

// TextPayload is the payload of analyze and tts messages.
type TextPayload struct {
	Text string `json:"text"`
}

// ErrorPayload is the payload of error messages.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handle processes one incoming WebSocket message.
func (h *Handler) Handle(ctx context.Context, clientID, msgType, msgID string, payload json.RawMessage) ([]byte, error) {
	h.log.Debug().
		Str("client_id", clientID).
		Str("type", msgType).
		Msg("Handling WebSocket message")

	switch msgType {
	case TypePing:
		return h.response(TypePong, msgID, map[string]string{
			"message": "pong",
		})

	case TypeAnalyze, TypeTTS:
		var p TextPayload
		if err := json.Unmarshal(payload, &p); err != nil || strings.TrimSpace(p.Text) == "" {
			return h.errorResponse(msgID, errors.Validation("text is required"))
		}

		if h.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.timeout)
			defer cancel()
		}

		if msgType == TypeAnalyze {
			analysis, err := h.service.Analyze(ctx, p.Text)
			if err != nil {
				return h.errorResponse(msgID, err)
			}
			return h.response(TypeAnalysis, msgID, analysis)
		}

		speech, err := h.service.Speech(ctx, p.Text)
		if err != nil {
			return h.errorResponse(msgID, err)
		}
		return h.response(TypeSpeech, msgID, speech)

	default:
		return h.errorResponse(msgID, errors.Validation("unknown message type: "+msgType))
	}
}

func (h *Handler) response(msgType, msgID string, payload interface{}) ([]byte, error) {
	resp := Response{
		Type:    msgType,
		ID:      msgID,
		Payload: payload,
	}
	return json.Marshal(resp)
}

func (h *Handler) errorResponse(msgID string, err error) ([]byte, error) {
	body := ErrorPayload{Code: string(errors.ErrInternal), Message: "internal server error"}
	if appErr, ok := errors.As(err); ok {
		body = ErrorPayload{Code: string(appErr.Code), Message: appErr.Message}
	} else {
		h.log.Error().Err(err).Msg("WebSocket request failed")
	}
	return h.response(TypeError, msgID, body)
}
