package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/windfall/gong_studio/internal/errors"
	"github.com/windfall/gong_studio/internal/model"
	"github.com/windfall/gong_studio/internal/service"
	"github.com/windfall/gong_studio/pkg/response"
)

const maxChatBody = 64 << 10

// Actions accepted by the chat endpoint.
const (
	ActionAnalyze = "analyze"
	ActionTTS     = "tts"
)

// TutorService is what the chat endpoint needs from the service layer.
type TutorService interface {
	Analyze(ctx context.Context, text string) (*model.GrammarAnalysis, error)
	Speech(ctx context.Context, text string) (*service.SpeechResult, error)
}

// ChatHandler serves the analyze and tts actions.
type ChatHandler struct {
	log     zerolog.Logger
	service TutorService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(log zerolog.Logger, svc TutorService) *ChatHandler {
	return &ChatHandler{
		log:     log,
		service: svc,
	}
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Action string `json:"action"`
	Text   string `json:"text"`
}

// Chat handles POST /api/chat. Successful answers are the bare analysis
// document or {audioData, audioUrl}; errors use the standard envelope.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		response.MethodNotAllowed(w)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody)).Decode(&req); err != nil {
		handleError(h.log, w, errors.Validation("invalid request body"))
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		handleError(h.log, w, errors.Validation("text is required"))
		return
	}

	ctx := r.Context()

	switch req.Action {
	case ActionAnalyze:
		analysis, err := h.service.Analyze(ctx, req.Text)
		if err != nil {
			handleError(h.log, w, err)
			return
		}
		response.Raw(w, http.StatusOK, analysis)

	case ActionTTS:
		speech, err := h.service.Speech(ctx, req.Text)
		if err != nil {
			handleError(h.log, w, err)
			return
		}
		response.Raw(w, http.StatusOK, speech)

	default:
		handleError(h.log, w, errors.Validation("Invalid action"))
	}
}

func handleError(log zerolog.Logger, w http.ResponseWriter, err error) {
	if appErr, ok := errors.As(err); ok {
		if appErr.HTTPStatus() >= http.StatusInternalServerError {
			log.Error().Err(err).Str("code", string(appErr.Code)).Msg("Chat request failed")
		}
		response.Error(w, appErr.HTTPStatus(), &response.ErrorBody{
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Details: appErr.Details,
		})
		return
	}
	log.Error().Err(err).Msg("Internal server error")
	response.InternalError(w, "internal server error")
}
