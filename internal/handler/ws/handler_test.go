package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/windfall/gong_studio/internal/errors"
	"github.com/windfall/gong_studio/internal/logger"
	"github.com/windfall/gong_studio/internal/model"
	"github.com/windfall/gong_studio/internal/service"
)

type fakeTutor struct {
	err         error
	hadDeadline bool
}

func (f *fakeTutor) Analyze(ctx context.Context, text string) (*model.GrammarAnalysis, error) {
	_, f.hadDeadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return &model.GrammarAnalysis{Original: text, Corrected: text}, nil
}

func (f *fakeTutor) Speech(ctx context.Context, text string) (*service.SpeechResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.SpeechResult{AudioData: "AAA="}, nil
}

type decoded struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

func handle(t *testing.T, h *Handler, msgType, payload string) decoded {
	t.Helper()
	out, err := h.Handle(context.Background(), "c1", msgType, "42", json.RawMessage(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var d decoded
	if err := json.Unmarshal(out, &d); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if d.ID != "42" {
		t.Errorf("expected id to be echoed, got %q", d.ID)
	}
	return d
}

func TestHandle(t *testing.T) {
	svc := &fakeTutor{}
	h := NewHandler(logger.NewNop(), svc, time.Minute)

	tests := []struct {
		name     string
		msgType  string
		payload  string
		wantType string
	}{
		{"ping", TypePing, `{}`, TypePong},
		{"analyze", TypeAnalyze, `{"text":"She go."}`, TypeAnalysis},
		{"tts", TypeTTS, `{"text":"She goes."}`, TypeSpeech},
		{"missing text", TypeAnalyze, `{}`, TypeError},
		{"unknown", "translate", `{}`, TypeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := handle(t, h, tt.msgType, tt.payload); got.Type != tt.wantType {
				t.Errorf("expected %s, got %s", tt.wantType, got.Type)
			}
		})
	}

	if !svc.hadDeadline {
		t.Error("expected analyze to run with a deadline")
	}
}

func TestHandleServiceError(t *testing.T) {
	h := NewHandler(logger.NewNop(), &fakeTutor{err: errors.NotConfigured("AI provider")}, 0)

	got := handle(t, h, TypeAnalyze, `{"text":"hi"}`)
	if got.Type != TypeError {
		t.Fatalf("expected error, got %s", got.Type)
	}

	var p ErrorPayload
	if err := json.Unmarshal(got.Payload, &p); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if p.Code != string(errors.ErrNotConfigured) {
		t.Errorf("unexpected code %s", p.Code)
	}
}
