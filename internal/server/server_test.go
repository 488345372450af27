package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/windfall/gong_studio/internal/config"
	httphandler "github.com/windfall/gong_studio/internal/handler/http"
	wshandler "github.com/windfall/gong_studio/internal/handler/ws"
	"github.com/windfall/gong_studio/internal/logger"
	"github.com/windfall/gong_studio/internal/model"
	"github.com/windfall/gong_studio/internal/service"
)

type stubTutor struct{}

func (stubTutor) Analyze(ctx context.Context, text string) (*model.GrammarAnalysis, error) {
	return &model.GrammarAnalysis{Original: text, Corrected: text, KeyPoints: []string{}}, nil
}

func (stubTutor) Speech(ctx context.Context, text string) (*service.SpeechResult, error) {
	return &service.SpeechResult{AudioData: "AAA="}, nil
}

func newTestServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	log := logger.NewNop()
	cfg := &config.Config{
		ProxyAccessToken:   token,
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{"GET", "POST"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewWebSocketHub(log, wshandler.NewHandler(log, stubTutor{}, time.Second), cfg.CORSAllowedOrigins)
	go hub.Run(ctx)

	router := NewRouter(cfg, log, httphandler.NewHealthHandler("gemini"), httphandler.NewChatHandler(log, stubTutor{}), hub)
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv
}

func TestRouterChat(t *testing.T) {
	srv := newTestServer(t, "")

	resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(`{"action":"analyze","text":"hi"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/api/chat")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestRouterAccessToken(t *testing.T) {
	srv := newTestServer(t, "secret")

	resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(`{"action":"analyze","text":"hi"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/chat", strings.NewReader(`{"action":"analyze","text":"hi"}`))
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health must stay public, got %d", resp.StatusCode)
	}
}

func TestWebSocketRoundTrip(t *testing.T) {
	srv := newTestServer(t, "")
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	tests := []struct {
		send     WebSocketMessage
		wantType string
	}{
		{WebSocketMessage{Type: "ping", ID: "1", Payload: []byte(`{}`)}, wshandler.TypePong},
		{WebSocketMessage{Type: "analyze", ID: "2", Payload: []byte(`{"text":"She go."}`)}, wshandler.TypeAnalysis},
		{WebSocketMessage{Type: "tts", ID: "3", Payload: []byte(`{"text":"She goes."}`)}, wshandler.TypeSpeech},
	}

	for _, tt := range tests {
		if err := conn.WriteJSON(tt.send); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		var got wshandler.Response
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if got.Type != tt.wantType || got.ID != tt.send.ID {
			t.Errorf("expected %s/%s, got %s/%s", tt.wantType, tt.send.ID, got.Type, got.ID)
		}
	}
}
