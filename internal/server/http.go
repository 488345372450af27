package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/windfall/gong_studio/internal/config"
	httphandler "github.com/windfall/gong_studio/internal/handler/http"
	"github.com/windfall/gong_studio/internal/middleware"
)

// HTTPServer represents the HTTP server.
type HTTPServer struct {
	server *http.Server
	hub    *WebSocketHub
	log    zerolog.Logger
}

// NewRouter builds the proxy's routes.
func NewRouter(
	cfg *config.Config,
	log zerolog.Logger,
	healthHandler *httphandler.HealthHandler,
	chatHandler *httphandler.ChatHandler,
	hub *WebSocketHub,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: cfg.CORSAllowedMethods,
		AllowedHeaders: cfg.CORSAllowedHeaders,
		MaxAge:         300,
	}))

	// Health endpoints (public)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Get("/live", healthHandler.Live)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AccessToken(cfg.ProxyAccessToken))

		chat := r.With(chimiddleware.Compress(5))
		if cfg.UpstreamTimeout > 0 {
			chat = chat.With(chimiddleware.Timeout(cfg.UpstreamTimeout))
		}
		// The handler answers 405 itself so every method reaches it.
		chat.HandleFunc("/api/chat", chatHandler.Chat)

		if hub != nil {
			r.Get("/ws", hub.HandleWebSocket)
		}
	})

	return r
}

// NewHTTPServer creates a new HTTP server.
func NewHTTPServer(cfg *config.Config, log zerolog.Logger, handler http.Handler, hub *WebSocketHub) *HTTPServer {
	server := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &HTTPServer{
		server: server,
		hub:    hub,
		log:    log,
	}
}

// Start starts the HTTP server.
func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	event := s.log.Info()
	if s.hub != nil {
		event = event.Int("ws_clients", s.hub.ClientCount())
	}
	event.Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
