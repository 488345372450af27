package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/windfall/gong_studio/internal/client"
	"github.com/windfall/gong_studio/internal/config"
	"github.com/windfall/gong_studio/internal/handler/http"
	"github.com/windfall/gong_studio/internal/handler/ws"
	"github.com/windfall/gong_studio/internal/logger"
	"github.com/windfall/gong_studio/internal/server"
	"github.com/windfall/gong_studio/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("env", cfg.Environment).
		Str("provider", cfg.AIProvider).
		Msg("Starting gong_studio proxy")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the model provider. Without one the proxy still serves
	// health checks and answers chat calls with NOT_CONFIGURED.
	provider, err := service.NewProvider(ctx, cfg.Providers)
	if err != nil {
		log.Warn().Err(err).Msg("Model provider not initialized")
	} else {
		log.Info().Str("provider", provider.Name()).Str("voice", provider.Voice()).Msg("Model provider initialized")
	}

	tutorService := service.NewTutorService(provider, log)
	healthHandler := http.NewHealthHandler(service.ProviderName(provider))

	// Initialize Redis speech cache
	var redisClient *client.RedisClient
	if cfg.RedisURL != "" {
		redisClient, err = client.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize Redis client")
		} else {
			log.Info().Dur("ttl", cfg.TTSCacheTTL).Msg("Redis speech cache initialized")
			tutorService.WithCache(redisClient, cfg.TTSCacheTTL)
			healthHandler.AddCheck("redis", redisClient)
		}
	}

	// Initialize Cloudflare R2 speech archive (S3 protocol)
	if cfg.R2Configured() {
		cloudflareClient, err := client.NewCloudflareClient(ctx,
			cfg.CloudflareAccessKeyID,
			cfg.CloudflareSecretKey,
			cfg.CloudflareR2Endpoint,
			cfg.CloudflareBucketName,
			cfg.CloudflarePublicURL,
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize Cloudflare client")
		} else {
			log.Info().Str("bucket", cfg.CloudflareBucketName).Msg("Cloudflare R2 archive initialized")
			tutorService.WithArchive(cloudflareClient)
		}
	} else {
		log.Debug().Msg("Cloudflare configuration missing, speech archive disabled")
	}

	// Initialize handlers
	chatHandler := http.NewChatHandler(log, tutorService)
	wsHandler := ws.NewHandler(log, tutorService, cfg.UpstreamTimeout)

	hub := server.NewWebSocketHub(log, wsHandler, cfg.CORSAllowedOrigins)
	go hub.Run(ctx)

	// Initialize HTTP server
	router := server.NewRouter(cfg, log, healthHandler, chatHandler, hub)
	httpServer := server.NewHTTPServer(cfg, log, router, hub)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Error().Err(err).Msg("HTTP server error")
			cancel()
		}
	}()

	log.Info().
		Str("http_addr", cfg.HTTPAddress()).
		Msg("Server started")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("Shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	// Graceful shutdown
	healthHandler.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	cancel()

	if redisClient != nil {
		redisClient.Close()
	}

	log.Info().Msg("Server stopped")
}
