package transport

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/windfall/gong_studio/internal/config"
	"github.com/windfall/gong_studio/internal/service"
)

// New picks the transport for the tutor. Production talks to the proxy and
// falls back to direct calls when they are enabled; development prefers
// direct calls when available. Every call is bounded by the request timeout.
func New(ctx context.Context, cfg *config.ClientConfig, log zerolog.Logger) Transport {
	proxy := NewProxy(cfg.ProxyURL, cfg.ProxyToken)

	var direct Transport
	if cfg.DirectEnabled() {
		provider, err := service.NewProvider(ctx, cfg.Providers)
		if err != nil {
			log.Warn().Err(err).Msg("Direct transport unavailable")
		} else {
			direct = NewDirect(service.NewTutorService(provider, log))
		}
	}

	var t Transport = proxy
	switch {
	case direct == nil:
		log.Info().Str("proxy", cfg.ProxyURL).Msg("Using proxy transport")
	case cfg.IsProduction():
		log.Info().Str("proxy", cfg.ProxyURL).Msg("Using proxy transport with direct fallback")
		t = &Fallback{Primary: proxy, Secondary: direct, Log: log}
	default:
		log.Info().Str("proxy", cfg.ProxyURL).Msg("Using direct transport with proxy fallback")
		t = &Fallback{Primary: direct, Secondary: proxy, Log: log}
	}

	return WithTimeout(t, cfg.RequestTimeout)
}
