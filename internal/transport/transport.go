// Package transport moves analysis and speech requests from the tutor to a
// model: through the backend proxy, in-process, or one then the other.
package transport

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/windfall/gong_studio/internal/model"
)

// Transport reaches the analysis and speech models.
type Transport interface {
	Analyze(ctx context.Context, text string) (*model.GrammarAnalysis, error)
	// Speech returns base64 PCM. An empty string means no audio.
	Speech(ctx context.Context, text string) (string, error)
}

// Fallback tries Primary and, on any failure, Secondary once.
type Fallback struct {
	Primary   Transport
	Secondary Transport
	Log       zerolog.Logger
}

// Analyze implements Transport.
func (f *Fallback) Analyze(ctx context.Context, text string) (*model.GrammarAnalysis, error) {
	a, err := f.Primary.Analyze(ctx, text)
	if err == nil || f.Secondary == nil || ctx.Err() != nil {
		return a, err
	}
	f.Log.Warn().Err(err).Msg("Primary transport failed, retrying analysis on fallback")
	return f.Secondary.Analyze(ctx, text)
}

// Speech implements Transport.
func (f *Fallback) Speech(ctx context.Context, text string) (string, error) {
	s, err := f.Primary.Speech(ctx, text)
	if err == nil || f.Secondary == nil || ctx.Err() != nil {
		return s, err
	}
	f.Log.Warn().Err(err).Msg("Primary transport failed, retrying speech on fallback")
	return f.Secondary.Speech(ctx, text)
}

// bounded limits every call to a fixed duration.
type bounded struct {
	next    Transport
	timeout time.Duration
}

// WithTimeout bounds every call made through t. A non-positive timeout
// returns t unchanged.
func WithTimeout(t Transport, timeout time.Duration) Transport {
	if timeout <= 0 {
		return t
	}
	return &bounded{next: t, timeout: timeout}
}

func (b *bounded) Analyze(ctx context.Context, text string) (*model.GrammarAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.next.Analyze(ctx, text)
}

func (b *bounded) Speech(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.next.Speech(ctx, text)
}
