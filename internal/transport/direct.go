package transport

import (
	"context"

	"github.com/windfall/gong_studio/internal/model"
	"github.com/windfall/gong_studio/internal/service"
)

// Direct calls the providers in-process through the same service the proxy
// uses. It needs a provider credential on the tutor's host.
type Direct struct {
	service *service.TutorService
}

// NewDirect creates a direct transport.
func NewDirect(svc *service.TutorService) *Direct {
	return &Direct{service: svc}
}

// Analyze implements Transport.
func (d *Direct) Analyze(ctx context.Context, text string) (*model.GrammarAnalysis, error) {
	return d.service.Analyze(ctx, text)
}

// Speech implements Transport.
func (d *Direct) Speech(ctx context.Context, text string) (string, error) {
	res, err := d.service.Speech(ctx, text)
	if err != nil {
		return "", err
	}
	return res.AudioData, nil
}
