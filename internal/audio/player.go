package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
)

// Player outputs decoded speech. Implementations stop any in-flight
// playback before starting a new one.
type Player interface {
	Play(ctx context.Context, buf *Buffer) error
	Stop()
}

// CommandPlayer pipes WAV data into an external program such as
// "aplay -q -" or "ffplay -nodisp -autoexit -".
type CommandPlayer struct {
	name string
	args []string

	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
}

// NewCommandPlayer returns a player for argv, or nil when argv is empty so
// callers can treat playback as unsupported.
func NewCommandPlayer(argv []string) *CommandPlayer {
	if len(argv) == 0 {
		return nil
	}
	return &CommandPlayer{name: argv[0], args: argv[1:]}
}

// Play blocks until the buffer has been played, the context ends, or a newer
// playback replaces this one. A replaced playback returns nil.
func (p *CommandPlayer) Play(ctx context.Context, buf *Buffer) error {
	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = cancel
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		if p.seq == seq {
			p.cancel = nil
		}
		p.mu.Unlock()
		cancel()
	}()

	data, err := buf.WAV()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, p.name, p.args...)
	cmd.Stdin = bytes.NewReader(data)

	err = cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil
	}
	return fmt.Errorf("play audio: %w", err)
}

// Stop tears down the in-flight playback, if any.
func (p *CommandPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
