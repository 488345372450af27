// Package speech provides optional speech-to-text input.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// ErrBusy is returned when a recognition is already running.
var ErrBusy = errors.New("recognition already in progress")

// Languages the microphone can listen in.
const (
	LangEnglish = "en-US"
	LangChinese = "zh-CN"
)

// ToggleLanguage switches between English and Chinese input.
func ToggleLanguage(current string) string {
	if current == LangEnglish {
		return LangChinese
	}
	return LangEnglish
}

// Recognizer turns one utterance into text.
type Recognizer interface {
	// Listen blocks until a transcript is available, Stop is called, or ctx
	// ends. A stopped recognition returns an empty transcript.
	Listen(ctx context.Context, lang string) (string, error)
	Stop()
}

// CommandRecognizer runs an external program that records one utterance and
// prints the transcript on stdout. The language is appended as the last
// argument.
type CommandRecognizer struct {
	name string
	args []string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewCommandRecognizer returns a recognizer for argv, or nil when argv is
// empty so callers can disable speech input.
func NewCommandRecognizer(argv []string) *CommandRecognizer {
	if len(argv) == 0 {
		return nil
	}
	return &CommandRecognizer{name: argv[0], args: argv[1:]}
}

// Listen runs the recognizer. Only one recognition may be in flight.
func (r *CommandRecognizer) Listen(ctx context.Context, lang string) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return "", ErrBusy
	}
	r.cancel = cancel
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.cancel = nil
		r.mu.Unlock()
	}()

	args := append(append([]string{}, r.args...), lang)
	out, err := exec.CommandContext(ctx, r.name, args...).Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", nil
		}
		return "", fmt.Errorf("speech recognizer: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Stop ends the running recognition, if any.
func (r *CommandRecognizer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

// AppendTranscript adds a transcript to what the learner already typed.
func AppendTranscript(prev, transcript string) string {
	return strings.TrimSpace(prev + " " + transcript)
}
