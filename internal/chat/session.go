// Package chat owns the state of one tutoring session: the ordered message
// list, the typing flag and the score.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/windfall/gong_studio/internal/exercise"
	"github.com/windfall/gong_studio/internal/lang"
	"github.com/windfall/gong_studio/internal/model"
)

var (
	ErrEmptyInput  = errors.New("input is empty")
	ErrBusy        = errors.New("an analysis is already in progress")
	ErrNoExercise  = errors.New("message has no exercise")
	ErrUnknownTurn = errors.New("submission does not match the pending turn")
)

// Analyzer produces a grammar analysis for learner input.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*model.GrammarAnalysis, error)
}

// Pending is handed out by Begin and consumed by Finish.
type Pending struct {
	seq     uint64
	Text    string
	Chinese bool
}

// Session is the state of one conversation. It is safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	messages []model.Message
	attempts map[string]*exercise.Attempt
	typing   bool
	score    int
	seq      uint64

	now   func() time.Time
	newID func() string
}

// Option customises a Session.
type Option func(*Session)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDs overrides the message ID generator.
func WithIDs(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// NewSession creates a session seeded with the welcome message.
func NewSession(opts ...Option) *Session {
	s := &Session{
		attempts: make(map[string]*exercise.Attempt),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}

	s.messages = append(s.messages, model.Message{
		ID:        "welcome",
		Role:      model.RoleAssistant,
		Content:   lang.Welcome,
		Timestamp: s.now(),
	})
	return s
}

// Begin appends the learner's message and marks the session as typing.
func (s *Session) Begin(text string) (Pending, error) {
	if strings.TrimSpace(text) == "" {
		return Pending{}, ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.typing {
		return Pending{}, ErrBusy
	}

	s.messages = append(s.messages, model.Message{
		ID:        s.newID(),
		Role:      model.RoleUser,
		Content:   text,
		Timestamp: s.now(),
	})
	s.typing = true
	s.seq++

	return Pending{seq: s.seq, Text: text, Chinese: lang.IsChinese(text)}, nil
}

// Finish records the outcome of the pending analysis and clears the typing
// flag. A failure becomes a single localized assistant message.
func (s *Session) Finish(p Pending, analysis *model.GrammarAnalysis, err error) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.typing || p.seq != s.seq {
		return model.Message{}, ErrUnknownTurn
	}
	s.typing = false

	msg := model.Message{
		ID:        s.newID(),
		Role:      model.RoleAssistant,
		Timestamp: s.now(),
	}
	if err != nil || analysis == nil {
		msg.Content = lang.ErrorMessage(p.Chinese)
	} else {
		msg.Content = lang.Display(analysis, p.Chinese)
		msg.Analysis = analysis
		s.attempts[msg.ID] = exercise.NewAttempt(analysis.Exercise)
	}

	s.messages = append(s.messages, msg)
	return msg, nil
}

// Send runs a full round trip: Begin, analyze, Finish.
func (s *Session) Send(ctx context.Context, analyzer Analyzer, text string) (model.Message, error) {
	p, err := s.Begin(text)
	if err != nil {
		return model.Message{}, err
	}
	analysis, aerr := analyzer.Analyze(ctx, text)
	return s.Finish(p, analysis, aerr)
}

// Answer grades the exercise attached to messageID. The score grows by
// exercise.ScoreIncrement on the first correct submission only.
func (s *Session) Answer(messageID, answer string) (exercise.Result, error) {
	s.mu.RLock()
	attempt, ok := s.attempts[messageID]
	s.mu.RUnlock()
	if !ok {
		return exercise.Result{}, ErrNoExercise
	}

	res, err := attempt.Submit(answer)
	if err != nil {
		return res, err
	}
	if res.Correct {
		s.mu.Lock()
		s.score += exercise.ScoreIncrement
		s.mu.Unlock()
	}
	return res, nil
}

// Attempt returns the exercise attempt of messageID.
func (s *Session) Attempt(messageID string) (*exercise.Attempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[messageID]
	return a, ok
}

// LatestExercise returns the newest assistant message carrying an exercise.
func (s *Session) LatestExercise() (model.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Analysis != nil {
			return s.messages[i], true
		}
	}
	return model.Message{}, false
}

// OpenExercise returns the newest assistant message whose exercise has not
// been answered yet.
func (s *Session) OpenExercise() (model.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		msg := s.messages[i]
		if msg.Analysis == nil {
			continue
		}
		if a, ok := s.attempts[msg.ID]; ok {
			if _, submitted := a.Result(); !submitted {
				return msg, true
			}
		}
	}
	return model.Message{}, false
}

// Messages returns a copy of the message list.
func (s *Session) Messages() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Typing reports whether an analysis is in flight.
func (s *Session) Typing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.typing
}

// Score returns the session score.
func (s *Session) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

// SpeechText is what should be read aloud for an assistant message.
func SpeechText(msg model.Message) string {
	if msg.Analysis == nil {
		return msg.Content
	}
	return lang.SpeechText(msg.Analysis, msg.Content)
}
