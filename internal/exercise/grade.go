// Package exercise grades mastery exercises.
package exercise

import (
	"errors"
	"strings"
	"sync"

	"github.com/windfall/gong_studio/internal/model"
)

// ScoreIncrement is added to the session score for every correct answer.
const ScoreIncrement = 10

var (
	ErrAlreadySubmitted = errors.New("exercise already submitted")
	ErrEmptyAnswer      = errors.New("answer is empty")
)

// Normalize trims, lower-cases and drops one trailing punctuation mark.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if n := len(s); n > 0 && strings.ContainsRune(".,!?;", rune(s[n-1])) {
		s = s[:n-1]
	}
	return s
}

// Grade reports whether answer matches the expected answer of ex.
func Grade(ex model.Exercise, answer string) bool {
	return Normalize(answer) == Normalize(ex.Answer)
}

// ResolveChoice maps learner input to a multiple-choice option. Input that
// already names an option wins; otherwise a single letter picks the option
// at that position. Non multiple-choice exercises return the input as is.
func ResolveChoice(ex model.Exercise, input string) string {
	if !ex.IsMultipleChoice() {
		return input
	}
	norm := Normalize(input)
	for _, opt := range ex.Options {
		if Normalize(opt) == norm {
			return opt
		}
	}
	s := strings.TrimSpace(input)
	if len(s) == 1 {
		idx := int(strings.ToUpper(s)[0]) - 'A'
		if idx >= 0 && idx < len(ex.Options) {
			return ex.Options[idx]
		}
	}
	return input
}

// Label returns the letter shown in front of the i-th option.
func Label(i int) string {
	return string(rune('A' + i))
}

// Result is the outcome of a submitted answer.
type Result struct {
	Answer  string `json:"answer"`
	Correct bool   `json:"correct"`
}

// Feedback is the line shown after submission.
func (r Result) Feedback(ex model.Exercise) string {
	if r.Correct {
		return "Excellent!"
	}
	return "Correct answer: " + ex.Answer
}

// OptionState is how a multiple-choice option is shown after submission.
type OptionState int

const (
	OptionNeutral OptionState = iota
	OptionCorrect
	OptionChosenWrong
)

// Attempt tracks the single submission allowed for one exercise.
type Attempt struct {
	mu       sync.Mutex
	exercise model.Exercise
	result   *Result
}

// NewAttempt starts an attempt for ex.
func NewAttempt(ex model.Exercise) *Attempt {
	return &Attempt{exercise: ex}
}

// Exercise returns the exercise being attempted.
func (a *Attempt) Exercise() model.Exercise {
	return a.exercise
}

// Submit grades answer once. Empty answers are rejected without consuming
// the attempt.
func (a *Attempt) Submit(answer string) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.result != nil {
		return *a.result, ErrAlreadySubmitted
	}
	if strings.TrimSpace(answer) == "" {
		return Result{}, ErrEmptyAnswer
	}

	answer = ResolveChoice(a.exercise, answer)
	res := Result{Answer: answer, Correct: Grade(a.exercise, answer)}
	a.result = &res
	return res, nil
}

// Result returns the submission, if any.
func (a *Attempt) Result() (Result, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.result == nil {
		return Result{}, false
	}
	return *a.result, true
}

// OptionState reports how opt should be shown.
func (a *Attempt) OptionState(opt string) OptionState {
	res, ok := a.Result()
	if !ok {
		return OptionNeutral
	}
	switch {
	case Normalize(opt) == Normalize(a.exercise.Answer):
		return OptionCorrect
	case !res.Correct && Normalize(opt) == Normalize(res.Answer):
		return OptionChosenWrong
	default:
		return OptionNeutral
	}
}
