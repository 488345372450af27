package model

import (
	"fmt"
	"strings"
)

// ExerciseType is the kind of mastery exercise generated for an answer.
type ExerciseType string

const (
	ExerciseMultipleChoice ExerciseType = "multiple-choice"
	ExerciseFillInBlank    ExerciseType = "fill-in-the-blank"
)

// Exercise is a short comprehension check built from the corrected sentence.
type Exercise struct {
	Type     ExerciseType `json:"type"`
	Question string       `json:"question"`
	Options  []string     `json:"options,omitempty"` // multiple-choice only
	Answer   string       `json:"answer"`
	Hint     string       `json:"hint"`
}

// IsMultipleChoice reports whether the exercise should be answered by
// picking one of its options.
func (e Exercise) IsMultipleChoice() bool {
	return e.Type == ExerciseMultipleChoice && len(e.Options) > 0
}

// GrammarAnalysis is the structured output returned by the analysis model.
// Exactly one explanation is expected to be filled, matching the input
// language; that is up to the model and is not enforced here.
type GrammarAnalysis struct {
	Original      string   `json:"original"`
	Corrected     string   `json:"corrected"`
	ExplanationEN string   `json:"explanation_en"`
	ExplanationZH string   `json:"explanation_zh"`
	KeyPoints     []string `json:"key_points"`
	Exercise      Exercise `json:"exercise"`
}

// Validate checks the fields the client relies on to render and grade.
func (a *GrammarAnalysis) Validate() error {
	if a.KeyPoints == nil {
		a.KeyPoints = []string{}
	}

	ex := &a.Exercise
	ex.Type = ExerciseType(strings.ToLower(strings.TrimSpace(string(ex.Type))))
	switch ex.Type {
	case ExerciseMultipleChoice, ExerciseFillInBlank:
	default:
		return fmt.Errorf("unsupported exercise type %q", ex.Type)
	}
	if strings.TrimSpace(ex.Question) == "" {
		return fmt.Errorf("exercise question is empty")
	}
	if strings.TrimSpace(ex.Answer) == "" {
		return fmt.Errorf("exercise answer is empty")
	}
	if ex.Type == ExerciseFillInBlank {
		ex.Options = nil
	}
	return nil
}
