package model

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      GrammarAnalysis
		wantErr bool
	}{
		{
			name: "multiple choice",
			in: GrammarAnalysis{Exercise: Exercise{
				Type: "multiple-choice", Question: "Pick one", Options: []string{"a", "an"}, Answer: "an",
			}},
		},
		{
			name: "type is normalised",
			in:   GrammarAnalysis{Exercise: Exercise{Type: " Fill-In-The-Blank ", Question: "I ___ here.", Answer: "am"}},
		},
		{
			name:    "unknown type",
			in:      GrammarAnalysis{Exercise: Exercise{Type: "essay", Question: "q", Answer: "a"}},
			wantErr: true,
		},
		{
			name:    "missing answer",
			in:      GrammarAnalysis{Exercise: Exercise{Type: "fill-in-the-blank", Question: "q"}},
			wantErr: true,
		},
		{
			name:    "missing question",
			in:      GrammarAnalysis{Exercise: Exercise{Type: "multiple-choice", Answer: "a"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.in
			err := a.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && a.KeyPoints == nil {
				t.Error("expected key points to be normalised to an empty list")
			}
		})
	}
}

func TestValidateDropsOptionsForFillInBlank(t *testing.T) {
	a := GrammarAnalysis{Exercise: Exercise{
		Type: ExerciseFillInBlank, Question: "q", Answer: "a", Options: []string{"x"},
	}}
	if err := a.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Exercise.Options != nil {
		t.Errorf("expected options to be dropped, got %v", a.Exercise.Options)
	}
	if a.Exercise.IsMultipleChoice() {
		t.Error("fill-in-the-blank must not be multiple choice")
	}
}
