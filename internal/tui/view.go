package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/windfall/gong_studio/internal/exercise"
	"github.com/windfall/gong_studio/internal/model"
)

// renderMessage draws one chat turn. attempt is nil for messages without an
// exercise.
func renderMessage(msg model.Message, attempt *exercise.Attempt, width int) string {
	inner := max(width-2, 20)

	var b strings.Builder
	if msg.Role == model.RoleUser {
		b.WriteString(userRoleStyle.Render(" You ") + " " + dimStyle.Render(msg.Timestamp.Format("15:04")) + "\n")
	} else {
		b.WriteString(assistantRoleStyle.Render(" Prof. Gong ") + " " + dimStyle.Render(msg.Timestamp.Format("15:04")) + "\n")
	}
	b.WriteString(bubbleStyle.Width(inner).Render(msg.Content))

	if msg.Analysis != nil {
		b.WriteString("\n")
		b.WriteString(renderAnalysis(msg.Analysis, attempt, inner))
	}
	return b.String()
}

// renderAnalysis draws the analysis card: the correction, the explanations
// that are present, the key points and the exercise.
func renderAnalysis(a *model.GrammarAnalysis, attempt *exercise.Attempt, width int) string {
	body := max(width-4, 16)
	text := lipgloss.NewStyle().Width(body)

	var parts []string
	if a.Original != "" {
		parts = append(parts, originalLabel.Render("Original (原文)")+"\n"+text.Inherit(strikeStyle).Render(a.Original))
	}
	if a.Corrected != "" {
		parts = append(parts, correctedLabel.Render("Corrected (修正)")+"\n"+text.Render(a.Corrected))
	}
	if a.ExplanationEN != "" {
		parts = append(parts, sectionLabel.Render("English Explanation")+"\n"+text.Render(a.ExplanationEN))
	}
	if a.ExplanationZH != "" {
		parts = append(parts, sectionLabel.Render("中文解析")+"\n"+text.Render(a.ExplanationZH))
	}
	if len(a.KeyPoints) > 0 {
		var kp strings.Builder
		kp.WriteString(sectionLabel.Render("Key Points"))
		for _, p := range a.KeyPoints {
			kp.WriteString("\n" + text.Render("• "+p))
		}
		parts = append(parts, kp.String())
	}
	if attempt != nil {
		parts = append(parts, renderExercise(attempt, body))
	}

	return cardStyle.Width(width).Render(strings.Join(parts, "\n\n"))
}

// renderExercise draws the exercise widget. Options are labelled A., B., …
// and colored by their state once the attempt is submitted.
func renderExercise(attempt *exercise.Attempt, width int) string {
	ex := attempt.Exercise()
	res, submitted := attempt.Result()
	text := lipgloss.NewStyle().Width(max(width-2, 10))

	var b strings.Builder
	b.WriteString(sectionLabel.Render("Mastery Exercise") + "\n")
	b.WriteString(text.Inherit(questionStyle).Render(fmt.Sprintf("%q", ex.Question)))

	if ex.IsMultipleChoice() {
		for i, opt := range ex.Options {
			line := optionLabel.Render(exercise.Label(i)+".") + " " + opt
			if submitted {
				switch attempt.OptionState(opt) {
				case exercise.OptionCorrect:
					line = optionCorrect.Render(exercise.Label(i) + ". " + opt + "  ✓")
				case exercise.OptionChosenWrong:
					line = optionWrong.Render(exercise.Label(i) + ". " + opt + "  ✗")
				default:
					line = optionDone.Render(exercise.Label(i) + ". " + opt)
				}
			}
			b.WriteString("\n" + line)
		}
	} else if submitted {
		style := optionWrong
		if res.Correct {
			style = optionCorrect
		}
		b.WriteString("\n" + style.Render("Your answer: "+res.Answer))
	}

	if !submitted {
		b.WriteString("\n" + dimStyle.Render("Reply with /a <answer> or /dictate"))
	} else {
		feedback := feedbackBad.Render(res.Feedback(ex))
		if res.Correct {
			feedback = feedbackGood.Render(res.Feedback(ex))
		}
		b.WriteString("\n" + feedback)
		if ex.Hint != "" {
			b.WriteString("\n" + dimStyle.Render("Hint: "+ex.Hint))
		}
	}

	return exerciseStyle.Render(b.String())
}
