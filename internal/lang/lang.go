// Package lang detects the input language and picks the localized strings
// shown to the learner.
package lang

import (
	"strings"

	"github.com/windfall/gong_studio/internal/model"
)

const (
	// CJK Unified Ideographs as matched by the original web client.
	cjkFirst = '一'
	cjkLast  = '龥'
)

const (
	Welcome = "Good day. Prof. Gong's Studio is ready. Input a sentence or ask a question.\n\n" +
		"你好。龚教授的工作室已就绪。请输入句子或提问。"

	AnalysisComplete = "Mastery analysis complete."

	errorEN = "I apologize, a communication error occurred. Please try again."
	errorZH = "抱歉，发生了通信错误。请重试。"
)

// IsChinese reports whether text contains at least one CJK ideograph.
func IsChinese(text string) bool {
	for _, r := range text {
		if r >= cjkFirst && r <= cjkLast {
			return true
		}
	}
	return false
}

// Explanation returns the explanation matching the input language, falling
// back to the other one when the preferred explanation is empty.
func Explanation(a *model.GrammarAnalysis, chinese bool) string {
	if a == nil {
		return ""
	}
	if chinese {
		return firstNonEmpty(a.ExplanationZH, a.ExplanationEN)
	}
	return firstNonEmpty(a.ExplanationEN, a.ExplanationZH)
}

// Display is the text of the assistant turn carrying an analysis.
func Display(a *model.GrammarAnalysis, chinese bool) string {
	if s := Explanation(a, chinese); s != "" {
		return s
	}
	return AnalysisComplete
}

// ErrorMessage is the single message shown when an analysis fails.
func ErrorMessage(chinese bool) string {
	if chinese {
		return errorZH
	}
	return errorEN
}

// SpeechText is what gets read aloud after an analysis.
func SpeechText(a *model.GrammarAnalysis, display string) string {
	return a.Corrected + ". " + display
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
