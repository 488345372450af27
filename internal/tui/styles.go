package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	scoreStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	micStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("61")).
			Padding(0, 1)

	listeningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("160")).
			Padding(0, 1)

	userRoleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("240"))

	assistantRoleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("61"))

	bubbleStyle = lipgloss.NewStyle().
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	originalLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203"))

	correctedLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	sectionLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("111"))

	strikeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Strikethrough(true)

	exerciseStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("61")).
			PaddingLeft(1)

	questionStyle = lipgloss.NewStyle().
			Italic(true)

	optionLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("111"))

	optionCorrect = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	optionWrong = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	optionDone = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	feedbackGood = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	feedbackBad = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	typingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("111")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))
)
