package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/sqlquest/internal/quiz"
	"github.com/roach88/sqlquest/internal/session"
)

var (
	colorTitle    = lipgloss.Color("33")
	colorMuted    = lipgloss.Color("242")
	colorCorrect  = lipgloss.Color("42")
	colorWrong    = lipgloss.Color("214")
	colorError    = lipgloss.Color("196")
	colorSelected = lipgloss.Color("229")
)

// renderTiers renders the tier picker with the current tier highlighted.
func renderTiers(bank *quiz.Bank, current quiz.Tier, noColor bool) string {
	parts := make([]string, 0, len(bank.Tiers()))
	for _, t := range bank.Tiers() {
		label := bank.Label(t)
		if t == current {
			label = "[" + label + "]"
			if !noColor {
				label = lipgloss.NewStyle().Bold(true).Foreground(colorSelected).Render(label)
			}
		} else {
			label = " " + label + " "
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

// renderQuestionLine renders "Question 3/10 · summary".
func renderQuestionLine(bank *quiz.Bank, st session.State, q quiz.Question, noColor bool) string {
	line := fmt.Sprintf("Question %d/%d · %s", st.Question+1, bank.TierSize(st.Tier), q.Summary)
	return stylize(line, noColor, colorTitle)
}

// renderPrompt wraps the question prompt to width.
func renderPrompt(q quiz.Question, width int) string {
	style := lipgloss.NewStyle()
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(q.Prompt)
}

// renderReveal renders the hint and the reference answer when visible.
func renderReveal(st session.State, q quiz.Question, noColor bool) string {
	var blocks []string
	if st.HintVisible {
		blocks = append(blocks, box("Hint", q.Hint, noColor))
	}
	if st.AnswerVisible {
		blocks = append(blocks, box("Answer", q.Solution, noColor))
	}
	return strings.Join(blocks, "\n")
}

// renderStatus renders the engine error or the verdict of the last run.
func renderStatus(st session.State, running bool, noColor bool) string {
	switch {
	case running:
		return stylize("Running…", noColor, colorMuted)
	case st.Error != "":
		return stylize("Error: "+st.Error, noColor, colorError)
	case st.Feedback == session.FeedbackCorrect:
		return stylize(st.Feedback, noColor, colorCorrect)
	case st.Feedback != "":
		return stylize(st.Feedback, noColor, colorWrong)
	}
	return ""
}

// renderHelp renders the key binding footer.
func renderHelp(bindings []binding, noColor bool) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = b.key + " " + b.help
	}
	return stylize(strings.Join(parts, " · "), noColor, colorMuted)
}

// box draws a titled, bordered block.
func box(title, body string, noColor bool) string {
	style := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	heading := title
	if !noColor {
		style = style.BorderForeground(colorMuted)
		heading = lipgloss.NewStyle().Bold(true).Render(title)
	}
	return style.Render(heading + "\n" + body)
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
