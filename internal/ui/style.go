package ui

import "github.com/charmbracelet/lipgloss"

// Color palette shared by every styled element envctl renders: tables and
// status lines. Adaptive so it reads
// correctly on both light and dark terminal backgrounds.
var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "25", Dark: "39"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "166", Dark: "214"}
	ColorPass   = lipgloss.AdaptiveColor{Light: "28", Dark: "42"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "245", Dark: "241"}
)

// render applies style to s unless ShouldUseColor says output should stay
// plain (piped, NO_COLOR, CLICOLOR=0), so callers never have to check
// themselves.
func render(style lipgloss.Style, s string) string {
	if !ShouldUseColor() {
		return s
	}
	return style.Render(s)
}

// RenderWarn styles s as a warning label.
func RenderWarn(s string) string {
	return render(lipgloss.NewStyle().Foreground(ColorWarn).Bold(true), s)
}

// RenderMuted styles s as a de-emphasized hint.
func RenderMuted(s string) string {
	return render(lipgloss.NewStyle().Foreground(ColorMuted), s)
}

// RenderAccent styles s as a highlighted value.
func RenderAccent(s string) string {
	return render(lipgloss.NewStyle().Foreground(ColorAccent), s)
}

// RenderPass styles s as a success label.
func RenderPass(s string) string {
	return render(lipgloss.NewStyle().Foreground(ColorPass).Bold(true), s)
}
