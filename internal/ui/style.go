package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorRunning = lipgloss.Color("76")  // green
	colorStopped = lipgloss.Color("242") // gray
	colorError   = lipgloss.Color("196") // bright red
	colorWarn    = lipgloss.Color("214") // orange
	colorHeader  = lipgloss.Color("39")  // blue
)

var (
	runningStyle = lipgloss.NewStyle().Foreground(colorRunning)
	stoppedStyle = lipgloss.NewStyle().Foreground(colorStopped)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarn)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorStopped)
	headerStyle  = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
)

// render applies style to s when color output is enabled.
func render(style lipgloss.Style, s string) string {
	if !ShouldUseColor() {
		return s
	}
	return style.Render(s)
}

// RenderRunning styles a RUNNING state cell.
func RenderRunning(s string) string { return render(runningStyle, s) }

// RenderStopped styles a STOPPED state cell.
func RenderStopped(s string) string { return render(stoppedStyle, s) }

// RenderError styles an error message.
func RenderError(s string) string { return render(errorStyle, s) }

// RenderWarn styles a warning message.
func RenderWarn(s string) string { return render(warnStyle, s) }

// RenderMuted styles secondary text (hints, paths).
func RenderMuted(s string) string { return render(mutedStyle, s) }

// RenderHeader styles a table header row.
func RenderHeader(s string) string { return render(headerStyle, s) }

// RenderPassIcon returns the success marker for status output.
func RenderPassIcon() string { return render(runningStyle, "✓") }

// RenderWarnIcon returns the warning marker for status output.
func RenderWarnIcon() string { return render(warnStyle, "!") }

// RenderStopIcon returns the not-running marker for status output.
func RenderStopIcon() string { return render(stoppedStyle, "○") }
