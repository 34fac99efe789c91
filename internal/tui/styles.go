package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/flightdash/internal/ui"
)

// Style variables for the watch screen, rebuilt from the ui theme by
// initStyles.
var (
	base         ui.Styles
	headerStyle  lipgloss.Style
	panelStyle   lipgloss.Style
	pendingStyle lipgloss.Style
	runningStyle lipgloss.Style
	doneStyle    lipgloss.Style
	failedStyle  lipgloss.Style
	cpuStyle     lipgloss.Style
	memStyle     lipgloss.Style
)

func init() {
	initStyles()
}

// initStyles rebuilds all styles from the current ui theme.
// Called at package init and again from Run after InitTheme.
func initStyles() {
	t := ui.GetCurrentTheme()
	base = t.Styles()

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Padding(0, 1)
	panelStyle = base.Box
	pendingStyle = lipgloss.NewStyle().Foreground(t.Dim)
	runningStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	doneStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	failedStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	cpuStyle = lipgloss.NewStyle().Foreground(t.Accent)
	memStyle = lipgloss.NewStyle().Foreground(t.Warning)
}
