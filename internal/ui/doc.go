// Package ui provides the colour themes and lipgloss styles shared by the
// command-line presentation code.
package ui
