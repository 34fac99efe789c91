package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// usageLevels are the blocks a usage track is drawn with, lowest first.
var usageLevels = []rune("▁▂▃▄▅▆▇█")

// usageTrack holds the recent host usage percentages shown in the host row
// of the watch screen. Samples older than the window are dropped.
type usageTrack struct {
	label   string
	window  int
	samples []float64
}

func newUsageTrack(label string, window int) *usageTrack {
	if window <= 0 {
		window = 1
	}
	return &usageTrack{label: label, window: window, samples: make([]float64, 0, window)}
}

// add records a sample clamped to 0..100.
func (u *usageTrack) add(pct float64) {
	pct = max(0, min(pct, 100))
	if len(u.samples) == u.window {
		copy(u.samples, u.samples[1:])
		u.samples = u.samples[:u.window-1]
	}
	u.samples = append(u.samples, pct)
}

// last is the newest sample, 0 before the first.
func (u *usageTrack) last() float64 {
	if len(u.samples) == 0 {
		return 0
	}
	return u.samples[len(u.samples)-1]
}

// bars draws one block per sample, oldest first. The row is padded on the
// left to the window so it does not shift while it fills.
func (u *usageTrack) bars() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", u.window-len(u.samples)))
	top := float64(len(usageLevels) - 1)
	for _, v := range u.samples {
		b.WriteRune(usageLevels[int(v/100*top)])
	}
	return b.String()
}

// render draws the labelled track followed by the newest reading.
func (u *usageTrack) render(style lipgloss.Style) string {
	return fmt.Sprintf("%s %s %5.1f%%", base.Label.Render(u.label), style.Render(u.bars()), u.last())
}
