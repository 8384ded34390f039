package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/strive/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar reports about the tracker.
type Status struct {
	Today   int
	Days    int
	Locked  bool
	Message string
	IsError bool
	DataAge string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	if s.IsError {
		msgStyle = msgStyle.Foreground(t.Red)
	}

	left := base.Render(" [?]help  [q]uit")
	if s.Message != "" {
		left += base.Render("  ") + msgStyle.Render(s.Message)
	}

	var right []string
	if s.Days > 0 {
		day := "not started"
		if s.Today >= 0 {
			day = fmt.Sprintf("day %d/%d", s.Today+1, s.Days)
		}
		right = append(right, accent.Render(day))
	}
	if s.Locked {
		right = append(right, lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Render("locked"))
	}
	if s.DataAge != "" {
		right = append(right, base.Render("updated "+s.DataAge))
	}
	rightStr := strings.Join(right, base.Render(" │ ")) + base.Render(" ")

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(rightStr))
	return left + base.Render(strings.Repeat(" ", padding)) + rightStr
}
