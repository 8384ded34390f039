package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/strive/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a block-character progress bar with percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	filled := min(width, max(0, int(pct*float64(width))))

	barColor := lipgloss.Color(ColorForPct(pct))

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ColorForPct colors completion: red when barely started, green once done.
func ColorForPct(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 1:
		return string(t.GreenBright)
	case pct >= 0.6:
		return string(t.Green)
	case pct >= 0.3:
		return string(t.Yellow)
	case pct > 0:
		return string(t.Orange)
	default:
		return string(t.TextDim)
	}
}

// BlockBar renders a labeled progress bar for one block: logged against
// target, the percentage and a short caption such as "3/7 days".
func BlockBar(label string, logged, target float64, caption string, labelW, barWidth int) string {
	t := theme.Active

	pct := 0.0
	if target > 0 {
		pct = min(1, max(0, logged/target))
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForPct(pct)),
		progress.WithWidth(max(4, barWidth)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.SurfaceBright)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForPct(pct))).Background(t.Surface).Bold(true)
	captionStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100)) +
		spaceStyle.Render("  ") +
		captionStyle.Render(caption)
}
