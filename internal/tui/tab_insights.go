package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/tui/components"
	"github.com/theirongolddev/strive/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// heatLegend names the intensity levels in order.
var heatLegend = []string{"none", "some", "met", "1.5x", "2x+"}

func (a App) renderInsightsTab(cw int) string {
	t := theme.Active
	an := a.report.Analytics
	var b strings.Builder

	logged := 0
	met := 0
	for _, c := range an.Heatmap {
		if c.ValK > 0 {
			logged++
		}
		if c.Intensity >= 2 {
			met++
		}
	}
	hitRate := 0.0
	if logged > 0 {
		hitRate = float64(met) / float64(logged)
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Current Streak", Value: cli.FormatDays(an.Streak), Color: t.Yellow},
		{Label: "Best Streak", Value: cli.FormatDays(an.MaxStreak)},
		{Label: "Days Logged", Value: strconv.Itoa(logged), Note: "of " + strconv.Itoa(an.LastDayLogged+1) + " so far"},
		{Label: "Minimum Met", Value: cli.FormatPercent(hitRate), Note: strconv.Itoa(met) + " days"},
	}, cw))
	b.WriteString("\n")

	insightStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true).
		Width(components.CardInnerWidth(cw))
	b.WriteString(components.ContentCard("Insight", insightStyle.Render(an.Insight), cw))
	b.WriteString("\n")

	innerW := components.CardInnerWidth(cw)
	if len(an.Heatmap) > 0 {
		vals := make([]float64, len(an.Heatmap))
		labels := make([]string, len(an.Heatmap))
		for i, c := range an.Heatmap {
			vals[i] = c.ValK * 1000
			labels[i] = strconv.Itoa(c.Day + 1)
		}
		b.WriteString(components.ContentCard("Logged per Day", components.BarChart(vals, labels, t.Green, innerW, 8), cw))
		b.WriteString("\n")
	}

	// Heatmap with legend
	space := lipgloss.NewStyle().Background(t.Surface)
	var legend strings.Builder
	for lvl, name := range heatLegend {
		if lvl > 0 {
			legend.WriteString(space.Render("  "))
		}
		legend.WriteString(lipgloss.NewStyle().Foreground(t.HeatColor(lvl)).Background(t.Surface).Render("██"))
		legend.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(" " + name))
	}
	heat := components.Heatmap(an.Heatmap, a.report.ActGoal.TargetDays, a.tracker.Policy().Normalized().BlockDays, -1)
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Consistency · minimum now %s/day", cli.FormatK(an.CurrentMinK)),
		heat+"\n\n"+legend.String(),
		cw))

	return b.String()
}
