package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/tui/components"
	"github.com/theirongolddev/strive/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	r := a.report
	an := r.Analytics
	var b strings.Builder

	// Row 1: headline metrics
	completion := "beyond the cap"
	if !r.Actual.Capped {
		completion = "day " + cli.FormatNumber(int64(r.Actual.CompletionDay))
	}
	completionNote := string(r.Actual.Status)
	if !r.CompletionDate.IsZero() {
		completionNote += " · " + cli.FormatDate(r.CompletionDate)
	}

	metrics := []components.Metric{
		{
			Label: "Saved",
			Value: cli.FormatCompact(an.TotalLogged),
			Note:  "of " + cli.FormatCompact(r.ActGoal.TargetAmount),
		},
		{
			Label: "Daily Minimum",
			Value: cli.FormatK(r.DisplayMinK),
			Note:  "over the remaining days",
		},
		{
			Label: "Streak",
			Value: cli.FormatDays(an.Streak),
			Note:  "best " + cli.FormatDays(an.MaxStreak),
			Color: t.Yellow,
		},
		{
			Label: "Completion",
			Value: completion,
			Note:  completionNote,
			Color: t.StatusColor(string(r.Actual.Status)),
		},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(metrics[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(metrics[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(metrics, cw))
	}
	b.WriteString("\n")

	// Row 2: goal progress
	innerW := components.CardInnerWidth(cw)
	pct := 0.0
	if r.ActGoal.TargetAmount > 0 {
		pct = min(1, an.TotalLogged/r.ActGoal.TargetAmount)
	}
	barW := max(10, innerW-6)
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Goal · %s in %s", cli.FormatAmount(r.ActGoal.TargetAmount), cli.FormatDays(r.ActGoal.TargetDays)),
		components.ProgressBar(pct, barW),
		cw,
	))
	b.WriteString("\n")

	// Row 3: paths + insight
	pathW, insightW := cw, cw
	if !a.isCompactLayout() {
		widths := components.LayoutRow(cw, 3)
		pathW = widths[0] + widths[1]
		insightW = widths[2]
	}

	pathBody := components.PathChart([]components.Series{
		{Name: "actual", Values: r.Actual.ActualPath, Color: t.Green},
		{Name: "forecast", Values: r.Actual.ProjectionPath, Color: t.Orange},
		{Name: "strive", Values: r.Actual.StrivePath, Color: t.Blue},
	}, 8, max(10, components.CardInnerWidth(pathW)-9))
	pathCard := components.ContentCard("Cumulative Paths", pathBody, pathW)

	insightStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface).
		Width(components.CardInnerWidth(insightW))
	insightCard := components.ContentCard("Insight", insightStyle.Render(an.Insight), insightW)

	if a.isCompactLayout() {
		b.WriteString(pathCard)
		b.WriteString("\n")
		b.WriteString(insightCard)
	} else {
		b.WriteString(components.CardRow([]string{pathCard, insightCard}))
	}
	b.WriteString("\n")

	// Row 4: active block
	if r.ActiveBlock >= 0 && r.ActiveBlock < len(r.Blocks) {
		bp := r.Blocks[r.ActiveBlock]
		body := components.BlockBar(
			fmt.Sprintf("Block %d", bp.ID+1),
			bp.Logged, bp.Target,
			fmt.Sprintf("%d/%d days · %s", bp.LoggedDays, bp.Span, cli.RenderMetDays(bp.MetDays, bp.DayLogged)),
			8, max(10, innerW/2),
		)
		b.WriteString(components.ContentCard("Active Block", body, cw))
	}

	return b.String()
}
