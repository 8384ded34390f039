package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/money"
	"github.com/theirongolddev/strive/internal/tui/components"
	"github.com/theirongolddev/strive/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// simState tracks the simulation tab's block selection.
type simState struct {
	cursor int
}

func (a App) updateSimulationKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.moveCursor(1)
		return a, nil, true
	case "k", "up":
		a.moveCursor(-1)
		return a, nil, true
	case "enter":
		if a.sim.cursor >= len(a.state.SimBlocks) {
			return a, nil, true
		}
		blk := a.state.SimBlocks[a.sim.cursor]
		m, cmd := a.openPrompt(promptState{
			kind:    promptBlockAmount,
			goal:    model.GoalSim,
			blockID: blk.ID,
			label:   fmt.Sprintf("Block %d amount (K):", blk.ID+1),
		}, "70", cli.FormatK(blk.TotalAmount/money.Thousand))
		return m, cmd, true
	case "a":
		m, cmd := a.openPrompt(promptState{
			kind:  promptGoalAmount,
			goal:  model.GoalSim,
			label: "Simulation amount (K):",
		}, "500", cli.FormatK(a.state.SimGoal.TargetAmount/money.Thousand))
		return m, cmd, true
	case "d":
		m, cmd := a.openPrompt(promptState{
			kind:  promptGoalDays,
			goal:  model.GoalSim,
			label: "Simulation days:",
		}, "30", strconv.Itoa(a.state.SimGoal.TargetDays))
		return m, cmd, true
	}
	return a, nil, false
}

func (a App) renderSimulationTab(cw int) string {
	t := theme.Active
	r := a.report
	sim := r.Simulation
	var b strings.Builder

	completion := "day " + strconv.Itoa(sim.CompletionDay)
	if sim.Capped {
		completion = "capped at day " + strconv.Itoa(sim.CompletionDay)
	}
	delta := sim.CompletionDay - r.SimGoal.TargetDays
	deltaNote := "right on target"
	switch {
	case delta < 0:
		deltaNote = cli.FormatDays(-delta) + " early"
	case delta > 0:
		deltaNote = cli.FormatDays(delta) + " late"
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Target", Value: cli.FormatCompact(r.SimGoal.TargetAmount), Note: "[a] edit"},
		{Label: "Days", Value: strconv.Itoa(r.SimGoal.TargetDays), Note: "[d] edit"},
		{Label: "Finishes", Value: completion, Note: deltaNote, Color: t.StatusColor(string(sim.Status))},
		{Label: "Status", Value: string(sim.Status), Color: t.StatusColor(string(sim.Status))},
	}, cw))
	b.WriteString("\n")

	// Block allocation chart
	innerW := components.CardInnerWidth(cw)
	vals := make([]float64, len(a.state.SimBlocks))
	labels := make([]string, len(a.state.SimBlocks))
	for i, blk := range a.state.SimBlocks {
		vals[i] = blk.TotalAmount
		labels[i] = "B" + strconv.Itoa(blk.ID+1)
	}
	if len(vals) > 0 {
		b.WriteString(components.ContentCard("Block Targets", components.BarChart(vals, labels, t.Blue, innerW, 8), cw))
		b.WriteString("\n")
	}

	// Projected path
	b.WriteString(components.ContentCard("Projected Path",
		components.PathChart([]components.Series{
			{Name: "projected", Values: sim.Path, Color: t.Cyan},
		}, 9, max(10, innerW-10)),
		cw))
	b.WriteString("\n")

	// Block list
	p := a.tracker.Policy()
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright).Bold(true)

	var list strings.Builder
	for i, blk := range a.state.SimBlocks {
		span := p.Span(i, len(a.state.SimBlocks), r.SimGoal.TargetDays)
		line := fmt.Sprintf("%-9s %10s  %2d days  %8s/day  floor %s",
			fmt.Sprintf("Block %d", blk.ID+1),
			cli.FormatAmount(blk.TotalAmount),
			span,
			cli.FormatCompact(blk.TotalAmount/float64(span)),
			cli.FormatCompact(p.Floor(span)))
		line = truncStr(line, innerW-2)
		if i == a.sim.cursor {
			list.WriteString(selStyle.Render("▸ " + line))
		} else {
			list.WriteString(rowStyle.Render("  " + line))
		}
		list.WriteString("\n")
	}
	list.WriteString(dimStyle.Render("[j/k] select  [Enter] set amount  [a/d] goal"))
	b.WriteString(components.ContentCard("Blocks", list.String(), cw))

	return b.String()
}
