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

// trackState tracks the selected day on the tracking tab. A negative cursor
// means "not placed yet"; it snaps to today on the next load.
type trackState struct {
	cursor int
}

func (a App) updateTrackingKey(key string) (tea.Model, tea.Cmd, bool) {
	tr := a.tracker
	day := a.track.cursor
	perRow := a.tracker.Policy().Normalized().BlockDays

	switch key {
	case "h":
		a.moveCursor(-1)
	case "l":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-perRow)
	case "j", "down":
		a.moveCursor(perRow)
	case "c":
		return a, actionCmd(func() (string, error) {
			logged, err := tr.QuickCheck(day)
			if err != nil {
				return "", err
			}
			if logged {
				return fmt.Sprintf("day %d checked", day+1), nil
			}
			return fmt.Sprintf("day %d cleared", day+1), nil
		}), true
	case "s":
		return a, actionCmd(func() (string, error) {
			amount, err := tr.QuickStrive(day)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("day %d logged: %s", day+1, cli.FormatAmount(amount)), nil
		}), true
	case "u":
		return a, actionCmd(func() (string, error) {
			if err := tr.UnlogDay(day); err != nil {
				return "", err
			}
			return fmt.Sprintf("day %d unlogged", day+1), nil
		}), true
	case "L":
		return a, actionCmd(func() (string, error) {
			locked, err := tr.ToggleLock()
			if err != nil {
				return "", err
			}
			if locked {
				return "goal locked", nil
			}
			return "goal unlocked", nil
		}), true
	case "enter":
		current := ""
		if e, ok := a.state.Log[day]; ok {
			current = cli.FormatK(e.Amount / money.Thousand)
		}
		m, cmd := a.openPrompt(promptState{
			kind:  promptLogDay,
			day:   day,
			label: fmt.Sprintf("Day %d amount (K):", day+1),
		}, cli.FormatK(a.report.DisplayMinK), current)
		return m, cmd, true
	case "a":
		m, cmd := a.openPrompt(promptState{
			kind:  promptGoalAmount,
			goal:  model.GoalAct,
			label: "Goal amount (K):",
		}, "500", cli.FormatK(a.state.ActGoal.TargetAmount/money.Thousand))
		return m, cmd, true
	case "d":
		m, cmd := a.openPrompt(promptState{
			kind:  promptGoalDays,
			goal:  model.GoalAct,
			label: "Goal days:",
		}, "30", strconv.Itoa(a.state.ActGoal.TargetDays))
		return m, cmd, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) renderTrackingTab(cw int) string {
	t := theme.Active
	r := a.report
	p := a.tracker.Policy()
	day := a.track.cursor
	var b strings.Builder

	halves := components.LayoutRow(cw, 2)
	leftW, rightW := halves[0], halves[1]
	if a.isCompactLayout() {
		leftW, rightW = cw, cw
	}

	// Calendar
	perRow := p.Normalized().BlockDays
	cal := components.Heatmap(r.Analytics.Heatmap, r.ActGoal.TargetDays, perRow, day)
	calCard := components.ContentCard(
		fmt.Sprintf("Days · today is day %s", todayLabel(r.Today)),
		cal, leftW)

	// Selected day detail
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	good := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	bad := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	entry, logged := a.state.Log[day]
	threshold := r.DisplayMinK
	thresholdNote := "current minimum"
	if k, frozen := entry.Threshold(); frozen {
		threshold = k
		thresholdNote = "frozen when logged"
	}
	hint := p.StriveHintK(a.state.ActGoal, a.state.ActBlocks, a.state.Log, day)

	var detail strings.Builder
	row := func(label, value string) {
		detail.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", label)))
		detail.WriteString(value)
		detail.WriteString("\n")
	}
	row("Day", valueStyle.Render(fmt.Sprintf("%d of %d", day+1, r.ActGoal.TargetDays)))
	if d := a.state.StartDate; !d.IsZero() {
		row("Date", valueStyle.Render(cli.FormatDate(d.AddDate(0, 0, day))))
	}
	switch {
	case !logged:
		row("Logged", labelStyle.Render("nothing yet"))
	case entry.Amount/money.Thousand >= threshold:
		row("Logged", good.Render(cli.FormatAmount(entry.Amount)+"  ✓ met"))
	case entry.Amount >= p.Normalized().MinDailyRate:
		row("Logged", warn.Render(cli.FormatAmount(entry.Amount)+"  ❄ freeze"))
	default:
		row("Logged", bad.Render(cli.FormatAmount(entry.Amount)+"  ✗ missed"))
	}
	row("Minimum", valueStyle.Render(cli.FormatK(threshold))+labelStyle.Render("  "+thresholdNote))
	row("Strive", valueStyle.Render(cli.FormatK(hint))+labelStyle.Render("  to keep the block on target"))
	detail.WriteString("\n")
	detail.WriteString(labelStyle.Render("[c] check  [s] strive  [Enter] log  [u] unlog"))
	detail.WriteString("\n")
	lockHint := "[L] lock goal"
	if r.Locked {
		lockHint = "[L] unlock goal"
	}
	detail.WriteString(labelStyle.Render("[h/l] day  [j/k] week  [a/d] goal  " + lockHint))
	detailCard := components.ContentCard("Selected Day", detail.String(), rightW)

	if a.isCompactLayout() {
		b.WriteString(calCard)
		b.WriteString("\n")
		b.WriteString(detailCard)
	} else {
		b.WriteString(components.CardRow([]string{calCard, detailCard}))
	}
	b.WriteString("\n")

	// Blocks
	innerW := components.CardInnerWidth(cw)
	var blocks strings.Builder
	for i, bp := range r.Blocks {
		label := fmt.Sprintf("Block %d", bp.ID+1)
		if i == r.ActiveBlock {
			label = "▸ " + label
		}
		caption := fmt.Sprintf("%s of %s  %s",
			cli.FormatCompact(bp.Logged), cli.FormatCompact(bp.Target),
			cli.RenderMetDays(bp.MetDays, bp.DayLogged))
		blocks.WriteString(components.BlockBar(label, bp.Logged, bp.Target, caption, 10, max(10, innerW/3)))
		if i < len(r.Blocks)-1 {
			blocks.WriteString("\n")
		}
	}
	b.WriteString(components.ContentCard("Blocks", blocks.String(), cw))

	return b.String()
}

func todayLabel(today int) string {
	if today < 0 {
		return "-"
	}
	return strconv.Itoa(today + 1)
}
