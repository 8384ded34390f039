package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/money"
	"github.com/theirongolddev/strive/internal/tui/components"
	"github.com/theirongolddev/strive/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type promptKind int

const (
	promptLogDay promptKind = iota
	promptBlockAmount
	promptGoalAmount
	promptGoalDays
)

// promptState is the one-line editor used for amounts and day counts.
type promptState struct {
	active  bool
	kind    promptKind
	goal    model.GoalKind
	day     int
	blockID int
	label   string
	input   textinput.Model
}

var errNotANumber = errors.New("not a number")

func newPromptInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 16
	ti.Width = 20
	ti.SetValue(value)
	ti.Focus()
	return ti
}

func (a App) openPrompt(p promptState, placeholder, value string) (tea.Model, tea.Cmd) {
	p.active = true
	p.input = newPromptInput(placeholder, value)
	a.prompt = p
	a.message = ""
	return a, p.input.Cursor.BlinkCmd()
}

func (a App) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.prompt.active = false
		return a, nil
	case "enter":
		p := a.prompt
		a.prompt.active = false
		cmd, err := a.submitPrompt(p)
		if err != nil {
			a.message = err.Error()
			a.isError = true
			return a, nil
		}
		return a, cmd
	}

	var cmd tea.Cmd
	a.prompt.input, cmd = a.prompt.input.Update(msg)
	return a, cmd
}

// submitPrompt turns the entered text into a tracker mutation.
func (a App) submitPrompt(p promptState) (tea.Cmd, error) {
	raw := strings.TrimSpace(p.input.Value())
	tr := a.tracker

	if p.kind == promptGoalDays {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", raw, errNotANumber)
		}
		goal, _ := a.state.Goal(p.goal)
		return actionCmd(func() (string, error) {
			if err := tr.UpdateGoal(p.goal, goal.TargetAmount, days); err != nil {
				return "", err
			}
			return fmt.Sprintf("%s goal set to %s", p.goal, cli.FormatDays(max(1, days))), nil
		}), nil
	}

	k, err := strconv.ParseFloat(strings.TrimSuffix(strings.ToUpper(raw), "K"), 64)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", raw, errNotANumber)
	}
	amount := money.FromK(k)

	switch p.kind {
	case promptLogDay:
		return actionCmd(func() (string, error) {
			if err := tr.LogDay(p.day, amount, nil); err != nil {
				return "", err
			}
			return fmt.Sprintf("day %d logged: %s", p.day+1, cli.FormatAmount(amount)), nil
		}), nil
	case promptBlockAmount:
		return actionCmd(func() (string, error) {
			stored, err := tr.SetBlockAmount(p.goal, p.blockID, amount)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("block %d set to %s", p.blockID+1, cli.FormatAmount(stored)), nil
		}), nil
	default:
		goal, _ := a.state.Goal(p.goal)
		return actionCmd(func() (string, error) {
			if err := tr.UpdateGoal(p.goal, amount, goal.TargetDays); err != nil {
				return "", err
			}
			return fmt.Sprintf("%s goal amount updated", p.goal), nil
		}), nil
	}
}

func (a App) renderPrompt(cw int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	body := labelStyle.Render(a.prompt.label+" ") + a.prompt.input.View() +
		hintStyle.Render("   [Enter] save  [Esc] cancel")
	return components.ContentCard("", body, cw)
}
