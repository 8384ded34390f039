package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/strive/internal/config"
	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/money"
	"github.com/theirongolddev/strive/internal/tracker"
	"github.com/theirongolddev/strive/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// setupValues holds the first-run wizard answers. Numbers stay strings so
// huh inputs can bind to them directly.
type setupValues struct {
	AmountK string
	Days    string
	Theme   string
}

func defaultSetupValues(goal model.GoalConfig) setupValues {
	return setupValues{
		AmountK: strconv.FormatFloat(goal.TargetAmount/money.Thousand, 'f', -1, 64),
		Days:    strconv.Itoa(goal.TargetDays),
		Theme:   theme.Active.Name,
	}
}

// ValidateAmountK accepts a goal amount in thousands.
func ValidateAmountK(s string) error {
	k, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("enter a number of thousands, e.g. 500")
	}
	if money.FromK(k) < tracker.MinTargetAmount {
		return fmt.Errorf("at least %dK", tracker.MinTargetAmount/money.Thousand)
	}
	return nil
}

// ValidateDays accepts a positive whole number of days.
func ValidateDays(s string) error {
	d, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || d < tracker.MinTargetDays {
		return errors.New("enter a whole number of days, at least 1")
	}
	return nil
}

func newSetupForm(vals *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(th.Name, th.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to strive!").
				Description("Set a savings goal, then log each day against it.\n"+
					"You can change all of this later in Settings."),
			huh.NewInput().
				Title("Goal amount (thousands)").
				Placeholder("500").
				Value(&vals.AmountK).
				Validate(ValidateAmountK),
			huh.NewInput().
				Title("Days to reach it").
				Placeholder("30").
				Value(&vals.Days).
				Validate(ValidateDays),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula())
}

// applySetupCmd saves the wizard answers to config and, while nothing has
// been logged yet, applies the goal to both the simulation and the tracker.
func (a *App) applySetupCmd() tea.Cmd {
	vals := a.setupVals
	theme.SetActive(vals.Theme)

	k, _ := strconv.ParseFloat(strings.TrimSpace(vals.AmountK), 64)
	days, _ := strconv.Atoi(strings.TrimSpace(vals.Days))
	amount := money.FromK(k)
	fresh := len(a.state.Log) == 0
	tr := a.tracker

	return actionCmd(func() (string, error) {
		cfg := loadConfigOrDefault()
		cfg.Appearance.Theme = vals.Theme
		cfg.Defaults.TargetAmount = amount
		cfg.Defaults.TargetDays = days
		if err := config.Save(cfg); err != nil {
			return "", fmt.Errorf("saving config: %w", err)
		}
		if !fresh {
			return "saved to " + config.Path(), nil
		}
		if err := tr.UpdateSimGoal(amount, days); err != nil {
			return "", err
		}
		if err := tr.UpdateActGoal(amount, days); err != nil {
			return "", err
		}
		return "goal set, saved to " + config.Path(), nil
	})
}
