package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/config"
	"github.com/theirongolddev/strive/internal/money"
	"github.com/theirongolddev/strive/internal/tui/components"
	"github.com/theirongolddev/strive/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldAmount
	settingsFieldDays
	settingsFieldRefresh
	settingsFieldLogLevel
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) updateSettingsKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.moveCursor(1)
		return a, nil, true
	case "k", "up":
		a.moveCursor(-1)
		return a, nil, true
	case "enter":
		m, cmd := a.settingsStartEdit()
		return m, cmd, true
	}
	return a, nil, false
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldAmount:
		ti.Placeholder = "500 (thousands)"
		ti.SetValue(strconv.FormatFloat(cfg.Defaults.TargetAmount/money.Thousand, 'f', -1, 64))
	case settingsFieldDays:
		ti.Placeholder = "30"
		ti.SetValue(strconv.Itoa(cfg.Defaults.TargetDays))
	case settingsFieldRefresh:
		ti.Placeholder = "15 (seconds, minimum 10)"
		ti.SetValue(strconv.Itoa(cfg.Server.PollIntervalSec))
	case settingsFieldLogLevel:
		ti.Placeholder = "debug, info, warn, error"
		ti.SetValue(cfg.General.LogLevel)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited field and writes the config. Invalid
// values are reported and leave the config untouched.
func (a *App) settingsSave() {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())

	var err error
	switch a.settings.cursor {
	case settingsFieldTheme:
		if theme.ByName(val).Name != val {
			err = fmt.Errorf("unknown theme %q", val)
			break
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldAmount:
		if err = ValidateAmountK(val); err == nil {
			k, _ := strconv.ParseFloat(val, 64)
			cfg.Defaults.TargetAmount = money.FromK(k)
		}
	case settingsFieldDays:
		if err = ValidateDays(val); err == nil {
			cfg.Defaults.TargetDays, _ = strconv.Atoi(val)
		}
	case settingsFieldRefresh:
		sec, convErr := strconv.Atoi(val)
		if convErr != nil || time.Duration(sec)*time.Second < minRefresh {
			err = fmt.Errorf("refresh interval must be at least %ds", int(minRefresh.Seconds()))
			break
		}
		cfg.Server.PollIntervalSec = sec
		a.refreshInterval = time.Duration(sec) * time.Second
	case settingsFieldLogLevel:
		switch val {
		case "debug", "info", "warn", "error":
			cfg.General.LogLevel = val
		default:
			err = fmt.Errorf("unknown log level %q", val)
		}
	}

	if err != nil {
		a.settings.saveErr = err
		return
	}
	a.settings.saveErr = config.Save(cfg)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	fields := []struct{ label, value string }{
		{"Theme", cfg.Appearance.Theme},
		{"Default Amount", cli.FormatAmount(cfg.Defaults.TargetAmount)},
		{"Default Days", strconv.Itoa(cfg.Defaults.TargetDays)},
		{"Refresh Interval", fmt.Sprintf("%ds", int(a.refreshInterval.Seconds()))},
		{"Log Level", cfg.General.LogLevel},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			used := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if pad := innerW - used; pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}
	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	p := a.tracker.Policy().Normalized()
	info := []struct{ label, value string }{
		{"Database", cfg.DBPath()},
		{"Config file", config.Path()},
		{"Block size", cli.FormatDays(p.BlockDays)},
		{"Min daily rate", cli.FormatAmount(p.MinDailyRate)},
		{"Freeze grace", cli.FormatDays(p.MaxFreezeDays)},
		{"Pace warning", cli.FormatK(p.PaceWarningK) + "/day"},
		{"Load time", fmt.Sprintf("%.0fms", float64(a.loadTime.Microseconds())/1000)},
	}
	var infoBody strings.Builder
	for i, row := range info {
		infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-16s ", row.label+":")))
		infoBody.WriteString(valueStyle.Render(truncStr(row.value, innerW-17)))
		if i < len(info)-1 {
			infoBody.WriteString("\n")
		}
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
