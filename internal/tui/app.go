// Package tui provides the interactive Bubble Tea dashboard for strive.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/strive/internal/config"
	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/tracker"
	"github.com/theirongolddev/strive/internal/tui/components"
	"github.com/theirongolddev/strive/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ReportLoadedMsg is sent when the tracker state and its report are ready.
type ReportLoadedMsg struct {
	State    model.State
	Report   model.Report
	LoadTime time.Duration
	Err      error
}

// actionDoneMsg reports the outcome of a tracker mutation.
type actionDoneMsg struct {
	note string
	err  error
}

type tickMsg struct{}

// App is the root Bubble Tea model.
type App struct {
	tracker *tracker.Tracker
	now     func() time.Time

	// Data
	state    model.State
	report   model.Report
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// Refresh picks up day rollovers and edits made by other processes.
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	message   string
	isError   bool

	// Per-tab state
	sim      simState
	track    trackState
	settings settingsState
	prompt   promptState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	spinner spinner.Model
}

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabSimulation
	tabTracking
	tabInsights
	tabSettings
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	minRefresh       = 10 * time.Second
)

// loadConfigOrDefault loads config, returning defaults on error so the TUI
// can always start even if the config file is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model over tr. now is the clock used to
// derive "today"; nil means time.Now.
func NewApp(tr *tracker.Tracker, now func() time.Time) App {
	if now == nil {
		now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	cfg := loadConfigOrDefault()
	refreshInterval := max(minRefresh, time.Duration(cfg.Server.PollIntervalSec)*time.Second)

	return App{
		tracker:         tr,
		now:             now,
		needSetup:       !config.Exists(),
		refreshInterval: refreshInterval,
		spinner:         sp,
		track:           trackState{cursor: -1},
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadReportCmd(a.tracker, a.now, false),
		a.spinner.Tick,
		tickCmd(),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case ReportLoadedMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		if msg.Err != nil {
			a.loadErr = msg.Err
			a.loaded = true
			return a, nil
		}
		wasLoaded := a.loaded
		a.loaded = true
		a.loadErr = nil
		a.state = msg.State
		a.report = msg.Report
		a.loadTime = msg.LoadTime
		a.clampCursors()

		if !wasLoaded && a.needSetup {
			a.setupVals = defaultSetupValues(a.state.ActGoal)
			a.setupForm = newSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case actionDoneMsg:
		a.message = msg.note
		a.isError = msg.err != nil
		if msg.err != nil {
			a.message = msg.err.Error()
		}
		return a, loadReportCmd(a.tracker, a.now, false)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, loadReportCmd(a.tracker, a.now, true))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages (cursor blinks) to the active input.
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.prompt.active {
		var cmd tea.Cmd
		a.prompt.input, cmd = a.prompt.input.Update(msg)
		return a, cmd
	}
	if a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.prompt.active {
		return a.updatePrompt(msg)
	}
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabSimulation:
		if m, cmd, ok := a.updateSimulationKey(key); ok {
			return m, cmd
		}
	case tabTracking:
		if m, cmd, ok := a.updateTrackingKey(key); ok {
			return m, cmd
		}
	case tabSettings:
		if m, cmd, ok := a.updateSettingsKey(key); ok {
			return m, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, loadReportCmd(a.tracker, a.now, true)
		}
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.needSetup = false
		a.setupForm = nil
		return a, a.applySetupCmd()
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// moveCursor scrolls whichever list the active tab shows.
func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabSimulation:
		a.sim.cursor += delta
	case tabTracking:
		a.track.cursor += delta
	case tabSettings:
		if !a.settings.editing {
			a.settings.cursor += delta
		}
	}
	a.clampCursors()
}

func (a *App) clampCursors() {
	days := a.state.ActGoal.TargetDays
	if a.track.cursor < 0 {
		a.track.cursor = min(max(0, a.report.Today), max(0, days-1))
	}
	a.track.cursor = min(max(0, a.track.cursor), max(0, days-1))
	a.sim.cursor = min(max(0, a.sim.cursor), max(0, len(a.state.SimBlocks)-1))
	a.settings.cursor = min(max(0, a.settings.cursor), settingsFieldCount-1)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(5, a.height)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  strive needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ strive"))
	b.WriteString(subtitleStyle.Render(" · Goal Tracker"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Loading goals..."))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o m t i x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move selection"},
			{"h l", "Previous / Next day (Tracking)"},
		}},
		{"Tracking", []struct{ key, desc string }{
			{"c", "Quick check (log the daily minimum)"},
			{"s", "Quick strive (log the block hint)"},
			{"Enter", "Log an amount in K"},
			{"u", "Unlog the selected day"},
			{"a d", "Edit goal amount / days"},
			{"L", "Toggle goal lock"},
		}},
		{"General", []struct{ key, desc string }{
			{"Enter", "Edit block / setting"},
			{"Esc", "Cancel"},
			{"r", "Reload"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	status := components.Status{
		Today:   a.report.Today,
		Days:    a.report.ActGoal.TargetDays,
		Locked:  a.report.Locked,
		Message: a.message,
		IsError: a.isError,
		DataAge: a.lastRefresh.Format("15:04"),
	}
	if a.loadErr != nil {
		status.Message = a.loadErr.Error()
		status.IsError = true
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabSimulation:
		content = a.renderSimulationTab(cw)
	case tabTracking:
		content = a.renderTrackingTab(cw)
	case tabInsights:
		content = a.renderInsightsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}
	if a.prompt.active {
		content = a.renderPrompt(cw) + "\n" + content
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadReportCmd snapshots the tracker and derives its report. With reload
// set, state is re-read from the store first.
func loadReportCmd(tr *tracker.Tracker, now func() time.Time, reload bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		if reload {
			if err := tr.Reload(); err != nil {
				return ReportLoadedMsg{Err: err}
			}
		}
		return ReportLoadedMsg{
			State:    tr.State(),
			Report:   tr.Report(now()),
			LoadTime: time.Since(start),
		}
	}
}

// actionCmd runs a tracker mutation off the update loop.
func actionCmd(fn func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		note, err := fn()
		return actionDoneMsg{note: note, err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
