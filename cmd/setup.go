package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/strive/internal/config"
	"github.com/theirongolddev/strive/internal/money"
	"github.com/theirongolddev/strive/internal/tui"
	"github.com/theirongolddev/strive/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, _ := config.Load()

	amountK := strconv.FormatFloat(cfg.Defaults.TargetAmount/money.Thousand, 'f', -1, 64)
	days := strconv.Itoa(cfg.Defaults.TargetDays)
	themeName := cfg.Appearance.Theme
	logLevel := cfg.General.LogLevel

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(th.Name, th.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to strive!").
				Description("These defaults seed new and reset goals."),
			huh.NewInput().
				Title("Default goal amount (thousands)").
				Value(&amountK).
				Validate(tui.ValidateAmountK),
			huh.NewInput().
				Title("Default days").
				Value(&days).
				Validate(tui.ValidateDays),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("warn (default)", "warn"),
					huh.NewOption("info", "info"),
					huh.NewOption("debug", "debug"),
					huh.NewOption("error", "error"),
				).
				Value(&logLevel),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	k, _ := strconv.ParseFloat(strings.TrimSpace(amountK), 64)
	cfg.Defaults.TargetAmount = money.FromK(k)
	cfg.Defaults.TargetDays, _ = strconv.Atoi(strings.TrimSpace(days))
	cfg.Appearance.Theme = themeName
	cfg.General.LogLevel = logLevel

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `strive goal act --amount <K> --days <n>` to change the tracked goal.")
	fmt.Println("  Run `strive setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
