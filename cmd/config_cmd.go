package cmd

import (
	"fmt"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	dbPath := cfg.DBPath()
	if flagDB != "" {
		dbPath = flagDB
	}
	fmt.Println("  [General]")
	fmt.Printf("    Database:   %s\n", dbPath)
	fmt.Printf("    Log level:  %s\n", cfg.General.LogLevel)
	fmt.Println()

	fmt.Println("  [Defaults]")
	fmt.Printf("    Target amount: %s\n", cli.FormatAmount(cfg.Defaults.TargetAmount))
	fmt.Printf("    Target days:   %d\n", cfg.Defaults.TargetDays)
	fmt.Println()

	p := cfg.EnginePolicy().Normalized()
	fmt.Println("  [Policy]")
	fmt.Printf("    Block days:      %d\n", p.BlockDays)
	fmt.Printf("    Min daily rate:  %s\n", cli.FormatAmount(p.MinDailyRate))
	fmt.Printf("    Max freeze days: %d\n", p.MaxFreezeDays)
	fmt.Printf("    Day cap:         %d\n", p.DayCap)
	fmt.Printf("    Pace warning:    %s/day\n", cli.FormatK(p.PaceWarningK))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Poll interval: %ds\n", cfg.Server.PollIntervalSec)
	fmt.Printf("    Rollover cron: %s\n", cfg.Server.RolloverCron)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  Run `strive setup` to reconfigure.")
	return nil
}
