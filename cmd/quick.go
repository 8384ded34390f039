package cmd

import (
	"fmt"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/logging"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <day|today>",
	Short: "Toggle a day between the daily minimum and nothing",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

var striveCmd = &cobra.Command{
	Use:   "strive <day|today>",
	Short: "Log the amount that keeps the current block on target",
	Args:  cobra.ExactArgs(1),
	RunE:  runStrive,
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Toggle the goal lock (logging stays allowed)",
	Args:  cobra.NoArgs,
	RunE:  runLock,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(striveCmd)
	rootCmd.AddCommand(lockCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	day, err := parseDay(args[0], s.tr.Today())
	if err != nil {
		return err
	}
	logged, err := s.tr.QuickCheck(day)
	if err != nil {
		return err
	}
	if !logged {
		fmt.Printf("  Day %d cleared\n", day+1)
		return nil
	}
	fmt.Printf("  Day %d checked: %s\n", day+1, cli.FormatAmount(s.tr.State().Log[day].Amount))
	printDayOutcome(s, day)
	return nil
}

func runStrive(_ *cobra.Command, args []string) error {
	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	day, err := parseDay(args[0], s.tr.Today())
	if err != nil {
		return err
	}
	amount, err := s.tr.QuickStrive(day)
	if err != nil {
		return err
	}
	fmt.Printf("  Day %d: %s\n", day+1, cli.FormatAmount(amount))
	printDayOutcome(s, day)
	return nil
}

func runLock(_ *cobra.Command, _ []string) error {
	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	locked, err := s.tr.ToggleLock()
	if err != nil {
		return err
	}
	if locked {
		fmt.Println("  Goal locked. Goal and block edits are refused until unlocked.")
	} else {
		fmt.Println("  Goal unlocked.")
	}
	return nil
}
