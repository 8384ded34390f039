package cmd

import (
	"fmt"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/logging"
	"github.com/theirongolddev/strive/internal/money"

	"github.com/spf13/cobra"
)

var flagLogFrozen bool

var logCmd = &cobra.Command{
	Use:   "log <day|today> <amountK>",
	Short: "Log what you saved on a day",
	Example: "  strive log today 18.5\n" +
		"  strive log 3 20 --frozen",
	Args: cobra.ExactArgs(2),
	RunE: runLog,
}

var unlogCmd = &cobra.Command{
	Use:   "unlog <day|today>",
	Short: "Remove a day's entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnlog,
}

func init() {
	logCmd.Flags().BoolVar(&flagLogFrozen, "frozen", false, "Freeze the current daily minimum as this day's threshold")
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(unlogCmd)
}

func runLog(_ *cobra.Command, args []string) error {
	k, err := parseK(args[1])
	if err != nil {
		return err
	}

	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	day, err := parseDay(args[0], s.tr.Today())
	if err != nil {
		return err
	}

	var minK *float64
	if flagLogFrozen {
		current := s.tr.Report(s.now()).DisplayMinK
		minK = &current
	}
	if err := s.tr.LogDay(day, money.FromK(k), minK); err != nil {
		return err
	}

	fmt.Printf("  Day %d: %s\n", day+1, cli.FormatAmount(money.FromK(k)))
	printDayOutcome(s, day)
	return nil
}

func runUnlog(_ *cobra.Command, args []string) error {
	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	day, err := parseDay(args[0], s.tr.Today())
	if err != nil {
		return err
	}
	if err := s.tr.UnlogDay(day); err != nil {
		return err
	}
	fmt.Printf("  Day %d cleared\n", day+1)
	return nil
}

// printDayOutcome reports whether day met its threshold and the new streak.
func printDayOutcome(s *session, day int) {
	st := s.tr.State()
	r := s.tr.Report(s.now())

	entry, ok := st.Log[day]
	if !ok {
		return
	}
	threshold := r.DisplayMinK
	if k, frozen := entry.Threshold(); frozen {
		threshold = k
	}
	if entry.Amount/money.Thousand >= threshold {
		fmt.Printf("  Met the %s minimum. Streak: %s\n", cli.FormatK(threshold), cli.FormatDays(r.Analytics.Streak))
	} else {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("below the %s minimum. Streak: %s",
			cli.FormatK(threshold), cli.FormatDays(r.Analytics.Streak))))
	}
}
