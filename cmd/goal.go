package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/logging"
	"github.com/theirongolddev/strive/internal/money"

	"github.com/spf13/cobra"
)

var (
	flagGoalAmountK float64
	flagGoalDays    int
)

var goalCmd = &cobra.Command{
	Use:   "goal sim|act",
	Short: "Change the simulation or tracked goal",
	Example: "  strive goal act --amount 500 --days 30\n" +
		"  strive goal sim --days 45",
	Args: cobra.ExactArgs(1),
	RunE: runGoal,
}

func init() {
	goalCmd.Flags().Float64Var(&flagGoalAmountK, "amount", 0, "Target amount in thousands")
	goalCmd.Flags().IntVar(&flagGoalDays, "days", 0, "Days to reach the target")
	rootCmd.AddCommand(goalCmd)
}

func runGoal(cmd *cobra.Command, args []string) error {
	kind, err := parseGoalKind(args[0])
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("amount") && !cmd.Flags().Changed("days") {
		return errors.New("nothing to change: pass --amount and/or --days")
	}

	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	goal, _ := s.tr.State().Goal(kind)
	amount, days := goal.TargetAmount, goal.TargetDays
	if cmd.Flags().Changed("amount") {
		amount = money.FromK(flagGoalAmountK)
	}
	if cmd.Flags().Changed("days") {
		days = flagGoalDays
	}

	if err := s.tr.UpdateGoal(kind, amount, days); err != nil {
		return err
	}

	goal, blocks := s.tr.State().Goal(kind)
	fmt.Printf("  %s goal: %s in %s (%d blocks)\n", kind,
		cli.FormatAmount(goal.TargetAmount), cli.FormatDays(goal.TargetDays), len(blocks))
	return nil
}
