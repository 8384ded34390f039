package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/logging"
	"github.com/theirongolddev/strive/internal/money"
	"github.com/theirongolddev/strive/internal/tracker"

	"github.com/spf13/cobra"
)

var blockCmd = &cobra.Command{
	Use:     "block sim|act <block> <amountK>",
	Short:   "Set one block's amount (raised to its floor if lower)",
	Example: "  strive block sim 2 90",
	Args:    cobra.ExactArgs(3),
	RunE:    runBlock,
}

func init() {
	rootCmd.AddCommand(blockCmd)
}

func runBlock(_ *cobra.Command, args []string) error {
	kind, err := parseGoalKind(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return fmt.Errorf("%w: %q (blocks start at 1)", tracker.ErrUnknownBlock, args[1])
	}
	k, err := parseK(args[2])
	if err != nil {
		return err
	}

	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	stored, err := s.tr.SetBlockAmount(kind, n-1, money.FromK(k))
	if err != nil {
		return err
	}
	fmt.Printf("  %s block %d: %s\n", kind, n, cli.FormatAmount(stored))
	if stored != money.FromK(k) {
		fmt.Println(cli.RenderMuted("  (raised to the block's floor)"))
	}
	return nil
}
