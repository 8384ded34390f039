package cmd

import (
	"fmt"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/logging"

	"github.com/spf13/cobra"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Per-block progress of the tracked goal",
	RunE:  runBlocks,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
}

func runBlocks(_ *cobra.Command, _ []string) error {
	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	r := s.tr.Report(s.now())

	fmt.Println()
	fmt.Println(cli.RenderTitle("BLOCKS"))
	fmt.Println()

	rows := make([][]string, 0, len(r.Blocks))
	for i, bp := range r.Blocks {
		marker := ""
		if i == r.ActiveBlock {
			marker = "▸"
		}
		rows = append(rows, []string{
			marker,
			fmt.Sprintf("%d", bp.ID+1),
			fmt.Sprintf("%d-%d", bp.StartDay+1, bp.StartDay+bp.Span),
			cli.FormatAmount(bp.Target),
			cli.FormatAmount(bp.Logged),
			fmt.Sprintf("%d/%d", bp.LoggedDays, bp.Span),
			cli.FormatK(bp.MinK),
			cli.RenderMetDays(bp.MetDays, bp.DayLogged),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", "Block", "Days", "Target", "Logged", "Logged days", "Min", "Met"},
		Rows:    rows,
	}))
	fmt.Println()

	var peak float64
	for _, bp := range r.Blocks {
		peak = max(peak, bp.Target)
	}
	for _, bp := range r.Blocks {
		fmt.Println(cli.RenderHorizontalBar(fmt.Sprintf("Block %d", bp.ID+1), bp.Logged, peak, 40))
	}
	fmt.Println()
	return nil
}
