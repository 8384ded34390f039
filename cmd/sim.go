package cmd

import (
	"fmt"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/logging"

	"github.com/spf13/cobra"
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Project the simulation goal block by block",
	RunE:  runSim,
}

func init() {
	rootCmd.AddCommand(simCmd)
}

func runSim(_ *cobra.Command, _ []string) error {
	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	st := s.tr.State()
	r := s.tr.Report(s.now())
	p := s.tr.Policy()
	sim := r.Simulation

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SIMULATION  %s in %s",
		cli.FormatCompact(st.SimGoal.TargetAmount), cli.FormatDays(st.SimGoal.TargetDays))))
	fmt.Println()

	rows := make([][]string, 0, len(st.SimBlocks))
	var total float64
	for i, blk := range st.SimBlocks {
		span := p.Span(i, len(st.SimBlocks), st.SimGoal.TargetDays)
		total += blk.TotalAmount
		rows = append(rows, []string{
			fmt.Sprintf("%d", blk.ID+1),
			fmt.Sprintf("%d", span),
			cli.FormatAmount(blk.TotalAmount),
			cli.FormatAmount(blk.TotalAmount / float64(span)),
			cli.FormatAmount(p.Floor(span)),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Block", "Days", "Amount", "Per day", "Floor"},
		Rows:    rows,
	}))
	fmt.Println()

	completion := fmt.Sprintf("day %d", sim.CompletionDay)
	if sim.Capped {
		completion += " (day cap reached)"
	}
	fmt.Printf("  Blocks total:  %s\n", cli.FormatAmount(total))
	fmt.Printf("  Completion:    %s  %s\n", completion, cli.RenderStatus(string(sim.Status)))
	fmt.Printf("  Path:          %s\n", cli.RenderSparkline(cli.Downsample(sim.Path, 50)))
	fmt.Println()
	return nil
}
