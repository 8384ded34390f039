package cmd

import (
	"fmt"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/logging"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Streaks and the consistency heatmap",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	r := s.tr.Report(s.now())
	an := r.Analytics

	fmt.Println()
	fmt.Println(cli.RenderTitle("CONSISTENCY"))
	fmt.Println()

	logged := 0
	for _, c := range an.Heatmap {
		if c.ValK > 0 {
			logged++
		}
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Current streak", cli.FormatDays(an.Streak)},
			{"Best streak", cli.FormatDays(an.MaxStreak)},
			{"Days logged", fmt.Sprintf("%d of %d", logged, r.ActGoal.TargetDays)},
			{"Total saved", cli.FormatAmount(an.TotalLogged)},
			{"Minimum now", cli.FormatK(an.CurrentMinK)},
		},
	}))
	fmt.Println()

	intensities := make([]int, len(an.Heatmap))
	for i, c := range an.Heatmap {
		intensities[i] = c.Intensity
	}
	fmt.Println(cli.RenderHeatmap(intensities, s.tr.Policy().Normalized().BlockDays))
	fmt.Println()
	if an.Insight != "" {
		fmt.Printf("  %s\n\n", an.Insight)
	}
	return nil
}
