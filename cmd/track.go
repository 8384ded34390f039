package cmd

import (
	"fmt"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/logging"

	"github.com/spf13/cobra"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Compare the actual path with its forecast and the ideal pace",
	RunE:  runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)
}

func runTrack(_ *cobra.Command, _ []string) error {
	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	r := s.tr.Report(s.now())
	act := r.Actual

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TRACKING  %s in %s",
		cli.FormatCompact(r.ActGoal.TargetAmount), cli.FormatDays(r.ActGoal.TargetDays))))
	fmt.Println()

	last := func(path []float64) string {
		if len(path) == 0 {
			return "-"
		}
		return cli.FormatAmount(path[len(path)-1])
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Path", "Days", "Ends at", "Shape"},
		Rows: [][]string{
			{"Actual", fmt.Sprintf("%d", max(0, len(act.ActualPath)-1)), last(act.ActualPath), cli.RenderSparkline(cli.Downsample(act.ActualPath, 30))},
			{"Forecast", fmt.Sprintf("%d", max(0, len(act.ProjectionPath)-1)), last(act.ProjectionPath), cli.RenderSparkline(cli.Downsample(act.ProjectionPath, 30))},
			{"Strive", fmt.Sprintf("%d", max(0, len(act.StrivePath)-1)), last(act.StrivePath), cli.RenderSparkline(cli.Downsample(act.StrivePath, 30))},
		},
	}))
	fmt.Println()

	fmt.Printf("  Status:        %s\n", cli.RenderStatus(string(act.Status)))
	if n := len(act.ActualPath); n > 1 && n <= len(act.StrivePath) {
		fmt.Printf("  Versus pace:   %s\n", cli.FormatDelta(act.ActualPath[n-1], act.StrivePath[n-1]))
	}
	switch {
	case act.Capped:
		fmt.Println(cli.RenderWarning("at this pace the goal is not reached within the day cap"))
	case r.CompletionDate.IsZero():
		fmt.Printf("  Completion:    day %d\n", act.CompletionDay)
	default:
		fmt.Printf("  Completion:    day %d  (%s)\n", act.CompletionDay, cli.FormatDate(r.CompletionDate))
	}
	if diff := act.CompletionDay - r.ActGoal.TargetDays; !act.Capped && diff != 0 {
		word := "late"
		if diff < 0 {
			word, diff = "early", -diff
		}
		fmt.Printf("  Versus target: %s %s\n", cli.FormatDays(diff), word)
	}
	fmt.Printf("  Next strive:   %s\n", cli.FormatK(s.tr.StriveHintK(max(0, r.Today))))
	fmt.Println()
	return nil
}
