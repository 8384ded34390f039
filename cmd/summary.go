package cmd

import (
	"fmt"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/logging"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Goal progress at a glance",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	r := s.tr.Report(s.now())
	an := r.Analytics

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("STRIVE  Day %s of %d", todayLabel(r.Today), r.ActGoal.TargetDays)))
	fmt.Println()

	completion := fmt.Sprintf("day %d", r.Actual.CompletionDay)
	if r.Actual.Capped {
		completion = "not within the day cap"
	} else if !r.CompletionDate.IsZero() {
		completion += "  (" + cli.FormatDate(r.CompletionDate) + ")"
	}

	rows := [][]string{
		{"Goal", fmt.Sprintf("%s in %s", cli.FormatAmount(r.ActGoal.TargetAmount), cli.FormatDays(r.ActGoal.TargetDays))},
		{"Saved", cli.FormatAmount(an.TotalLogged)},
		{"Remaining", cli.FormatAmount(max(0, r.ActGoal.TargetAmount-an.TotalLogged))},
		{"---"},
		{"Daily minimum", cli.FormatK(r.DisplayMinK)},
		{"Streak", fmt.Sprintf("%s  (best %s)", cli.FormatDays(an.Streak), cli.FormatDays(an.MaxStreak))},
		{"---"},
		{"Completion", completion},
		{"Status", cli.RenderStatus(string(r.Actual.Status))},
	}
	if r.Locked {
		rows = append(rows, []string{"Goal lock", "locked"})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Printf("  %s\n", cli.RenderProgressBar(an.TotalLogged, r.ActGoal.TargetAmount, 40))

	if r.ActiveBlock >= 0 && r.ActiveBlock < len(r.Blocks) {
		bp := r.Blocks[r.ActiveBlock]
		fmt.Printf("  Block %d  %s  %s\n", bp.ID+1,
			cli.RenderMetDays(bp.MetDays, bp.DayLogged),
			cli.RenderMuted(fmt.Sprintf("%s of %s", cli.FormatCompact(bp.Logged), cli.FormatCompact(bp.Target))))
	}
	if an.Insight != "" {
		fmt.Println()
		fmt.Printf("  %s\n", an.Insight)
	}
	fmt.Println()

	savedAt, err := s.db.SavedAt()
	if err != nil {
		return fmt.Errorf("reading save time: %w", err)
	}
	rowCount, err := s.db.LogCount()
	if err != nil {
		return fmt.Errorf("counting log rows: %w", err)
	}
	footer := fmt.Sprintf("  %d log rows in %s", rowCount, s.cfg.General.DBPath)
	if !savedAt.IsZero() {
		footer += ", saved " + savedAt.Local().Format("2006-01-02 15:04")
	}
	fmt.Println(cli.RenderMuted(footer))
	fmt.Println()
	return nil
}

func todayLabel(today int) string {
	if today < 0 {
		return "-"
	}
	return fmt.Sprintf("%d", today+1)
}
