package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/theirongolddev/strive/internal/logging"
	"github.com/theirongolddev/strive/internal/transfer"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagTransferFormat string
	flagResetYes       bool
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the state as JSON or YAML (stdout when no file)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Merge an exported or partial state document",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard every goal, block and log entry",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	exportCmd.Flags().StringVarP(&flagTransferFormat, "format", "f", "", "json or yaml (default from the file extension)")
	importCmd.Flags().StringVarP(&flagTransferFormat, "format", "f", "", "json or yaml (default from the file extension)")
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
}

// transferFormat picks --format, then the file extension, then JSON.
func transferFormat(path string) (transfer.Format, error) {
	if flagTransferFormat != "" {
		return transfer.ParseFormat(flagTransferFormat)
	}
	if path == "" || path == "-" {
		return transfer.JSON, nil
	}
	return transfer.ParseFormat(filepath.Ext(path))
}

func runExport(_ *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	format, err := transferFormat(path)
	if err != nil {
		return err
	}

	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	id, err := transfer.Encode(w, s.tr.State(), format, s.now())
	if err != nil {
		return err
	}
	if w != os.Stdout {
		fmt.Fprintf(os.Stderr, "  Exported %s to %s\n", id, path)
	}
	return nil
}

func runImport(_ *cobra.Command, args []string) error {
	path := args[0]
	format, err := transferFormat(path)
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if path != "-" {
		//nolint:gosec // import path is chosen by the local user
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	doc, err := transfer.Decode(r, format)
	if err != nil {
		return err
	}

	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.tr.Import(doc); err != nil {
		return err
	}
	st := s.tr.State()
	fmt.Printf("  Imported: %d logged days, %d/%d blocks\n", len(st.Log), len(st.SimBlocks), len(st.ActBlocks))
	return nil
}

func runReset(_ *cobra.Command, _ []string) error {
	if !flagResetYes {
		confirm := false
		err := huh.NewConfirm().
			Title("Reset strive?").
			Description("Both goals go back to the configured defaults and the log is erased.").
			Affirmative("Reset").
			Negative("Keep").
			Value(&confirm).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("confirm: %w", err)
		}
		if !confirm {
			fmt.Println("  Nothing changed.")
			return nil
		}
	}

	s, err := openSession(logging.Console)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.tr.Reset(); err != nil {
		return err
	}
	fmt.Println("  State reset to defaults.")
	return nil
}
