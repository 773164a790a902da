package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/formwright/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse stored forms in an interactive terminal UI",
	Long: `Launch the interactive terminal browser for stored forms.

The list can be filtered by text and publication status. Opening a form
shows its sections and fields, and a draft can be published from there.

Controls:
  ↑/k, ↓/j - Navigate forms
  Enter    - Open form
  /        - Filter
  s        - Cycle status filter
  p        - Publish (detail view)
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if formService == nil {
		return errFormServiceMissing
	}

	app, err := tui.NewApp(&tui.Ports{Forms: formService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
