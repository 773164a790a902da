package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Edit the sections of a form",
}

var sectionAddCmd = &cobra.Command{
	Use:   "add [form-id] [title]",
	Short: "Append an empty section",
	Args:  cobra.ExactArgs(2),
	RunE:  runSectionAdd,
}

var sectionRenameCmd = &cobra.Command{
	Use:   "rename [form-id] [section-id] [title]",
	Short: "Rename a section",
	Args:  cobra.ExactArgs(3),
	RunE:  runSectionRename,
}

var sectionRemoveCmd = &cobra.Command{
	Use:   "remove [form-id] [section-id]",
	Short: "Remove a section and its fields",
	Args:  cobra.ExactArgs(2),
	RunE:  runSectionRemove,
}

var sectionMoveCmd = &cobra.Command{
	Use:   "move [form-id] [from] [to]",
	Short: "Move a section to another position",
	Long: `Moves the section at position from to position to. Positions start at 1
and out-of-range positions are clamped to the first or last section.`,
	Args: cobra.ExactArgs(3),
	RunE: runSectionMove,
}

var sectionDescription string

func init() {
	sectionAddCmd.Flags().StringVarP(&sectionDescription, "description", "d", "", "Section description")

	sectionCmd.AddCommand(sectionAddCmd)
	sectionCmd.AddCommand(sectionRenameCmd)
	sectionCmd.AddCommand(sectionRemoveCmd)
	sectionCmd.AddCommand(sectionMoveCmd)
	rootCmd.AddCommand(sectionCmd)
}

func runSectionAdd(cmd *cobra.Command, args []string) error {
	var sectionID string
	_, err := editForm(cmd, args[0], func(f domain.Form) (domain.Form, bool) {
		var out domain.Form
		out, sectionID = engine.AddSection(f, args[1], sectionDescription)
		return out, true
	})
	if err != nil {
		return err
	}
	cmd.Printf("Added section: %s\n", sectionID)
	return nil
}

func runSectionRename(cmd *cobra.Command, args []string) error {
	title := args[2]
	_, err := editForm(cmd, args[0], func(f domain.Form) (domain.Form, bool) {
		return engine.UpdateSection(f, args[1], &title, nil)
	})
	if err != nil {
		return err
	}
	cmd.Printf("Renamed section: %s\n", args[1])
	return nil
}

func runSectionRemove(cmd *cobra.Command, args []string) error {
	_, err := editForm(cmd, args[0], func(f domain.Form) (domain.Form, bool) {
		return engine.DeleteSection(f, args[1])
	})
	if err != nil {
		return err
	}
	cmd.Printf("Removed section: %s\n", args[1])
	return nil
}

func runSectionMove(cmd *cobra.Command, args []string) error {
	from, to, err := parsePositions(args[1], args[2])
	if err != nil {
		return err
	}
	form, err := editForm(cmd, args[0], func(f domain.Form) (domain.Form, bool) {
		return engine.MoveSection(f, from, to)
	})
	if err != nil {
		return err
	}
	for i := range form.Sections {
		cmd.Printf("  %d. %s\n", i+1, form.Sections[i].Title)
	}
	return nil
}

// parsePositions converts 1-based positions to 0-based indices.
func parsePositions(fromArg, toArg string) (int, int, error) {
	from, err := strconv.Atoi(fromArg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid position %q", fromArg)
	}
	to, err := strconv.Atoi(toArg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid position %q", toArg)
	}
	return from - 1, to - 1, nil
}
