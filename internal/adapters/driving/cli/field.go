package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Edit the fields of a section",
}

var fieldAddCmd = &cobra.Command{
	Use:   "add [form-id] [section-id] [label]",
	Short: "Append a field to a section",
	Long: `Appends a field to a section.

Field types: text, textarea, select, checkbox, radio, rating, photo, video,
signature. Choice types (select, checkbox, radio) need --options.`,
	Args: cobra.ExactArgs(3),
	RunE: runFieldAdd,
}

var fieldUpdateCmd = &cobra.Command{
	Use:   "update [form-id] [section-id] [field-id]",
	Short: "Change a field's attributes",
	Long:  `Only the flags given are changed.`,
	Args:  cobra.ExactArgs(3),
	RunE:  runFieldUpdate,
}

var fieldRemoveCmd = &cobra.Command{
	Use:   "remove [form-id] [section-id] [field-id]",
	Short: "Remove a field",
	Args:  cobra.ExactArgs(3),
	RunE:  runFieldRemove,
}

var fieldMoveCmd = &cobra.Command{
	Use:   "move [form-id] [section-id] [from] [to]",
	Short: "Move a field within its section",
	Long:  `Positions start at 1 and are clamped to the section's fields.`,
	Args:  cobra.ExactArgs(4),
	RunE:  runFieldMove,
}

// Flags.
var (
	addType        string
	addPlaceholder string
	addRequired    bool
	addOptions     string

	updateType        string
	updateLabel       string
	updatePlaceholder string
	updateRequired    bool
	updateOptions     string
)

func init() {
	fieldAddCmd.Flags().StringVarP(&addType, "type", "t", string(domain.FieldTypeText), "Field type")
	fieldAddCmd.Flags().StringVarP(&addPlaceholder, "placeholder", "p", "", "Placeholder text")
	fieldAddCmd.Flags().BoolVarP(&addRequired, "required", "r", false, "Answer is required")
	fieldAddCmd.Flags().StringVarP(&addOptions, "options", "o", "", "Comma-separated choices")

	fieldUpdateCmd.Flags().StringVarP(&updateType, "type", "t", "", "Field type")
	fieldUpdateCmd.Flags().StringVarP(&updateLabel, "label", "l", "", "Field label")
	fieldUpdateCmd.Flags().StringVarP(&updatePlaceholder, "placeholder", "p", "", "Placeholder text")
	fieldUpdateCmd.Flags().BoolVarP(&updateRequired, "required", "r", false, "Answer is required")
	fieldUpdateCmd.Flags().StringVarP(&updateOptions, "options", "o", "", "Comma-separated choices")

	fieldCmd.AddCommand(fieldAddCmd)
	fieldCmd.AddCommand(fieldUpdateCmd)
	fieldCmd.AddCommand(fieldRemoveCmd)
	fieldCmd.AddCommand(fieldMoveCmd)
	rootCmd.AddCommand(fieldCmd)
}

func runFieldAdd(cmd *cobra.Command, args []string) error {
	t, err := parseFieldType(addType)
	if err != nil {
		return err
	}
	spec := domain.Field{
		Type:        t,
		Label:       args[2],
		Placeholder: addPlaceholder,
		Required:    addRequired,
		Options:     splitOptions(addOptions),
	}

	var fieldID string
	_, err = editForm(cmd, args[0], func(f domain.Form) (domain.Form, bool) {
		var (
			out domain.Form
			ok  bool
		)
		out, fieldID, ok = engine.AddField(f, args[1], spec)
		return out, ok
	})
	if err != nil {
		return err
	}
	cmd.Printf("Added field: %s\n", fieldID)
	return nil
}

func runFieldUpdate(cmd *cobra.Command, args []string) error {
	var patch domain.FieldPatch
	flags := cmd.Flags()
	if flags.Changed("type") {
		t, err := parseFieldType(updateType)
		if err != nil {
			return err
		}
		patch.Type = &t
	}
	if flags.Changed("label") {
		patch.Label = &updateLabel
	}
	if flags.Changed("placeholder") {
		patch.Placeholder = &updatePlaceholder
	}
	if flags.Changed("required") {
		patch.Required = &updateRequired
	}
	if flags.Changed("options") {
		patch.Options = splitOptions(updateOptions)
	}
	if patch.IsEmpty() {
		return fmt.Errorf("%w: nothing to update, pass at least one flag", domain.ErrInvalidInput)
	}

	_, err := editForm(cmd, args[0], func(f domain.Form) (domain.Form, bool) {
		return engine.UpdateField(f, args[1], args[2], patch)
	})
	if err != nil {
		return err
	}
	cmd.Printf("Updated field: %s\n", args[2])
	return nil
}

func runFieldRemove(cmd *cobra.Command, args []string) error {
	_, err := editForm(cmd, args[0], func(f domain.Form) (domain.Form, bool) {
		return engine.DeleteField(f, args[1], args[2])
	})
	if err != nil {
		return err
	}
	cmd.Printf("Removed field: %s\n", args[2])
	return nil
}

func runFieldMove(cmd *cobra.Command, args []string) error {
	from, to, err := parsePositions(args[2], args[3])
	if err != nil {
		return err
	}
	form, err := editForm(cmd, args[0], func(f domain.Form) (domain.Form, bool) {
		return engine.ReorderFields(f, args[1], from, to)
	})
	if err != nil {
		return err
	}
	if s, ok := form.Section(args[1]); ok {
		for j := range s.Fields {
			printField(cmd, &s.Fields[j])
		}
	}
	return nil
}

func parseFieldType(raw string) (domain.FieldType, error) {
	t := domain.FieldType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.IsValid() {
		names := make([]string, 0, len(domain.FieldTypes()))
		for _, ft := range domain.FieldTypes() {
			names = append(names, ft.String())
		}
		return "", fmt.Errorf("%w: unknown field type %q (use %s)", domain.ErrInvalidInput, raw, strings.Join(names, ", "))
	}
	return t, nil
}

// splitOptions parses a comma-separated list. Empty input yields nil.
func splitOptions(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
