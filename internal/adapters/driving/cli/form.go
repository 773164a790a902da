package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/formwright/internal/adapters/driven/dropdir"
	"github.com/custodia-labs/formwright/internal/core/domain"
)

const timeLayout = "2006-01-02 15:04:05"

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Manage inspection forms",
	Long:  `List, view, create, publish, export, import or delete inspection forms.`,
}

var formListCmd = &cobra.Command{
	Use:   "list",
	Short: "List forms",
	Args:  cobra.NoArgs,
	RunE:  runFormList,
}

var formGetCmd = &cobra.Command{
	Use:   "get [form-id]",
	Short: "Show a form and its sections",
	Args:  cobra.ExactArgs(1),
	RunE:  runFormGet,
}

var formCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create an empty form",
	Args:  cobra.ExactArgs(1),
	RunE:  runFormCreate,
}

var formDeleteCmd = &cobra.Command{
	Use:   "delete [form-id]",
	Short: "Delete a form",
	Args:  cobra.ExactArgs(1),
	RunE:  runFormDelete,
}

var formPublishCmd = &cobra.Command{
	Use:   "publish [form-id]",
	Short: "Publish a form",
	Args:  cobra.ExactArgs(1),
	RunE:  runFormPublish,
}

var formStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise stored forms",
	Args:  cobra.NoArgs,
	RunE:  runFormStats,
}

var formExportCmd = &cobra.Command{
	Use:   "export [form-id]",
	Short: "Print a form as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runFormExport,
}

var formImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Save a form from a JSON or YAML file",
	Long: `Reads a form document and saves it. A form whose id is already stored is
updated; otherwise it is created.

With --watch the argument is a directory. Every JSON or YAML document written
into it is imported until the command is interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runFormImport,
}

// Flags.
var (
	listSearch   string
	listStatus   string
	listIndustry string

	createIndustry    string
	createDescription string

	exportFormat string

	importWatch bool
)

func init() {
	formListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Match title or description")
	formListCmd.Flags().StringVar(&listStatus, "status", domain.StatusAll, "all, published or draft")
	formListCmd.Flags().StringVar(&listIndustry, "industry", "", "Only forms for this industry")

	formCreateCmd.Flags().StringVar(&createIndustry, "industry", "general", "Industry the form is for")
	formCreateCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Form description")

	formExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json or yaml")

	formImportCmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "Watch a directory and import documents written into it")

	formCmd.AddCommand(formListCmd)
	formCmd.AddCommand(formGetCmd)
	formCmd.AddCommand(formCreateCmd)
	formCmd.AddCommand(formDeleteCmd)
	formCmd.AddCommand(formPublishCmd)
	formCmd.AddCommand(formStatsCmd)
	formCmd.AddCommand(formExportCmd)
	formCmd.AddCommand(formImportCmd)
	rootCmd.AddCommand(formCmd)
}

func runFormList(cmd *cobra.Command, _ []string) error {
	if formService == nil {
		return errFormServiceMissing
	}
	switch listStatus {
	case domain.StatusAll, domain.StatusPublished, domain.StatusDraft:
	default:
		return fmt.Errorf("invalid status %q: use all, published or draft", listStatus)
	}

	forms, err := formService.ListForms(cmd.Context(), domain.FormFilter{
		Search:   listSearch,
		Status:   listStatus,
		Industry: listIndustry,
	})
	if err != nil {
		return fmt.Errorf("failed to list forms: %w", err)
	}

	if len(forms) == 0 {
		cmd.Println("No forms found.")
		return nil
	}

	cmd.Println("Forms:")
	cmd.Println()
	for i := range forms {
		f := &forms[i]
		cmd.Printf("  %s\n", f.ID)
		cmd.Printf("    Title:    %s\n", f.Title)
		cmd.Printf("    Industry: %s\n", f.Industry)
		cmd.Printf("    Status:   %s (v%d)\n", f.Status(), f.Version)
		cmd.Printf("    Sections: %d, fields: %d\n", len(f.Sections), f.FieldCount())
		cmd.Println()
	}
	cmd.Printf("Total: %d forms\n", len(forms))
	return nil
}

func runFormGet(cmd *cobra.Command, args []string) error {
	if formService == nil {
		return errFormServiceMissing
	}

	form, err := formService.GetForm(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get form: %w", err)
	}
	printForm(cmd, form)
	return nil
}

func runFormCreate(cmd *cobra.Command, args []string) error {
	if formService == nil {
		return errFormServiceMissing
	}

	form := domain.Form{
		Title:       args[0],
		Description: createDescription,
		Industry:    createIndustry,
	}
	created, err := formService.CreateForm(cmd.Context(), form)
	if err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}
	cmd.Printf("Created form: %s\n", created.ID)
	return nil
}

func runFormDelete(cmd *cobra.Command, args []string) error {
	if formService == nil {
		return errFormServiceMissing
	}

	if err := formService.DeleteForm(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}
	cmd.Printf("Deleted form: %s\n", args[0])
	return nil
}

func runFormPublish(cmd *cobra.Command, args []string) error {
	form, err := editForm(cmd, args[0], func(f domain.Form) (domain.Form, bool) {
		return engine.Publish(f), true
	})
	if err != nil {
		return err
	}
	cmd.Printf("Published form: %s (v%d)\n", form.ID, form.Version)
	return nil
}

func runFormStats(cmd *cobra.Command, _ []string) error {
	if formService == nil {
		return errFormServiceMissing
	}

	forms, err := formService.ListForms(cmd.Context(), domain.FormFilter{})
	if err != nil {
		return fmt.Errorf("failed to list forms: %w", err)
	}
	stats := domain.Stats(forms)

	cmd.Println("Form Statistics")
	cmd.Println("===============")
	cmd.Printf("  Total:     %d\n", stats.Total)
	cmd.Printf("  Published: %d\n", stats.Published)
	cmd.Printf("  Drafts:    %d\n", stats.Drafts)
	cmd.Printf("  Templates: %d\n", stats.Templates)
	cmd.Printf("  Fields:    %d\n", stats.Fields)
	if len(stats.ByIndustry) > 0 {
		cmd.Println("\n  By industry:")
		for _, industry := range stats.Industries() {
			cmd.Printf("    %s: %d\n", industry, stats.ByIndustry[industry])
		}
	}
	return nil
}

func runFormExport(cmd *cobra.Command, args []string) error {
	if formService == nil {
		return errFormServiceMissing
	}

	form, err := formService.GetForm(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get form: %w", err)
	}

	var out []byte
	switch strings.ToLower(exportFormat) {
	case "json":
		out, err = json.MarshalIndent(form, "", "  ")
		out = append(out, '\n')
	case "yaml", "yml":
		out, err = yaml.Marshal(form)
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", exportFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}
	cmd.Print(string(out))
	return nil
}

func runFormImport(cmd *cobra.Command, args []string) error {
	if formService == nil {
		return errFormServiceMissing
	}
	if importWatch {
		return watchImports(cmd, args[0])
	}

	saved, err := importFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Saved form: %s (v%d)\n", saved.ID, saved.Version)
	return nil
}

// watchImports imports documents dropped into dir until the command's
// context ends.
func watchImports(cmd *cobra.Command, dir string) error {
	watcher := dropdir.New(dir, func(ctx context.Context, path string) error {
		saved, err := importFile(ctx, path)
		if err != nil {
			return err
		}
		cmd.Printf("Saved form: %s (v%d) from %s\n", saved.ID, saved.Version, path)
		return nil
	})
	cmd.Printf("Watching %s for forms (Ctrl+C to stop)\n", dir)
	return watcher.Run(cmd.Context())
}

func importFile(ctx context.Context, path string) (*domain.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var form domain.Form
	if err := decodeDocument(data, &form); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	saved, err := formService.SaveForm(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("failed to save form: %w", err)
	}
	return saved, nil
}

// decodeDocument accepts JSON or YAML. YAML is a superset of JSON, but JSON is
// tried first so its error messages are reported for JSON-looking input.
func decodeDocument(data []byte, v any) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return fmt.Errorf("%w: document is empty", domain.ErrInvalidInput)
	}
	if strings.HasPrefix(trimmed, "{") {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

// editForm loads a form, applies fn and stores the result.
func editForm(cmd *cobra.Command, id string, fn func(domain.Form) (domain.Form, bool)) (*domain.Form, error) {
	if formService == nil {
		return nil, errFormServiceMissing
	}
	ctx := cmd.Context()

	form, err := formService.GetForm(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	out, applied := fn(*form)
	if !applied {
		return nil, fmt.Errorf("%w: section or field not found in form %s", domain.ErrNotFound, id)
	}
	updated, err := formService.UpdateForm(ctx, id, domain.PatchFrom(out))
	if err != nil {
		return nil, fmt.Errorf("failed to update form: %w", err)
	}
	return updated, nil
}

func printForm(cmd *cobra.Command, f *domain.Form) {
	cmd.Printf("Form: %s\n\n", f.ID)
	cmd.Printf("  Title:    %s\n", f.Title)
	if f.Description != "" {
		cmd.Printf("  About:    %s\n", f.Description)
	}
	cmd.Printf("  Industry: %s\n", f.Industry)
	cmd.Printf("  Status:   %s\n", f.Status())
	cmd.Printf("  Version:  %d\n", f.Version)
	cmd.Printf("  Owner:    %s\n", f.CreatedBy)
	cmd.Printf("  Created:  %s\n", f.CreatedAt.Format(timeLayout))
	cmd.Printf("  Updated:  %s\n", f.UpdatedAt.Format(timeLayout))

	if len(f.Sections) == 0 {
		cmd.Println("\n  No sections.")
		return
	}
	cmd.Println("\n  Sections:")
	for i := range f.Sections {
		s := &f.Sections[i]
		cmd.Printf("    %d. %s [%s]\n", i+1, s.Title, s.ID)
		for j := range s.Fields {
			printField(cmd, &s.Fields[j])
		}
	}
}

func printField(cmd *cobra.Command, f *domain.Field) {
	marker := ""
	if f.Required {
		marker = " *"
	}
	cmd.Printf("       - (%s) %s%s [%s]\n", f.Type, f.Label, marker, f.ID)
	if len(f.Options) > 0 {
		cmd.Printf("         options: %s\n", strings.Join(f.Options, ", "))
	}
}
