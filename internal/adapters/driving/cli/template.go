package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

var errTemplateServiceMissing = errors.New("template service not configured")

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Browse and synthesise form templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List industry templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplateList,
}

var templateGenerateCmd = &cobra.Command{
	Use:   "generate [description...]",
	Short: "Generate a template from a description",
	Long: `Generates a template from a plain-language description, such as
"weekly restaurant hygiene check". Use --save to store it as a new form or
--json to print it for later use with 'template modify'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTemplateGenerate,
}

var templateModifyCmd = &cobra.Command{
	Use:   "modify [template-file] [instruction...]",
	Short: "Apply an instruction to a saved template",
	Long: `Reads a template written by 'template generate --json' and applies an
instruction such as "add a safety section with photos".`,
	Args: cobra.MinimumNArgs(2),
	RunE: runTemplateModify,
}

var templateChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Build a template conversationally",
	Long: `Starts an interactive session. Describe the form you need, then refine it
with instructions like "add a bathroom section".

Commands:
  /show     print the current draft
  /drop ID  remove a section by id
  /accept   save the draft as a new form
  /reset    start over
  /quit     leave without saving`,
	Args: cobra.NoArgs,
	RunE: runTemplateChat,
}

// Flags.
var (
	generateSave bool
	generateJSON bool
	modifyJSON   bool
)

func init() {
	templateGenerateCmd.Flags().BoolVar(&generateSave, "save", false, "Store the template as a new form")
	templateGenerateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print the template as JSON")
	templateModifyCmd.Flags().BoolVar(&modifyJSON, "json", false, "Print the result as JSON")

	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateGenerateCmd)
	templateCmd.AddCommand(templateModifyCmd)
	templateCmd.AddCommand(templateChatCmd)
	rootCmd.AddCommand(templateCmd)
}

func runTemplateList(cmd *cobra.Command, _ []string) error {
	if templateService == nil {
		return errTemplateServiceMissing
	}

	list := templateService.Templates()
	if len(list) == 0 {
		cmd.Println("No templates available.")
		return nil
	}
	cmd.Println("Templates:")
	cmd.Println()
	for i := range list {
		t := &list[i]
		cmd.Printf("  %s\n", t.Name)
		cmd.Printf("    %s\n", t.Description)
		cmd.Printf("    Industry: %s, sections: %d, fields: %d\n", t.Industry, len(t.Sections), t.FieldCount())
		cmd.Println()
	}
	return nil
}

func runTemplateGenerate(cmd *cobra.Command, args []string) error {
	if templateService == nil {
		return errTemplateServiceMissing
	}

	tmpl, err := templateService.Generate(cmd.Context(), strings.Join(args, " "), "")
	if err != nil {
		return fmt.Errorf("failed to generate template: %w", err)
	}
	return emitTemplate(cmd, tmpl, generateJSON, generateSave)
}

func runTemplateModify(cmd *cobra.Command, args []string) error {
	if templateService == nil {
		return errTemplateServiceMissing
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	var tmpl domain.Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	out, err := templateService.Modify(cmd.Context(), &tmpl, strings.Join(args[1:], " "))
	if err != nil {
		return fmt.Errorf("failed to modify template: %w", err)
	}
	return emitTemplate(cmd, out, modifyJSON, false)
}

func emitTemplate(cmd *cobra.Command, tmpl *domain.Template, asJSON, save bool) error {
	if asJSON {
		data, err := json.MarshalIndent(tmpl, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode template: %w", err)
		}
		cmd.Println(string(data))
	} else {
		printTemplate(cmd, tmpl)
	}
	if !save {
		return nil
	}
	return saveTemplate(cmd, *tmpl)
}

func saveTemplate(cmd *cobra.Command, tmpl domain.Template) error {
	if formService == nil {
		return errFormServiceMissing
	}
	form, err := formService.CreateForm(cmd.Context(), templateService.Accept(tmpl, owner))
	if err != nil {
		return fmt.Errorf("failed to save form: %w", err)
	}
	cmd.Printf("Saved form: %s\n", form.ID)
	return nil
}

func runTemplateChat(cmd *cobra.Command, _ []string) error {
	if newSession == nil {
		return errTemplateServiceMissing
	}
	if formService == nil {
		return errFormServiceMissing
	}
	session := newSession()
	ctx := cmd.Context()

	cmd.Println("Describe the inspection form you need. Type /quit to leave.")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit":
			return nil
		case line == "/reset":
			session.Reset()
			cmd.Println("Started over.")
		case line == "/show":
			if draft := session.Current(); draft != nil {
				printTemplate(cmd, draft)
			} else {
				cmd.Println("No draft yet.")
			}
		case strings.HasPrefix(line, "/drop "):
			id := strings.TrimSpace(strings.TrimPrefix(line, "/drop "))
			if session.RemoveSection(id) {
				cmd.Printf("Removed section %s.\n", id)
			} else {
				cmd.Printf("No section %s in the draft.\n", id)
			}
		case line == "/accept":
			form, err := session.Accept(owner)
			if err != nil {
				cmd.Printf("Cannot accept: %v\n", err)
				continue
			}
			saved, err := formService.CreateForm(ctx, form)
			if err != nil {
				return fmt.Errorf("failed to save form: %w", err)
			}
			cmd.Printf("Saved form: %s\n", saved.ID)
			return nil
		default:
			draft, err := session.Send(ctx, line)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidInput) {
					cmd.Printf("%v\n", err)
					continue
				}
				return fmt.Errorf("synthesis failed: %w", err)
			}
			printTemplate(cmd, draft)
		}
	}
}

func printTemplate(cmd *cobra.Command, t *domain.Template) {
	cmd.Printf("Template: %s (%s, confidence %.0f%%)\n", t.Name, t.Industry, t.Confidence*100)
	for i := range t.Sections {
		s := &t.Sections[i]
		cmd.Printf("  %d. %s [%s]\n", i+1, s.Title, s.ID)
		for j := range s.Fields {
			printField(cmd, &s.Fields[j])
		}
	}
}
