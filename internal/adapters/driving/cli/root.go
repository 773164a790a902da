// Package cli provides the formwright command line interface.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/formwright/internal/core/mutation"
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
	"github.com/custodia-labs/formwright/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=1.2.3".
var version = "dev"

// Services injected by main before Execute.
var (
	formService     driving.FormService
	templateService driving.TemplateService
	settingsService driving.SettingsService
	newSession      func() driving.GenerationSession
	owner           string
	engine          = mutation.New()
)

var errFormServiceMissing = errors.New("form service not configured")

// Services bundles the dependencies the commands use.
type Services struct {
	Forms      driving.FormService
	Templates  driving.TemplateService
	Settings   driving.SettingsService
	NewSession func() driving.GenerationSession

	// Owner is recorded on forms created from templates.
	Owner string
}

// SetServices injects the services used by every command.
func SetServices(s Services) {
	formService = s.Forms
	templateService = s.Templates
	settingsService = s.Settings
	newSession = s.NewSession
	owner = s.Owner
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "formwright",
	Short: "Build and manage inspection forms",
	Long: `Formwright builds inspection forms from sections and fields, stores them
locally or in a remote backend with automatic local fallback, and synthesises
starter templates from plain-language descriptions.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with ctx. Output goes to stdout so exports
// can be piped.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}
