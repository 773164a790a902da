package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/formwright/internal/adapters/driving/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the form engine over HTTP",
	Long: `Starts a JSON API exposing forms, structural edits, templates and
synthesis sessions. Stops on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default from settings, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if formService == nil {
		return errFormServiceMissing
	}

	addr := serveAddr
	if addr == "" && settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		addr = settings.Server.Addr
	}
	if addr == "" {
		addr = ":8080"
	}

	router := httpapi.NewRouter(httpapi.Config{
		Forms:      formService,
		Templates:  templateService,
		NewSession: newSession,
		Owner:      owner,
		Engine:     engine,
	})
	cmd.Printf("Serving on %s (storage: %s)\n", addr, formService.Mode())
	return httpapi.Serve(cmd.Context(), addr, router)
}
