package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

// Setting keys the wizard writes.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	settingOwner     = "owner"
	settingRemoteURL = "remote.url"
	settingRemoteKey = "remote.key"
)

var errSettingsServiceMissing = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the owner name, remote backend, local storage and
template synthesis options.

Settings live in ~/.formwright/config.toml. FORMWRIGHT_REMOTE_URL,
FORMWRIGHT_REMOTE_KEY and FORMWRIGHT_DATA_DIR override the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a setting. Run 'formwright settings keys' for the list of keys.

Examples:
  formwright settings set remote.url https://abc.supabase.co
  formwright settings set breaker.probe_interval 1m
  formwright settings set synthesis.generate_delay_ms 0`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Restore a setting's default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the remote backend connection",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the owner and storage backend step by step.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Printf("Owner: %s\n", settings.Owner)
	cmd.Println()

	cmd.Println("[Remote]")
	if settings.Remote.URL != "" {
		cmd.Printf("  URL: %s\n", settings.Remote.URL)
	} else {
		cmd.Println("  URL: (not set)")
	}
	if settings.Remote.Key != "" {
		cmd.Printf("  Key: %s\n", maskAPIKey(settings.Remote.Key))
	} else {
		cmd.Println("  Key: (not set)")
	}
	status := "configured"
	if !settings.Remote.IsConfigured() {
		status = "not configured, forms are stored locally"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Storage]")
	switch {
	case settings.Storage.Ephemeral:
		cmd.Println("  Local: in memory (discarded on exit)")
	case settings.Storage.DataDir != "":
		cmd.Printf("  Local: %s\n", settings.Storage.DataDir)
	default:
		cmd.Println("  Local: ~/.formwright/data")
	}
	cmd.Printf("  Probe interval: %s\n", settings.Breaker.ProbeInterval)
	if formService != nil {
		cmd.Printf("  Mode: %s\n", formService.Mode().Description())
	}
	cmd.Println()

	cmd.Println("[Synthesis]")
	cmd.Printf("  Generate delay: %s\n", settings.Synthesis.GenerateDelay)
	cmd.Printf("  Modify delay:   %s\n", settings.Synthesis.ModifyDelay)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	if err := settingsService.Unset(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}
	cmd.Printf("Unset %s\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	if err := settingsService.ValidateRemote(cmd.Context()); err != nil {
		return fmt.Errorf("remote backend check failed: %w", err)
	}
	cmd.Println("Remote backend is reachable.")
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Formwright Settings Wizard")
	cmd.Println("==========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: Owner
	cmd.Println("Step 1: Owner")
	cmd.Println("-------------")
	cmd.Printf("Name recorded on new forms [%s]: ", current.Owner)
	if input := readLine(reader); input != "" {
		if err := settingsService.Set(settingOwner, input); err != nil {
			return fmt.Errorf("failed to set owner: %w", err)
		}
	}
	cmd.Println()

	// Step 2: Storage
	cmd.Println("Step 2: Select Storage")
	cmd.Println("----------------------")
	modes := []domain.StorageMode{domain.StorageModeLocal, domain.StorageModeRemote}
	for i, mode := range modes {
		cmd.Printf("  %d. %s\n", i+1, mode.Description())
	}
	defaultChoice := 1
	if current.Remote.IsConfigured() {
		defaultChoice = 2
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultChoice)
	choice := parseChoice(readLine(reader), len(modes), defaultChoice)

	if modes[choice-1] == domain.StorageModeLocal {
		for _, key := range []string{settingRemoteURL, settingRemoteKey} {
			if err := settingsService.Unset(key); err != nil {
				return fmt.Errorf("failed to clear %s: %w", key, err)
			}
		}
		cmd.Println("Forms will be stored locally.")
		return nil
	}

	// Step 3: Remote backend
	cmd.Println()
	cmd.Println("Step 3: Configure Remote Backend")
	cmd.Println("--------------------------------")
	cmd.Printf("Project URL [%s]: ", current.Remote.URL)
	if input := readLine(reader); input != "" {
		if err := settingsService.Set(settingRemoteURL, input); err != nil {
			return fmt.Errorf("failed to set remote URL: %w", err)
		}
	}
	cmd.Print("Access key (leave empty to keep current): ")
	if input := readSecret(cmd, reader); input != "" {
		if err := settingsService.Set(settingRemoteKey, input); err != nil {
			return fmt.Errorf("failed to set remote key: %w", err)
		}
	}
	cmd.Println()

	if err := settingsService.ValidateRemote(cmd.Context()); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Forms will fall back to local storage until the backend is reachable.")
		return nil
	}
	cmd.Println("Remote backend is reachable.")
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readSecret reads without echo when input is a terminal.
func readSecret(cmd *cobra.Command, reader *bufio.Reader) string {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
