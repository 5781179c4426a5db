package cli

import (
	"bufio"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change which sources are searched and how searches behave.

Settings are stored in ~/.archstore/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEnableCmd = &cobra.Command{
	Use:       "enable <source>",
	Short:     "Search a source",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"official", "aur", "flatpak"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSourceEnabled(cmd, args[0], true)
	},
}

var settingsDisableCmd = &cobra.Command{
	Use:       "disable <source>",
	Short:     "Stop searching a source",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"official", "aur", "flatpak"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSourceEnabled(cmd, args[0], false)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a single setting",
	Long: `Change a single setting by its configuration key.

Examples:
  archstore settings set search.debounce 300ms
  archstore settings set cache.ttl 0
  archstore settings set providers.aur_helper paru`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to choose sources, debounce and AUR helper.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEnableCmd)
	settingsCmd.AddCommand(settingsDisableCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Sources]")
	for _, kind := range domain.AllSourceKinds() {
		cmd.Printf("  %-8s %s\n", kind.DisplayName()+":", enabledLabel(settings.Sources.IsEnabled(kind)))
	}
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Debounce: %s\n", settings.Search.ClampedDebounce())
	cmd.Printf("  Minimum query length: %d\n", settings.Search.MinQueryLength)
	cmd.Printf("  AUR results kept: %d\n", settings.Search.CommunityLimit)
	cmd.Printf("  Display limit: %d\n", settings.Search.DisplayLimit)
	cmd.Println()

	cmd.Println("[Cache]")
	if settings.Cache.Enabled() {
		cmd.Printf("  TTL: %s\n", settings.Cache.TTL)
	} else {
		cmd.Println("  Disabled")
	}
	cmd.Println()

	cmd.Println("[Providers]")
	helper := settings.Providers.AURHelper
	if helper == "" {
		helper = "auto-detect (" + strings.Join(domain.SupportedAURHelpers(), ", ") + ")"
	}
	cmd.Printf("  AUR helper: %s\n", helper)
	cmd.Printf("  AUR rate: %g/s\n", settings.Providers.AURRate)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'archstore settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func setSourceEnabled(cmd *cobra.Command, name string, enabled bool) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	kind, err := domain.ParseSourceKind(name)
	if err != nil {
		return err
	}
	if err := settingsService.SetSourceEnabled(kind, enabled); err != nil {
		return fmt.Errorf("failed to update %s: %w", kind, err)
	}

	cmd.Printf("%s %s.\n", kind.DisplayName(), enabledLabel(enabled))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.SetValue(key, value); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) && !slices.Contains(services.SettableKeys(), key) {
			keys := services.SettableKeys()
			slices.Sort(keys)
			return fmt.Errorf("%w\nknown keys: %s", err, strings.Join(keys, ", "))
		}
		return err
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("archstore Settings Wizard")
	cmd.Println("=========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: Sources
	cmd.Println("Step 1: Sources")
	cmd.Println("---------------")
	for _, kind := range domain.AllSourceKinds() {
		current := settings.Sources.IsEnabled(kind)
		def := "Y/n"
		if !current {
			def = "y/N"
		}
		cmd.Printf("Search %s? [%s]: ", kind.DisplayName(), def)
		enabled := parseYesNo(readLine(reader), current)
		if enabled != current {
			if err := settingsService.SetSourceEnabled(kind, enabled); err != nil {
				return fmt.Errorf("failed to update %s: %w", kind, err)
			}
		}
	}
	cmd.Println()

	// Step 2: Debounce
	cmd.Println("Step 2: Search Debounce")
	cmd.Println("-----------------------")
	choices := []time.Duration{250 * time.Millisecond, 300 * time.Millisecond, 400 * time.Millisecond, 500 * time.Millisecond}
	current := len(choices)
	for i, d := range choices {
		cmd.Printf("  %d. %s\n", i+1, d)
		if d == settings.Search.ClampedDebounce() {
			current = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	idx := parseChoice(readLine(reader), len(choices), current)
	if err := settingsService.SetValue("search.debounce", choices[idx-1].String()); err != nil {
		return fmt.Errorf("failed to set debounce: %w", err)
	}
	cmd.Printf("Debounce set to: %s\n\n", choices[idx-1])

	// Step 3: AUR helper
	cmd.Println("Step 3: AUR Helper")
	cmd.Println("------------------")
	helpers := append([]string{""}, domain.SupportedAURHelpers()...)
	current = 1
	for i, h := range helpers {
		label := h
		if h == "" {
			label = "auto-detect"
		}
		cmd.Printf("  %d. %s\n", i+1, label)
		if h == settings.Providers.AURHelper {
			current = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	idx = parseChoice(readLine(reader), len(helpers), current)
	if err := settingsService.SetValue("providers.aur_helper", helpers[idx-1]); err != nil {
		return fmt.Errorf("failed to set AUR helper: %w", err)
	}
	cmd.Println()

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

// Helper functions.

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

func parseYesNo(input string, defaultVal bool) bool {
	switch strings.ToLower(input) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultVal
	}
}
