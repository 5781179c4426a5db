// Package cli provides the archstore command line interface.
// It is a driving adapter: commands call core services through the
// driving ports set with SetServices.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
	"github.com/paterkleomenis/archstore/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services injected by main.
var (
	searchService   driving.SearchService
	settingsService driving.SettingsService
	historyService  driving.HistoryService
	packageService  driving.PackageService
	scheduler       driving.Scheduler
	schedulerConfig domain.SchedulerConfig
)

// Services holds the driving ports used by the commands.
type Services struct {
	Search          driving.SearchService
	Settings        driving.SettingsService
	History         driving.HistoryService
	Packages        driving.PackageService
	Scheduler       driving.Scheduler
	SchedulerConfig domain.SchedulerConfig
}

// SetServices injects the core services. It must be called before Execute.
func SetServices(s Services) {
	searchService = s.Search
	settingsService = s.Settings
	historyService = s.History
	packageService = s.Packages
	scheduler = s.Scheduler
	schedulerConfig = s.SchedulerConfig
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "archstore",
	Short: "Search Arch packages across pacman, the AUR and Flatpak",
	Long: `archstore searches the official repositories, the AUR and Flathub at
once, merges records that name the same package and ranks the result.

Run without arguments to start the interactive search.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
