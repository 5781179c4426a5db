package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui"
	"github.com/paterkleomenis/archstore/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive package search.

Results stream in as each source answers; typing refines the query after
a short pause.

Controls:
  ↑/↓        Navigate results
  Enter      Search now, or show details of the selected result
  Tab        Cycle source filter
  Ctrl+F     Cycle installed filter
  Ctrl+S     Cycle sort order
  Ctrl+R     Re-run without the cache
  Esc        Back to menu
  Ctrl+C     Quit`,
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

	// The alt screen hides stderr, so logging would corrupt the display.
	logger.SetVerbose(false)

	stop := startScheduler(cmd.Context())
	defer stop()

	ports := tui.NewPorts(searchService, settingsService, historyService)
	ports.Packages = packageService
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// startScheduler runs background maintenance while a long-running command
// is up. The returned function stops it.
func startScheduler(ctx context.Context) func() {
	if scheduler == nil || !schedulerConfig.Enabled {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("scheduler stopped: %v", err)
		}
	}()

	return func() {
		cancel()
		if err := scheduler.Stop(); err != nil {
			logger.Warn("scheduler stop error: %v", err)
		}
	}
}
