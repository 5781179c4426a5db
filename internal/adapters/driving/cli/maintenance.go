package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

var maintenanceRecent int

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Show background maintenance tasks",
	Long: `Shows the maintenance tasks that run while the TUI or HTTP server is
up, with their schedule and latest results.

The cache-prune task deletes expired cached results and trims search
history to the configured retention.`,
	Args: cobra.NoArgs,
	RunE: runMaintenanceStatus,
}

var maintenanceRunCmd = &cobra.Command{
	Use:   "run [task]",
	Short: "Run a maintenance task now",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMaintenanceRun,
}

func init() {
	maintenanceCmd.Flags().IntVarP(&maintenanceRecent, "recent", "n", 5, "results to show per task")
	maintenanceCmd.AddCommand(maintenanceRunCmd)
	rootCmd.AddCommand(maintenanceCmd)
}

func runMaintenanceStatus(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	statuses, err := scheduler.Status(cmd.Context(), maintenanceRecent)
	if err != nil {
		return fmt.Errorf("failed to read maintenance status: %w", err)
	}

	if !schedulerConfig.Enabled {
		cmd.Println("Background maintenance is disabled (scheduler.enabled = false).")
	}
	if len(statuses) == 0 {
		cmd.Println("No maintenance tasks have run yet.")
		return nil
	}

	for _, st := range statuses {
		task := st.Task
		state := "enabled"
		if !task.Enabled {
			state = "disabled"
		}
		cmd.Printf("%s (%s, every %s)\n", task.Name, state, task.Interval)
		cmd.Printf("  Last run:  %s\n", formatTaskTime(task.LastRun))
		cmd.Printf("  Next run:  %s\n", formatTaskTime(task.NextRun))
		if task.LastError != "" {
			cmd.Printf("  Last error: %s\n", task.LastError)
		}
		for _, r := range st.Recent {
			cmd.Printf("  %s  %s\n", formatTaskTime(r.StartedAt), r.Summary())
		}
	}
	return nil
}

func runMaintenanceRun(cmd *cobra.Command, args []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	taskID := domain.TaskIDCachePrune
	if len(args) == 1 {
		taskID = args[0]
	}

	result, err := scheduler.RunNow(cmd.Context(), taskID)
	if err != nil {
		return fmt.Errorf("task %s failed: %w", taskID, err)
	}
	cmd.Printf("%s: %s in %s\n", taskID, result.Summary(),
		result.Duration().Round(time.Millisecond))
	return nil
}

func formatTaskTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}
