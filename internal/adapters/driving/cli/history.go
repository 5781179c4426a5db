package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [pattern]",
	Short: "List recent searches",
	Long: `Lists recent searches, newest first.

With a pattern, past queries are fuzzy-matched against it and listed best
match first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all search history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	ctx := cmd.Context()

	if historyClear {
		if err := historyService.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		cmd.Println("Search history cleared.")
		return nil
	}

	var (
		entries []domain.HistoryEntry
		err     error
	)
	if len(args) == 1 {
		entries, err = historyService.Recall(ctx, args[0], historyLimit)
	} else {
		entries, err = historyService.Recent(ctx, historyLimit)
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No searches recorded.")
		return nil
	}

	for _, e := range entries {
		cmd.Printf("%s  %-30s %d results\n", e.SearchedAt.Local().Format("2006-01-02 15:04"), e.Query, e.ResultCount)
	}
	return nil
}
