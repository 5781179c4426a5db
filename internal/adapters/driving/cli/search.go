package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/core/ranking"
	"github.com/paterkleomenis/archstore/internal/logger"
)

var (
	searchInstalled    bool
	searchNotInstalled bool
	searchSource       string
	searchSort         string
	searchNoCache      bool
	searchTimeout      time.Duration
	searchLimit        int
	searchJSON         bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search packages across all enabled sources",
	Long: `Searches the official repositories, the AUR and Flathub concurrently,
merges records that name the same package and prints the ranked result.

Filters and sorting apply to the final list only; every enabled source is
always queried.`,
	Example: `  archstore search firefox
  archstore search --source aur --sort name neovim
  archstore search --installed --json python`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchInstalled, "installed", false, "only show installed packages")
	searchCmd.Flags().BoolVar(&searchNotInstalled, "not-installed", false, "only show packages that are not installed")
	searchCmd.Flags().StringVarP(&searchSource, "source", "s", "", "only show one source: official, aur or flatpak")
	searchCmd.Flags().StringVar(&searchSort, "sort", string(domain.SortRelevance), "sort by relevance, name, name-desc or source")
	searchCmd.Flags().BoolVar(&searchNoCache, "no-cache", false, "query the package tools even when a cached result exists")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 30*time.Second, "give up on sources that have not answered")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured display limit)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.MarkFlagsMutuallyExclusive("installed", "not-installed")
	rootCmd.AddCommand(searchCmd)
}

// searchOutput is the JSON form of a finished search.
type searchOutput struct {
	Query       string                  `json:"query"`
	Total       int                     `json:"total"`
	Entries     []domain.AggregateEntry `json:"entries"`
	Failures    []domain.SourceFailure  `json:"failures,omitempty"`
	Outstanding []domain.SourceKind     `json:"outstanding,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	view, err := searchViewSettings()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if searchNoCache {
		ctx = driven.WithoutCache(ctx)
	}
	if searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, searchTimeout)
		defer cancel()
	}

	progress := newProgress(cmd.ErrOrStderr())
	snap, err := searchService.Search(ctx, query, progress.observe)

	var outstanding []domain.SourceKind
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		outstanding = progress.outstanding(enabledSources())
		cmd.PrintErrf("Warning: timed out after %s waiting for %s\n",
			searchTimeout, joinKinds(outstanding))
	default:
		return fmt.Errorf("search failed: %w", err)
	}

	filtered := ranking.ApplyView(snap.Entries, view)
	shown := ranking.Truncate(filtered, displayLimit())

	if searchJSON {
		return outputSearchJSON(cmd, searchOutput{
			Query:       query,
			Total:       len(filtered),
			Entries:     shown,
			Failures:    snap.Failures,
			Outstanding: outstanding,
		})
	}

	for _, f := range snap.Failures {
		cmd.PrintErrf("Warning: %s failed: %s\n", f.Source.DisplayName(), f.Message)
	}
	if snap.AllFailed {
		return domain.ErrAllSourcesFailed
	}

	if isTerminal(cmd.OutOrStdout()) {
		return outputSearchTable(cmd, shown, len(filtered))
	}
	return outputSearchPlain(cmd, shown)
}

func searchViewSettings() (domain.ViewSettings, error) {
	install := ""
	switch {
	case searchInstalled:
		install = string(domain.InstallInstalled)
	case searchNotInstalled:
		install = string(domain.InstallNotInstalled)
	}
	return domain.ParseViewSettings(install, searchSource, searchSort)
}

func displayLimit() int {
	if searchLimit > 0 {
		return searchLimit
	}
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			return s.Search.DisplayLimit
		}
	}
	return domain.DefaultAppSettings().Search.DisplayLimit
}

func enabledSources() []domain.SourceKind {
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			return s.Sources.EnabledKinds()
		}
	}
	return domain.AllSourceKinds()
}

// progress tracks which sources have answered. In verbose mode it also
// reports each batch as it arrives.
type progress struct {
	mu        sync.Mutex
	out       io.Writer
	responded map[domain.SourceKind]bool
}

func newProgress(out io.Writer) *progress {
	return &progress{out: out, responded: make(map[domain.SourceKind]bool)}
}

func (p *progress) observe(snap domain.Snapshot) {
	if snap.Contributor == "" {
		return
	}

	p.mu.Lock()
	p.responded[snap.Contributor] = true
	p.mu.Unlock()

	if logger.IsVerbose() {
		fmt.Fprintf(p.out, "%s responded (%d of %d sources), %d results\n",
			snap.Contributor.DisplayName(), snap.Completed, snap.Pending, len(snap.Entries))
	}
}

func (p *progress) outstanding(enabled []domain.SourceKind) []domain.SourceKind {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []domain.SourceKind
	for _, k := range enabled {
		if !p.responded[k] {
			out = append(out, k)
		}
	}
	return out
}

func joinKinds(kinds []domain.SourceKind) string {
	if len(kinds) == 0 {
		return "no sources"
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.DisplayName()
	}
	return strings.Join(names, ", ")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func outputSearchJSON(cmd *cobra.Command, out searchOutput) error {
	if out.Entries == nil {
		out.Entries = []domain.AggregateEntry{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, entries []domain.AggregateEntry, total int) error {
	if len(entries) == 0 {
		cmd.Println("No packages found.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		installed := ""
		if e.InstalledAny {
			installed = "✓"
		}
		rows = append(rows, []string{
			e.DisplayName,
			e.SourceLabel(),
			strings.Join(e.Versions(), ", "),
			installed,
			e.Description,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("NAME", "SOURCE", "VERSION", "", "DESCRIPTION").
		Rows(rows...)
	cmd.Println(t.String())

	if total > len(entries) {
		cmd.Printf("Showing %d of %d results.\n", len(entries), total)
	}
	return nil
}

// outputSearchPlain writes one tab-separated line per entry for scripts.
func outputSearchPlain(cmd *cobra.Command, entries []domain.AggregateEntry) error {
	for i := range entries {
		e := &entries[i]
		installed := "-"
		if e.InstalledAny {
			installed = "installed"
		}
		cmd.Printf("%s\t%s\t%s\t%s\t%s\n",
			e.DisplayName,
			e.PrimarySource(),
			strings.Join(e.Versions(), ","),
			installed,
			e.Description,
		)
	}
	return nil
}
