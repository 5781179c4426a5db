package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/logger"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"installed", "", "false"},
		{"not-installed", "", "false"},
		{"source", "s", ""},
		{"sort", "", "relevance"},
		{"no-cache", "", "false"},
		{"timeout", "", "30s"},
		{"limit", "n", "0"},
		{"json", "", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := searchCmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, _, err := execute(t, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	searchService = nil

	_, _, err := execute(t, "search", "firefox")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestSearchCmd_PlainOutput(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := execute(t, "search", "firefox")

	require.NoError(t, err)
	assert.Equal(t, []string{"firefox"}, ts.search.queries)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "firefox\tmultiple\t130.0-1,130.0\tinstalled\tfirefox package", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "firefox-nightly\taur\t132.0a1\t-\t"))
}

func TestSearchCmd_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"installed", []string{"--installed"}, []string{"firefox", "librewolf"}},
		{"not installed", []string{"--not-installed"}, []string{"firefox-nightly"}},
		{"source aur", []string{"--source", "aur"}, []string{"firefox-nightly", "librewolf"}},
		{"source alias", []string{"-s", "sandboxed"}, []string{"firefox"}},
		{"name descending", []string{"--sort", "name-desc"}, []string{"librewolf", "firefox-nightly", "firefox"}},
		{"limit", []string{"-n", "1"}, []string{"firefox"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cleanup := setupTestServices()
			defer cleanup()

			args := append([]string{"search"}, tt.args...)
			out, _, err := execute(t, append(args, "firefox")...)
			require.NoError(t, err)

			var names []string
			for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
				names = append(names, strings.SplitN(line, "\t", 2)[0])
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSearchCmd_InvalidFilters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown source", []string{"--source", "snap"}, "unsupported source"},
		{"unknown sort", []string{"--sort", "size"}, "sort mode"},
		{"both install filters", []string{"--installed", "--not-installed"}, "installed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, cleanup := setupTestServices()
			defer cleanup()

			args := append([]string{"search"}, tt.args...)
			_, _, err := execute(t, append(args, "firefox")...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, ts.search.queries, "no session starts for invalid input")
		})
	}
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := execute(t, "search", "--json", "--source", "aur", "firefox")
	require.NoError(t, err)

	var got searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "firefox", got.Query)
	assert.Equal(t, 2, got.Total)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "firefox-nightly", got.Entries[0].DisplayName)
	assert.Contains(t, out, `"sources"`)
}

func TestSearchCmd_JSONEmptyEntries(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.SearchFunc = func(_ context.Context, q string, _ domain.SnapshotFunc) (domain.Snapshot, error) {
		return domain.Snapshot{Query: q, Completed: 3, Pending: 3}, nil
	}

	out, _, err := execute(t, "search", "--json", "zzz")

	require.NoError(t, err)
	assert.Contains(t, out, `"entries": []`)
}

func TestSearchCmd_NoCache(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	var bypassed []bool
	ts.search.SearchFunc = func(ctx context.Context, q string, _ domain.SnapshotFunc) (domain.Snapshot, error) {
		bypassed = append(bypassed, driven.CacheBypassed(ctx))
		return testSnapshot(q), nil
	}

	_, _, err := execute(t, "search", "firefox")
	require.NoError(t, err)
	_, _, err = execute(t, "search", "--no-cache", "firefox")
	require.NoError(t, err)

	assert.Equal(t, []bool{false, true}, bypassed)
}

func TestSearchCmd_TimeoutPrintsPartialResults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.search.SearchFunc = func(ctx context.Context, q string, onSnapshot domain.SnapshotFunc) (domain.Snapshot, error) {
		partial := domain.Snapshot{
			Query:          q,
			Contributor:    domain.SourceOfficial,
			Completed:      1,
			Pending:        3,
			StillSearching: true,
			Entries: []domain.AggregateEntry{
				entry("firefox", record("firefox", "130.0-1", domain.SourceOfficial, true)),
			},
		}
		onSnapshot(partial)
		<-ctx.Done()
		return partial, fmt.Errorf("search %q: %w", q, ctx.Err())
	}

	out, errOut, err := execute(t, "search", "--timeout", "20ms", "firefox")

	require.NoError(t, err)
	assert.Contains(t, out, "firefox\tofficial")
	assert.Contains(t, errOut, "timed out after 20ms")
	assert.Contains(t, errOut, "Flatpak, AUR")
	assert.NotContains(t, errOut, "Official")
}

func TestSearchCmd_FailuresAreReported(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.search.SearchFunc = func(_ context.Context, q string, _ domain.SnapshotFunc) (domain.Snapshot, error) {
		snap := testSnapshot(q)
		snap.Failures = []domain.SourceFailure{{Source: domain.SourceCommunity, Message: "package tool not installed"}}
		return snap, nil
	}

	out, errOut, err := execute(t, "search", "firefox")

	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, errOut, "Warning: AUR failed: package tool not installed")
}

func TestSearchCmd_AllSourcesFailed(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.search.SearchFunc = func(_ context.Context, q string, _ domain.SnapshotFunc) (domain.Snapshot, error) {
		return domain.Snapshot{Query: q, Completed: 3, Pending: 3, AllFailed: true}, nil
	}

	_, _, err := execute(t, "search", "firefox")

	assert.ErrorIs(t, err, domain.ErrAllSourcesFailed)
}

func TestSearchCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.search.SearchFunc = func(context.Context, string, domain.SnapshotFunc) (domain.Snapshot, error) {
		return domain.Snapshot{}, fmt.Errorf("search %q: %w", "x", domain.ErrQueryTooShort)
	}

	_, _, err := execute(t, "search", "x")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrQueryTooShort)
	assert.Contains(t, err.Error(), "search failed")
}

func TestSearchCmd_VerboseProgress(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer logger.SetVerbose(false)

	ts.search.SearchFunc = func(_ context.Context, q string, onSnapshot domain.SnapshotFunc) (domain.Snapshot, error) {
		snap := testSnapshot(q)
		onSnapshot(domain.Snapshot{Query: q, Pending: 3, StillSearching: true})
		onSnapshot(domain.Snapshot{Query: q, Contributor: domain.SourceSandboxed, Completed: 1, Pending: 3, Entries: snap.Entries[:1]})
		return snap, nil
	}

	_, errOut, err := execute(t, "--verbose", "search", "firefox")

	require.NoError(t, err)
	assert.Contains(t, errOut, "Flatpak responded (1 of 3 sources), 1 results")
}

func TestProgress_Outstanding(t *testing.T) {
	p := newProgress(nil)
	p.observe(domain.Snapshot{Contributor: domain.SourceCommunity})
	p.observe(domain.Snapshot{})

	assert.Equal(t,
		[]domain.SourceKind{domain.SourceOfficial, domain.SourceSandboxed},
		p.outstanding(domain.AllSourceKinds()))
}

func TestJoinKinds(t *testing.T) {
	assert.Equal(t, "no sources", joinKinds(nil))
	assert.Equal(t, "Official, AUR", joinKinds([]domain.SourceKind{domain.SourceOfficial, domain.SourceCommunity}))
}

func TestDisplayLimit(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	assert.Equal(t, 50, displayLimit())

	ts.settings.settings.Search.DisplayLimit = 7
	assert.Equal(t, 7, displayLimit())

	searchLimit = 3
	defer func() { searchLimit = 0 }()
	assert.Equal(t, 3, displayLimit())
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, isTerminal(&strings.Builder{}))
}

func TestSearchCmd_ErrorsAreWrapped(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	boom := errors.New("boom")
	ts.search.SearchFunc = func(context.Context, string, domain.SnapshotFunc) (domain.Snapshot, error) {
		return domain.Snapshot{}, boom
	}

	_, _, err := execute(t, "search", "firefox")
	assert.ErrorIs(t, err, boom)
}
