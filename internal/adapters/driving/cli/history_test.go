package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Flags(t *testing.T) {
	limit := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "20", limit.DefValue)
	assert.NotNil(t, historyCmd.Flags().Lookup("clear"))
}

func TestHistoryCmd_Recent(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := execute(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "firefox")
	assert.Contains(t, out, "3 results")
	assert.Contains(t, out, "neovim")
	assert.Empty(t, ts.history.patterns)
}

func TestHistoryCmd_Limit(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := execute(t, "history", "-n", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "firefox")
	assert.NotContains(t, out, "neovim")
}

func TestHistoryCmd_Pattern(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := execute(t, "history", "vim")

	require.NoError(t, err)
	assert.Equal(t, []string{"vim"}, ts.history.patterns)
	assert.Contains(t, out, "neovim")
	assert.NotContains(t, out, "firefox")
}

func TestHistoryCmd_Empty(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.history.Entries = nil

	out, _, err := execute(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "No searches recorded.")
}

func TestHistoryCmd_Clear(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := execute(t, "history", "--clear")

	require.NoError(t, err)
	assert.True(t, ts.history.cleared)
	assert.Contains(t, out, "Search history cleared.")
}

func TestHistoryCmd_TooManyArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := execute(t, "history", "a", "b")
	assert.Error(t, err)
}

func TestHistoryCmd_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	historyService = nil

	_, _, err := execute(t, "history")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "history service not configured")
}
