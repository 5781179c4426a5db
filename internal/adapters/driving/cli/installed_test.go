package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

func installedRecords() []domain.PackageRecord {
	return []domain.PackageRecord{
		{Name: "firefox", Version: "130.0-1", Source: domain.SourceOfficial, Installed: true},
		{Name: "org.gimp.GIMP", Version: "2.10.38", Source: domain.SourceSandboxed, Installed: true},
		{Name: "paru-bin", Version: "2.0.3-1", Source: domain.SourceCommunity, Installed: true},
	}
}

func TestInstalledCmd_List(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.packages.Records = installedRecords()

	out, _, err := execute(t, "installed")

	require.NoError(t, err)
	assert.Contains(t, out, "firefox")
	assert.Contains(t, out, "Flatpak")
	assert.Contains(t, out, "2.0.3-1")
	assert.Empty(t, ts.packages.sources)
}

func TestInstalledCmd_Sources(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := execute(t, "installed", "-s", "aur", "-s", "sandboxed")
	require.NoError(t, err)
	assert.Equal(t, []domain.SourceKind{domain.SourceCommunity, domain.SourceSandboxed}, ts.packages.sources)

	_, _, err = execute(t, "installed", "-s", "snap")
	assert.ErrorIs(t, err, domain.ErrUnsupportedSource)
}

func TestInstalledCmd_PartialFailureWarns(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.packages.Records = installedRecords()[:1]
	ts.packages.InstalledErr = errors.Join(domain.NewProviderError(domain.SourceSandboxed, domain.ErrToolMissing))

	out, errOut, err := execute(t, "installed")

	require.NoError(t, err)
	assert.Contains(t, out, "firefox")
	assert.Contains(t, errOut, "Warning: Flatpak failed")
}

func TestInstalledCmd_AllFailed(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.packages.InstalledErr = domain.ErrAllSourcesFailed

	_, _, err := execute(t, "installed")
	assert.ErrorIs(t, err, domain.ErrAllSourcesFailed)
}

func TestInstalledCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := execute(t, "installed", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)

	ts.packages.Records = installedRecords()
	out, _, err = execute(t, "installed", "--json")
	require.NoError(t, err)
	var got []domain.PackageRecord
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 3)
}

func TestProviderErrors(t *testing.T) {
	assert.Nil(t, providerErrors(nil))

	err := errors.Join(
		domain.NewProviderError(domain.SourceOfficial, errors.New("locked")),
		errors.New("unrelated"),
		domain.NewProviderError(domain.SourceCommunity, domain.ErrToolMissing),
	)
	got := providerErrors(err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.SourceOfficial, got[0].Source)
	assert.Equal(t, domain.SourceCommunity, got[1].Source)
}
