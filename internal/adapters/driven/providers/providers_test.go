package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paterkleomenis/archstore/internal/adapters/driven/storage/memory"
	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// ==================== Pacman ====================

func TestPacmanProvider_Search(t *testing.T) {
	runner := newFakeRunner("pacman").
		on("pacman -Ss -- firefox", pacmanSearchOutput, nil).
		on("pacman -Q", "firefox-developer-edition 131.0b9-1\nlinux 6.10.3.arch1-1\n", nil)

	p := NewPacmanProvider(runner)
	records, err := p.Search(context.Background(), "firefox")

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, domain.SourceOfficial, p.Kind())
	assert.True(t, records[0].Installed, "marker from search output")
	assert.True(t, records[1].Installed, "marked from pacman -Q")
}

func TestPacmanProvider_NoMatchesIsEmpty(t *testing.T) {
	runner := newFakeRunner("pacman").
		on("pacman -Ss -- zzzz", "", exitStatus(1)).
		on("pacman -Q", "", nil)

	records, err := NewPacmanProvider(runner).Search(context.Background(), "zzzz")

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPacmanProvider_Failures(t *testing.T) {
	t.Run("tool missing", func(t *testing.T) {
		_, err := NewPacmanProvider(newFakeRunner()).Search(context.Background(), "firefox")
		assert.ErrorIs(t, err, domain.ErrToolMissing)
	})

	t.Run("search error", func(t *testing.T) {
		runner := newFakeRunner("pacman").
			on("pacman -Ss -- firefox", "", exitStatus(2)).
			on("pacman -Q", "", nil)
		_, err := NewPacmanProvider(runner).Search(context.Background(), "firefox")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pacman search")
	})

	t.Run("installed listing failure is tolerated", func(t *testing.T) {
		runner := newFakeRunner("pacman").
			on("pacman -Ss -- firefox", pacmanSearchOutput, nil).
			on("pacman -Q", "", errors.New("database locked"))
		records, err := NewPacmanProvider(runner).Search(context.Background(), "firefox")
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})
}

func TestPacmanProvider_QueryIsNotAnOption(t *testing.T) {
	runner := newFakeRunner("pacman").
		on("pacman -Ss -- -Rns", "", exitStatus(1)).
		on("pacman -Q", "", nil)

	_, err := NewPacmanProvider(runner).Search(context.Background(), "-Rns")

	require.NoError(t, err)
	assert.Equal(t, 1, runner.callCount("pacman -Ss -- -Rns"))
}

func TestPacmanProvider_Details(t *testing.T) {
	runner := newFakeRunner("pacman").
		on("pacman -Si -- firefox", pacmanInfoOutput, nil).
		on("pacman -Q -- firefox", "firefox 130.0-1\n", nil).
		on("pacman -Si -- nope", "", exitStatus(1))
	p := NewPacmanProvider(runner)

	d, err := p.Details(context.Background(), "firefox")
	require.NoError(t, err)
	assert.Equal(t, "firefox", d.Name)
	assert.True(t, d.Installed)

	runner.on("pacman -Q -- firefox", "", exitStatus(1))
	d, err = p.Details(context.Background(), "firefox")
	require.NoError(t, err)
	assert.False(t, d.Installed)

	_, err = p.Details(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = NewPacmanProvider(newFakeRunner()).Details(context.Background(), "firefox")
	assert.ErrorIs(t, err, domain.ErrToolMissing)
}

func TestPacmanProvider_Installed(t *testing.T) {
	runner := newFakeRunner("pacman").on("pacman -Qn", "firefox 130.0-1\nlinux 6.10.3.arch1-1\n", nil)

	records, err := NewPacmanProvider(runner).Installed(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.SourceOfficial, records[0].Source)
	assert.True(t, records[0].Installed)

	runner.on("pacman -Qn", "", errors.New("database locked"))
	_, err = NewPacmanProvider(runner).Installed(context.Background())
	assert.Error(t, err)
}

// ==================== AUR ====================

const aurSearchOutput = `extra/obs-studio 30.2.2-1
    Free, open source software for live streaming and recording
aur/obs-studio-git 30.2.0.r12-1 (+12 0.50) [installed]
    Free and open source software for video recording and live streaming
aur/obs-backgroundremoval 1.1.13-1 (+9 0.12)
    Background removal plugin for OBS studio
`

func TestAURProvider_DetectsHelperAndKeepsAURLines(t *testing.T) {
	runner := newFakeRunner().
		on("paru --version", "paru v2.0.3", nil).
		on("paru -Ss -- obs", aurSearchOutput, nil)

	p := NewAURProvider(runner, "", 0)
	records, err := p.Search(context.Background(), "obs")

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.SourceCommunity, p.Kind())
	assert.Equal(t, "obs-studio-git", records[0].Name)
	assert.Equal(t, "30.2.0.r12-1", records[0].Version)
	assert.True(t, records[0].Installed)
	assert.Equal(t, "Background removal plugin for OBS studio", records[1].Description)

	helper, err := p.Helper(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "paru", helper)
	assert.Equal(t, 1, runner.callCount("yay --version"))
	assert.Equal(t, 1, runner.callCount("paru --version"), "detection result is remembered")
}

func TestAURProvider_ConfiguredHelper(t *testing.T) {
	runner := newFakeRunner("paru").
		on("yay --version", "yay v12", nil).
		on("paru -Ss -- obs", aurSearchOutput, nil)

	records, err := NewAURProvider(runner, "paru", 0).Search(context.Background(), "obs")

	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Zero(t, runner.callCount("yay"))
}

func TestAURProvider_NoHelper(t *testing.T) {
	runner := newFakeRunner()

	_, err := NewAURProvider(runner, "", 0).Search(context.Background(), "obs")
	assert.ErrorIs(t, err, domain.ErrToolMissing)

	_, err = NewAURProvider(runner, "pikaur", 0).Search(context.Background(), "obs")
	assert.ErrorIs(t, err, domain.ErrToolMissing)
}

func TestAURProvider_RetriesDetectionAfterFailure(t *testing.T) {
	runner := newFakeRunner()
	p := NewAURProvider(runner, "", 0)

	_, err := p.Search(context.Background(), "obs")
	require.ErrorIs(t, err, domain.ErrToolMissing)

	runner.on("yay --version", "yay v12", nil).on("yay -Ss -- obs", aurSearchOutput, nil)

	records, err := p.Search(context.Background(), "obs")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestAURProvider_RateLimitHonoursContext(t *testing.T) {
	runner := newFakeRunner().
		on("yay --version", "yay v12", nil).
		on("yay -Ss -- obs", aurSearchOutput, nil)
	p := NewAURProvider(runner, "", 0.001)

	_, err := p.Search(context.Background(), "obs")
	require.NoError(t, err, "first call uses the burst token")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = p.Search(ctx, "obs")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, 1, runner.callCount("yay -Ss"))
}

func TestAURProvider_Details(t *testing.T) {
	runner := newFakeRunner("yay").
		on("yay -Si -- paru-bin", aurInfoOutput, nil).
		on("yay -Qm -- paru-bin", "paru-bin 2.0.3-1\n", nil).
		on("yay -Si -- nope", "", exitStatus(1))
	p := NewAURProvider(runner, "yay", 0)

	d, err := p.Details(context.Background(), "paru-bin")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceCommunity, d.Source)
	assert.Equal(t, "morganamilo", d.Maintainer)
	assert.True(t, d.Installed)

	_, err = p.Details(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAURProvider_Installed(t *testing.T) {
	runner := newFakeRunner("paru").on("paru -Qm", "paru-bin 2.0.3-1\nspotify 1:1.2.45-1\n", nil)

	records, err := NewAURProvider(runner, "paru", 0).Installed(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1:1.2.45-1", records[1].Version)
	assert.Equal(t, domain.SourceCommunity, records[1].Source)

	empty := newFakeRunner("paru").on("paru -Qm", "", exitStatus(1))
	records, err = NewAURProvider(empty, "paru", 0).Installed(context.Background())
	require.NoError(t, err, "no foreign packages")
	assert.Empty(t, records)
}

// ==================== Flatpak ====================

func TestFlatpakProvider_Search(t *testing.T) {
	runner := newFakeRunner("flatpak").
		on("flatpak search --columns=name,description,application,version -- firefox",
			"Firefox\tFast, Private & Safe Web Browser\torg.mozilla.firefox\t130.0\n", nil).
		on("flatpak list --app --columns=application", "org.mozilla.firefox\norg.gimp.GIMP\n", nil)

	p := NewFlatpakProvider(runner)
	records, err := p.Search(context.Background(), "firefox")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.SourceSandboxed, p.Kind())
	assert.Equal(t, "org.mozilla.firefox", records[0].Name)
	assert.Equal(t, "Firefox - Fast, Private & Safe Web Browser", records[0].Description)
	assert.True(t, records[0].Installed)
}

func TestFlatpakProvider_Failures(t *testing.T) {
	_, err := NewFlatpakProvider(newFakeRunner()).Search(context.Background(), "firefox")
	assert.ErrorIs(t, err, domain.ErrToolMissing)

	runner := newFakeRunner("flatpak").
		on("flatpak search --columns=name,description,application,version -- firefox", "", exitStatus(3)).
		on("flatpak list --app --columns=application", "", nil)
	_, err = NewFlatpakProvider(runner).Search(context.Background(), "firefox")
	assert.Error(t, err)
}

func TestFlatpakProvider_Details(t *testing.T) {
	t.Run("installed", func(t *testing.T) {
		runner := newFakeRunner("flatpak").on("flatpak info -- org.mozilla.firefox", flatpakInfoOutput, nil)

		d, err := NewFlatpakProvider(runner).Details(context.Background(), "org.mozilla.firefox")
		require.NoError(t, err)
		assert.True(t, d.Installed)
		assert.Equal(t, "250.3 MB", d.Size)
		assert.Zero(t, runner.callCount("flatpak remote-info"))
	})

	t.Run("remote", func(t *testing.T) {
		runner := newFakeRunner("flatpak").
			on("flatpak info -- org.mozilla.firefox", "", exitStatus(1)).
			on("flatpak remote-info -- flathub org.mozilla.firefox", flatpakInfoOutput, nil)

		d, err := NewFlatpakProvider(runner).Details(context.Background(), "org.mozilla.firefox")
		require.NoError(t, err)
		assert.False(t, d.Installed)
		assert.Equal(t, "org.mozilla.firefox", d.Name)
	})

	t.Run("unknown", func(t *testing.T) {
		runner := newFakeRunner("flatpak").
			on("flatpak info -- org.example.Nope", "", exitStatus(1)).
			on("flatpak remote-info -- flathub org.example.Nope", "", exitStatus(1))

		_, err := NewFlatpakProvider(runner).Details(context.Background(), "org.example.Nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestFlatpakProvider_Installed(t *testing.T) {
	runner := newFakeRunner("flatpak").
		on("flatpak list --app --columns=name,application,version", "Firefox\torg.mozilla.firefox\t130.0\n", nil)

	records, err := NewFlatpakProvider(runner).Installed(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.SourceSandboxed, records[0].Source)
	assert.Equal(t, "org.mozilla.firefox", records[0].Name)
}

// ==================== New ====================

func TestNew(t *testing.T) {
	list := New(Options{Runner: newFakeRunner()})

	require.Len(t, list, 3)
	assert.Equal(t, domain.AllSourceKinds(), []domain.SourceKind{list[0].Kind(), list[1].Kind(), list[2].Kind()})
	_, cached := list[0].(*Cached)
	assert.False(t, cached)

	list = New(Options{Runner: newFakeRunner(), Cache: memory.NewCacheStore(), CacheTTL: time.Minute})
	for _, p := range list {
		assert.IsType(t, &Cached{}, p)
	}
}
