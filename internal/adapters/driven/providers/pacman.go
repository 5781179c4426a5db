package providers

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/logger"
)

const pacmanBinary = "pacman"

// Ensure PacmanProvider implements the interface.
var _ driven.SourceProvider = (*PacmanProvider)(nil)

// PacmanProvider searches the official repositories.
type PacmanProvider struct {
	runner driven.CommandRunner
}

// NewPacmanProvider creates a provider that runs pacman through runner.
func NewPacmanProvider(runner driven.CommandRunner) *PacmanProvider {
	return &PacmanProvider{runner: runner}
}

// Kind returns SourceOfficial.
func (p *PacmanProvider) Kind() domain.SourceKind {
	return domain.SourceOfficial
}

// Search runs pacman -Ss and pacman -Q concurrently. A failing -Q only
// loses install marks from the search's own [installed] markers.
func (p *PacmanProvider) Search(ctx context.Context, query string) ([]domain.PackageRecord, error) {
	if _, err := p.runner.LookPath(pacmanBinary); err != nil {
		return nil, err
	}

	var searchOut, installedOut []byte
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := p.runner.Run(gctx, pacmanBinary, "-Ss", "--", query)
		if err != nil && !noMatches(err) {
			return fmt.Errorf("pacman search: %w", err)
		}
		searchOut = out
		return nil
	})
	g.Go(func() error {
		out, err := p.runner.Run(gctx, pacmanBinary, "-Q")
		if err != nil {
			logger.Debug("pacman -Q failed: %v", err)
			return nil
		}
		installedOut = out
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := parseRepoListing(searchOut, domain.SourceOfficial, nil)
	markInstalled(records, parseFirstColumn(installedOut))
	return records, nil
}

// Details runs pacman -Si. Install state comes from pacman -Q, whose
// failure only means the package is not installed.
func (p *PacmanProvider) Details(ctx context.Context, name string) (domain.PackageDetails, error) {
	if _, err := p.runner.LookPath(pacmanBinary); err != nil {
		return domain.PackageDetails{}, err
	}

	out, err := p.runner.Run(ctx, pacmanBinary, "-Si", "--", name)
	if err != nil {
		if noMatches(err) {
			return domain.PackageDetails{}, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
		}
		return domain.PackageDetails{}, fmt.Errorf("pacman info: %w", err)
	}

	d := parsePackageInfo(out, domain.SourceOfficial)
	if d.Name == "" {
		return domain.PackageDetails{}, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	_, qerr := p.runner.Run(ctx, pacmanBinary, "-Q", "--", d.Name)
	d.Installed = qerr == nil
	return d, nil
}

// Installed runs pacman -Qn, which leaves out foreign (AUR) packages.
func (p *PacmanProvider) Installed(ctx context.Context) ([]domain.PackageRecord, error) {
	if _, err := p.runner.LookPath(pacmanBinary); err != nil {
		return nil, err
	}
	out, err := p.runner.Run(ctx, pacmanBinary, "-Qn")
	if err != nil && !noMatches(err) {
		return nil, fmt.Errorf("pacman installed: %w", err)
	}
	return parseInstalledListing(out, domain.SourceOfficial), nil
}
