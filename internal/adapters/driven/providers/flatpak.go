package providers

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/logger"
)

const flatpakBinary = "flatpak"

// Ensure FlatpakProvider implements the interface.
var _ driven.SourceProvider = (*FlatpakProvider)(nil)

// FlatpakProvider searches the configured Flatpak remotes.
type FlatpakProvider struct {
	runner driven.CommandRunner
}

// NewFlatpakProvider creates a provider that runs flatpak through runner.
func NewFlatpakProvider(runner driven.CommandRunner) *FlatpakProvider {
	return &FlatpakProvider{runner: runner}
}

// Kind returns SourceSandboxed.
func (p *FlatpakProvider) Kind() domain.SourceKind {
	return domain.SourceSandboxed
}

// Search runs flatpak search and flatpak list concurrently.
func (p *FlatpakProvider) Search(ctx context.Context, query string) ([]domain.PackageRecord, error) {
	if _, err := p.runner.LookPath(flatpakBinary); err != nil {
		return nil, err
	}

	var searchOut, installedOut []byte
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := p.runner.Run(gctx, flatpakBinary, "search",
			"--columns=name,description,application,version", "--", query)
		if err != nil && !noMatches(err) {
			return fmt.Errorf("flatpak search: %w", err)
		}
		searchOut = out
		return nil
	})
	g.Go(func() error {
		out, err := p.runner.Run(gctx, flatpakBinary, "list", "--app", "--columns=application")
		if err != nil {
			logger.Debug("flatpak list failed: %v", err)
			return nil
		}
		installedOut = out
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := parseFlatpakSearch(searchOut)
	markInstalled(records, parseFirstColumn(installedOut))
	return records, nil
}

// defaultRemote is asked about applications that are not installed.
const defaultRemote = "flathub"

// Details runs flatpak info, which only knows installed applications,
// and falls back to flatpak remote-info against flathub.
func (p *FlatpakProvider) Details(ctx context.Context, name string) (domain.PackageDetails, error) {
	if _, err := p.runner.LookPath(flatpakBinary); err != nil {
		return domain.PackageDetails{}, err
	}

	out, err := p.runner.Run(ctx, flatpakBinary, "info", "--", name)
	installed := err == nil
	if err != nil {
		if ctx.Err() != nil {
			return domain.PackageDetails{}, ctx.Err()
		}
		logger.Debug("flatpak info %s failed, asking %s: %v", name, defaultRemote, err)
		out, err = p.runner.Run(ctx, flatpakBinary, "remote-info", "--", defaultRemote, name)
		if err != nil {
			if noMatches(err) {
				return domain.PackageDetails{}, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
			}
			return domain.PackageDetails{}, fmt.Errorf("flatpak info: %w", err)
		}
	}

	d := parsePackageInfo(out, domain.SourceSandboxed)
	if d.Name == "" {
		d.Name = name
	}
	d.Installed = installed
	return d, nil
}

// Installed runs flatpak list for applications only.
func (p *FlatpakProvider) Installed(ctx context.Context) ([]domain.PackageRecord, error) {
	if _, err := p.runner.LookPath(flatpakBinary); err != nil {
		return nil, err
	}
	out, err := p.runner.Run(ctx, flatpakBinary, "list", "--app", "--columns=name,application,version")
	if err != nil {
		return nil, fmt.Errorf("flatpak list: %w", err)
	}
	return parseFlatpakInstalled(out), nil
}
