package providers

import (
	"time"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
)

// Options configures the provider set built by New.
type Options struct {
	// Runner executes the package tools. Nil means an ExecRunner.
	Runner driven.CommandRunner

	// Settings holds the AUR helper choice and rate.
	Settings domain.ProviderSettings

	// Cache, when non-nil with a positive CacheTTL, wraps every provider.
	Cache    driven.CacheStore
	CacheTTL time.Duration
}

// New returns one provider per source kind in authority order.
func New(opts Options) []driven.SourceProvider {
	runner := opts.Runner
	if runner == nil {
		runner = NewExecRunner()
	}

	list := []driven.SourceProvider{
		NewPacmanProvider(runner),
		NewFlatpakProvider(runner),
		NewAURProvider(runner, opts.Settings.AURHelper, opts.Settings.AURRate),
	}

	if opts.Cache == nil || opts.CacheTTL <= 0 {
		return list
	}
	for i, p := range list {
		list[i] = NewCached(p, opts.Cache, opts.CacheTTL)
	}
	return list
}
