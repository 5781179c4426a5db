package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/logger"
)

// aurRepo is the repository prefix the helpers print for AUR packages.
const aurRepo = "aur"

// Ensure AURProvider implements the interface.
var _ driven.SourceProvider = (*AURProvider)(nil)

// AURProvider searches the AUR through yay or paru. Helper invocations
// go through a token bucket since each one hits the AUR RPC.
type AURProvider struct {
	runner     driven.CommandRunner
	configured string
	limiter    *rate.Limiter

	mu     sync.Mutex
	helper string
}

// NewAURProvider creates a provider. An empty helper means the first of
// domain.SupportedAURHelpers that answers --version. perSecond <= 0
// disables throttling.
func NewAURProvider(runner driven.CommandRunner, helper string, perSecond float64) *AURProvider {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &AURProvider{
		runner:     runner,
		configured: strings.TrimSpace(helper),
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Kind returns SourceCommunity.
func (p *AURProvider) Kind() domain.SourceKind {
	return domain.SourceCommunity
}

// Search runs <helper> -Ss and keeps only aur/ lines.
func (p *AURProvider) Search(ctx context.Context, query string) ([]domain.PackageRecord, error) {
	helper, err := p.resolveHelper(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	out, err := p.runner.Run(ctx, helper, "-Ss", "--", query)
	if err != nil && !noMatches(err) {
		return nil, fmt.Errorf("%s search: %w", helper, err)
	}

	return parseRepoListing(out, domain.SourceCommunity, func(repo string) bool {
		return repo == aurRepo
	}), nil
}

// Details runs <helper> -Si. It shares the search rate limit.
func (p *AURProvider) Details(ctx context.Context, name string) (domain.PackageDetails, error) {
	helper, err := p.resolveHelper(ctx)
	if err != nil {
		return domain.PackageDetails{}, err
	}
	if err := p.wait(ctx); err != nil {
		return domain.PackageDetails{}, err
	}

	out, err := p.runner.Run(ctx, helper, "-Si", "--", name)
	if err != nil && !noMatches(err) {
		return domain.PackageDetails{}, fmt.Errorf("%s info: %w", helper, err)
	}

	d := parsePackageInfo(out, domain.SourceCommunity)
	if d.Name == "" {
		return domain.PackageDetails{}, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	_, qerr := p.runner.Run(ctx, helper, "-Qm", "--", d.Name)
	d.Installed = qerr == nil
	return d, nil
}

// Installed runs <helper> -Qm. Listing is local, so it is not throttled.
func (p *AURProvider) Installed(ctx context.Context) ([]domain.PackageRecord, error) {
	helper, err := p.resolveHelper(ctx)
	if err != nil {
		return nil, err
	}
	out, err := p.runner.Run(ctx, helper, "-Qm")
	if err != nil && !noMatches(err) {
		return nil, fmt.Errorf("%s installed: %w", helper, err)
	}
	return parseInstalledListing(out, domain.SourceCommunity), nil
}

func (p *AURProvider) wait(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}
	return nil
}

// Helper returns the helper in use, detecting it if needed.
func (p *AURProvider) Helper(ctx context.Context) (string, error) {
	return p.resolveHelper(ctx)
}

// resolveHelper returns the configured helper or detects one. Only a
// successful detection is remembered, so installing a helper later works
// without a restart.
func (p *AURProvider) resolveHelper(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.helper != "" {
		return p.helper, nil
	}

	if p.configured != "" {
		if _, err := p.runner.LookPath(p.configured); err != nil {
			return "", err
		}
		p.helper = p.configured
		return p.helper, nil
	}

	for _, candidate := range domain.SupportedAURHelpers() {
		if _, err := p.runner.Run(ctx, candidate, "--version"); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}
		logger.Debug("using AUR helper %s", candidate)
		p.helper = candidate
		return p.helper, nil
	}

	return "", fmt.Errorf("%w: no AUR helper found, install one of %s",
		domain.ErrToolMissing, strings.Join(domain.SupportedAURHelpers(), " or "))
}

