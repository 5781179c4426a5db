package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
	"github.com/paterkleomenis/archstore/internal/logger"
)

// Ensure PackageService implements the interface.
var _ driving.PackageService = (*PackageService)(nil)

// PackageService looks up single packages and installed packages. It
// ignores the per-source search toggles: asking about a source by name
// is explicit.
type PackageService struct {
	providers map[domain.SourceKind]driven.SourceProvider
}

// NewPackageService creates a package service over providers.
func NewPackageService(providers []driven.SourceProvider) *PackageService {
	s := &PackageService{providers: make(map[domain.SourceKind]driven.SourceProvider, len(providers))}
	for _, p := range providers {
		s.providers[p.Kind()] = p
	}
	return s
}

// Details describes name as known to source.
func (s *PackageService) Details(ctx context.Context, source domain.SourceKind, name string) (domain.PackageDetails, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "-") {
		return domain.PackageDetails{}, fmt.Errorf("%w: package name %q", domain.ErrInvalidInput, name)
	}

	p, err := s.provider(source)
	if err != nil {
		return domain.PackageDetails{}, err
	}

	defer logger.Timed(fmt.Sprintf("%s details", source))()
	d, err := p.Details(ctx, name)
	if err != nil {
		return domain.PackageDetails{}, domain.NewProviderError(source, err)
	}
	return d, nil
}

// Installed queries the sources concurrently. Records are ordered by
// source authority, then name.
func (s *PackageService) Installed(ctx context.Context, sources ...domain.SourceKind) ([]domain.PackageRecord, error) {
	if len(sources) == 0 {
		for _, k := range domain.AllSourceKinds() {
			if _, ok := s.providers[k]; ok {
				sources = append(sources, k)
			}
		}
	}
	if len(sources) == 0 {
		return nil, domain.ErrNoSourcesEnabled
	}

	providers := make([]driven.SourceProvider, len(sources))
	for i, k := range sources {
		p, err := s.provider(k)
		if err != nil {
			return nil, err
		}
		providers[i] = p
	}

	results := make([][]domain.PackageRecord, len(providers))
	failures := make([]error, len(providers))

	var g errgroup.Group
	for i, p := range providers {
		g.Go(func() error {
			records, err := p.Installed(ctx)
			if err != nil {
				logger.Debug("installed listing for %s failed: %v", p.Kind(), err)
				failures[i] = domain.NewProviderError(p.Kind(), err)
				return nil
			}
			results[i] = records
			return nil
		})
	}
	_ = g.Wait()

	var records []domain.PackageRecord
	failed := 0
	for i := range providers {
		if failures[i] != nil {
			failed++
			continue
		}
		records = append(records, results[i]...)
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Source.Authority() != b.Source.Authority() {
			return a.Source.Authority() > b.Source.Authority()
		}
		return a.Name < b.Name
	})

	err := errors.Join(failures...)
	if failed == len(providers) {
		return nil, fmt.Errorf("%w: %w", domain.ErrAllSourcesFailed, err)
	}
	return records, err
}

func (s *PackageService) provider(kind domain.SourceKind) (driven.SourceProvider, error) {
	p, ok := s.providers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, kind)
	}
	return p, nil
}
