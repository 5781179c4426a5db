package driving

import (
	"context"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// PackageService answers read-only questions about single packages.
type PackageService interface {
	// Details describes name as known to source.
	Details(ctx context.Context, source domain.SourceKind, name string) (domain.PackageDetails, error)

	// Installed lists installed packages from sources, or from every
	// source when none are given. Sources that fail are reported as
	// *domain.ProviderError values joined into the returned error,
	// alongside the records of the sources that answered.
	Installed(ctx context.Context, sources ...domain.SourceKind) ([]domain.PackageRecord, error)
}
