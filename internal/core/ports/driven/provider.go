package driven

import (
	"context"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// SourceProvider queries one package ecosystem.
//
// Search must honour ctx cancellation. Returned records are already
// structured; the core never parses tool output. A non-nil error means
// the source failed and contributes no records.
type SourceProvider interface {
	// Kind identifies the source this provider queries.
	Kind() domain.SourceKind

	// Search returns the records matching query.
	Search(ctx context.Context, query string) ([]domain.PackageRecord, error)

	// Details describes the package called name. domain.ErrNotFound is
	// returned when the source does not know it.
	Details(ctx context.Context, name string) (domain.PackageDetails, error)

	// Installed lists the packages installed from this source. Every
	// returned record has Installed set.
	Installed(ctx context.Context) ([]domain.PackageRecord, error)
}

// CommandRunner executes external package tools.
type CommandRunner interface {
	// Run executes name with args and returns its standard output.
	// A non-zero exit is reported as an error alongside any output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath reports whether name is installed and where.
	LookPath(name string) (string, error)
}
