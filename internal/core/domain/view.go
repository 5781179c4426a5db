package domain

import (
	"fmt"
	"strings"
)

// InstallFilter restricts a view by installation status.
type InstallFilter string

// Available install filters.
const (
	InstallAll          InstallFilter = "all"
	InstallInstalled    InstallFilter = "installed"
	InstallNotInstalled InstallFilter = "not-installed"
)

// IsValid returns true if the filter is recognised.
func (f InstallFilter) IsValid() bool {
	switch f {
	case InstallAll, InstallInstalled, InstallNotInstalled:
		return true
	default:
		return false
	}
}

// Next cycles to the following filter.
func (f InstallFilter) Next() InstallFilter {
	switch f {
	case InstallAll:
		return InstallInstalled
	case InstallInstalled:
		return InstallNotInstalled
	default:
		return InstallAll
	}
}

// SortMode orders a view.
type SortMode string

// Available sort modes.
const (
	// SortRelevance keeps the aggregation order (score, authority, name).
	SortRelevance SortMode = "relevance"

	// SortNameAsc orders by display name A to Z.
	SortNameAsc SortMode = "name"

	// SortNameDesc orders by display name Z to A.
	SortNameDesc SortMode = "name-desc"

	// SortSource groups official, then merged, then flatpak, then aur.
	SortSource SortMode = "source"
)

// IsValid returns true if the sort mode is recognised.
func (m SortMode) IsValid() bool {
	switch m {
	case SortRelevance, SortNameAsc, SortNameDesc, SortSource:
		return true
	default:
		return false
	}
}

// Next cycles to the following sort mode.
func (m SortMode) Next() SortMode {
	switch m {
	case SortRelevance:
		return SortNameAsc
	case SortNameAsc:
		return SortNameDesc
	case SortNameDesc:
		return SortSource
	default:
		return SortRelevance
	}
}

// Description returns a human-readable label.
func (m SortMode) Description() string {
	switch m {
	case SortRelevance:
		return "Relevance"
	case SortNameAsc:
		return "Name (A-Z)"
	case SortNameDesc:
		return "Name (Z-A)"
	case SortSource:
		return "Source"
	default:
		return unknownDescription
	}
}

// ViewSettings is the user's current filter and sort selection.
// An empty Source means all sources.
type ViewSettings struct {
	Install InstallFilter
	Source  SourceKind
	Sort    SortMode
}

// DefaultViewSettings shows everything in relevance order.
func DefaultViewSettings() ViewSettings {
	return ViewSettings{Install: InstallAll, Sort: SortRelevance}
}

// NextSourceFilter cycles all → official → aur → flatpak → all.
func NextSourceFilter(k SourceKind) SourceKind {
	switch k {
	case "":
		return SourceOfficial
	case SourceOfficial:
		return SourceCommunity
	case SourceCommunity:
		return SourceSandboxed
	default:
		return ""
	}
}

// ParseViewSettings builds a view from user-supplied strings. Empty values
// keep the defaults.
func ParseViewSettings(install, source, sortMode string) (ViewSettings, error) {
	v := DefaultViewSettings()
	if install != "" {
		v.Install = InstallFilter(strings.ToLower(install))
		if !v.Install.IsValid() {
			return v, fmt.Errorf("%w: install filter %q", ErrInvalidInput, install)
		}
	}
	if source != "" && !strings.EqualFold(source, "all") {
		kind, err := ParseSourceKind(source)
		if err != nil {
			return v, err
		}
		v.Source = kind
	}
	if sortMode != "" {
		v.Sort = SortMode(strings.ToLower(sortMode))
		if !v.Sort.IsValid() {
			return v, fmt.Errorf("%w: sort mode %q", ErrInvalidInput, sortMode)
		}
	}
	return v, nil
}
