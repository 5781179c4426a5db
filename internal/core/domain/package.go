package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SourceKind identifies a package ecosystem queried during a search.
type SourceKind string

// Available source kinds. The values are the names of the tools that back them.
const (
	// SourceOfficial is the distribution's official repositories (pacman).
	SourceOfficial SourceKind = "official"

	// SourceCommunity is the community build-recipe repository (AUR).
	SourceCommunity SourceKind = "aur"

	// SourceSandboxed is the sandboxed application store (Flatpak).
	SourceSandboxed SourceKind = "flatpak"

	// SourceMultiple is the pseudo-source of an entry merged from several sources.
	SourceMultiple SourceKind = "multiple"
)

// AllSourceKinds returns the real source kinds in authority order.
func AllSourceKinds() []SourceKind {
	return []SourceKind{SourceOfficial, SourceSandboxed, SourceCommunity}
}

// ParseSourceKind parses a source name. The ecosystem-neutral aliases
// "community" and "sandboxed" are accepted.
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "official", "pacman":
		return SourceOfficial, nil
	case "aur", "community":
		return SourceCommunity, nil
	case "flatpak", "sandboxed":
		return SourceSandboxed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSource, s)
	}
}

// IsValid returns true if the kind is one of the real sources.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceOfficial, SourceCommunity, SourceSandboxed:
		return true
	default:
		return false
	}
}

// Authority ranks sources for tie-breaking. Merged entries rank with
// the official repositories.
func (k SourceKind) Authority() int {
	switch k {
	case SourceOfficial, SourceMultiple:
		return 3
	case SourceSandboxed:
		return 2
	case SourceCommunity:
		return 1
	default:
		return 0
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// DisplayName returns the label shown next to results.
func (k SourceKind) DisplayName() string {
	switch k {
	case SourceOfficial:
		return "Official"
	case SourceCommunity:
		return "AUR"
	case SourceSandboxed:
		return "Flatpak"
	case SourceMultiple:
		return "Multiple"
	default:
		return unknownDescription
	}
}

// PackageRecord is a single result reported by one source.
type PackageRecord struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description string     `json:"description"`
	Source      SourceKind `json:"source"`
	Installed   bool       `json:"installed"`
}

// NormalizedKey is the identity used to group records from different sources.
type NormalizedKey string

// AggregateEntry is one row of the result list: either a single record
// or several records from different sources sharing a NormalizedKey.
type AggregateEntry struct {
	// Key is the shared normalized name.
	Key NormalizedKey `json:"key"`

	// DisplayName is the resolved human-facing name.
	DisplayName string `json:"display_name"`

	// Description is the resolved description.
	Description string `json:"description"`

	// Sources maps each contributing source to its record. At most one
	// record per source.
	Sources map[SourceKind]PackageRecord `json:"sources"`

	// InstalledAny is true if any contributing record is installed.
	InstalledAny bool `json:"installed"`

	// Score is the relevance score against the session query.
	Score int `json:"score"`

	// Icon is an optional icon URL for well-known applications.
	Icon string `json:"icon,omitempty"`
}

// IsMerged returns true if more than one source contributed.
func (e AggregateEntry) IsMerged() bool {
	return len(e.Sources) > 1
}

// HasSource returns true if kind contributed to the entry.
func (e AggregateEntry) HasSource(kind SourceKind) bool {
	_, ok := e.Sources[kind]
	return ok
}

// Kinds returns the contributing sources in authority order.
func (e AggregateEntry) Kinds() []SourceKind {
	kinds := make([]SourceKind, 0, len(e.Sources))
	for k := range e.Sources {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if kinds[i].Authority() != kinds[j].Authority() {
			return kinds[i].Authority() > kinds[j].Authority()
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

// PrimarySource is the entry's only source, or SourceMultiple when merged.
func (e AggregateEntry) PrimarySource() SourceKind {
	if e.IsMerged() {
		return SourceMultiple
	}
	for k := range e.Sources {
		return k
	}
	return ""
}

// Versions lists the non-empty per-source versions in authority order.
func (e AggregateEntry) Versions() []string {
	var versions []string
	for _, k := range e.Kinds() {
		if v := e.Sources[k].Version; v != "" {
			versions = append(versions, v)
		}
	}
	return versions
}

// SourceLabel renders the contributing sources, e.g. "Official, Flatpak".
func (e AggregateEntry) SourceLabel() string {
	kinds := e.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.DisplayName()
	}
	return strings.Join(names, ", ")
}
