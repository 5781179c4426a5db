package ranking

import (
	"sort"
	"strings"

	"github.com/paterkleomenis/archstore/internal/catalog"
	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// Merge combines records sharing key into one entry. The result does not
// depend on the order of records: they are put into a canonical order
// first, and "first record" below always refers to that order.
func Merge(key domain.NormalizedKey, records []domain.PackageRecord) domain.AggregateEntry {
	return mergeWith(catalog.Default(), key, records)
}

func mergeWith(cat *catalog.Catalog, key domain.NormalizedKey, records []domain.PackageRecord) domain.AggregateEntry {
	ordered := canonicalOrder(records)

	sources := make(map[domain.SourceKind]domain.PackageRecord, len(ordered))
	for _, r := range ordered {
		if _, seen := sources[r.Source]; !seen {
			sources[r.Source] = r
		}
	}

	primary := ordered[0]
	if official, ok := sources[domain.SourceOfficial]; ok {
		primary = official
	}

	entry := domain.AggregateEntry{
		Key:         key,
		Description: primary.Description,
		Sources:     sources,
	}

	var flatpakName string
	if flatpak, ok := sources[domain.SourceSandboxed]; ok {
		if head, tail, found := strings.Cut(flatpak.Description, " - "); found {
			flatpakName = head
			if tail != "" {
				entry.Description = tail
			}
		}
	}

	nice := lookupDisplayName(cat, ordered)
	switch {
	case nice != "":
		entry.DisplayName = nice
	case flatpakName != "":
		entry.DisplayName = flatpakName
	case sources[domain.SourceOfficial].Name != "":
		entry.DisplayName = sources[domain.SourceOfficial].Name
	case sources[domain.SourceCommunity].Name != "":
		entry.DisplayName = sources[domain.SourceCommunity].Name
	default:
		entry.DisplayName = primary.Name
	}

	for _, r := range sources {
		entry.InstalledAny = entry.InstalledAny || r.Installed
	}
	entry.Icon = lookupIcon(cat, ordered)
	return entry
}

// single wraps one record unchanged as an entry.
func single(cat *catalog.Catalog, key domain.NormalizedKey, r domain.PackageRecord) domain.AggregateEntry {
	return domain.AggregateEntry{
		Key:          key,
		DisplayName:  r.Name,
		Description:  r.Description,
		Sources:      map[domain.SourceKind]domain.PackageRecord{r.Source: r},
		InstalledAny: r.Installed,
		Icon:         lookupIcon(cat, []domain.PackageRecord{r}),
	}
}

func lookupDisplayName(cat *catalog.Catalog, ordered []domain.PackageRecord) string {
	for _, r := range ordered {
		for _, form := range canonicalForms(r.Name) {
			if name, ok := cat.DisplayName(form); ok {
				return name
			}
		}
	}
	return ""
}

func lookupIcon(cat *catalog.Catalog, ordered []domain.PackageRecord) string {
	for _, r := range ordered {
		for _, form := range canonicalForms(r.Name) {
			if icon := cat.Icon(form); icon != "" {
				return icon
			}
		}
	}
	return ""
}

// canonicalOrder sorts a copy of records by source authority, then by
// name, version and description.
func canonicalOrder(records []domain.PackageRecord) []domain.PackageRecord {
	ordered := make([]domain.PackageRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Source.Authority() != b.Source.Authority() {
			return a.Source.Authority() > b.Source.Authority()
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Version != b.Version {
			return a.Version < b.Version
		}
		if a.Description != b.Description {
			return a.Description < b.Description
		}
		return !a.Installed && b.Installed
	})
	return ordered
}
