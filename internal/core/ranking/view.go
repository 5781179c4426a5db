package ranking

import (
	"sort"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// ApplyView filters and sorts entries for display. The input slice is
// never modified; a new slice is returned.
func ApplyView(entries []domain.AggregateEntry, view domain.ViewSettings) []domain.AggregateEntry {
	out := make([]domain.AggregateEntry, 0, len(entries))
	for _, e := range entries {
		if matchesView(e, view) {
			out = append(out, e)
		}
	}

	names := newNameOrder()
	switch view.Sort {
	case domain.SortNameAsc:
		sort.SliceStable(out, func(i, j int) bool { return names.less(out[i], out[j]) })
	case domain.SortNameDesc:
		sort.SliceStable(out, func(i, j int) bool { return names.less(out[j], out[i]) })
	case domain.SortSource:
		sort.SliceStable(out, func(i, j int) bool {
			gi, gj := sourceGroup(out[i]), sourceGroup(out[j])
			if gi != gj {
				return gi < gj
			}
			return names.less(out[i], out[j])
		})
	}
	return out
}

func matchesView(e domain.AggregateEntry, view domain.ViewSettings) bool {
	switch view.Install {
	case domain.InstallInstalled:
		if !e.InstalledAny {
			return false
		}
	case domain.InstallNotInstalled:
		if e.InstalledAny {
			return false
		}
	}
	return view.Source == "" || e.HasSource(view.Source)
}

// sourceGroup places official entries first, then merged, flatpak and aur.
func sourceGroup(e domain.AggregateEntry) int {
	switch e.PrimarySource() {
	case domain.SourceOfficial:
		return 0
	case domain.SourceMultiple:
		return 1
	case domain.SourceSandboxed:
		return 2
	case domain.SourceCommunity:
		return 3
	default:
		return 4
	}
}

// Truncate returns at most limit entries. A non-positive limit keeps all.
func Truncate(entries []domain.AggregateEntry, limit int) []domain.AggregateEntry {
	if limit <= 0 || len(entries) <= limit {
		return entries
	}
	return entries[:limit]
}
