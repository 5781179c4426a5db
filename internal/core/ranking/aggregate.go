package ranking

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/paterkleomenis/archstore/internal/catalog"
	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// FilterRelevant keeps the records whose name or description contains
// query, case-insensitively. Records without a name are dropped.
func FilterRelevant(query string, records []domain.PackageRecord) []domain.PackageRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	kept := make([]domain.PackageRecord, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Description), q) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Aggregate groups records by normalized key, merges groups with more than
// one record, scores every entry against query and returns them ranked.
// The result depends only on the set of records given.
func Aggregate(query string, records []domain.PackageRecord) []domain.AggregateEntry {
	cat := catalog.Default()

	groups := make(map[domain.NormalizedKey][]domain.PackageRecord)
	var keys []domain.NormalizedKey
	for _, r := range records {
		key := Normalize(r.Name)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], r)
	}

	entries := make([]domain.AggregateEntry, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		var entry domain.AggregateEntry
		if len(group) == 1 {
			entry = single(cat, key, group[0])
		} else {
			entry = mergeWith(cat, key, group)
		}
		entry.Score = Score(entry.DisplayName, query, entry.PrimarySource(), entry.Description)
		entries = append(entries, entry)
	}

	sortByRelevance(entries)
	return entries
}

// sortByRelevance orders by score, then source authority, then name.
func sortByRelevance(entries []domain.AggregateEntry) {
	names := newNameOrder()
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if aa, ba := a.PrimarySource().Authority(), b.PrimarySource().Authority(); aa != ba {
			return aa > ba
		}
		return names.less(a, b)
	})
}

// nameOrder compares display names case-insensitively using Unicode
// collation. A collator is not safe for concurrent use, so each sort
// builds its own.
type nameOrder struct {
	col *collate.Collator
}

func newNameOrder() nameOrder {
	return nameOrder{col: collate.New(language.Und, collate.IgnoreCase)}
}

func (o nameOrder) compare(a, b domain.AggregateEntry) int {
	if c := o.col.CompareString(a.DisplayName, b.DisplayName); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName)); c != 0 {
		return c
	}
	return strings.Compare(string(a.Key), string(b.Key))
}

func (o nameOrder) less(a, b domain.AggregateEntry) bool {
	return o.compare(a, b) < 0
}
