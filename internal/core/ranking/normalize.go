package ranking

import (
	"regexp"
	"strings"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

var reverseDomain = regexp.MustCompile(`^(com|org|io|net|app)\.[a-z0-9]+\.`)

// Only suffixes are stripped. Prefixes such as "python-" would collapse a
// language binding into its host application.
var variantSuffixes = []string{"-bin", "-git", "-stable", "-beta", "-dev", "-desktop"}

var separatorStripper = strings.NewReplacer(".", "", "_", "", "-", "")

// Normalize derives the grouping key for a package name.
//
//	org.mozilla.firefox -> firefox
//	visual-studio-code-bin -> visualstudiocode
//	python-mpv -> pythonmpv
func Normalize(name string) domain.NormalizedKey {
	base := stripVariantSuffix(collapseReverseDomain(strings.ToLower(name)))
	return domain.NormalizedKey(strings.TrimSpace(separatorStripper.Replace(base)))
}

// collapseReverseDomain reduces an application id to its last segment.
func collapseReverseDomain(name string) string {
	if !reverseDomain.MatchString(name) {
		return name
	}
	return name[strings.LastIndex(name, ".")+1:]
}

func stripVariantSuffix(name string) string {
	for _, suffix := range variantSuffixes {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

// canonicalForms returns the lowercase base names of a package, before
// separators are removed, used for catalog lookups. The unsuffixed form
// comes first so "telegram-desktop" matches before "telegram".
func canonicalForms(name string) []string {
	collapsed := strings.TrimSpace(collapseReverseDomain(strings.ToLower(name)))
	stripped := stripVariantSuffix(collapsed)
	if stripped == collapsed {
		return []string{collapsed}
	}
	return []string{collapsed, stripped}
}
