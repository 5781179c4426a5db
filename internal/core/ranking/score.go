package ranking

import (
	"strings"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// Relevance tiers. The first tier that matches wins.
const (
	ScoreExact         = 1000
	ScoreExactCleaned  = 900
	ScorePrefix        = 800
	ScorePrefixCleaned = 700
	ScoreToken         = 600
	ScoreSubstring     = 500
	ScoreNone          = 0
)

var ecosystemPrefixes = []string{
	"lib", "python-", "python3-", "nodejs-", "node-",
	"go-", "rust-", "perl-", "ruby-", "php-",
}

// Score rates how well candidate matches query. Flatpak candidates are
// rated on the human name at the head of their description, because
// their identifiers are reverse-domain strings.
func Score(candidate, query string, source domain.SourceKind, description string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ScoreNone
	}

	if source == domain.SourceSandboxed {
		human := strings.ToLower(strings.TrimSpace(descriptionHead(description)))
		switch {
		case human == q:
			return ScoreExact
		case strings.HasPrefix(human, q):
			return ScorePrefix
		case strings.Contains(human, q):
			return ScorePrefixCleaned
		}
	}

	name := strings.ToLower(candidate)
	if name == q {
		return ScoreExact
	}

	clean := StripEcosystemPrefix(name)
	switch {
	case clean == q:
		return ScoreExactCleaned
	case strings.HasPrefix(name, q):
		return ScorePrefix
	case strings.HasPrefix(clean, q):
		return ScorePrefixCleaned
	case isDelimitedToken(name, q):
		return ScoreToken
	case strings.Contains(name, q):
		return ScoreSubstring
	}
	return ScoreNone
}

// StripEcosystemPrefix removes at most one leading language or library
// prefix from a lowercase name.
func StripEcosystemPrefix(name string) string {
	for _, prefix := range ecosystemPrefixes {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

func isDelimitedToken(name, q string) bool {
	return strings.Contains(name, "-"+q+"-") ||
		strings.Contains(name, "-"+q) ||
		strings.HasPrefix(name, q+"-") ||
		strings.Contains(name, "."+q+".") ||
		strings.Contains(name, "."+q) ||
		strings.HasSuffix(name, "."+q) ||
		strings.HasSuffix(name, "-"+q)
}

// descriptionHead returns the text before the first " - ", or the whole
// description when there is none.
func descriptionHead(description string) string {
	head, _, _ := strings.Cut(description, " - ")
	return head
}
