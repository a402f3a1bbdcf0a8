package crawler

import (
	"regexp"
	"strings"

	"github.com/nao1215/graphcrawl/internal/config"
)

// PrivacyFilter decides whether a candidate child identifier must be excluded
// from the crawl to avoid leaking sensitive data into the result graph.
//
// The filter screens discovered children only. The origin id is caller-trusted
// and exempt: a user asking to crawl from "secrets_manager" gets their crawl,
// but anything credential-shaped the crawl discovers is redacted.
//
// Design decision: The filter does not own the result buffers. Every skip is
// reported through the onSkip callback so that the crawl-scoped arena records
// the warning and the skipped path; silent drops are structurally impossible.
type PrivacyFilter struct {
	// patterns are the compiled case-insensitive skip patterns, applied in
	// configuration order.
	patterns []*regexp.Regexp

	// sources are the original pattern strings, index-aligned with patterns,
	// used in skip warnings.
	sources []string

	// onSkip is invoked exactly once per skipped identifier with the id and
	// the pattern that matched it.
	onSkip func(id, pattern string)
}

// NewPrivacyFilter creates a filter from the configuration's compiled
// patterns. The onSkip callback must not be nil; it is how skips become
// observable in the final result.
func NewPrivacyFilter(cfg *config.Config, onSkip func(id, pattern string)) *PrivacyFilter {
	return &PrivacyFilter{
		patterns: cfg.CompiledSkipPatterns(),
		sources:  cfg.SkipPatterns,
		onSkip:   onSkip,
	}
}

// ShouldSkip tests the candidate id against each configured pattern in order.
// On the first match it reports the skip through onSkip and returns true.
// It returns false if nothing matches.
func (f *PrivacyFilter) ShouldSkip(candidateID string) bool {
	lowered := strings.ToLower(candidateID)
	for i, pattern := range f.patterns {
		if pattern.MatchString(lowered) {
			f.onSkip(candidateID, f.sources[i])
			return true
		}
	}
	return false
}
