// Package blocklist flags brand names matching the known-large-chain
// registry.
package blocklist

import (
	"strings"

	"github.com/sells-group/brandscout-cli/internal/normalize"
)

// Checker tests normalized brand names against a configured set of known
// large chains. An empty blocklist is a valid reduced-precision mode: the
// checker simply blocks nothing.
type Checker struct {
	entries map[string]bool
	norm    *normalize.Normalizer
}

// New creates a Checker from the configured chain names. Entries are
// normalized with the same rules as incoming names so the two sides compare
// on equal footing.
func New(entries []string, norm *normalize.Normalizer) *Checker {
	set := make(map[string]bool, len(entries))
	for _, e := range entries {
		if n := norm.Normalize(e, ""); n != "" {
			set[n] = true
		}
	}
	return &Checker{entries: set, norm: norm}
}

// IsBlocked reports whether the name matches a blocklist entry. Besides the
// exact match, a name is blocked when it starts with an entry followed by a
// space or "'s " — "nike store" and "nike's outlet" match the entry "nike",
// but "nikesha's boutique" does not.
func (c *Checker) IsBlocked(name string) bool {
	if len(c.entries) == 0 {
		return false
	}

	normalized := c.norm.Normalize(name, "")
	if c.entries[normalized] {
		return true
	}

	for entry := range c.entries {
		// Padding the name with a trailing space makes the boundary check
		// also cover a bare possessive left over after suffix stripping
		// ("nike's outlet" normalizes to "nike's").
		padded := normalized + " "
		if strings.HasPrefix(padded, entry+" ") || strings.HasPrefix(padded, entry+"'s ") {
			return true
		}
	}

	return false
}
