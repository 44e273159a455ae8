// Package normalize turns raw business names and URLs into canonical
// grouping keys. Normalization is a pure function of the name plus an
// optional website hint; it never inspects other records.
package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

// separators split a name into "brand" and "location qualifier" parts.
// Only the text before the first matching separator is kept, so
// "Brand - Main St Location" normalizes to "Brand". En and em dashes are
// checked first so they are not shadowed by the plain hyphen.
var separators = []string{" – ", " — ", " - ", " @ ", " at ", " | ", ": "}

// legalSuffixes are trailing legal-entity tokens stripped during
// normalization. Compared with trailing periods removed.
var legalSuffixes = map[string]bool{
	"inc": true, "llc": true, "ltd": true,
	"corp": true, "co": true, "company": true,
}

// storeTypes are trailing store-type words or phrases stripped during
// normalization, matched longest first.
var storeTypes = []string{
	"factory outlet",
	"superstore",
	"megastore",
	"clearance",
	"warehouse",
	"boutique",
	"express",
	"factory",
	"outlet",
	"store",
	"shop",
}

// locationWords are trailing cardinal and street-furniture words stripped
// during normalization unless protected by the domain hint.
var locationWords = map[string]bool{
	"downtown": true, "uptown": true, "midtown": true,
	"east": true, "west": true, "north": true, "south": true,
	"street": true, "st": true, "ave": true, "avenue": true,
	"blvd": true, "boulevard": true, "road": true, "rd": true,
	"plaza": true, "mall": true, "centre": true, "center": true,
	"square": true, "park": true,
}

// storeNumberRe matches a trailing store number, optionally prefixed with #.
var storeNumberRe = regexp.MustCompile(`\s*#?\d+$`)

// minNameLen is the floor below which stripping stops: no step may reduce
// the name under 3 characters unless the input was already shorter.
const minNameLen = 3

// Normalizer derives canonical brand names. The city set comes from the
// caller's registry; an empty set is a valid reduced-precision mode.
type Normalizer struct {
	cities map[string]bool
}

// New creates a Normalizer with the given known city names.
func New(cities []string) *Normalizer {
	set := make(map[string]bool, len(cities))
	for _, c := range cities {
		set[strings.ToLower(c)] = true
	}
	return &Normalizer{cities: set}
}

// Normalize applies the layered name normalization. website is an optional
// hint: tokens appearing in the site's domain are protected from stripping,
// so a brand genuinely named after a location keeps its name. Never fails;
// worst case returns the lower-cased trimmed input.
func (n *Normalizer) Normalize(name, website string) string {
	original := strings.TrimSpace(name)
	if original == "" {
		return ""
	}
	if len(original) < minNameLen {
		return strings.ToLower(original)
	}

	result := original

	// Layer 1: split on separators, keep the first part.
	for _, sep := range separators {
		if idx := strings.Index(result, sep); idx >= 0 {
			result = strings.TrimSpace(result[:idx])
			break
		}
	}

	result = strings.ToLower(result)

	// Tokens from the domain are never stripped in later layers.
	protected := protectedWords(Domain(website))

	// Layer 2: strip trailing legal suffixes.
	words := strings.Fields(result)
	for len(words) > 0 && legalSuffixes[strings.TrimRight(words[len(words)-1], ".")] {
		words = words[:len(words)-1]
	}
	result = strings.Join(words, " ")

	// Layer 3: strip one trailing store type, longest match first. A match
	// rejected by the floor does not stop the scan; a shorter store type
	// may still strip cleanly.
	for _, st := range storeTypes {
		if strings.HasSuffix(result, " "+st) {
			candidate := strings.TrimSpace(result[:len(result)-len(st)-1])
			if len(candidate) >= minNameLen {
				result = candidate
				break
			}
		}
	}

	// Layer 4: strip trailing location words unless protected.
	words = strings.Fields(result)
	for len(words) > 0 {
		last := words[len(words)-1]
		if !locationWords[last] || protected[last] {
			break
		}
		candidate := strings.Join(words[:len(words)-1], " ")
		if len(candidate) < minNameLen {
			break
		}
		words = words[:len(words)-1]
		result = candidate
	}

	// Layer 5: strip a trailing city name unless protected.
	words = strings.Fields(result)
	if len(words) > 0 {
		last := words[len(words)-1]
		if n.cities[last] && !protected[last] {
			candidate := strings.Join(words[:len(words)-1], " ")
			if len(candidate) >= minNameLen {
				result = candidate
			}
		}
	}

	// Layer 6: strip a trailing store number.
	result = strings.TrimSpace(storeNumberRe.ReplaceAllString(result, ""))

	// Safety floor: stripping must never leave fewer than 3 characters.
	if len(result) < minNameLen {
		result = strings.ToLower(original)
	}

	return strings.TrimSpace(result)
}

// protectedWords tokenizes a domain label into the word set that
// normalization must not strip.
func protectedWords(domain string) map[string]bool {
	if domain == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ReplaceAll(domain, "-", " ")) {
		set[w] = true
	}
	return set
}

// Domain extracts a comparable site identity from a URL or bare domain:
// the first label before the top-level domain, lower-cased, with any
// leading www. removed ("https://www.example.com/path" -> "example").
// Returns "" on unparseable input; never fails.
func Domain(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := u.Host
	if host == "" {
		host, _, _ = strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	}
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return ""
	}

	// Strip any port.
	if idx := strings.IndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}

	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return parts[0]
	}
	return host
}
