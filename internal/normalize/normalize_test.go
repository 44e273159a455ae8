package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_SeparatorSplit(t *testing.T) {
	n := New(nil)

	assert.Equal(t, "healthy planet", n.Normalize("Healthy Planet - Yonge & Dundas", ""))
	assert.Equal(t, "healthy planet", n.Normalize("Healthy Planet | Queen Street", ""))
	assert.Equal(t, "brand", n.Normalize("Brand @ The Mall", ""))
	assert.Equal(t, "brand", n.Normalize("Brand at Union Station", ""))
	assert.Equal(t, "brand", n.Normalize("Brand: Flagship", ""))
}

func TestNormalize_DashVariants(t *testing.T) {
	n := New(nil)

	// En and em dashes split the same way a plain hyphen does.
	assert.Equal(t, "brand", n.Normalize("Brand – Queen Street", ""))
	assert.Equal(t, "brand", n.Normalize("Brand — Main St Location", ""))
	assert.Equal(t, "healthy planet", n.Normalize("Healthy Planet – Yonge & Dundas", ""))
}

func TestNormalize_LegalSuffixes(t *testing.T) {
	n := New(nil)

	assert.Equal(t, "acme", n.Normalize("Acme Inc", ""))
	assert.Equal(t, "acme", n.Normalize("Acme Inc.", ""))
	assert.Equal(t, "acme", n.Normalize("Acme Co Ltd", ""))
	assert.Equal(t, "acme widgets", n.Normalize("Acme Widgets Company", ""))
}

func TestNormalize_StoreTypes(t *testing.T) {
	n := New(nil)

	assert.Equal(t, "nike", n.Normalize("Nike Store", ""))
	assert.Equal(t, "levis", n.Normalize("Levis Factory Outlet", ""))
	assert.Equal(t, "corner", n.Normalize("Corner Boutique", ""))
	// A long match blocked by the floor falls through to a shorter one.
	assert.Equal(t, "a factory", n.Normalize("A Factory Outlet", ""))
}

func TestNormalize_LocationWords(t *testing.T) {
	n := New(nil)

	assert.Equal(t, "healthy planet", n.Normalize("Healthy Planet Downtown", ""))
	assert.Equal(t, "running room", n.Normalize("Running Room East", ""))
	// Multiple trailing location words strip one at a time.
	assert.Equal(t, "sleep country", n.Normalize("Sleep Country Plaza East", ""))
}

func TestNormalize_CityStrip(t *testing.T) {
	n := New([]string{"Toronto", "Vancouver"})

	assert.Equal(t, "healthy planet", n.Normalize("Healthy Planet Toronto", ""))
	// Unknown trailing word is kept.
	assert.Equal(t, "healthy planet kingston", n.Normalize("Healthy Planet Kingston", ""))
}

func TestNormalize_ProtectedByDomain(t *testing.T) {
	n := New([]string{"york"})

	// "york" is part of the brand's own domain, so it is never stripped.
	assert.Equal(t, "shoes york", n.Normalize("Shoes York", "https://www.shoes-york.com"))
	// Without the hint the city is stripped.
	assert.Equal(t, "shoes", n.Normalize("Shoes York", ""))
}

func TestNormalize_StoreNumbers(t *testing.T) {
	n := New(nil)

	assert.Equal(t, "subway", n.Normalize("Subway #2041", ""))
	assert.Equal(t, "subway", n.Normalize("Subway 2041", ""))
}

func TestNormalize_SafetyFloor(t *testing.T) {
	n := New(nil)

	// Stripping would leave fewer than 3 chars, so the lower-cased original
	// is returned instead.
	assert.Equal(t, "co company", n.Normalize("Co Company", ""))
	// Inputs already shorter than 3 chars pass through lower-cased.
	assert.Equal(t, "bo", n.Normalize("Bo", ""))

	for _, name := range []string{"A1", "Gap Store", "X - Y", "#99"} {
		got := n.Normalize(name, "")
		lowered := strings.ToLower(strings.TrimSpace(name))
		assert.True(t, len(got) >= 3 || len(got) == len(lowered),
			"normalize(%q) = %q violates the length floor", name, got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := New([]string{"toronto"})

	for _, name := range []string{
		"Healthy Planet Downtown",
		"Nike Store",
		"Acme Widgets Inc",
		"The Running Room",
		"Thing Toronto",
	} {
		once := n.Normalize(name, "")
		twice := n.Normalize(once, "")
		assert.Equal(t, once, twice, "normalize not stable for %q", name)
	}
}

func TestNormalize_Empty(t *testing.T) {
	n := New(nil)

	assert.Equal(t, "", n.Normalize("", ""))
	assert.Equal(t, "", n.Normalize("   ", ""))
}

func TestDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.example.com/path", "example"},
		{"http://example.com", "example"},
		{"example.com", "example"},
		{"www.healthyplanet.ca", "healthyplanet"},
		{"https://shop.brand.co.uk", "shop"},
		{"https://example.com:8080/x", "example"},
		{"", ""},
		{"://bad url\x7f", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Domain(tt.url), "url %q", tt.url)
	}
}
