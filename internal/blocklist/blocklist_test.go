package blocklist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/brandscout-cli/internal/normalize"
)

func newChecker(entries ...string) *Checker {
	return New(entries, normalize.New(nil))
}

func TestIsBlocked_ExactMatch(t *testing.T) {
	c := newChecker("nike", "starbucks")

	assert.True(t, c.IsBlocked("nike"))
	assert.True(t, c.IsBlocked("Starbucks"))
	assert.False(t, c.IsBlocked("local roasters"))
}

func TestIsBlocked_PrefixBoundary(t *testing.T) {
	c := newChecker("nike")

	assert.True(t, c.IsBlocked("nike store"))
	assert.True(t, c.IsBlocked("nike's outlet"))
	assert.True(t, c.IsBlocked("nike downtown"))

	// Letters continuing past the entry must not match.
	assert.False(t, c.IsBlocked("nikesha's boutique"))
	assert.False(t, c.IsBlocked("nikeland"))
}

func TestIsBlocked_RawNamesNormalizedFirst(t *testing.T) {
	c := newChecker("sleep country")

	assert.True(t, c.IsBlocked("Sleep Country - Yonge Street"))
	assert.True(t, c.IsBlocked("Sleep Country #114"))
}

func TestIsBlocked_EmptyBlocklist(t *testing.T) {
	c := newChecker()

	assert.False(t, c.IsBlocked("nike"))
	assert.False(t, c.IsBlocked("anything at all"))
}
