package grouper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/brandscout-cli/internal/model"
	"github.com/sells-group/brandscout-cli/internal/normalize"
)

func newEngine() *Engine {
	return New(normalize.New([]string{"Toronto", "Vancouver"}), 0)
}

func TestGroup_LocationSuffixVariants(t *testing.T) {
	e := newEngine()

	records := []model.RawRecord{
		{Name: "Healthy Planet - Yonge & Dundas", Website: "https://www.healthyplanet.ca", City: "Toronto", Source: model.SourceSearchAPI},
		{Name: "Healthy Planet - Queen Street", Website: "https://www.healthyplanet.ca", City: "Toronto", Source: model.SourceSearchAPI},
		{Name: "Healthy Planet Downtown", Website: "https://www.healthyplanet.ca", City: "Toronto", Source: model.SourceWebCrawl},
	}

	groups := e.Group(records)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "healthy planet", g.NormalizedName)
	assert.Equal(t, 3, g.LocationCount)
	assert.Len(t, g.Locations, 3)
	assert.Len(t, g.OriginalNames, 3)
	assert.Equal(t, "https://www.healthyplanet.ca", g.Website)
	assert.Equal(t, []string{"Toronto"}, g.Cities)
}

func TestGroup_DistinctDomainsStaySeparate(t *testing.T) {
	e := newEngine()

	// Same name, unrelated domains: name alone is not enough to merge.
	records := []model.RawRecord{
		{Name: "The Running Room", Website: "https://runningroom.com", City: "Toronto", Source: model.SourceSearchAPI},
		{Name: "The Running Room", Website: "https://fitgear.ca", City: "Vancouver", Source: model.SourceSearchAPI},
	}

	groups := e.Group(records)
	assert.Len(t, groups, 2)
}

func TestGroup_DomainMergeRelatedNames(t *testing.T) {
	e := newEngine()

	// Same domain, name variants sharing a prefix with the shortest.
	records := []model.RawRecord{
		{Name: "Oak & Fort", Website: "oakandfort.ca", City: "Toronto", Source: model.SourceSearchAPI},
		{Name: "Oak & Fort Outlet Vancouver", Website: "oakandfort.ca", City: "Vancouver", Source: model.SourceWebCrawl},
	}

	groups := e.Group(records)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].LocationCount)
	assert.ElementsMatch(t, []string{"Toronto", "Vancouver"}, groups[0].Cities)
}

func TestGroup_DomainMergeUnrelatedNamesKeptSeparate(t *testing.T) {
	e := newEngine()

	// Same domain but unrelated names (e.g. a marketplace hosting two
	// brands): conservative, no merge.
	records := []model.RawRecord{
		{Name: "Alpha Goods", Website: "https://marketplace.com/alpha", City: "Toronto", Source: model.SourceSearchAPI},
		{Name: "Zeta Supply", Website: "https://marketplace.com/zeta", City: "Toronto", Source: model.SourceSearchAPI},
	}

	groups := e.Group(records)
	assert.Len(t, groups, 2)
}

func TestGroup_EmptyDomainsNeverMerge(t *testing.T) {
	e := newEngine()

	records := []model.RawRecord{
		{Name: "Fresh Co", City: "Toronto", Source: model.SourceWebCrawl},
		{Name: "Fresh Cat Supplies", City: "Toronto", Source: model.SourceWebCrawl},
	}

	groups := e.Group(records)
	assert.Len(t, groups, 2)
}

func TestGroup_DropsEmptyNormalizedNames(t *testing.T) {
	e := newEngine()

	records := []model.RawRecord{
		{Name: "", City: "Toronto", Source: model.SourceWebCrawl},
		{Name: "Real Store", Website: "real.com", City: "Toronto", Source: model.SourceSearchAPI},
	}

	groups := e.Group(records)
	require.Len(t, groups, 1)
	assert.Equal(t, "real", groups[0].NormalizedName)
}

func TestGroup_NoRecordLost(t *testing.T) {
	e := newEngine()

	records := []model.RawRecord{
		{Name: "A Store", Website: "astore.com", City: "X", Source: model.SourceSearchAPI},
		{Name: "A Store Downtown", Website: "astore.com", City: "Y", Source: model.SourceWebCrawl},
		{Name: "B Boutique", Website: "bboutique.com", City: "X", Source: model.SourceSearchAPI},
		{Name: "C Shop", City: "Z", Source: model.SourceWebCrawl},
	}

	groups := e.Group(records)

	total := 0
	for _, g := range groups {
		assert.Equal(t, g.LocationCount, len(g.Locations))
		total += g.LocationCount
	}
	assert.Equal(t, len(records), total)
}
