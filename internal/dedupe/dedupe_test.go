package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/brandscout-cli/internal/model"
	"github.com/sells-group/brandscout-cli/internal/normalize"
)

func newDedup() *Deduplicator {
	return New(normalize.New(nil))
}

func TestDeduplicate_CrossSourceMerge(t *testing.T) {
	d := newDedup()

	records := []model.RawRecord{
		{
			Name:    "Healthy Planet",
			Website: "https://www.healthyplanet.ca",
			City:    "Toronto",
			Source:  model.SourceBrandSiteScrape,
		},
		{
			Name:       "Healthy Planet - Yonge",
			Website:    "healthyplanet.ca",
			ExternalID: "abc123",
			City:       "Toronto",
			Source:     model.SourceSearchAPI,
		},
	}

	merged := d.Deduplicate(records)
	require.Len(t, merged, 1)

	place := merged[0]
	// Highest-priority source supplies the display fields.
	assert.Equal(t, "Healthy Planet - Yonge", place.Name)
	assert.Equal(t, "abc123", place.ExternalID)
	assert.Equal(t, 0.95, place.Confidence)
	assert.ElementsMatch(t,
		[]model.Source{model.SourceSearchAPI, model.SourceBrandSiteScrape},
		place.Sources,
	)
}

func TestDeduplicate_ExternalIDFallsThrough(t *testing.T) {
	d := newDedup()

	// The top-priority record has no external ID; the lower one supplies it.
	records := []model.RawRecord{
		{Name: "Store", Website: "store.com", City: "Ottawa", Source: model.SourceSearchAPI},
		{Name: "Store", Website: "store.com", ExternalID: "xyz", City: "Ottawa", Source: model.SourceWebCrawl},
	}

	merged := d.Deduplicate(records)
	require.Len(t, merged, 1)
	assert.Equal(t, "xyz", merged[0].ExternalID)
}

func TestDeduplicate_NameFallbackKey(t *testing.T) {
	d := newDedup()

	// No websites: records merge on normalized name + city.
	records := []model.RawRecord{
		{Name: "Corner Shop", City: "Halifax", Source: model.SourceWebCrawl},
		{Name: "Corner Store", City: "Halifax", Source: model.SourceSearchAPI},
		{Name: "Corner Shop", City: "Sydney", Source: model.SourceWebCrawl},
	}

	merged := d.Deduplicate(records)
	assert.Len(t, merged, 2)
}

func TestDeduplicate_Singleton(t *testing.T) {
	d := newDedup()

	merged := d.Deduplicate([]model.RawRecord{
		{Name: "Solo Store", City: "Calgary", Source: model.SourceWebCrawl},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, 1.0, merged[0].Confidence)
	assert.Len(t, merged[0].Sources, 1)
}

func TestDeduplicate_ConfidenceInvariant(t *testing.T) {
	d := newDedup()

	records := []model.RawRecord{
		{Name: "A Store", Website: "a.com", City: "X", Source: model.SourceSearchAPI},
		{Name: "A Store", Website: "a.com", City: "X", Source: model.SourceWebCrawl},
		{Name: "B Store", City: "Y", Source: model.SourceWebCrawl},
		{Name: "C Store", Website: "c.com", City: "Z", Source: model.SourceBrandSiteScrape},
	}

	for _, place := range d.Deduplicate(records) {
		if place.Confidence < 1.0 {
			assert.GreaterOrEqual(t, len(place.Sources), 2)
		}
	}
}

func TestDeduplicate_Empty(t *testing.T) {
	d := newDedup()
	assert.Empty(t, d.Deduplicate(nil))
}
