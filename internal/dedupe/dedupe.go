// Package dedupe collapses duplicate listings of the same physical store
// reported by more than one discovery source. It runs before grouping so
// the grouping engine never double-counts a location.
package dedupe

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/brandscout-cli/internal/model"
	"github.com/sells-group/brandscout-cli/internal/normalize"
)

// Deduplicator merges raw records describing the same physical location,
// selecting authoritative field values by source priority.
type Deduplicator struct {
	norm *normalize.Normalizer
}

// New creates a Deduplicator using the given normalizer for the
// name-based fallback key.
func New(norm *normalize.Normalizer) *Deduplicator {
	return &Deduplicator{norm: norm}
}

// Deduplicate merges records sharing a location key into one MergedPlace
// each. Output order follows first appearance of each key.
func (d *Deduplicator) Deduplicate(records []model.RawRecord) []model.MergedPlace {
	groups := make(map[string][]model.RawRecord)
	var order []string

	for _, rec := range records {
		key := d.key(rec)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	merged := make([]model.MergedPlace, 0, len(order))
	for _, key := range order {
		merged = append(merged, mergeGroup(groups[key]))
	}

	zap.L().Debug("dedupe: collapsed records",
		zap.Int("records", len(records)),
		zap.Int("places", len(merged)),
	)

	return merged
}

// key derives the deduplication key for one record. Records with both a
// website and a city key on domain|city; everything else falls back to
// normalizedName|city, a weaker but still deterministic signal.
func (d *Deduplicator) key(rec model.RawRecord) string {
	city := strings.ToLower(strings.TrimSpace(rec.City))

	if rec.Website != "" && city != "" {
		if domain := normalize.Domain(rec.Website); domain != "" {
			return domain + "|" + city
		}
	}

	return d.norm.Normalize(rec.Name, rec.Website) + "|" + city
}

// mergeGroup folds one key's records into a single MergedPlace. The
// highest-priority member supplies name, address, city, and vertical;
// website and external ID fall through to the first member that has one.
func mergeGroup(group []model.RawRecord) model.MergedPlace {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Source.Priority() < group[j].Source.Priority()
	})

	primary := group[0]

	var website, externalID string
	for _, rec := range group {
		if website == "" && rec.Website != "" {
			website = rec.Website
		}
		if externalID == "" && rec.ExternalID != "" {
			externalID = rec.ExternalID
		}
	}

	var sources []model.Source
	seen := make(map[model.Source]bool, len(group))
	for _, rec := range group {
		if !seen[rec.Source] {
			seen[rec.Source] = true
			sources = append(sources, rec.Source)
		}
	}

	confidence := 1.0
	if len(group) > 1 {
		confidence = 0.95
	}

	return model.MergedPlace{
		Name:       primary.Name,
		Address:    primary.Address,
		Website:    website,
		ExternalID: externalID,
		City:       primary.City,
		Vertical:   primary.Vertical,
		Sources:    sources,
		Confidence: confidence,
	}
}
