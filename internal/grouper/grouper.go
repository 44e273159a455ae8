// Package grouper buckets deduplicated records into candidate brand
// entities using normalized name + domain, then merges same-domain groups
// whose names are related.
package grouper

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/brandscout-cli/internal/model"
	"github.com/sells-group/brandscout-cli/internal/normalize"
)

// DefaultMinPrefix is the common-prefix length two normalized names must
// share for the domain-merge pass to consider them the same brand. A coarse
// heuristic: tunable, deliberately conservative.
const DefaultMinPrefix = 3

// Engine groups records into entity groups. It holds no state across calls;
// each Group invocation owns its output exclusively.
type Engine struct {
	norm      *normalize.Normalizer
	minPrefix int
}

// New creates a grouping engine. minPrefix <= 0 selects DefaultMinPrefix.
func New(norm *normalize.Normalizer, minPrefix int) *Engine {
	if minPrefix <= 0 {
		minPrefix = DefaultMinPrefix
	}
	return &Engine{norm: norm, minPrefix: minPrefix}
}

type groupKey struct {
	name   string
	domain string
}

// Group partitions records into entity groups. No record is lost except
// those whose normalized name comes back empty, which are dropped and
// logged. Output order follows first appearance of each group.
func (e *Engine) Group(records []model.RawRecord) []*model.EntityGroup {
	// Pass 1: exact (normalizedName, domain) bucketing in arrival order.
	buckets := make(map[groupKey]*model.EntityGroup)
	var order []groupKey

	dropped := 0
	for _, rec := range records {
		domain := normalize.Domain(rec.Website)
		name := e.norm.Normalize(rec.Name, rec.Website)
		if name == "" {
			dropped++
			zap.L().Debug("grouper: dropping record with empty normalized name",
				zap.String("name", rec.Name),
			)
			continue
		}

		key := groupKey{name: name, domain: domain}
		group, ok := buckets[key]
		if !ok {
			group = &model.EntityGroup{NormalizedName: name}
			buckets[key] = group
			order = append(order, key)
		}
		group.Add(rec)
	}

	merged := e.mergeByDomain(buckets, order)

	zap.L().Info("grouper: grouping complete",
		zap.Int("records", len(records)),
		zap.Int("dropped", dropped),
		zap.Int("groups", len(merged)),
	)

	return merged
}

// mergeByDomain is pass 2: groups sharing a non-empty domain merge into one
// when their normalized names are related. Groups without a domain carry
// insufficient signal and are never merged here.
func (e *Engine) mergeByDomain(buckets map[groupKey]*model.EntityGroup, order []groupKey) []*model.EntityGroup {
	byDomain := make(map[string][]groupKey)
	for _, key := range order {
		if key.domain != "" {
			byDomain[key.domain] = append(byDomain[key.domain], key)
		}
	}

	absorbed := make(map[groupKey]bool)
	for domain, keys := range byDomain {
		if len(keys) < 2 {
			continue
		}

		names := make([]string, len(keys))
		for i, key := range keys {
			names[i] = key.name
		}
		if !e.related(names) {
			// Conservative: a false merge is worse than a missed one.
			continue
		}

		base := buckets[keys[0]]
		for _, key := range keys[1:] {
			base.Absorb(buckets[key])
			absorbed[key] = true
		}
		zap.L().Debug("grouper: merged groups by domain",
			zap.String("domain", domain),
			zap.Strings("names", names),
		)
	}

	out := make([]*model.EntityGroup, 0, len(order)-len(absorbed))
	for _, key := range order {
		if !absorbed[key] {
			out = append(out, buckets[key])
		}
	}
	return out
}

// related reports whether every name shares at least minPrefix leading
// characters with the shortest name in the set.
func (e *Engine) related(names []string) bool {
	if len(names) < 2 {
		return true
	}

	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) < len(sorted[j]) })
	shortest := sorted[0]

	for _, name := range names {
		if commonPrefixLen(shortest, name) < e.minPrefix {
			return false
		}
	}
	return true
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
