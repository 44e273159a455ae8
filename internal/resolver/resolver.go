// Package resolver wires the resolution stages together: cross-source
// deduplication, grouping, blocklist filtering, and the disambiguation
// fallback. The engine is pure, synchronous CPU work; only the fallback
// analyzer performs I/O.
package resolver

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/brandscout-cli/internal/blocklist"
	"github.com/sells-group/brandscout-cli/internal/dedupe"
	"github.com/sells-group/brandscout-cli/internal/disambig"
	"github.com/sells-group/brandscout-cli/internal/grouper"
	"github.com/sells-group/brandscout-cli/internal/model"
	"github.com/sells-group/brandscout-cli/internal/normalize"
	"github.com/sells-group/brandscout-cli/internal/registry"
)

// Options tunes one resolver instance.
type Options struct {
	MinLocations int // qualification band lower bound (default 3)
	MaxLocations int // qualification band upper bound (default 10)
	MinPrefix    int // domain-merge common-prefix length (default 3)

	// Redirects, when set, pre-resolves website redirects before
	// deduplication so vanity domains collapse.
	Redirects *normalize.RedirectResolver
}

// Resolver owns one configuration of the resolution engine. Registries are
// bound at construction; each Resolve call owns its groups exclusively, so
// a Resolver is safe for sequential reuse across batches.
type Resolver struct {
	norm     *normalize.Normalizer
	dedup    *dedupe.Deduplicator
	engine   *grouper.Engine
	checker  *blocklist.Checker
	analyzer disambig.Analyzer
	opts     Options

	titleCaser cases.Caser
}

// New creates a Resolver with the given registries and fallback analyzer.
// Pass disambig.NopAnalyzer to run deterministic-only.
func New(reg *registry.Registry, analyzer disambig.Analyzer, opts Options) *Resolver {
	if opts.MinLocations <= 0 {
		opts.MinLocations = 3
	}
	if opts.MaxLocations <= 0 {
		opts.MaxLocations = 10
	}
	if analyzer == nil {
		analyzer = disambig.NopAnalyzer{}
	}

	norm := normalize.New(reg.CityNames())
	return &Resolver{
		norm:       norm,
		dedup:      dedupe.New(norm),
		engine:     grouper.New(norm, opts.MinPrefix),
		checker:    blocklist.New(reg.Chains, norm),
		analyzer:   analyzer,
		opts:       opts,
		titleCaser: cases.Title(language.English),
	}
}

// Result is the outcome of one resolution run.
type Result struct {
	Entities []model.ResolvedEntity
	Summary  model.RunSummary
}

// Resolve runs the full pipeline over one record batch. It never fails:
// malformed records are dropped, a broken fallback degrades to the
// deterministic result, and empty registries simply filter less.
func (r *Resolver) Resolve(ctx context.Context, records []model.RawRecord) *Result {
	log := zap.L().With(zap.String("component", "resolver"))
	summary := model.RunSummary{RawRecords: len(records)}

	if r.opts.Redirects != nil {
		records = r.resolveRedirects(ctx, records)
	}

	// Collapse duplicate listings of the same physical store before
	// grouping so location counts are honest.
	places := r.dedup.Deduplicate(records)
	summary.MergedPlaces = len(places)

	deduped := make([]model.RawRecord, len(places))
	for i, p := range places {
		deduped[i] = p.Record()
	}

	groups := r.engine.Group(deduped)
	summary.Groups = len(groups)

	kept := groups[:0]
	for _, g := range groups {
		if r.checker.IsBlocked(g.NormalizedName) {
			summary.Blocked++
			log.Debug("dropping blocklisted chain", zap.String("name", g.NormalizedName))
			continue
		}
		kept = append(kept, g)
	}

	verdict := r.analyzer.Analyze(ctx, kept)
	kept = applyMerges(kept, verdict.Merges)
	summary.FallbackMerges = len(verdict.Merges)

	if len(verdict.LargeChains) > 0 {
		chains := make(map[string]bool, len(verdict.LargeChains))
		for _, name := range verdict.LargeChains {
			chains[name] = true
		}
		filtered := kept[:0]
		for _, g := range kept {
			if chains[g.NormalizedName] {
				summary.FallbackChains++
				log.Debug("dropping fallback-flagged chain", zap.String("name", g.NormalizedName))
				continue
			}
			filtered = append(filtered, g)
		}
		kept = filtered
	}

	entities := make([]model.ResolvedEntity, 0, len(kept))
	for _, g := range kept {
		qualified := g.LocationCount >= r.opts.MinLocations && g.LocationCount <= r.opts.MaxLocations
		if qualified {
			summary.Qualified++
		}
		entities = append(entities, model.ResolvedEntity{
			NormalizedName: g.NormalizedName,
			DisplayName:    r.titleCaser.String(g.NormalizedName),
			LocationCount:  g.LocationCount,
			Website:        g.Website,
			Cities:         g.Cities,
			Locations:      g.Locations,
			Qualified:      qualified,
		})
	}
	summary.Resolved = len(entities)

	log.Info("resolution complete",
		zap.Int("raw_records", summary.RawRecords),
		zap.Int("merged_places", summary.MergedPlaces),
		zap.Int("groups", summary.Groups),
		zap.Int("blocked", summary.Blocked),
		zap.Int("resolved", summary.Resolved),
		zap.Int("qualified", summary.Qualified),
	)

	return &Result{Entities: entities, Summary: summary}
}

// resolveRedirects rewrites record websites to their post-redirect URLs.
func (r *Resolver) resolveRedirects(ctx context.Context, records []model.RawRecord) []model.RawRecord {
	urls := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Website != "" {
			urls = append(urls, rec.Website)
		}
	}
	resolved := r.opts.Redirects.ResolveAll(ctx, urls)

	out := make([]model.RawRecord, len(records))
	for i, rec := range records {
		if final, ok := resolved[rec.Website]; ok {
			rec.Website = final
		}
		out[i] = rec
	}
	return out
}

// applyMerges folds each recommended merge set into its first member.
// Unknown names are skipped; a set needs at least two resolvable members
// to do anything.
func applyMerges(groups []*model.EntityGroup, merges [][]string) []*model.EntityGroup {
	if len(merges) == 0 {
		return groups
	}

	byName := make(map[string]*model.EntityGroup, len(groups))
	for _, g := range groups {
		byName[g.NormalizedName] = g
	}

	absorbed := make(map[string]bool)
	for _, set := range merges {
		var members []*model.EntityGroup
		for _, name := range set {
			if g, ok := byName[name]; ok && !absorbed[g.NormalizedName] {
				members = append(members, g)
			}
		}
		if len(members) < 2 {
			continue
		}

		base := members[0]
		for _, other := range members[1:] {
			base.Absorb(other)
			absorbed[other.NormalizedName] = true
		}
	}

	out := groups[:0]
	for _, g := range groups {
		if !absorbed[g.NormalizedName] {
			out = append(out, g)
		}
	}
	return out
}
