// Package model defines the value types flowing through the resolution engine.
package model

// Source identifies the discovery channel that produced a raw listing.
type Source string

const (
	SourceSearchAPI       Source = "search-api"
	SourceBrandSiteScrape Source = "brand-site-scrape"
	SourceWebCrawl        Source = "web-crawl"
)

// Priority returns the merge priority of a source; lower wins. The search
// API carries the cleanest field values, brand-site scrapes next, everything
// else last.
func (s Source) Priority() int {
	switch s {
	case SourceSearchAPI:
		return 0
	case SourceBrandSiteScrape:
		return 1
	default:
		return 2
	}
}

// RawRecord is one business listing exactly as reported by one discovery
// source. Only Name is required; every other field may be empty. Records are
// never mutated once produced.
type RawRecord struct {
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	Website    string `json:"website,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	City       string `json:"city,omitempty"`
	Vertical   string `json:"vertical,omitempty"`
	Source     Source `json:"source"`
}

// MergedPlace is one physical location after collapsing duplicate reports
// across sources. Confidence is 1.0 when exactly one source reported the
// location and 0.95 when two or more did.
type MergedPlace struct {
	Name       string   `json:"name"`
	Address    string   `json:"address,omitempty"`
	Website    string   `json:"website,omitempty"`
	ExternalID string   `json:"external_id,omitempty"`
	City       string   `json:"city,omitempty"`
	Vertical   string   `json:"vertical,omitempty"`
	Sources    []Source `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// Record converts a merged place back into the record shape the grouping
// engine consumes, tagged with the highest-priority source that reported it.
func (m MergedPlace) Record() RawRecord {
	src := Source("")
	for _, s := range m.Sources {
		if src == "" || s.Priority() < src.Priority() {
			src = s
		}
	}
	return RawRecord{
		Name:       m.Name,
		Address:    m.Address,
		Website:    m.Website,
		ExternalID: m.ExternalID,
		City:       m.City,
		Vertical:   m.Vertical,
		Source:     src,
	}
}
