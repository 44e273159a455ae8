package model

import "time"

// RunStatus represents the state of a resolution run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunSummary tallies what happened at each stage of a resolution run.
type RunSummary struct {
	RawRecords     int `json:"raw_records"`
	MergedPlaces   int `json:"merged_places"`
	Groups         int `json:"groups"`
	Blocked        int `json:"blocked"`
	FallbackMerges int `json:"fallback_merges"`
	FallbackChains int `json:"fallback_chains"`
	Resolved       int `json:"resolved"`
	Qualified      int `json:"qualified"`
}

// Run records one resolution run for persistence and observability.
type Run struct {
	ID        string      `json:"id"`
	Source    string      `json:"source,omitempty"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
