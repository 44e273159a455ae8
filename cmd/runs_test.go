package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/brandscout-cli/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:        "0b5fa1f2-1111-2222-3333-444455556666",
			Source:    "listings.csv",
			Status:    model.RunStatusComplete,
			Summary:   &model.RunSummary{Resolved: 12, Qualified: 4},
			CreatedAt: now,
			UpdatedAt: now.Add(3 * time.Second),
		},
		{
			ID:        "aaaabbbb-1111-2222-3333-444455556666",
			Source:    "a-very-long-input-file-name-that-overflows.json",
			Status:    model.RunStatusRunning,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)
	out := buf.String()

	assert.Contains(t, out, "0b5fa1f2")
	assert.NotContains(t, out, "0b5fa1f2-1111")
	assert.Contains(t, out, "listings.csv")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "...")
	// Runs without a summary show placeholders.
	assert.Contains(t, out, "-")
}

func TestFormatEntitiesList(t *testing.T) {
	entities := []model.ResolvedEntity{
		{
			DisplayName:   "Healthy Planet",
			LocationCount: 3,
			Website:       "https://healthyplanet.ca",
			Cities:        []string{"Toronto", "Ottawa"},
			Qualified:     true,
		},
		{
			DisplayName:   "Quiet Cafe",
			LocationCount: 1,
		},
	}

	var buf bytes.Buffer
	formatEntitiesList(&buf, entities)
	out := buf.String()

	assert.Contains(t, out, "Healthy Planet")
	assert.Contains(t, out, "https://healthyplanet.ca")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "Quiet Cafe")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "12345678", truncateID("123456789abcdef"))
	assert.Equal(t, "short", truncateID("short"))
}
