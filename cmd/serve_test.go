package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/brandscout-cli/internal/disambig"
	"github.com/sells-group/brandscout-cli/internal/model"
	"github.com/sells-group/brandscout-cli/internal/registry"
	"github.com/sells-group/brandscout-cli/internal/resolver"
	"github.com/sells-group/brandscout-cli/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	reg, err := registry.Load("")
	require.NoError(t, err)
	res := resolver.New(reg, disambig.NopAnalyzer{}, resolver.Options{MinLocations: 2})

	return newRouter(st, res)
}

func TestServer_Health(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Resolve(t *testing.T) {
	router := newTestRouter(t)

	body := map[string]any{
		"records": []model.RawRecord{
			{Name: "Healthy Planet Toronto", City: "Toronto", Website: "https://healthyplanet.ca", Source: "search-api"},
			{Name: "Healthy Planet - Ottawa East", City: "Ottawa", Website: "https://healthyplanet.ca", Source: "web-crawl"},
		},
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/resolve", bytes.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		RunID    string                 `json:"run_id"`
		Summary  model.RunSummary       `json:"summary"`
		Entities []model.ResolvedEntity `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 2, resp.Summary.RawRecords)
	require.Len(t, resp.Entities, 1)
	assert.Equal(t, 2, resp.Entities[0].LocationCount)
	assert.True(t, resp.Entities[0].Qualified)

	// The run is persisted and its entities retrievable.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/"+resp.RunID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var run model.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.Equal(t, "api", run.Source)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/"+resp.RunID+"/entities", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entities []model.ResolvedEntity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entities))
	require.Len(t, entities, 1)
	assert.Equal(t, 2, entities[0].LocationCount)
}

func TestServer_Resolve_BadRequest(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/resolve", bytes.NewReader([]byte("not json"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/resolve", bytes.NewReader([]byte(`{"records":[]}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Runs_Empty(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Run_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/nonexistent", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
