package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/brandscout-cli/internal/model"
)

func TestParseCSV(t *testing.T) {
	csv := `name,website,city,source,external_id
Healthy Planet,healthyplanet.ca,Toronto,search-api,abc123
,missing.ca,Toronto,search-api,
Quiet Cafe,,Halifax,web-crawl,
`
	records, err := parseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Healthy Planet", records[0].Name)
	assert.Equal(t, "abc123", records[0].ExternalID)
	assert.Equal(t, model.SourceSearchAPI, records[0].Source)
	assert.Equal(t, "Quiet Cafe", records[1].Name)
	assert.Equal(t, model.SourceWebCrawl, records[1].Source)
}

func TestParseCSV_AliasHeaders(t *testing.T) {
	csv := `Name,URL,City,Category,place_id
Store,store.com,Ottawa,retail,p1
`
	records, err := parseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "store.com", records[0].Website)
	assert.Equal(t, "retail", records[0].Vertical)
	assert.Equal(t, "p1", records[0].ExternalID)
}

func TestParseCSV_NoNameColumn(t *testing.T) {
	_, err := parseCSV(strings.NewReader("website,city\na.com,X\n"))
	assert.Error(t, err)
}

func TestReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	content := `[
  {"name": "Healthy Planet", "website": "healthyplanet.ca", "city": "Toronto", "source": "search-api"},
  {"name": "Quiet Cafe", "city": "Halifax", "source": "web-crawl"}
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := ReadJSON(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.SourceSearchAPI, records[0].Source)
}

func TestRead_UnsupportedExtension(t *testing.T) {
	_, err := Read("records.xml")
	assert.Error(t, err)
}
