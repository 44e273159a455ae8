// Package ingest reads raw listing records from discovery exports. The
// discovery connectors themselves live upstream; this is the inbound
// boundary for the CLI.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/brandscout-cli/internal/model"
)

// Read loads records from a file, dispatching on extension: .csv or .json.
func Read(path string) ([]model.RawRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".json":
		return ReadJSON(path)
	default:
		return nil, eris.Errorf("ingest: unsupported input format %q", filepath.Ext(path))
	}
}

// ReadJSON loads records from a JSON array of record objects.
func ReadJSON(path string) ([]model.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", path)
	}

	var records []model.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "ingest: parse %s", path)
	}
	return records, nil
}

// ReadCSV loads records from a CSV export with a header row. Column order
// is free; headers are matched case-insensitively. Rows without a name are
// skipped, not errors.
func ReadCSV(path string) ([]model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	return parseCSV(f)
}

// csvColumns maps recognized header names onto record fields.
var csvColumns = map[string]string{
	"name":        "name",
	"address":     "address",
	"website":     "website",
	"url":         "website",
	"external_id": "external_id",
	"externalid":  "external_id",
	"place_id":    "external_id",
	"city":        "city",
	"vertical":    "vertical",
	"category":    "vertical",
	"source":      "source",
}

func parseCSV(r io.Reader) ([]model.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}

	colIdx := make(map[string]int)
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		if field, ok := csvColumns[key]; ok {
			if _, dup := colIdx[field]; !dup {
				colIdx[field] = i
			}
		}
	}
	if _, ok := colIdx["name"]; !ok {
		return nil, eris.New("ingest: csv has no name column")
	}

	var records []model.RawRecord
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}

		get := func(field string) string {
			idx, ok := colIdx[field]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		name := get("name")
		if name == "" {
			skipped++
			continue
		}

		records = append(records, model.RawRecord{
			Name:       name,
			Address:    get("address"),
			Website:    get("website"),
			ExternalID: get("external_id"),
			City:       get("city"),
			Vertical:   get("vertical"),
			Source:     model.Source(get("source")),
		})
	}

	if skipped > 0 {
		zap.L().Debug("ingest: skipped rows without a name", zap.Int("skipped", skipped))
	}

	return records, nil
}
