// Package export writes resolved entities to the formats the qualification
// collaborators consume: CSV, XLSX, and JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/brandscout-cli/internal/model"
)

// header is the column layout shared by the CSV and XLSX exports.
var header = []string{"name", "normalized_name", "locations", "website", "cities", "qualified"}

// WriteCSV writes entities as CSV to w.
func WriteCSV(w io.Writer, entities []model.ResolvedEntity) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, e := range entities {
		if err := cw.Write(entityRow(e)); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteCSVFile writes entities as CSV to path.
func WriteCSVFile(path string, entities []model.ResolvedEntity) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()
	return WriteCSV(f, entities)
}

// WriteXLSX writes entities as a single-sheet workbook to path.
func WriteXLSX(path string, entities []model.ResolvedEntity) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Resolved Brands")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	row := sheet.AddRow()
	for _, col := range header {
		row.AddCell().Value = col
	}
	for _, e := range entities {
		row := sheet.AddRow()
		for _, val := range entityRow(e) {
			row.AddCell().Value = val
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

// WriteJSON writes entities as indented JSON to w.
func WriteJSON(w io.Writer, entities []model.ResolvedEntity) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(entities), "export: write json")
}

func entityRow(e model.ResolvedEntity) []string {
	return []string{
		e.DisplayName,
		e.NormalizedName,
		strconv.Itoa(e.LocationCount),
		e.Website,
		strings.Join(e.Cities, "; "),
		strconv.FormatBool(e.Qualified),
	}
}
