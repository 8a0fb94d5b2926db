package facts

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// exportPageSize bounds how many rows are pulled per store query.
const exportPageSize = 500

// ExportXLSX writes the full fact dataset to an xlsx workbook for curation
// review. Returns the number of exported rows.
func ExportXLSX(ctx context.Context, store Store, path string) (int, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("food_facts")
	if err != nil {
		return 0, eris.Wrap(err, "facts: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"name", "calories", "protein", "carbs", "fat", "unit_weight", "provenance", "created_at"} {
		header.AddCell().Value = h
	}

	total := 0
	for offset := 0; ; offset += exportPageSize {
		entries, err := store.List(ctx, exportPageSize, offset)
		if err != nil {
			return total, eris.Wrap(err, "facts: list for export")
		}
		if len(entries) == 0 {
			break
		}

		for _, e := range entries {
			row := sheet.AddRow()
			row.AddCell().Value = e.Name
			row.AddCell().SetInt(e.Calories)
			row.AddCell().SetInt(e.Protein)
			row.AddCell().SetInt(e.Carbs)
			row.AddCell().SetInt(e.Fat)
			row.AddCell().SetInt(e.UnitWeight)
			row.AddCell().Value = string(e.Provenance)
			row.AddCell().Value = e.CreatedAt.UTC().Format("2006-01-02 15:04:05")
		}
		total += len(entries)

		if len(entries) < exportPageSize {
			break
		}
	}

	if err := file.Save(path); err != nil {
		return total, eris.Wrapf(err, "facts: save %s", path)
	}
	return total, nil
}
