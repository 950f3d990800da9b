// internal/writers/xlsx.go
package writers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"mlst/internal/output"
	"mlst/internal/profile"
	"mlst/internal/report"
)

// SheetName names the single worksheet of the spreadsheet output.
const SheetName = "MLST"

func init() {
	for _, f := range []string{output.FormatExcel, output.FormatXLSX, output.FormatXLS} {
		Register(f, "xlsx", WriteXLSX)
	}
}

// WriteXLSX writes t as a one-sheet workbook. Allele numbers and resolved
// STs are stored as numbers; missing cells are left blank.
func WriteXLSX(w io.Writer, t *report.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	header := make([]interface{}, 0, len(t.Loci)+2)
	for _, c := range t.Columns() {
		header = append(header, c)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, r := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := xlsxRow(r)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func xlsxRow(r report.Row) []interface{} {
	row := make([]interface{}, 0, len(r.Alleles)+2)
	row = append(row, r.GenomeID)
	for _, m := range r.Alleles {
		if m.Found {
			row = append(row, m.Allele)
		} else {
			row = append(row, nil)
		}
	}
	if r.Call.Kind == profile.Resolved {
		return append(row, r.Call.ST)
	}
	return append(row, r.Call.String())
}
