// internal/writers/delimited.go
package writers

import (
	"encoding/csv"
	"io"

	"mlst/internal/output"
	"mlst/internal/report"
)

func init() {
	Register(output.FormatCSV, "csv", writeDelimited(','))
	Register(output.FormatTab, "tab", writeDelimited('\t'))
	Register(output.FormatTSV, "tsv", writeDelimited('\t'))
}

func writeDelimited(comma rune) func(io.Writer, *report.Table) error {
	return func(w io.Writer, t *report.Table) error {
		cw := csv.NewWriter(w)
		cw.Comma = comma
		if err := cw.WriteAll(output.Records(t, output.EmptyCell)); err != nil {
			if IsBrokenPipe(err) {
				return nil
			}
			return err
		}
		return nil
	}
}
