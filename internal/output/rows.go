// internal/output/rows.go
package output

import (
	"strconv"

	"mlst/internal/report"
)

// Records flattens t into string rows, header first. missing is written for
// loci without a match.
func Records(t *report.Table, missing string) [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Columns())
	for _, r := range t.Rows {
		out = append(out, Record(r, missing))
	}
	return out
}

// Record renders one row: genome, allele numbers, ST.
func Record(r report.Row, missing string) []string {
	rec := make([]string, 0, len(r.Alleles)+2)
	rec = append(rec, r.GenomeID)
	for _, m := range r.Alleles {
		if m.Found {
			rec = append(rec, strconv.Itoa(m.Allele))
		} else {
			rec = append(rec, missing)
		}
	}
	return append(rec, r.Call.String())
}
