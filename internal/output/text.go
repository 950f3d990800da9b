// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"mlst/internal/report"
)

// WriteText renders t as a space-aligned table for terminals.
func WriteText(w io.Writer, t *report.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rec := range Records(t, TextNA) {
		if _, err := fmt.Fprintln(tw, strings.Join(rec, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
