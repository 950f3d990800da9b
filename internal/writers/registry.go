// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"mlst/internal/report"
)

// Writer renders a result table. Ext is the file extension, without the
// dot, of the results file the format produces.
type Writer struct {
	Format string
	Ext    string
	Write  func(w io.Writer, t *report.Table) error
}

var registry = map[string]Writer{}

// Register adds or replaces the writer for format (last wins).
func Register(format, ext string, fn func(io.Writer, *report.Table) error) {
	format = strings.ToLower(format)
	registry[format] = Writer{Format: format, Ext: ext, Write: fn}
}

// Lookup returns the writer registered for format.
func Lookup(format string) (Writer, bool) {
	w, ok := registry[strings.ToLower(strings.TrimSpace(format))]
	return w, ok
}

// Formats lists the registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParseFormats resolves requested format names to writers in request
// order. Aliases sharing an extension collapse to the first one named.
// Names with no registered writer are returned in unknown.
func ParseFormats(names []string) (ws []Writer, unknown []string) {
	seen := map[string]bool{}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		w, ok := registry[n]
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		if seen[w.Ext] {
			continue
		}
		seen[w.Ext] = true
		ws = append(ws, w)
	}
	return ws, unknown
}

// WriteTable dispatches to the writer registered for format.
func WriteTable(format string, w io.Writer, t *report.Table) error {
	wr, ok := Lookup(format)
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return wr.Write(w, t)
}
