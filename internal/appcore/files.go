// internal/appcore/files.go
package appcore

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"mlst/internal/output"
	"mlst/internal/report"
	"mlst/internal/writers"
	"mlst/pkg/api"
)

// writeResults writes one results file per writer and returns the paths
// written. It keeps going past a failed format and returns the first error.
func writeResults(dir string, t *report.Table, ws []writers.Writer) ([]string, error) {
	var written []string
	var first error
	for _, w := range ws {
		path := filepath.Join(dir, output.ResultsBase+"."+w.Ext)
		err := writeFile(path, func(out io.Writer) error { return w.Write(out, t) })
		if err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		written = append(written, path)
	}
	return written, first
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := fill(bw); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// writeCalls streams calls to path as JSON lines.
func writeCalls(path string, calls []api.AlleleCallV1) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	in, done := writers.StartCallsJSONLWriter(f, 64)
	for _, c := range calls {
		select {
		case in <- c:
		case err := <-done:
			close(in)
			_ = f.Close()
			return err
		}
	}
	close(in)
	if err := <-done; err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
