// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extensions lists the file suffixes treated as FASTA (matched case-insensitively).
var Extensions = []string{".fasta", ".fas", ".fna", ".fa"}

// IsFASTA reports whether name carries one of Extensions.
func IsFASTA(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Header is the identifying part of one FASTA record.
type Header struct {
	ID   string // first whitespace-delimited token after '>'
	Desc string // remainder of the header line, trimmed
}

// ReadHeaders returns the headers of every record in path, in file order.
// Sequence lines are skipped without being retained.
func ReadHeaders(path string) ([]Header, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return ScanHeaders(fh)
}

// ScanHeaders is ReadHeaders over an arbitrary reader.
func ScanHeaders(rd io.Reader) ([]Header, error) {
	r := bufio.NewReaderSize(rd, 64<<10)
	var out []Header
	for {
		line, err := r.ReadBytes('\n')
		eof := err == io.EOF
		if err != nil && !eof {
			return nil, err
		}
		line = bytes.TrimRight(line, "\r\n")
		if len(line) > 0 && line[0] == '>' {
			out = append(out, parseHeader(string(line[1:])))
		}
		if eof {
			break
		}
	}
	return out, nil
}

func parseHeader(s string) Header {
	f := strings.Fields(s)
	if len(f) == 0 {
		return Header{}
	}
	return Header{
		ID:   f[0],
		Desc: strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), f[0])),
	}
}
