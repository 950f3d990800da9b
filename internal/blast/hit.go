// Package blast is the boundary to the external nucleotide aligner. It
// builds the command line for one query/subject pair, runs it, and parses
// the tabular output into Hits. Nothing outside this package touches the
// aligner's files.
package blast

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// OutFormat is the tabular layout requested from the aligner. ParseHits
// depends on this exact column order.
const OutFormat = "6 qseqid sseqid pident qlen length gaps mismatch"

const hitColumns = 7

// ErrMalformedHit marks an output row that does not follow OutFormat.
var ErrMalformedHit = errors.New("malformed alignment row")

// Hit is one row of aligner output.
type Hit struct {
	QueryID         string
	SubjectID       string
	PercentIdentity float64
	QueryLength     int
	AlignmentLength int
	Gaps            int
	Mismatches      int
	Allele          int // recovered from QueryID
}

// LengthScore is qlen - length + gaps. Lower means a more complete, less
// gapped match to the full reference allele.
func (h Hit) LengthScore() int {
	return h.QueryLength - h.AlignmentLength + h.Gaps
}

// AlleleNumber returns the integer after the last underscore of an allele
// record ID such as "adk_12".
func AlleleNumber(queryID string) (int, error) {
	i := strings.LastIndexByte(queryID, '_')
	if i < 0 || i == len(queryID)-1 {
		return 0, fmt.Errorf("%w: query %q has no _<allele> suffix", ErrMalformedHit, queryID)
	}
	n, err := strconv.Atoi(queryID[i+1:])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: query %q has non-numeric allele %q", ErrMalformedHit, queryID, queryID[i+1:])
	}
	return n, nil
}

// ParseHits reads headerless tab-separated rows in OutFormat order. Blank
// lines and '#' comment lines are ignored. Any bad row fails the whole
// parse.
func ParseHits(r io.Reader) ([]Hit, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var hits []Hit
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return hits, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedHit, err)
		}
		line, _ := cr.FieldPos(0)
		h, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		hits = append(hits, h)
	}
}

func parseRow(rec []string) (Hit, error) {
	if len(rec) != hitColumns {
		return Hit{}, fmt.Errorf("%w: want %d columns, got %d", ErrMalformedHit, hitColumns, len(rec))
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	h := Hit{QueryID: rec[0], SubjectID: rec[1]}

	var err error
	if h.PercentIdentity, err = strconv.ParseFloat(rec[2], 64); err != nil {
		return Hit{}, fmt.Errorf("%w: pident %q", ErrMalformedHit, rec[2])
	}
	ints := []*int{&h.QueryLength, &h.AlignmentLength, &h.Gaps, &h.Mismatches}
	for i, dst := range ints {
		v, err := strconv.Atoi(rec[3+i])
		if err != nil {
			return Hit{}, fmt.Errorf("%w: column %d %q", ErrMalformedHit, 4+i, rec[3+i])
		}
		*dst = v
	}
	if h.Allele, err = AlleleNumber(h.QueryID); err != nil {
		return Hit{}, err
	}
	return h, nil
}
