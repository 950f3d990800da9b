// Package profile maps allele combinations to sequence types using a
// PubMLST-style profile table.
package profile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/sirupsen/logrus"
)

const (
	// STColumn names the sequence-type column of a profile table.
	STColumn = "ST"
	// MissingAllele stands in for a locus without a match in a combination key.
	MissingAllele = "NA"
)

// DefaultIgnored lists profile columns that are neither loci nor ST.
var DefaultIgnored = []string{"clonal_complex"}

// ErrMalformed is returned for a profile table that cannot be used.
var ErrMalformed = errors.New("malformed profile table")

// Table is a loaded profile table. It is read-only after Load.
type Table struct {
	loci  []string
	byKey map[string]int
}

// Load reads the tab-separated profile table at path.
func Load(path string, ignore []string, log logrus.FieldLogger) (*Table, error) {
	log.Infof("Loading MLST profiles from %s", path)
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile table: %w", err)
	}
	defer fh.Close()
	t, err := Read(fh, ignore, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses a profile table: a header naming the loci (any order), an ST
// column and optionally ignored columns, then one row per combination. A
// header with no rows yields an empty Table.
func Read(r io.Reader, ignore []string, log logrus.FieldLogger) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read profile table: %w", err)
	}
	names, hasRows, err := header(data)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]bool, len(ignore))
	for _, c := range ignore {
		skip[c] = true
	}
	stIdx := -1
	col := make(map[string]int, len(names))
	var loci []string
	for i, n := range names {
		col[n] = i
		switch {
		case n == STColumn:
			stIdx = i
		case skip[n]:
		default:
			loci = append(loci, n)
		}
	}
	if stIdx < 0 {
		return nil, fmt.Errorf("%w: no %q column", ErrMalformed, STColumn)
	}
	if len(loci) == 0 {
		return nil, fmt.Errorf("%w: no locus columns", ErrMalformed)
	}
	sort.Strings(loci)
	log.Infof("Gene order: %s", strings.Join(loci, ","))

	t := &Table{loci: loci, byKey: make(map[string]int)}
	if hasRows {
		df := dataframe.ReadCSV(bytes.NewReader(data),
			dataframe.WithDelimiter('\t'),
			dataframe.HasHeader(true),
			dataframe.DetectTypes(false),
			dataframe.DefaultType(series.String),
			dataframe.NaNValues(nil),
		)
		if df.Err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, df.Err)
		}
		recs := df.Records()
		for i, rec := range recs[1:] {
			st, err := strconv.Atoi(strings.TrimSpace(rec[stIdx]))
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: ST %q is not an integer", ErrMalformed, i+2, rec[stIdx])
			}
			alleles := make([]string, len(loci))
			for k, l := range loci {
				alleles[k] = strings.TrimSpace(rec[col[l]])
			}
			key := strings.Join(alleles, ",")
			if prev, dup := t.byKey[key]; dup && prev != st {
				log.Warnf("profile %s listed as ST %d and ST %d; keeping ST %d", key, prev, st, st)
			}
			t.byKey[key] = st
		}
	}
	if len(t.byKey) == 0 {
		log.Warn("profile table lists no allele combinations")
	}
	log.Infof("Loaded %d MLST profiles", len(t.byKey))
	return t, nil
}

// header returns the column names of a tab-separated table and whether a
// data row follows them. Column names must be unique.
func header(data []byte) (names []string, hasRows bool, err error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	names, err = cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, fmt.Errorf("%w: no header", ErrMalformed)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return nil, false, fmt.Errorf("%w: duplicate column %q", ErrMalformed, n)
		}
		seen[n] = true
	}
	// Errors in the rows are reported by the full parse.
	_, err = cr.Read()
	return names, !errors.Is(err, io.EOF), nil
}

// Loci returns the locus names in key order (ascending).
func (t *Table) Loci() []string { return append([]string(nil), t.loci...) }

// Len returns the number of distinct allele combinations.
func (t *Table) Len() int { return len(t.byKey) }

// Lookup returns the sequence type registered for key.
func (t *Table) Lookup(key string) (int, bool) {
	st, ok := t.byKey[key]
	return st, ok
}

// Compare splits the table's loci against the loci that have reference
// files: loci only in the profile, and loci only among the references.
func (t *Table) Compare(reference []string) (profileOnly, referenceOnly []string) {
	inRef := make(map[string]bool, len(reference))
	for _, l := range reference {
		inRef[l] = true
	}
	inProfile := make(map[string]bool, len(t.loci))
	for _, l := range t.loci {
		inProfile[l] = true
		if !inRef[l] {
			profileOnly = append(profileOnly, l)
		}
	}
	for _, l := range reference {
		if !inProfile[l] {
			referenceOnly = append(referenceOnly, l)
		}
	}
	sort.Strings(referenceOnly)
	return profileOnly, referenceOnly
}
