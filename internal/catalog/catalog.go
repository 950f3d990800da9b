// Package catalog enumerates the two input directories of a typing run:
// one FASTA file of reference alleles per locus, and one FASTA file per
// subject genome.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mlst/internal/fasta"
)

var (
	// ErrNotFound is returned when an input directory does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmptyInput marks a FASTA file holding zero records.
	ErrEmptyInput = errors.New("no sequences")
	// ErrDuplicateID is returned when two files map to the same locus or genome.
	ErrDuplicateID = errors.New("duplicate identifier")
	// ErrNoInput is returned when a directory yields nothing usable.
	ErrNoInput = errors.New("nothing loaded")
)

// Locus is one typed gene position and the file holding its reference alleles.
type Locus struct {
	Name          string
	ReferenceFile string
	AlleleCount   int
}

// Genome is one subject assembly.
type Genome struct {
	ID           string
	SequenceFile string
}

// ListFASTA returns the regular files in dir whose extension is a FASTA
// extension, sorted by name.
func ListFASTA(dir string) ([]string, error) {
	st, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("directory %s: %w", dir, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !fasta.IsFASTA(e.Name()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		// os.Stat follows symlinks, so linked assemblies are accepted.
		fi, err := os.Stat(p)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// LocusName derives a locus name from an allele record ID of the form
// <locus>_<allele_number>. IDs without a numeric suffix are returned as is.
func LocusName(alleleID string) string {
	i := strings.LastIndexByte(alleleID, '_')
	if i <= 0 || i == len(alleleID)-1 {
		return alleleID
	}
	for _, c := range alleleID[i+1:] {
		if c < '0' || c > '9' {
			return alleleID
		}
	}
	return alleleID[:i]
}

// SanitizeID turns a file stem into a genome identifier.
func SanitizeID(stem string) string {
	return strings.NewReplacer("|", "_", " ", "_").Replace(stem)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
