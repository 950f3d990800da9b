package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"mlst/internal/fasta"
)

// ReadLocus reads one reference allele file. The locus is named after the
// first record's ID.
func ReadLocus(path string) (Locus, error) {
	hs, err := fasta.ReadHeaders(path)
	if err != nil {
		return Locus{}, err
	}
	if len(hs) == 0 || hs[0].ID == "" {
		return Locus{}, fmt.Errorf("%s: %w", path, ErrEmptyInput)
	}
	return Locus{
		Name:          LocusName(hs[0].ID),
		ReferenceFile: path,
		AlleleCount:   len(hs),
	}, nil
}

// LoadLoci loads every locus file in dir. Empty files are logged and
// skipped; an unreadable file, a repeated locus name or an empty result is
// fatal. Loci are returned sorted by name.
func LoadLoci(dir string, log logrus.FieldLogger) ([]Locus, error) {
	log.Infof("Processing allele directory: %s", dir)
	files, err := ListFASTA(dir)
	if err != nil {
		return nil, fmt.Errorf("identify FASTA files in %s: %w", dir, err)
	}

	seen := make(map[string]string, len(files))
	var loci []Locus
	for _, fn := range files {
		l, err := ReadLocus(fn)
		if errors.Is(err, ErrEmptyInput) {
			log.WithField("file", fn).Warn("locus file holds no sequences; skipping")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read locus file: %w", err)
		}
		if prev, dup := seen[l.Name]; dup {
			return nil, fmt.Errorf("locus %q in both %s and %s: %w", l.Name, prev, fn, ErrDuplicateID)
		}
		seen[l.Name] = fn
		loci = append(loci, l)
		log.Infof("Loaded %d alleles for %s from %s", l.AlleleCount, l.Name, fn)
	}
	if len(loci) == 0 {
		return nil, fmt.Errorf("no loci in %s: %w", dir, ErrNoInput)
	}

	sort.Slice(loci, func(i, j int) bool { return loci[i].Name < loci[j].Name })
	log.Infof("Found sequences for %d loci", len(loci))
	return loci, nil
}

// Names returns the locus names in slice order.
func Names(loci []Locus) []string {
	out := make([]string, len(loci))
	for i, l := range loci {
		out[i] = l.Name
	}
	return out
}
