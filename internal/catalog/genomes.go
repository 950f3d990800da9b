package catalog

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"mlst/internal/fasta"
)

// LoadGenomes loads every genome file in dir. The genome ID is the
// sanitized file stem; two files with the same ID are a fatal error.
// Files holding no records are skipped with a warning.
func LoadGenomes(dir string, log logrus.FieldLogger) ([]Genome, error) {
	log.Infof("Processing genome directory: %s", dir)
	files, err := ListFASTA(dir)
	if err != nil {
		return nil, fmt.Errorf("identify FASTA files in %s: %w", dir, err)
	}

	seen := make(map[string]string, len(files))
	var genomes []Genome
	for _, fn := range files {
		hs, err := fasta.ReadHeaders(fn)
		if err != nil {
			return nil, fmt.Errorf("read genome file: %w", err)
		}
		if len(hs) == 0 {
			log.WithField("file", fn).Warn("genome file holds no sequences; skipping")
			continue
		}
		id := SanitizeID(stem(fn))
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("genome %q from both %s and %s: %w", id, prev, fn, ErrDuplicateID)
		}
		seen[id] = fn
		genomes = append(genomes, Genome{ID: id, SequenceFile: fn})

		size := "?"
		if fi, err := os.Stat(fn); err == nil {
			size = humanize.Bytes(uint64(fi.Size()))
		}
		log.Infof("Loaded genome %s from %s (%d records, %s)", id, fn, len(hs), size)
	}
	if len(genomes) == 0 {
		return nil, fmt.Errorf("no genomes in %s: %w", dir, ErrNoInput)
	}

	sort.Slice(genomes, func(i, j int) bool { return genomes[i].ID < genomes[j].ID })
	log.Infof("Found %d genome sequences", len(genomes))
	return genomes, nil
}
