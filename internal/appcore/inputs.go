// internal/appcore/inputs.go
package appcore

import (
	"github.com/sirupsen/logrus"

	"mlst/internal/catalog"
	"mlst/internal/profile"
)

type inputs struct {
	loci    []catalog.Locus
	genomes []catalog.Genome
	profile *profile.Table
}

// loadInputs reads the three inputs and warns about loci known to only one
// of the reference directory and the profile table.
func loadInputs(o Options, log logrus.FieldLogger) (inputs, error) {
	var in inputs
	var err error
	if in.loci, err = catalog.LoadLoci(o.AllelesDir, log); err != nil {
		return in, err
	}
	if in.genomes, err = catalog.LoadGenomes(o.GenomesDir, log); err != nil {
		return in, err
	}
	if in.profile, err = profile.Load(o.ProfilePath, o.IgnoreColumns, log); err != nil {
		return in, err
	}

	profileOnly, referenceOnly := in.profile.Compare(catalog.Names(in.loci))
	for _, l := range profileOnly {
		log.WithField("locus", l).Warnf("Profile locus has no reference file in %s; every genome will be NEW", o.AllelesDir)
	}
	for _, l := range referenceOnly {
		log.WithField("locus", l).Warn("Reference locus is not a profile column; it is typed but ignored for ST")
	}
	return in, nil
}
