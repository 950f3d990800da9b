// Package allele picks the reference allele that best explains a genome's
// alignment hits for one locus.
//
// The rule follows Larsen et al. (2012): the hit with the lowest length
// score (qlen - length + gaps) wins, ties going to higher percent identity.
// The highest-identity hit is tracked separately and only used to flag
// disagreements.
package allele

import (
	"github.com/sirupsen/logrus"

	"mlst/internal/blast"
)

// Match is the outcome for one (locus, genome) pair. Found is false when no
// qualifying hit exists.
type Match struct {
	Locus    string
	GenomeID string
	Allele   int
	Found    bool
}

// Choice is one scored candidate.
type Choice struct {
	Allele          int
	QueryID         string
	LengthScore     int
	PercentIdentity float64
}

// Selection is the result of scoring one hit list.
type Selection struct {
	Best        Choice // lowest length score; always the reported allele
	TopIdentity Choice // highest percent identity; diagnostic only
	Found       bool
}

// Disagree reports whether the two criteria point at different alleles.
func (s Selection) Disagree() bool {
	return s.Found && s.Best.Allele != s.TopIdentity.Allele
}

// Match converts s to the Match for (locus, genomeID).
func (s Selection) Match(locus, genomeID string) Match {
	return Match{Locus: locus, GenomeID: genomeID, Allele: s.Best.Allele, Found: s.Found}
}

// Select scores hits. It has no side effects and is deterministic for a
// given hit order: on full ties the earlier hit is kept.
func Select(hits []blast.Hit) Selection {
	var sel Selection
	for i, h := range hits {
		c := Choice{
			Allele:          h.Allele,
			QueryID:         h.QueryID,
			LengthScore:     h.LengthScore(),
			PercentIdentity: h.PercentIdentity,
		}
		if i == 0 {
			sel = Selection{Best: c, TopIdentity: c, Found: true}
			continue
		}
		if c.PercentIdentity > sel.TopIdentity.PercentIdentity {
			sel.TopIdentity = c
		}
		if c.LengthScore < sel.Best.LengthScore ||
			(c.LengthScore == sel.Best.LengthScore && c.PercentIdentity > sel.Best.PercentIdentity) {
			sel.Best = c
		}
	}
	return sel
}

// Pick runs Select for one (locus, genome) pair and logs a warning when the
// length-score and identity criteria disagree. The result is unaffected by
// the warning.
func Pick(locus, genomeID string, hits []blast.Hit, log logrus.FieldLogger) (Match, Selection) {
	sel := Select(hits)
	if sel.Disagree() {
		log.WithFields(logrus.Fields{
			"locus":  locus,
			"genome": genomeID,
		}).Warnf("different alleles identified by LS and %%ID: best LS %s (LS=%d, %%ID=%.2f), best %%ID %s (LS=%d, %%ID=%.2f)",
			sel.Best.QueryID, sel.Best.LengthScore, sel.Best.PercentIdentity,
			sel.TopIdentity.QueryID, sel.TopIdentity.LengthScore, sel.TopIdentity.PercentIdentity)
	}
	return sel.Match(locus, genomeID), sel
}
