// internal/appcore/assign.go
package appcore

import (
	"github.com/sirupsen/logrus"

	"mlst/internal/allele"
	"mlst/internal/catalog"
	"mlst/internal/output"
	"mlst/internal/pipeline"
	"mlst/internal/profile"
	"mlst/internal/report"
	"mlst/pkg/api"
)

// Typed is the per-genome outcome of Assign.
type Typed struct {
	Rows          []report.Row
	Calls         []api.AlleleCallV1 // genome-major, loci in order
	Disagreements int
}

// Assign picks one allele per (genome, locus) from res and resolves each
// genome's combination against tbl. loci must be sorted.
func Assign(loci []string, genomes []catalog.Genome, tbl *profile.Table, res *pipeline.Results, log logrus.FieldLogger) Typed {
	jobErrs := make(map[pipeline.Key]error)
	for _, o := range res.Outcomes {
		if o.Err != nil {
			jobErrs[pipeline.KeyOf(o.Job)] = o.Err
		}
	}

	out := Typed{
		Rows:  make([]report.Row, 0, len(genomes)),
		Calls: make([]api.AlleleCallV1, 0, len(genomes)*len(loci)),
	}
	for _, g := range genomes {
		matches := make(map[string]allele.Match, len(loci))
		for _, l := range loci {
			hits, _ := res.Lookup(g.ID, l)
			m, sel := allele.Pick(l, g.ID, hits, log)
			if sel.Disagree() {
				out.Disagreements++
			}
			matches[l] = m
			jobErr := jobErrs[pipeline.Key{GenomeID: g.ID, Locus: l}]
			out.Calls = append(out.Calls, output.ToAPICall(m, sel, len(hits), jobErr))
		}

		call := tbl.Resolve(matches)
		log.WithField("genome", g.ID).Infof("Allele combination %s: ST %s", call.Key, call)
		out.Rows = append(out.Rows, report.MakeRow(g.ID, loci, matches, call))
	}
	return out
}
