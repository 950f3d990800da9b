// internal/output/json.go
package output

import (
	"io"

	"mlst/internal/allele"
	"mlst/internal/jsonutil"
	"mlst/internal/report"
	"mlst/pkg/api"
)

// ToAPIResults converts a result table to the stable wire schema (v1).
func ToAPIResults(t *report.Table) api.ResultsV1 {
	v := api.ResultsV1{
		Loci:    append([]string(nil), t.Loci...),
		Genomes: make([]api.GenomeV1, 0, len(t.Rows)),
	}
	for _, r := range t.Rows {
		g := api.GenomeV1{
			GenomeID: r.GenomeID,
			Alleles:  make(map[string]*int, len(r.Alleles)),
			ST:       r.Call.String(),
			Status:   r.Call.Kind.String(),
			Missing:  append([]string(nil), r.Call.Missing...),
		}
		for i, m := range r.Alleles {
			g.Alleles[t.Loci[i]] = alleleRef(m)
		}
		v.Genomes = append(v.Genomes, g)
	}
	return v
}

func alleleRef(m allele.Match) *int {
	if !m.Found {
		return nil
	}
	n := m.Allele
	return &n
}

// WriteJSON writes t as indented JSON.
func WriteJSON(w io.Writer, t *report.Table) error {
	return jsonutil.EncodePretty(w, ToAPIResults(t))
}

// ToAPICall converts one selection outcome to its diagnostics record.
func ToAPICall(m allele.Match, sel allele.Selection, hits int, jobErr error) api.AlleleCallV1 {
	v := api.AlleleCallV1{
		GenomeID: m.GenomeID,
		Locus:    m.Locus,
		Found:    m.Found,
		Hits:     hits,
	}
	if m.Found {
		v.Allele = m.Allele
		v.LengthScore = sel.Best.LengthScore
		v.PercentIdentity = sel.Best.PercentIdentity
		v.Disagree = sel.Disagree()
		if v.Disagree {
			v.TopIdentity = sel.TopIdentity.QueryID
		}
	}
	if jobErr != nil {
		v.JobError = jobErr.Error()
	}
	return v
}
