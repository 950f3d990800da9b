// Package report assembles the genome x locus result table and the run
// summary. It holds no algorithm beyond ordering.
package report

import (
	"sort"

	"mlst/internal/allele"
	"mlst/internal/profile"
)

// GenomeColumn heads the row-label column.
const GenomeColumn = "genome"

// Row is one genome's allele numbers, in Table.Loci order, and its call.
type Row struct {
	GenomeID string
	Alleles  []allele.Match
	Call     profile.Call
}

// Table is the final result table.
type Table struct {
	Loci []string
	Rows []Row
}

// New builds a Table over loci, sorted ascending, and sorts rows so that
// genomes sharing an allele combination are adjacent. Each row's Alleles
// are given in the order of loci and are reordered with them.
func New(loci []string, rows []Row) *Table {
	order := make([]int, len(loci))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return loci[order[a]] < loci[order[b]] })

	t := &Table{
		Loci: make([]string, len(loci)),
		Rows: make([]Row, len(rows)),
	}
	for i, k := range order {
		t.Loci[i] = loci[k]
	}
	for i, r := range rows {
		if len(r.Alleles) == len(loci) {
			alleles := make([]allele.Match, len(loci))
			for j, k := range order {
				alleles[j] = r.Alleles[k]
			}
			r.Alleles = alleles
		}
		t.Rows[i] = r
	}
	t.Sort()
	return t
}

// Columns returns the header: genome, the loci, then ST.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(t.Loci)+2)
	cols = append(cols, GenomeColumn)
	cols = append(cols, t.Loci...)
	return append(cols, profile.STColumn)
}

// Sort orders rows by allele number per locus column (missing last), then
// by genome ID.
func (t *Table) Sort() {
	sort.SliceStable(t.Rows, func(i, j int) bool { return lessRow(t.Rows[i], t.Rows[j]) })
}

func lessRow(a, b Row) bool {
	for k := 0; k < len(a.Alleles) && k < len(b.Alleles); k++ {
		x, y := a.Alleles[k], b.Alleles[k]
		if x.Found != y.Found {
			return x.Found
		}
		if x.Found && x.Allele != y.Allele {
			return x.Allele < y.Allele
		}
	}
	return a.GenomeID < b.GenomeID
}

// MakeRow lays matches (indexed by locus) out in loci order. Absent loci
// become not-found matches.
func MakeRow(genomeID string, loci []string, matches map[string]allele.Match, call profile.Call) Row {
	r := Row{GenomeID: genomeID, Alleles: make([]allele.Match, len(loci)), Call: call}
	for i, l := range loci {
		m, ok := matches[l]
		if !ok {
			m = allele.Match{Locus: l, GenomeID: genomeID}
		}
		r.Alleles[i] = m
	}
	return r
}
