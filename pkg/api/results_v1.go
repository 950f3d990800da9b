// pkg/api/results_v1.go
package api

// ResultsV1 is the stable JSON schema for a typing run's result table.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ResultsV1 struct {
	Loci    []string   `json:"loci"`
	Genomes []GenomeV1 `json:"genomes"`
}

// GenomeV1 is one row of ResultsV1. A locus without a match maps to null.
type GenomeV1 struct {
	GenomeID string          `json:"genome_id"`
	Alleles  map[string]*int `json:"alleles"`
	ST       string          `json:"st"`     // integer as text, or "NEW"
	Status   string          `json:"status"` // "resolved" | "novel" | "unresolved"
	Missing  []string        `json:"missing,omitempty"`
}

// AlleleCallV1 is one JSONL record of the per-(locus, genome) diagnostics.
type AlleleCallV1 struct {
	GenomeID string `json:"genome_id"`
	Locus    string `json:"locus"`
	Found    bool   `json:"found"`
	Allele   int    `json:"allele,omitempty"`

	LengthScore     int     `json:"length_score,omitempty"`
	PercentIdentity float64 `json:"pident,omitempty"`
	TopIdentity     string  `json:"top_identity_query,omitempty"`
	Disagree        bool    `json:"ls_identity_disagree,omitempty"`
	Hits            int     `json:"hits"`
	JobError        string  `json:"job_error,omitempty"`
}
