package profile

import (
	"strconv"
	"strings"

	"mlst/internal/allele"
)

// NewST is printed for any genome without a known sequence type.
const NewST = "NEW"

// Kind tags a Call.
type Kind int

const (
	// Unresolved means at least one locus had no matching allele.
	Unresolved Kind = iota
	// Resolved means the combination is in the profile table.
	Resolved
	// Novel means every locus matched but the combination is unknown.
	Novel
)

func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case Novel:
		return "novel"
	default:
		return "unresolved"
	}
}

// Call is the sequence-type assignment for one genome.
type Call struct {
	Kind    Kind
	ST      int      // set when Kind == Resolved
	Missing []string // loci without a match when Kind == Unresolved
	Key     string   // combination key in table locus order
}

// String renders the ST column value: the number, or NewST.
func (c Call) String() string {
	if c.Kind == Resolved {
		return strconv.Itoa(c.ST)
	}
	return NewST
}

// Key builds the combination key for matches (indexed by locus) in the
// table's locus order, writing MissingAllele for absent loci.
func (t *Table) Key(matches map[string]allele.Match) (key string, missing []string) {
	parts := make([]string, len(t.loci))
	for i, l := range t.loci {
		m, ok := matches[l]
		if !ok || !m.Found {
			parts[i] = MissingAllele
			missing = append(missing, l)
			continue
		}
		parts[i] = strconv.Itoa(m.Allele)
	}
	return strings.Join(parts, ","), missing
}

// Resolve classifies one genome by exact key lookup.
func (t *Table) Resolve(matches map[string]allele.Match) Call {
	key, missing := t.Key(matches)
	if len(missing) > 0 {
		return Call{Kind: Unresolved, Missing: missing, Key: key}
	}
	if st, ok := t.byKey[key]; ok {
		return Call{Kind: Resolved, ST: st, Key: key}
	}
	return Call{Kind: Novel, Key: key}
}
