package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlst/internal/allele"
)

// Columns deliberately out of order: the key order must still be sorted.
const table = "ST\txyz\tabc\tclonal_complex\n" +
	"10\t7\t2\tCC1\n" +
	"11\t7\t1\t\n" +
	"12\t3\t2\tCC1\n"

func load(t *testing.T, data string) *Table {
	t.Helper()
	log, _ := test.NewNullLogger()
	tb, err := Read(strings.NewReader(data), DefaultIgnored, log)
	require.NoError(t, err)
	return tb
}

func matches(pairs ...any) map[string]allele.Match {
	m := map[string]allele.Match{}
	for i := 0; i < len(pairs); i += 2 {
		locus := pairs[i].(string)
		if n, ok := pairs[i+1].(int); ok {
			m[locus] = allele.Match{Locus: locus, GenomeID: "G", Allele: n, Found: true}
		} else {
			m[locus] = allele.Match{Locus: locus, GenomeID: "G"}
		}
	}
	return m
}

func TestRead(t *testing.T) {
	tb := load(t, table)
	assert.Equal(t, []string{"abc", "xyz"}, tb.Loci())
	assert.Equal(t, 3, tb.Len())

	st, ok := tb.Lookup("2,7")
	require.True(t, ok)
	assert.Equal(t, 10, st)
	_, ok = tb.Lookup("7,2")
	assert.False(t, ok, "keys follow sorted locus order, not file order")
}

func TestResolve_Known(t *testing.T) {
	tb := load(t, table)
	c := tb.Resolve(matches("abc", 2, "xyz", 7))
	assert.Equal(t, Resolved, c.Kind)
	assert.Equal(t, 10, c.ST)
	assert.Equal(t, "10", c.String())
	assert.Equal(t, "2,7", c.Key)
}

func TestResolve_MissingLocusIsNew(t *testing.T) {
	tb := load(t, table)
	c := tb.Resolve(matches("abc", 2, "xyz", nil))
	assert.Equal(t, Unresolved, c.Kind)
	assert.Equal(t, []string{"xyz"}, c.Missing)
	assert.Equal(t, "2,NA", c.Key)
	assert.Equal(t, NewST, c.String())

	c = tb.Resolve(matches("abc", 2))
	assert.Equal(t, Unresolved, c.Kind)
	assert.Equal(t, []string{"xyz"}, c.Missing)
}

func TestResolve_UnknownCombinationIsNovel(t *testing.T) {
	tb := load(t, table)
	c := tb.Resolve(matches("abc", 9, "xyz", 7))
	assert.Equal(t, Novel, c.Kind)
	assert.Equal(t, "NEW", c.String())
}

func TestResolve_ExactMatchOnly(t *testing.T) {
	tb := load(t, "abc\txyz\tST\n02\t7\t5\n")
	assert.Equal(t, Novel, tb.Resolve(matches("abc", 2, "xyz", 7)).Kind)
}

func TestRead_ExtraReferenceLocusIgnoredByKey(t *testing.T) {
	tb := load(t, table)
	c := tb.Resolve(matches("abc", 1, "xyz", 7, "pta", 4))
	assert.Equal(t, Resolved, c.Kind)
	assert.Equal(t, 11, c.ST)
}

func TestRead_CustomIgnore(t *testing.T) {
	log, _ := test.NewNullLogger()
	tb, err := Read(strings.NewReader("abc\tspecies\tST\n1\tE.coli\t3\n"), []string{"species"}, log)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, tb.Loci())
}

func TestRead_DuplicateCombinationWarns(t *testing.T) {
	log, hook := test.NewNullLogger()
	tb, err := Read(strings.NewReader("abc\tST\n1\t3\n1\t4\n"), nil, log)
	require.NoError(t, err)
	st, _ := tb.Lookup("1")
	assert.Equal(t, 4, st)
	var warned bool
	for _, e := range hook.AllEntries() {
		if strings.Contains(e.Message, "ST 3 and ST 4") {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestRead_Malformed(t *testing.T) {
	log, _ := test.NewNullLogger()
	cases := map[string]string{
		"empty":      "",
		"blank":      "\n\n",
		"no ST":      "abc\txyz\n1\t2\n",
		"dup column": "ST\tabc\tabc\n1\t2\t3\n",
		"only ST":    "ST\tclonal_complex\n1\tCC\n",
		"non-int ST": "abc\tST\n1\tten\n",
		"ragged row": "abc\txyz\tST\n1\t2\n",
	}
	for name, data := range cases {
		_, err := Read(strings.NewReader(data), DefaultIgnored, log)
		assert.ErrorIs(t, err, ErrMalformed, name)
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	log, hook := test.NewNullLogger()
	tb, err := Read(strings.NewReader("ST\txyz\tabc\n"), nil, log)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "xyz"}, tb.Loci())
	assert.Zero(t, tb.Len())

	c := tb.Resolve(matches("abc", 1, "xyz", 2))
	assert.Equal(t, Novel, c.Kind)
	assert.Equal(t, NewST, c.String())

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Message == "profile table lists no allele combinations" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestRead_DuplicateColumn(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := Read(strings.NewReader("ST\tabc\tabc\n1\t2\t3\n"), nil, log)
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), `duplicate column "abc"`)
}

func TestLoad_File(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "profiles.tsv")
	require.NoError(t, os.WriteFile(fn, []byte(table), 0o644))
	log, _ := test.NewNullLogger()

	tb, err := Load(fn, DefaultIgnored, log)
	require.NoError(t, err)
	assert.Equal(t, 3, tb.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.tsv"), DefaultIgnored, log)
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	tb := load(t, table)
	profileOnly, refOnly := tb.Compare([]string{"xyz", "pta", "adk"})
	assert.Equal(t, []string{"abc"}, profileOnly)
	assert.Equal(t, []string{"adk", "pta"}, refOnly)
}
