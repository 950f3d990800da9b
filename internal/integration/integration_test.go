// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"mlst/internal/app"
	"mlst/internal/blast/blasttest"
	"mlst/internal/report"
)

const profileTSV = "ST\tabc\txyz\tclonal_complex\n" +
	"10\t2\t7\tCC1\n" +
	"11\t1\t7\t\n"

// fixture is a complete input set: two loci, three genomes and a fake
// aligner. The (xyz, G2) job fails.
type fixture struct {
	root, refs, genomes, profile string
	fake                         *blasttest.Aligner
}

func write(t *testing.T, path, data string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func row(query string, pident string, qlen, length, gaps int) string {
	return strings.Join([]string{query, "contig1", pident, strconv.Itoa(qlen), strconv.Itoa(length), strconv.Itoa(gaps), "0"}, "\t")
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		root:    root,
		refs:    filepath.Join(root, "refs"),
		genomes: filepath.Join(root, "genomes"),
		profile: filepath.Join(root, "profiles.tsv"),
		fake:    blasttest.New(t),
	}
	write(t, filepath.Join(f.refs, "abc.fasta"), ">abc_1\nACGT\n>abc_2\nACGA\n>abc_3\nACGG\n")
	write(t, filepath.Join(f.refs, "xyz.fasta"), ">xyz_7\nTTGA\n>xyz_8\nTTGC\n")
	for _, g := range []string{"G1", "G2", "G3"} {
		write(t, filepath.Join(f.genomes, g+".fasta"), ">contig1 "+g+"\nACGTACGTTTGA\n")
	}
	write(t, f.profile, profileTSV)

	// G1: LS ties on abc, higher %ID wins -> abc_2; ST 10.
	f.fake.Hits(t, "abc.fasta", "G1.fasta",
		row("abc_1", "99.50", 450, 450, 0),
		row("abc_2", "100.00", 450, 450, 0))
	f.fake.Hits(t, "xyz.fasta", "G1.fasta", row("xyz_7", "100.00", 400, 400, 0))
	// G2: xyz job fails -> no call -> NEW.
	f.fake.Hits(t, "abc.fasta", "G2.fasta", row("abc_1", "100.00", 450, 450, 0))
	f.fake.Fail(t, "xyz.fasta", "G2.fasta")
	// G3: lower LS beats higher %ID on abc -> abc_1; ST 11.
	f.fake.Hits(t, "abc.fasta", "G3.fasta",
		row("abc_3", "100.00", 450, 440, 0),
		row("abc_1", "99.10", 450, 450, 0))
	f.fake.Hits(t, "xyz.fasta", "G3.fasta", row("xyz_7", "100.00", 400, 400, 0))
	return f
}

func (f *fixture) args(outDir string, extra ...string) []string {
	argv := []string{
		"-i", f.refs,
		"-g", f.genomes,
		"-p", f.profile,
		"-o", outDir,
		"--blast-exe", f.fake.Exe,
	}
	return append(argv, extra...)
}

func run(t *testing.T, argv []string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code = app.Run(argv, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestEndToEnd(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.root, "out")

	code, stdout, stderr := run(t, f.args(out, "--formats", "csv,tab,json,bogus", "-t", "2"))
	require.Equal(t, 0, code, stderr)

	wantCSV := "genome,abc,xyz,ST\n" +
		"G3,1,7,11\n" +
		"G2,1,,NEW\n" +
		"G1,2,7,10\n"
	assert.Equal(t, wantCSV, readFile(t, filepath.Join(out, "MLST_results.csv")))
	assert.Equal(t, strings.ReplaceAll(wantCSV, ",", "\t"), readFile(t, filepath.Join(out, "MLST_results.tab")))
	assert.FileExists(t, filepath.Join(out, "MLST_results.json"))
	assert.FileExists(t, filepath.Join(out, "abc_vs_G1.tab"))

	calls := strings.Split(strings.TrimSpace(readFile(t, filepath.Join(out, "MLST_calls.jsonl"))), "\n")
	assert.Len(t, calls, 6)

	// Scenario D: the failed job degrades to a missing allele.
	assert.Contains(t, stderr, "alignment job failed")
	assert.Contains(t, stderr, "Unknown output format")
	assert.Contains(t, stderr, "bogus")
	assert.Contains(t, stdout, "G2")
	assert.Contains(t, stdout, "NEW")
	assert.Contains(t, stdout, "-")

	var sum report.Summary
	require.NoError(t, yaml.Unmarshal([]byte(readFile(t, filepath.Join(out, "MLST_summary.yaml"))), &sum))
	assert.Equal(t, 2, sum.Loci)
	assert.Equal(t, 3, sum.Genomes)
	assert.Equal(t, 2, sum.Profiles)
	assert.Equal(t, 6, sum.Jobs)
	assert.Equal(t, 1, sum.FailedJobs)
	assert.Equal(t, 2, sum.Resolved)
	assert.Equal(t, 1, sum.Unresolved)
	assert.NotEmpty(t, sum.RunID)
}

func TestThreadsDoNotChangeResults(t *testing.T) {
	f := newFixture(t)
	one := filepath.Join(f.root, "one")
	many := filepath.Join(f.root, "many")

	code, _, stderr := run(t, f.args(one, "-q", "-t", "1", "--formats", "csv,json"))
	require.Equal(t, 0, code, stderr)
	code, _, stderr = run(t, f.args(many, "-q", "-t", "8", "--formats", "csv,json"))
	require.Equal(t, 0, code, stderr)

	for _, name := range []string{"MLST_results.csv", "MLST_results.json", "MLST_calls.jsonl"} {
		assert.Equal(t, readFile(t, filepath.Join(one, name)), readFile(t, filepath.Join(many, name)), name)
	}
}

func TestQuietSuppressesTable(t *testing.T) {
	f := newFixture(t)
	code, stdout, stderr := run(t, f.args(filepath.Join(f.root, "out"), "-q"))
	require.Equal(t, 0, code)
	assert.Empty(t, stdout)
	assert.NotContains(t, stderr, "alignment job failed")
}

func TestExistingOutDir(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.root, "out")
	stale := write(t, filepath.Join(out, "stale.txt"), "keep me")

	code, _, stderr := run(t, f.args(out, "-q"))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "already exists")
	assert.FileExists(t, stale)

	code, _, stderr = run(t, f.args(out, "-q", "--force"))
	require.Equal(t, 0, code, stderr)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(out, "MLST_results.csv"))
}

func TestForceKeepsProfileInOutDir(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.root, "out")
	profile := write(t, filepath.Join(out, "profiles.tsv"), profileTSV)

	code, _, stderr := run(t, f.args(out, "-q", "--force", "-p", profile))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "refusing to replace")
	assert.FileExists(t, profile)
}

func TestExcelAliases(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.root, "out")
	code, _, stderr := run(t, f.args(out, "-q", "--formats", "excel,xls,xlsx"))
	require.Equal(t, 0, code, stderr)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var results []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "MLST_results.") {
			results = append(results, e.Name())
		}
	}
	assert.Equal(t, []string{"MLST_results.xlsx"}, results)
}

func TestJobTimeoutIsAFailedJob(t *testing.T) {
	f := newFixture(t)
	f.fake.Hang(t, "xyz.fasta", "G3.fasta")
	out := filepath.Join(f.root, "out")

	code, _, stderr := run(t, f.args(out, "-q", "--job-timeout", "300ms"))
	require.Equal(t, 0, code, stderr)
	csv := readFile(t, filepath.Join(out, "MLST_results.csv"))
	assert.Contains(t, csv, "G3,1,,NEW\n")
}

func TestInputErrors(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.root, "out")
	cases := map[string][]string{
		"missing refs":    {"-i", filepath.Join(f.root, "nope")},
		"missing genomes": {"-g", filepath.Join(f.root, "nope")},
		"missing profile": {"-p", filepath.Join(f.root, "nope.tsv")},
		"missing aligner": {"--blast-exe", filepath.Join(f.root, "no-blastn")},
		"bad threads":     {"-t", "-2"},
	}
	for name, extra := range cases {
		t.Run(name, func(t *testing.T) {
			code, _, _ := run(t, f.args(out, extra...))
			assert.Equal(t, 2, code)
			assert.NoDirExists(t, out)
		})
	}
}

func TestMalformedProfile(t *testing.T) {
	f := newFixture(t)
	write(t, f.profile, "abc\txyz\n1\t2\n")
	code, _, stderr := run(t, f.args(filepath.Join(f.root, "out")))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "ST")
}

func TestVersionAndHelp(t *testing.T) {
	code, stdout, _ := run(t, []string{"--version"})
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "mlst version")

	code, stdout, _ = run(t, []string{"--help"})
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "--alleles")
}

func TestMissingRequiredFlags(t *testing.T) {
	code, _, stderr := run(t, []string{"-i", "refs"})
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--genomes is required")
	assert.Contains(t, stderr, "--help")
}
