package blast

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultExe is the aligner looked up on PATH when none is configured.
const DefaultExe = "blastn"

// waitDelay bounds how long Align waits for the aligner's stderr to close
// after the process has been killed.
const waitDelay = 5 * time.Second

// ErrAligner wraps every failure of the aligner process itself.
var ErrAligner = errors.New("aligner failed")

// Job is one query/subject alignment: every reference allele of a locus
// against one genome.
type Job struct {
	Locus    string
	GenomeID string
	Query    string // reference allele multi-FASTA
	Subject  string // genome FASTA
	Out      string // tabular output written by the aligner
}

// Runner executes Jobs with an external blastn-compatible binary.
type Runner struct {
	Exe string
	// Timeout bounds one alignment; zero means no limit.
	Timeout time.Duration
}

// NewRunner returns a Runner for exe (DefaultExe when empty).
func NewRunner(exe string, timeout time.Duration) *Runner {
	if exe == "" {
		exe = DefaultExe
	}
	return &Runner{Exe: exe, Timeout: timeout}
}

// Check verifies that the executable can be found.
func (r *Runner) Check() error {
	if _, err := exec.LookPath(r.Exe); err != nil {
		return fmt.Errorf("%w: %v", ErrAligner, err)
	}
	return nil
}

// Args returns the argument vector for j. Arguments are passed straight to
// the process; no shell is involved.
func (r *Runner) Args(j Job) []string {
	return []string{
		"-query", j.Query,
		"-subject", j.Subject,
		"-out", j.Out,
		"-outfmt", OutFormat,
	}
}

// Align runs j and parses its output. Cancelling ctx does not stop a
// process that has already started; only Timeout does.
func (r *Runner) Align(ctx context.Context, j Job) ([]Hit, error) {
	jctx := context.WithoutCancel(ctx)
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		jctx, cancel = context.WithTimeout(jctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(jctx, r.Exe, r.Args(j)...) //nolint:gosec // arguments are never shell-interpreted
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	if err := cmd.Run(); err != nil {
		if errors.Is(jctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s vs %s timed out after %s", ErrAligner, j.Locus, j.GenomeID, r.Timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%w: %s vs %s: %v", ErrAligner, j.Locus, j.GenomeID, err)
		}
		return nil, fmt.Errorf("%w: %s vs %s: %v: %s", ErrAligner, j.Locus, j.GenomeID, err, msg)
	}

	fh, err := os.Open(j.Out)
	if err != nil {
		return nil, fmt.Errorf("%w: output for %s vs %s: %v", ErrAligner, j.Locus, j.GenomeID, err)
	}
	defer fh.Close()
	hits, err := ParseHits(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", j.Out, err)
	}
	return hits, nil
}
