// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"mlst/internal/blast"
	"mlst/internal/catalog"
)

// ErrDuplicateJob is returned when two jobs target the same (genome, locus)
// or the same output file.
var ErrDuplicateJob = errors.New("duplicate job")

// Config controls the scheduler.
type Config struct {
	Threads int // worker pool size; <=0 means runtime.NumCPU()
}

// Aligner runs one job and returns its parsed hits.
type Aligner interface {
	Align(ctx context.Context, j blast.Job) ([]blast.Hit, error)
}

// Key identifies the target of one job.
type Key struct {
	GenomeID string
	Locus    string
}

// KeyOf returns the key a job reports under.
func KeyOf(j blast.Job) Key { return Key{GenomeID: j.GenomeID, Locus: j.Locus} }

// Outcome is the typed result of one job.
type Outcome struct {
	Job     blast.Job
	Hits    []blast.Hit
	Err     error
	Elapsed time.Duration
}

// Results holds the merged outcomes of a run.
type Results struct {
	Hits     map[Key][]blast.Hit // one entry per finished job, possibly empty
	Outcomes []Outcome           // finished jobs in submission order
	Failed   int
}

// Lookup returns the hits for (genomeID, locus). ok is false when the job
// never ran.
func (r *Results) Lookup(genomeID, locus string) (hits []blast.Hit, ok bool) {
	hits, ok = r.Hits[Key{GenomeID: genomeID, Locus: locus}]
	return hits, ok
}

// Jobs builds the full locus x genome matrix, locus-major. Aligner output
// for each job goes to <outDir>/<locus>_vs_<genome>.tab.
func Jobs(loci []catalog.Locus, genomes []catalog.Genome, outDir string) []blast.Job {
	jobs := make([]blast.Job, 0, len(loci)*len(genomes))
	for _, l := range loci {
		for _, g := range genomes {
			jobs = append(jobs, blast.Job{
				Locus:    l.Name,
				GenomeID: g.ID,
				Query:    l.ReferenceFile,
				Subject:  g.SequenceFile,
				Out:      filepath.Join(outDir, fileSafe(l.Name)+"_vs_"+fileSafe(g.ID)+".tab"),
			})
		}
	}
	return jobs
}

func fileSafe(s string) string {
	return strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(s)
}

// Run executes jobs with at most cfg.Threads in flight and blocks until
// every submitted job has reported. onDone, if non-nil, is called from the
// worker goroutines once per finished job and must be safe for concurrent
// use.
//
// When ctx is cancelled no further jobs are started; jobs already running
// are waited for, and Run returns the partial Results with ctx.Err().
func Run(
	ctx context.Context,
	cfg Config,
	jobs []blast.Job,
	al Aligner,
	log logrus.FieldLogger,
	onDone func(Outcome),
) (*Results, error) {
	seen := make(map[Key]struct{}, len(jobs))
	outs := make(map[string]Key, len(jobs))
	for _, j := range jobs {
		k := KeyOf(j)
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: genome %s locus %s", ErrDuplicateJob, k.GenomeID, k.Locus)
		}
		seen[k] = struct{}{}
		if j.Out == "" {
			continue
		}
		if prev, dup := outs[j.Out]; dup {
			return nil, fmt.Errorf("%w: %s written by both %s/%s and %s/%s",
				ErrDuplicateJob, j.Out, prev.Locus, prev.GenomeID, k.Locus, k.GenomeID)
		}
		outs[j.Out] = k
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	log.Infof("Running %d alignment jobs on %d workers", len(jobs), threads)

	// Each worker owns exactly one slot; no lock is needed.
	outcomes := make([]Outcome, len(jobs))
	ran := make([]bool, len(jobs))
	var g errgroup.Group
	g.SetLimit(threads)

	for i := range jobs {
		if ctx.Err() != nil {
			break
		}
		i := i // per-iteration copy for the closure (go < 1.22 loop semantics)
		g.Go(func() error {
			// Go may have blocked on a free slot while ctx was cancelled.
			if ctx.Err() != nil {
				return nil
			}
			j := jobs[i]
			start := time.Now()
			hits, err := al.Align(ctx, j)
			o := Outcome{Job: j, Hits: hits, Err: err, Elapsed: time.Since(start)}
			if err != nil {
				o.Hits = nil
				log.WithFields(logrus.Fields{
					"locus":  j.Locus,
					"genome": j.GenomeID,
				}).Warnf("alignment job failed, recording no hits: %v", err)
			} else {
				log.WithFields(logrus.Fields{
					"locus":   j.Locus,
					"genome":  j.GenomeID,
					"hits":    len(hits),
					"elapsed": o.Elapsed.Round(time.Millisecond),
				}).Debug("alignment job finished")
			}
			outcomes[i] = o
			ran[i] = true
			if onDone != nil {
				onDone(o)
			}
			return nil
		})
	}
	_ = g.Wait()

	res := &Results{Hits: make(map[Key][]blast.Hit, len(jobs))}
	for i, o := range outcomes {
		if !ran[i] {
			continue
		}
		if o.Err != nil {
			res.Failed++
		}
		res.Outcomes = append(res.Outcomes, o)
		res.Hits[KeyOf(o.Job)] = o.Hits
	}

	if err := ctx.Err(); err != nil {
		log.Warnf("interrupted: %d of %d alignment jobs were run", len(res.Outcomes), len(jobs))
		return res, err
	}
	log.Info("All alignment jobs completed")
	return res, nil
}
