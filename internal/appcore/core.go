// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mlst/internal/blast"
	"mlst/internal/catalog"
	"mlst/internal/output"
	"mlst/internal/pipeline"
	"mlst/internal/progress"
	"mlst/internal/report"
	"mlst/internal/version"
	"mlst/internal/writers"
)

// Options is the resolved run configuration.
type Options struct {
	AllelesDir    string
	GenomesDir    string
	ProfilePath   string
	OutDir        string
	Force         bool
	Formats       []string
	IgnoreColumns []string

	BlastExe   string
	Threads    int
	JobTimeout time.Duration

	Quiet    bool
	Progress bool
}

// Exit codes.
const (
	ExitOK          = 0
	ExitInput       = 2
	ExitIO          = 3
	ExitInterrupted = 130
)

// Run performs one typing run and returns the process exit code.
func Run(parent context.Context, stdout, stderr io.Writer, log logrus.FieldLogger, o Options) int {
	start := time.Now()
	sum := report.Summary{RunID: uuid.NewString(), Version: version.Version}
	log.Infof("MLST %s, run %s", version.Version, sum.RunID)

	in, err := loadInputs(o, log)
	if err != nil {
		log.Error(err)
		return ExitInput
	}
	sum.Loci, sum.Genomes, sum.Profiles = len(in.loci), len(in.genomes), in.profile.Len()

	runner := blast.NewRunner(o.BlastExe, o.JobTimeout)
	if err := runner.Check(); err != nil {
		log.Error(err)
		return ExitInput
	}

	ws, unknown := writers.ParseFormats(o.Formats)
	for _, f := range unknown {
		log.Warnf("Unknown output format %q skipped (known: %s)", f, strings.Join(writers.Formats(), ", "))
	}

	if err := PrepareOutDir(o.OutDir, o.Force, []string{o.AllelesDir, o.GenomesDir, o.ProfilePath}, log); err != nil {
		log.Error(err)
		return ExitInput
	}

	jobs := pipeline.Jobs(in.loci, in.genomes, o.OutDir)
	sum.Jobs = len(jobs)
	var bar *progress.Bar
	if o.Progress && !o.Quiet {
		bar = progress.New(stderr, "aligning", len(jobs))
	}
	res, err := pipeline.Run(parent, pipeline.Config{Threads: o.Threads}, jobs, runner, log,
		func(pipeline.Outcome) { bar.Increment() })
	bar.Wait()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Error("Interrupted; result tables were not written")
			return ExitInterrupted
		}
		log.Error(err)
		return ExitInput
	}
	sum.FailedJobs = res.Failed

	loci := catalog.Names(in.loci)
	typed := Assign(loci, in.genomes, in.profile, res, log)
	sum.Disagreements = typed.Disagreements
	table := report.New(loci, typed.Rows)
	sum.Tally(table)

	code := ExitOK
	written, err := writeResults(o.OutDir, table, ws)
	if err != nil {
		log.Errorf("Writing results: %v", err)
		code = ExitIO
	}
	callsPath := filepath.Join(o.OutDir, output.CallsFile)
	if err := writeCalls(callsPath, typed.Calls); err != nil {
		log.Errorf("Writing allele calls: %v", err)
		code = ExitIO
	} else {
		written = append(written, callsPath)
	}

	if !o.Quiet {
		outw := bufio.NewWriter(stdout)
		err := output.WriteText(outw, table)
		if err == nil {
			err = outw.Flush()
		}
		if err != nil && !writers.IsBrokenPipe(err) {
			log.Errorf("Writing table to stdout: %v", err)
			code = ExitIO
		}
	}

	sum.Finish(start, time.Now())
	summaryPath := filepath.Join(o.OutDir, output.SummaryFile)
	sum.Outputs = append(written, summaryPath)
	if err := sum.WriteFile(summaryPath); err != nil {
		log.Errorf("Writing run summary: %v", err)
		code = ExitIO
	}
	sum.Log(log)
	return code
}
