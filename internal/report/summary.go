package report

import (
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"mlst/internal/profile"
)

// Summary is the end-of-run account written to the summary file and logs.
type Summary struct {
	RunID    string `yaml:"run_id"`
	Version  string `yaml:"version"`
	Started  string `yaml:"started"`
	Finished string `yaml:"finished"`
	Elapsed  string `yaml:"elapsed"`

	Loci          int `yaml:"loci"`
	Genomes       int `yaml:"genomes"`
	Profiles      int `yaml:"profiles"`
	Jobs          int `yaml:"jobs"`
	FailedJobs    int `yaml:"failed_jobs"`
	Disagreements int `yaml:"ls_identity_disagreements"`

	Resolved   int `yaml:"resolved"`
	Novel      int `yaml:"novel"`
	Unresolved int `yaml:"unresolved"`

	Outputs []string `yaml:"outputs,omitempty"`
}

// Unmatched counts genomes reported as NEW.
func (s Summary) Unmatched() int { return s.Novel + s.Unresolved }

// Tally adds t's calls to the resolved/novel/unresolved counters.
func (s *Summary) Tally(t *Table) {
	for _, r := range t.Rows {
		switch r.Call.Kind {
		case profile.Resolved:
			s.Resolved++
		case profile.Novel:
			s.Novel++
		default:
			s.Unresolved++
		}
	}
}

// Finish stamps the end time.
func (s *Summary) Finish(started, finished time.Time) {
	s.Started = started.Format(time.RFC3339)
	s.Finished = finished.Format(time.RFC3339)
	s.Elapsed = finished.Sub(started).Round(time.Millisecond).String()
}

// Log reports the summary counts at info level.
func (s Summary) Log(log logrus.FieldLogger) {
	log.Infof("Loci found: %s", humanize.Comma(int64(s.Loci)))
	log.Infof("Genomes found: %s", humanize.Comma(int64(s.Genomes)))
	log.Infof("Profiles loaded: %s", humanize.Comma(int64(s.Profiles)))
	log.Infof("Alignment jobs: %s (%s failed)", humanize.Comma(int64(s.Jobs)), humanize.Comma(int64(s.FailedJobs)))
	log.Infof("Genomes without a known ST: %s (%d novel, %d incomplete)",
		humanize.Comma(int64(s.Unmatched())), s.Novel, s.Unresolved)
	if s.Disagreements > 0 {
		log.Warnf("%d locus calls differed between LS and %%ID criteria", s.Disagreements)
	}
}

// WriteFile writes s as YAML to path.
func (s Summary) WriteFile(path string) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
