// internal/cli/command.go
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mlst/internal/version"
	"mlst/internal/writers"
)

// RunFunc receives the resolved options of one invocation.
type RunFunc func(cmd *cobra.Command, opts Options) error

// NewCommand returns the root command. Flag values override MLST_*
// variables, which override the --config file, which overrides Defaults.
func NewCommand(name string, run RunFunc) *cobra.Command {
	var flags Options
	d := Defaults()

	cmd := &cobra.Command{
		Use:   name + " -i ALLELES -g GENOMES -p PROFILE -o OUTDIR",
		Short: "in-silico multi-locus sequence typing",
		Long: fmt.Sprintf(`%s: in-silico MLST

Aligns every locus reference FASTA against every genome FASTA with blastn,
picks the best allele per locus, and resolves each genome's allele
combination to a sequence type (ST) using a profile table.

Version: %s`, name, version.Version),
		Example: strings.Join([]string{
			"  " + name + " -i refs/ -g genomes/ -p profiles.tsv -o results/",
			"  " + name + " -i refs/ -g genomes/ -p profiles.tsv -o results/ -f --formats csv,excel -t 8",
			"  MLST_THREADS=4 " + name + " --config run.yaml",
		}, "\n"),
		Version:       version.Version,
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := Resolve(cmd.Flags(), flags)
			if err != nil {
				return err
			}
			return run(cmd, opts)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	fs := cmd.Flags()
	fs.SortFlags = false
	fs.StringVarP(&flags.Alleles, "alleles", "i", "", "directory of locus reference FASTA files [*]")
	fs.StringVarP(&flags.Genomes, "genomes", "g", "", "directory of genome FASTA files [*]")
	fs.StringVarP(&flags.Profile, "profile", "p", "", "tab-separated ST profile table [*]")
	fs.StringVarP(&flags.OutDir, "outdir", "o", "", "output directory (must not exist unless --force) [*]")
	fs.BoolVarP(&flags.Force, "force", "f", false, "replace an existing output directory")
	fs.StringSliceVar(&flags.Formats, "formats", d.Formats,
		"result table formats: "+strings.Join(writers.Formats(), " | "))
	fs.StringVar(&flags.BlastExe, "blast-exe", d.BlastExe, "blastn executable")
	fs.IntVarP(&flags.Threads, "threads", "t", 0, "parallel aligner jobs (0 = all CPUs)")
	fs.DurationVar(&flags.JobTimeout, "job-timeout", d.JobTimeout, "limit per aligner job (0 = none)")
	fs.StringSliceVar(&flags.IgnoreColumns, "ignore-columns", d.IgnoreColumns, "profile columns that are not loci")
	fs.StringVarP(&flags.LogFile, "logfile", "l", "", "append a log to this file")
	fs.BoolVarP(&flags.Verbose, "verbose", "v", false, "log progress and per-genome calls")
	fs.BoolVarP(&flags.Quiet, "quiet", "q", false, "only log errors; do not print the result table")
	fs.BoolVar(&flags.Progress, "progress", false, "show a progress bar on stderr")
	fs.StringVar(&flags.Config, "config", "", "YAML file of option defaults (keys are long flag names)")
	return cmd
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, args[0])
	}
	return nil
}

// Resolve layers Defaults, the --config (or MLST_CONFIG) file, MLST_* variables and the
// explicitly set flags of fs (read from flags), then validates the result.
func Resolve(fs *pflag.FlagSet, flags Options) (Options, error) {
	opts := Defaults()
	path := flags.Config
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		if err := LoadFile(path, &opts); err != nil {
			return opts, err
		}
		opts.Config = path
	}
	if err := LoadEnv(&opts); err != nil {
		return opts, err
	}
	fs.Visit(func(f *pflag.Flag) {
		if set, ok := overlay[f.Name]; ok {
			set(&opts, &flags)
		}
	})
	if err := Validate(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

var overlay = map[string]func(dst, src *Options){
	"alleles":        func(d, s *Options) { d.Alleles = s.Alleles },
	"genomes":        func(d, s *Options) { d.Genomes = s.Genomes },
	"profile":        func(d, s *Options) { d.Profile = s.Profile },
	"outdir":         func(d, s *Options) { d.OutDir = s.OutDir },
	"force":          func(d, s *Options) { d.Force = s.Force },
	"formats":        func(d, s *Options) { d.Formats = s.Formats },
	"blast-exe":      func(d, s *Options) { d.BlastExe = s.BlastExe },
	"threads":        func(d, s *Options) { d.Threads = s.Threads },
	"job-timeout":    func(d, s *Options) { d.JobTimeout = s.JobTimeout },
	"ignore-columns": func(d, s *Options) { d.IgnoreColumns = s.IgnoreColumns },
	"logfile":        func(d, s *Options) { d.LogFile = s.LogFile },
	"verbose":        func(d, s *Options) { d.Verbose = s.Verbose },
	"quiet":          func(d, s *Options) { d.Quiet = s.Quiet },
	"progress":       func(d, s *Options) { d.Progress = s.Progress },
}
