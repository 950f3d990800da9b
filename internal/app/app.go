// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mlst/internal/appcore"
	"mlst/internal/cli"
	"mlst/internal/cmdutil"
)

// Name is the command name shown in help and errors.
const Name = "mlst"

// RunContext parses argv, performs one typing run and returns the exit
// code: 0 ok, 2 usage or input error, 3 output I/O error, 130 interrupted.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	code := appcore.ExitOK
	cmd := cli.NewCommand(Name, func(cmd *cobra.Command, o cli.Options) error {
		log, closer, err := cmdutil.NewLogger(stderr, o.Verbose, o.Quiet, o.LogFile)
		if err != nil {
			return fmt.Errorf("%w: %v", cli.ErrUsage, err)
		}
		defer closer.Close()
		code = appcore.Run(cmd.Context(), stdout, stderr, log, coreOptions(o))
		return nil
	})
	cmd.SetArgs(argv)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(parent); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, cli.ErrUsage) {
			_, _ = fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", Name)
		}
		return appcore.ExitInput
	}
	return code
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func coreOptions(o cli.Options) appcore.Options {
	return appcore.Options{
		AllelesDir:    o.Alleles,
		GenomesDir:    o.Genomes,
		ProfilePath:   o.Profile,
		OutDir:        o.OutDir,
		Force:         o.Force,
		Formats:       o.Formats,
		IgnoreColumns: o.IgnoreColumns,
		BlastExe:      o.BlastExe,
		Threads:       o.Threads,
		JobTimeout:    o.JobTimeout,
		Quiet:         o.Quiet,
		Progress:      o.Progress,
	}
}
