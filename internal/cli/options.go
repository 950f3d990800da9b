// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"mlst/internal/blast"
	"mlst/internal/output"
	"mlst/internal/profile"
)

// EnvPrefix prefixes every environment override (MLST_THREADS, ...).
const EnvPrefix = "MLST"

// DefaultJobTimeout bounds a single aligner invocation.
const DefaultJobTimeout = 30 * time.Minute

// ErrUsage marks errors caused by bad flags, config or environment.
var ErrUsage = errors.New("usage")

// Options holds the resolved run configuration. yaml keys match the long
// flag names.
type Options struct {
	// Inputs
	Alleles string `yaml:"alleles" envconfig:"ALLELES" validate:"required"`
	Genomes string `yaml:"genomes" envconfig:"GENOMES" validate:"required"`
	Profile string `yaml:"profile" envconfig:"PROFILE" validate:"required"`

	// Output
	OutDir  string   `yaml:"outdir" envconfig:"OUTDIR" validate:"required"`
	Force   bool     `yaml:"force" envconfig:"FORCE"`
	Formats []string `yaml:"formats" envconfig:"FORMATS" validate:"min=1,dive,required"`

	// Aligner
	BlastExe   string        `yaml:"blast-exe" envconfig:"BLAST_EXE" validate:"required"`
	Threads    int           `yaml:"threads" envconfig:"THREADS" validate:"min=0"`
	JobTimeout time.Duration `yaml:"job-timeout" envconfig:"JOB_TIMEOUT" validate:"min=0"`

	// Profile table
	IgnoreColumns []string `yaml:"ignore-columns" envconfig:"IGNORE_COLUMNS"`

	// Logging
	LogFile  string `yaml:"logfile" envconfig:"LOGFILE"`
	Verbose  bool   `yaml:"verbose" envconfig:"VERBOSE"`
	Quiet    bool   `yaml:"quiet" envconfig:"QUIET"`
	Progress bool   `yaml:"progress" envconfig:"PROGRESS"`

	Config string `yaml:"-" ignored:"true"`
}

// Defaults returns the built-in configuration layer.
func Defaults() Options {
	return Options{
		Formats:       []string{output.FormatCSV, output.FormatTab},
		BlastExe:      blast.DefaultExe,
		JobTimeout:    DefaultJobTimeout,
		IgnoreColumns: append([]string(nil), profile.DefaultIgnored...),
	}
}

// LoadFile overlays the YAML document at path onto o. Unknown keys are
// rejected.
func LoadFile(path string, o *Options) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: config: %v", ErrUsage, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.SetStrict(true)
	if err := dec.Decode(o); err != nil {
		return fmt.Errorf("%w: config %s: %v", ErrUsage, path, err)
	}
	return nil
}

// LoadEnv overlays MLST_* environment variables onto o.
func LoadEnv(o *Options) error {
	if err := envconfig.Process(EnvPrefix, o); err != nil {
		return fmt.Errorf("%w: environment: %v", ErrUsage, err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a fully layered Options.
func Validate(o Options) error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrUsage, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("--%s is required", name)
	case "min":
		return fmt.Sprintf("--%s must be at least %s", name, fe.Param())
	default:
		return fmt.Sprintf("--%s failed %q", name, fe.Tag())
	}
}
