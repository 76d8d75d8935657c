package planner

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/geonmo/NMSSMPheno/internal/argvec"
	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/geonmo/NMSSMPheno/internal/naming"
	"github.com/hashicorp/go-multierror"
)

// sweepTolerance is the fraction of a step by which the last sweep value may
// overshoot stop and still be included.
const sweepTolerance = 1e-9

// SeedRange is an inclusive range of job seeds.
type SeedRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Len returns the number of seeds in the range, or 0 when the range is
// empty or its size does not fit in an int.
func (r SeedRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	n := r.End - r.Start
	if n < 0 || n == math.MaxInt {
		return 0
	}
	return n + 1
}

func (r SeedRange) validate() error {
	var result *multierror.Error
	if r.Start < 1 {
		result = multierror.Append(result, errs.Invalid("first seed must be >= 1, got %d", r.Start))
	}
	if r.End < r.Start {
		result = multierror.Append(result, errs.Invalid("last seed %d must be >= first seed %d", r.End, r.Start))
	} else if r.Len() == 0 {
		result = multierror.Append(result, errs.Invalid("seed range %d..%d is too large", r.Start, r.End))
	}
	return result.ErrorOrNil()
}

// Sweep is an inclusive float range applied to Flag.
type Sweep struct {
	Flag  string  `yaml:"flag"`
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Step  float64 `yaml:"step"`
}

// Values returns start + i*step for every i that keeps the value within stop,
// allowing a small overshoot for rounding. Values are rounded to 12
// significant digits so 0.1+2*0.1 names its files "0.3".
func (s Sweep) Values() []float64 {
	if s.Step <= 0 || s.Stop < s.Start {
		return nil
	}
	n := int(math.Floor((s.Stop-s.Start)/s.Step + sweepTolerance))
	values := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		v := s.Start + float64(i)*s.Step
		v, _ = strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
		values = append(values, v)
	}
	return values
}

func (s Sweep) validate(schema *argvec.Schema) error {
	var result *multierror.Error
	if s.Start <= 0 || s.Stop <= 0 || s.Step <= 0 {
		result = multierror.Append(result, errs.Invalid("sweep values must be > 0, got %g %g %g", s.Start, s.Stop, s.Step))
	}
	if s.Stop < s.Start {
		result = multierror.Append(result, errs.Invalid("sweep stop %g must be >= start %g", s.Stop, s.Start))
	}
	if !schema.TakesValue(s.Flag) {
		result = multierror.Append(result, errs.Invalid("sweep flag %q is not a declared value flag", s.Flag))
	}
	return result.ErrorOrNil()
}

// Output declares a flag naming an output file of the given extension. The
// flag is only rewritten when present in the base args.
type Output struct {
	Flag string `yaml:"flag"`
	Ext  string `yaml:"ext"`
}

// RunStem names outputs from a single stem flag instead of per-output flags.
// Files are relative paths under Dir in which "{stem}" is replaced.
type RunStem struct {
	Flag  string   `yaml:"flag"`
	Dir   string   `yaml:"dir"`
	Files []string `yaml:"files"`
}

// StemPlaceholder is substituted by the run stem in RunStem.Files.
const StemPlaceholder = "{stem}"

// Request describes a generator run: one set of base args crossed over a
// seed range and an optional sweep.
type Request struct {
	// Program names the log and mirror directory, e.g. "Pythia8".
	Program string
	Channel string
	Base    *argvec.Vector

	Seeds    SeedRange
	SeedFlag string
	Sweep    *Sweep

	// Mass, Energy and Events name output files. Mass is replaced by the
	// swept value when a sweep is active.
	Mass   float64
	Energy float64
	Events int

	Outputs []Output
	// CompressSwitch, when present in the args, marks outputs as gzipped.
	CompressSwitch string
	RunStem        *RunStem

	// OutputDir overrides the derived mirror destination.
	OutputDir string
	StoreRoot string
	User      string
	LogRoot   string
	Date      time.Time
}

// Validate reports every problem with the request at once.
func (r *Request) Validate() error {
	var result *multierror.Error
	if r.Channel == "" || strings.ContainsAny(r.Channel, "/ \t") {
		result = multierror.Append(result, errs.Invalid("bad channel name %q", r.Channel))
	}
	if r.Base == nil {
		return multierror.Append(result, errs.Invalid("no base args")).ErrorOrNil()
	}
	schema := r.Base.Schema()

	if err := r.Seeds.validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if !schema.TakesValue(r.SeedFlag) {
		result = multierror.Append(result, errs.Invalid("seed flag %q is not a declared value flag", r.SeedFlag))
	}
	if r.Sweep != nil {
		if err := r.Sweep.validate(schema); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if r.Events < 1 {
		result = multierror.Append(result, errs.Invalid("number of events must be >= 1, got %d", r.Events))
	}
	for _, o := range r.Outputs {
		if err := naming.ValidateExt(o.Ext); err != nil {
			result = multierror.Append(result, err)
		}
		if !schema.TakesValue(o.Flag) {
			result = multierror.Append(result, errs.Invalid("output flag %q is not a declared value flag", o.Flag))
		}
	}
	if r.RunStem != nil {
		if !schema.TakesValue(r.RunStem.Flag) {
			result = multierror.Append(result, errs.Invalid("stem flag %q is not a declared value flag", r.RunStem.Flag))
		}
		if len(r.RunStem.Files) == 0 {
			result = multierror.Append(result, errs.Invalid("stem mode declares no output files"))
		}
	}
	return result.ErrorOrNil()
}
