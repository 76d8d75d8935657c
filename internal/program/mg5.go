package program

import (
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/geonmo/NMSSMPheno/internal/argvec"
	"github.com/geonmo/NMSSMPheno/internal/card"
	"github.com/geonmo/NMSSMPheno/internal/config"
	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/geonmo/NMSSMPheno/internal/planner"
	"github.com/geonmo/NMSSMPheno/internal/stage"
	"github.com/geonmo/NMSSMPheno/internal/utils"
)

// MG5Exe is the worker script that renders the card and runs mg5_aMC.
const MG5Exe = "run_mg5.py"

// MG5Schema lists the options run_mg5.py accepts. The card is the leading
// positional token.
var MG5Schema = argvec.NewSchema(map[string]argvec.Kind{
	"--exe":          argvec.Value,
	"-n":             argvec.Value,
	"--nevents":      argvec.Value,
	"--seed":         argvec.Value,
	"--iseed":        argvec.Value,
	"--pythia8":      argvec.Value,
	"--pythia8_path": argvec.Value,
	"--hepmc":        argvec.Value,
	"--dry":          argvec.Switch,
	"--new":          argvec.Value,
	"--newstem":      argvec.Value,
	"-v":             argvec.Switch,
})

// mg5Aliases are spellings run_mg5.py accepts under another name.
var mg5Aliases = map[string]string{
	"--iseed":        "--seed",
	"--pythia8_path": "--pythia8",
}

// MG5Outputs are the files a run leaves under <channel>/Events/run_01.
var MG5Outputs = []string{
	planner.StemPlaceholder + ".lhe.gz",
	planner.StemPlaceholder + ".hepmc.gz",
	"RunMaterial_" + planner.StemPlaceholder + ".tar.gz",
	"summary_" + planner.StemPlaceholder + ".txt",
}

// MG5Options are the submitter options of an MG5_aMC run.
type MG5Options struct {
	Seeds     planner.SeedRange
	Args      []string
	OutputDir string
	Date      time.Time
}

// MG5 plans run_mg5.py jobs over a seed range. The channel is the card's
// output field and the install under cfg.MG5Dir is shipped as a tarball.
func MG5(opts MG5Options, cfg config.Config) (*Run, error) {
	if !utils.DirExists(cfg.MG5Dir) {
		return nil, errs.Missing("mg5_dir %s does not correspond to an actual directory", cfg.MG5Dir)
	}
	install, err := stage.ParseMG5Dir(cfg.MG5Dir)
	if err != nil {
		return nil, err
	}
	if !install.Supported() {
		utils.PrintWarning("MG5_aMC %s is older than %s, card fields may be ignored", install.Version, stage.MinMG5Version)
	}

	tokens := normalizeMG5Args(opts.Args)
	if len(tokens) == 0 || MG5Schema.IsFlag(tokens[0]) {
		return nil, errs.Invalid("you did not specify an input card")
	}
	cardPath := tokens[0]
	if !utils.FileExists(cardPath) {
		return nil, errs.Missing("input card %s does not exist", cardPath)
	}
	tpl, err := card.Load(cardPath)
	if err != nil {
		return nil, err
	}
	channel, err := tpl.Lookup("output")
	if err != nil {
		return nil, err
	}

	args := argvec.New(MG5Schema, tokens)
	if err := args.SetOrAppend("--exe", install.Executable()); err != nil {
		return nil, err
	}
	for _, flag := range []string{"--pythia8", "--hepmc"} {
		if err := absOption(args, flag); err != nil {
			return nil, err
		}
	}
	events, found, err := intOption(args, 0, "-n", "--nevents")
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.Invalid("number of events not specified, use -n/--nevents")
	}

	req := &planner.Request{
		Program:  config.MG5Logs,
		Channel:  channel,
		Base:     args,
		Seeds:    opts.Seeds,
		SeedFlag: "--seed",
		Events:   events,
		RunStem: &planner.RunStem{
			Flag:  "--newstem",
			Dir:   path.Join(channel, "Events", "run_01"),
			Files: MG5Outputs,
		},
		OutputDir: opts.OutputDir,
		StoreRoot: cfg.StoreRoot,
		User:      cfg.User,
		LogRoot:   cfg.LogRoot(config.MG5Logs),
		Date:      dateOrNow(opts.Date),
	}
	plan, err := planner.PlanJobs(req)
	if err != nil {
		return nil, err
	}
	if opts.OutputDir == "" {
		utils.PrintNote("Auto setting output dir to %s", utils.StylePath(plan.Points[0].MirrorDestination))
	}

	inputs := []string{cardPath, install.Archive()}
	return &Run{
		Plan:     plan,
		DAGs:     dagsFor(plan, cfg, MG5Exe, inputs, pointStem("mg5", req.Date)),
		Archives: []Archive{{Src: install.Dir, Dest: install.Archive()}},
	}, nil
}

// MG5CardFields returns the run card fields run_mg5.py sets before running
// MG5_aMC. Zero and empty values are left out.
func MG5CardFields(nevents, iseed int, pythia8, hepmc string) ([]card.Field, error) {
	var fields []card.Field
	if nevents > 0 {
		fields = append(fields, card.NewField("nevents", nevents))
	}
	if iseed > 0 {
		fields = append(fields, card.NewField("iseed", iseed))
	}
	if pythia8 != "" {
		abs, err := filepath.Abs(pythia8)
		if err != nil {
			return nil, err
		}
		fields = append(fields, card.NewField("pythia8_path", abs))
	}
	if hepmc != "" {
		abs, err := filepath.Abs(hepmc)
		if err != nil {
			return nil, err
		}
		fields = append(fields,
			card.NewField("extrapaths", "../lib "+filepath.Join(abs, "lib")),
			card.NewField("includepaths", filepath.Join(abs, "include")))
	}
	return fields, nil
}

// normalizeMG5Args renames aliased flags to the names the worker expects.
func normalizeMG5Args(in []string) []string {
	out := slices.Clone(in)
	for i, tok := range out {
		if name, ok := mg5Aliases[tok]; ok {
			out[i] = name
		}
	}
	return out
}

// absOption requires flag to carry a value and makes it absolute.
func absOption(args *argvec.Vector, flag string) error {
	v, ok, err := args.Get(flag)
	if err != nil || !ok || v == "" {
		return errs.Invalid("%s is required", flag)
	}
	abs, err := filepath.Abs(v)
	if err != nil {
		return err
	}
	return args.Set(flag, abs)
}
