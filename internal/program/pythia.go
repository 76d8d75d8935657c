package program

import (
	"path/filepath"
	"time"

	"github.com/geonmo/NMSSMPheno/internal/argvec"
	"github.com/geonmo/NMSSMPheno/internal/config"
	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/geonmo/NMSSMPheno/internal/naming"
	"github.com/geonmo/NMSSMPheno/internal/planner"
	"github.com/geonmo/NMSSMPheno/internal/utils"
)

const (
	// PythiaExe is the generator shipped to each job unless --exe says otherwise.
	PythiaExe = "generateMC.exe"
	// PythiaCommonCard holds the beam and PDF settings every card relies on.
	PythiaCommonCard = "input_cards/common_pp.cmnd"

	pythiaDefaultMass   = 15
	pythiaDefaultEnergy = 13
	pythiaDefaultEvents = 1
)

// PythiaSchema lists the options generateMC.exe accepts.
var PythiaSchema = argvec.NewSchema(map[string]argvec.Kind{
	"--card":       argvec.Value,
	"--number":     argvec.Value,
	"-n":           argvec.Value,
	"--mass":       argvec.Value,
	"--seed":       argvec.Value,
	"--energy":     argvec.Value,
	"--diMuFilter": argvec.Switch,
	"--hepmc":      argvec.OptionalValue,
	"--lhe":        argvec.OptionalValue,
	"--root":       argvec.OptionalValue,
	"--printEvent": argvec.Switch,
	"--verbose":    argvec.Switch,
	"-v":           argvec.Switch,
	"--zip":        argvec.Switch,
	"--help":       argvec.Switch,
	"-h":           argvec.Switch,
})

// PythiaOptions are the submitter options of a Pythia8 run. Args are passed
// to generateMC.exe after the seed, mass and output names are filled in.
type PythiaOptions struct {
	Seeds     planner.SeedRange
	Args      []string
	Exe       string
	OutputDir string
	// MassRange is start, stop, step. It replaces any --mass in Args.
	MassRange []float64
	Date      time.Time
}

// Pythia plans generateMC.exe jobs, one DAG per mass point.
func Pythia(opts PythiaOptions, cfg config.Config) (*Run, error) {
	exe := opts.Exe
	if exe == "" {
		exe = PythiaExe
	}
	if !utils.FileExists(exe) {
		return nil, errs.Missing("executable %s does not exist", exe)
	}

	args := argvec.New(PythiaSchema, opts.Args)
	cardPath, err := requireCard(args, "--card")
	if err != nil {
		return nil, err
	}

	// Outputs are always compressed on the worker.
	if err := args.Ensure("--zip"); err != nil {
		return nil, err
	}

	energy, err := floatOption(args, pythiaDefaultEnergy, "--energy")
	if err != nil {
		return nil, err
	}
	events, found, err := intOption(args, pythiaDefaultEvents, "-n", "--number")
	if err != nil {
		return nil, err
	}
	if !found {
		utils.PrintWarning("Number of events per job not specified - assuming %s", utils.StyleNumber(events))
	}
	if !args.Has("--hepmc") {
		utils.PrintWarning("You didn't specify --hepmc in your --args. No HepMC file will be produced.")
	}

	req := &planner.Request{
		Program:        config.PythiaLogs,
		Channel:        naming.CardStem(cardPath),
		Seeds:          opts.Seeds,
		SeedFlag:       "--seed",
		Energy:         energy,
		Events:         events,
		Outputs:        []planner.Output{{Flag: "--hepmc", Ext: "hepmc"}, {Flag: "--lhe", Ext: "lhe"}, {Flag: "--root", Ext: "root"}},
		CompressSwitch: "--zip",
		OutputDir:      opts.OutputDir,
		StoreRoot:      cfg.StoreRoot,
		User:           cfg.User,
		LogRoot:        cfg.LogRoot(config.PythiaLogs),
		Date:           dateOrNow(opts.Date),
	}

	switch len(opts.MassRange) {
	case 0:
		mass, err := floatOption(args, pythiaDefaultMass, "--mass")
		if err != nil {
			return nil, err
		}
		if mass <= 0 {
			return nil, errs.Invalid("--mass must be > 0, got %s", naming.FormatNumber(mass))
		}
		req.Mass = mass
		if err := args.SetOrAppend("--mass", naming.FormatNumber(mass)); err != nil {
			return nil, err
		}
	case 3:
		req.Sweep = &planner.Sweep{
			Flag:  "--mass",
			Start: opts.MassRange[0],
			Stop:  opts.MassRange[1],
			Step:  opts.MassRange[2],
		}
	default:
		return nil, errs.Invalid("--massRange takes start, stop and step, got %d values", len(opts.MassRange))
	}
	req.Base = args

	plan, err := planner.PlanJobs(req)
	if err != nil {
		return nil, err
	}
	utils.PrintDebug("Planned %s Pythia8 jobs over %s mass points", utils.StyleNumber(len(plan.Descriptors())), utils.StyleNumber(len(plan.Points)))

	inputs := []string{cardPath, PythiaCommonCard}
	return &Run{
		Plan: plan,
		DAGs: dagsFor(plan, cfg, filepath.Clean(exe), inputs, pointStem("py8", req.Date)),
	}, nil
}
