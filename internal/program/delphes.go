package program

import (
	"path/filepath"
	"time"

	"github.com/geonmo/NMSSMPheno/internal/argvec"
	"github.com/geonmo/NMSSMPheno/internal/batch"
	"github.com/geonmo/NMSSMPheno/internal/config"
	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/geonmo/NMSSMPheno/internal/naming"
	"github.com/geonmo/NMSSMPheno/internal/planner"
	"github.com/geonmo/NMSSMPheno/internal/utils"
)

const (
	// DelphesExe is the worker script that unpacks Delphes and runs it per file.
	DelphesExe = "HTCondor/runDelphes.py"
	// DelphesArchive is the tarball of the Delphes install shipped to jobs.
	DelphesArchive = "delphes.tgz"
	// DelphesCardDir is where Delphes cards must live.
	DelphesCardDir = "input_cards"
)

// DelphesExecutables maps an input type to the Delphes reader binary.
var DelphesExecutables = map[string]string{
	"hepmc": "./DelphesHepMC",
	"lhe":   "./DelphesLHEF",
}

// DelphesSchema lists the options runDelphes.py accepts.
var DelphesSchema = argvec.NewSchema(map[string]argvec.Kind{
	"--card":    argvec.Value,
	"--exe":     argvec.Value,
	"--process": argvec.Value,
})

// DelphesOptions are the submitter options of a Delphes run.
type DelphesOptions struct {
	Card     string
	InputDir string
	Type     string
	// OutputDir defaults to <InputDir>/../<card stem>_<Type>.
	OutputDir string
	// FilesPerJob defaults to the configured value.
	FilesPerJob int
	Date        time.Time
}

// Delphes plans jobs that each run Delphes over a fixed number of the
// event files found in opts.InputDir.
func Delphes(opts DelphesOptions, cfg config.Config) (*Run, error) {
	if !utils.DirExists(cfg.DelphesDir) {
		return nil, errs.Missing("delphes_dir %s does not correspond to an actual directory", cfg.DelphesDir)
	}
	if !utils.DirExists(opts.InputDir) {
		return nil, errs.Missing("--iDir %s does not correspond to an actual directory", opts.InputDir)
	}
	if !utils.FileExists(opts.Card) {
		return nil, errs.Missing("cannot find input card %s", opts.Card)
	}
	if filepath.Dir(filepath.Clean(opts.Card)) != DelphesCardDir {
		return nil, errs.Invalid("put your card in the %s directory", DelphesCardDir)
	}
	exe, ok := DelphesExecutables[opts.Type]
	if !ok {
		return nil, errs.Invalid("--type must be hepmc or lhe, got %q", opts.Type)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = naming.DelphesOutputDir(opts.InputDir, opts.Card, opts.Type)
		utils.PrintNote("Auto setting output dir to %s", utils.StylePath(outputDir))
	}
	filesPerJob := opts.FilesPerJob
	if filesPerJob == 0 {
		filesPerJob = cfg.FilesPerJob
	}

	inputs, err := batch.Collect(opts.InputDir, batch.DelphesExtensions)
	if err != nil {
		return nil, err
	}
	utils.PrintDebug("Found %s input files in %s", utils.StyleNumber(len(inputs)), utils.StylePath(opts.InputDir))

	base := argvec.New(DelphesSchema, []string{"--card", filepath.Base(opts.Card), "--exe", exe})
	stem := naming.CardStem(opts.Card)
	date := dateOrNow(opts.Date)
	plan, err := planner.PlanBatches(&planner.BatchRequest{
		Program:     config.DelphesLogs,
		Label:       stem,
		IDPrefix:    "delphes",
		Base:        base,
		Inputs:      inputs,
		FilesPerJob: filesPerJob,
		ProcessFlag: "--process",
		OutputExt:   "root",
		OutputDir:   outputDir,
		LogRoot:     cfg.LogRoot(config.DelphesLogs),
		Date:        date,
	})
	if err != nil {
		return nil, err
	}

	dagStem := func(planner.Point) string { return naming.DagStem("", stem, date) }
	return &Run{
		Plan:     plan,
		DAGs:     dagsFor(plan, cfg, DelphesExe, []string{DelphesArchive, opts.Card}, dagStem),
		Archives: []Archive{{Src: cfg.DelphesDir, Dest: DelphesArchive}},
	}, nil
}
