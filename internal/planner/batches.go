package planner

import (
	"fmt"
	"path"
	"time"

	"github.com/geonmo/NMSSMPheno/internal/argvec"
	"github.com/geonmo/NMSSMPheno/internal/batch"
	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/geonmo/NMSSMPheno/internal/naming"
	"github.com/hashicorp/go-multierror"
)

// BatchRequest describes a run over existing input artifacts, a fixed number
// per job.
type BatchRequest struct {
	Program string
	// Label names the log subdirectory, typically the card stem.
	Label string
	// IDPrefix is followed by the batch index to form job IDs.
	IDPrefix string
	Base     *argvec.Vector

	Inputs      []string
	FilesPerJob int
	// ProcessFlag precedes each "<input> <output>" pair.
	ProcessFlag string
	OutputExt   string

	OutputDir string
	LogRoot   string
	Date      time.Time
}

// Validate reports every problem with the request at once.
func (r *BatchRequest) Validate() error {
	var result *multierror.Error
	if r.Base == nil {
		result = multierror.Append(result, errs.Invalid("no base args"))
	}
	if r.Label == "" {
		result = multierror.Append(result, errs.Invalid("empty batch label"))
	}
	if r.FilesPerJob < 1 {
		result = multierror.Append(result, errs.Invalid("files per job must be >= 1, got %d", r.FilesPerJob))
	}
	if len(r.Inputs) == 0 {
		result = multierror.Append(result, errs.Missing("no input artifacts"))
	}
	// Output names derive from the input stem, so stems must be unique.
	seen := make(map[string]string, len(r.Inputs))
	for _, in := range r.Inputs {
		stem := naming.ArtifactStem(in)
		if prev, ok := seen[stem]; ok {
			result = multierror.Append(result, errs.Invalid("%s and %s both produce output %s.%s", prev, in, stem, r.OutputExt))
			continue
		}
		seen[stem] = in
	}
	if r.ProcessFlag == "" {
		result = multierror.Append(result, errs.Invalid("empty process flag"))
	}
	if err := naming.ValidateExt(r.OutputExt); err != nil {
		result = multierror.Append(result, err)
	}
	if r.OutputDir == "" {
		result = multierror.Append(result, errs.Invalid("empty output directory"))
	}
	return result.ErrorOrNil()
}

// PlanBatches groups the inputs and emits one descriptor per batch. Each
// input becomes "<flag> <input> <OutputDir>/<stem>.<ext>"; pad slots never
// reach the args.
func PlanBatches(req *BatchRequest) (*Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	batches, err := batch.Group(req.Inputs, req.FilesPerJob, "")
	if err != nil {
		return nil, err
	}

	subdir := naming.Subdir(req.Label, req.Date)
	pt := Point{
		Label:             req.Label,
		Subdir:            subdir,
		LogDir:            naming.LogDir(req.LogRoot, subdir),
		MirrorDestination: req.OutputDir,
	}
	for _, b := range batches {
		args := req.Base.Tokens()
		var outputs []string
		for _, in := range b.Artifacts() {
			out := path.Join(req.OutputDir, naming.ArtifactStem(in)+"."+req.OutputExt)
			args = append(args, req.ProcessFlag, in, out)
			outputs = append(outputs, out)
		}
		pt.Jobs = append(pt.Jobs, Descriptor{
			ID:                fmt.Sprintf("%s%d", req.IDPrefix, b.Index),
			Args:              args,
			OutputFiles:       outputs,
			MirrorDestination: req.OutputDir,
		})
	}

	plan := &Plan{
		Program: req.Program,
		Channel: req.Label,
		Date:    req.Date.Format(naming.DateLayout),
		Points:  []Point{pt},
	}
	plan.ID = planID(plan).String()
	return plan, nil
}
