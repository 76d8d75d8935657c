// Package program holds the generator profiles: which flags each executable
// understands, what it defaults, and how a command line becomes a plan and
// the DAGs that run it.
package program

import (
	"context"
	"strconv"
	"time"

	"github.com/geonmo/NMSSMPheno/internal/argvec"
	"github.com/geonmo/NMSSMPheno/internal/config"
	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/geonmo/NMSSMPheno/internal/naming"
	"github.com/geonmo/NMSSMPheno/internal/planner"
	"github.com/geonmo/NMSSMPheno/internal/scheduler"
	"github.com/geonmo/NMSSMPheno/internal/stage"
	"github.com/geonmo/NMSSMPheno/internal/utils"
)

// Archive is a directory tarred into a common job input before submission.
type Archive struct {
	Src  string
	Dest string
}

// Run is a planned submission: the plan, one DAG per plan point, and the
// archives the DAGs ship.
type Run struct {
	Plan     *planner.Plan
	DAGs     []*scheduler.DAG
	Archives []Archive
}

// Stage builds every archive of the run.
func (r *Run) Stage(ctx context.Context) error {
	for _, a := range r.Archives {
		if err := stage.Archive(ctx, a.Src, a.Dest); err != nil {
			return err
		}
	}
	return nil
}

// StatusFiles lists the DAG status files in plan order.
func (r *Run) StatusFiles() []string {
	out := make([]string, 0, len(r.DAGs))
	for _, d := range r.DAGs {
		out = append(out, d.StatusPath())
	}
	return out
}

// JobCount is the number of jobs across all DAGs.
func (r *Run) JobCount() int {
	n := 0
	for _, d := range r.DAGs {
		n += len(d.Jobs)
	}
	return n
}

// dagsFor builds one DAG per plan point. stem maps a point to its DAG stem.
func dagsFor(plan *planner.Plan, cfg config.Config, exe string, inputs []string, stem func(planner.Point) string) []*scheduler.DAG {
	dags := make([]*scheduler.DAG, 0, len(plan.Points))
	for _, pt := range plan.Points {
		dags = append(dags, &scheduler.DAG{
			Stem: stem(pt),
			JobSet: scheduler.JobSet{
				Executable:   exe,
				LogDir:       pt.LogDir,
				Memory:       cfg.Job.Memory,
				Disk:         cfg.Job.Disk,
				CommonInputs: inputs,
			},
			Jobs:           pt.Jobs,
			StatusInterval: scheduler.DefaultStatusInterval,
		})
	}
	return dags
}

func pointStem(prefix string, at time.Time) func(planner.Point) string {
	return func(pt planner.Point) string {
		return naming.DagStem(pt.Subdir, prefix, at)
	}
}

// requireCard returns the value of flag, failing when it is absent, empty or
// not a file.
func requireCard(args *argvec.Vector, flag string) (string, error) {
	card, _, err := args.Get(flag)
	if err != nil || card == "" {
		return "", errs.Invalid("you did not specify an input card with %s", flag)
	}
	if !utils.FileExists(card) {
		return "", errs.Missing("input card %s does not exist", card)
	}
	return card, nil
}

// intOption parses the first of flags that is present, or returns def.
func intOption(args *argvec.Vector, def int, flags ...string) (int, bool, error) {
	s, found, err := args.Lookup(flags...)
	if err != nil || !found || s == "" {
		return def, false, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, errs.Invalid("%s expects an integer, got %q", flags[0], s)
	}
	return n, true, nil
}

// floatOption parses the first of flags that is present, or returns def.
func floatOption(args *argvec.Vector, def float64, flags ...string) (float64, error) {
	s, found, err := args.Lookup(flags...)
	if err != nil || !found || s == "" {
		return def, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.Invalid("%s expects a number, got %q", flags[0], s)
	}
	return f, nil
}

func dateOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
