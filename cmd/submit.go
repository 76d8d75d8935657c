package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/geonmo/NMSSMPheno/internal/planner"
	"github.com/geonmo/NMSSMPheno/internal/program"
	"github.com/geonmo/NMSSMPheno/internal/scheduler"
	"github.com/geonmo/NMSSMPheno/internal/utils"
	"github.com/spf13/cobra"
)

// splitAtDash separates the n positional arguments from the executable
// arguments following "--".
func splitAtDash(cmd *cobra.Command, args []string, n int) ([]string, []string, error) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		dash = len(args)
	}
	if dash != n {
		return nil, nil, errs.Invalid("expected %d arguments before --, got %d", n, dash)
	}
	return args[:dash], args[dash:], nil
}

// parseSeedRange reads "<startID> <endID>".
func parseSeedRange(ids []string) (planner.SeedRange, error) {
	var r planner.SeedRange
	if len(ids) != 2 {
		return r, errs.Invalid("job ID range must be startID endID")
	}
	start, err := strconv.Atoi(ids[0])
	if err != nil {
		return r, errs.Invalid("startID %q is not an integer", ids[0])
	}
	end, err := strconv.Atoi(ids[1])
	if err != nil {
		return r, errs.Invalid("endID %q is not an integer", ids[1])
	}
	return planner.SeedRange{Start: start, End: end}, nil
}

// planPath is where the plan of run is written, next to its first DAG.
func planPath(run *program.Run) string {
	return run.DAGs[0].Stem + ".plan.yaml"
}

// submitRun stages archives, writes the plan and every DAG, and submits
// them unless dry is set.
func submitRun(ctx context.Context, run *program.Run, dry bool) error {
	if len(run.DAGs) == 0 {
		return scheduler.ErrEmptyDAG
	}
	if err := run.Stage(ctx); err != nil {
		return err
	}
	if err := planner.WritePlan(planPath(run), run.Plan); err != nil {
		return err
	}
	utils.PrintNote("Plan %s written to %s", utils.StyleName(run.Plan.ID), utils.StylePath(planPath(run)))

	var sched scheduler.Scheduler
	if dry {
		utils.PrintWarning("Dry run - not submitting jobs or copying files.")
	} else {
		h, err := scheduler.NewHTCondorScheduler(cfg.CondorSubmitDagBin)
		if err != nil {
			return err
		}
		info := h.GetInfo()
		if info.InJob {
			utils.PrintWarning("Running inside an HTCondor job, nested submission is refused")
		}
		utils.PrintDebug("Scheduler %s via %s (available: %v)", info.Type, utils.StylePath(info.Binary), info.Available)
		sched = h
	}

	for _, d := range run.DAGs {
		for _, j := range d.Jobs {
			utils.PrintDebug("%s: %s %s", j.ID, d.JobSet.Executable, quoteArgs(j.Args))
		}
		dagPath, id, err := scheduler.WriteAndSubmit(ctx, sched, d, dry)
		if err != nil {
			return err
		}
		if dry {
			utils.PrintMessage("DAG file: %s (%s jobs)", utils.StylePath(dagPath), utils.StyleNumber(len(d.Jobs)))
			continue
		}
		utils.PrintSuccess("Submitted %s as cluster %s (%s jobs)", utils.StylePath(dagPath), utils.StyleNumber(id), utils.StyleNumber(len(d.Jobs)))
	}

	if status := run.StatusFiles(); len(status) > 1 {
		utils.PrintHint("Check all statuses with:\n  DAGstatus.py %s", strings.Join(status, " "))
	}
	return nil
}

func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = utils.ShellQuote(a)
	}
	return strings.Join(quoted, " ")
}
