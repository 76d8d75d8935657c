package scheduler

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/geonmo/NMSSMPheno/internal/planner"
	"github.com/geonmo/NMSSMPheno/internal/utils"
)

// DefaultStatusInterval is how often (seconds) DAGMan rewrites the status file.
const DefaultStatusInterval = 30

// JobSet is the submit description shared by every node of a DAG.
type JobSet struct {
	Executable   string
	LogDir       string
	Memory       string   // e.g. "100MB"
	Disk         string   // e.g. "2GB"
	CommonInputs []string // shipped with every job
}

// DAG is one DAGMan workflow: a node per planned job, all sharing JobSet.
type DAG struct {
	// Stem is the path of the DAG files without extension.
	Stem           string
	JobSet         JobSet
	Jobs           []planner.Descriptor
	StatusInterval int
}

// DagPath returns <stem>.dag.
func (d *DAG) DagPath() string { return d.Stem + ".dag" }

// SubmitPath returns <stem>.condor.
func (d *DAG) SubmitPath() string { return d.Stem + ".condor" }

// StatusPath returns <stem>.status.
func (d *DAG) StatusPath() string { return d.Stem + ".status" }

func (d *DAG) validate() error {
	if len(d.Jobs) == 0 {
		return ErrEmptyDAG
	}
	seen := make(map[string]bool, len(d.Jobs))
	for _, j := range d.Jobs {
		if seen[j.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateJob, j.ID)
		}
		seen[j.ID] = true
	}
	return nil
}

// Write creates the log directory, the submit description and the DAG file,
// returning the DAG path.
func (d *DAG) Write() (string, error) {
	name := filepath.Base(d.Stem)
	if err := d.validate(); err != nil {
		return "", NewScriptCreationError(name, d.DagPath(), err)
	}
	if err := utils.EnsureDir(filepath.Dir(d.Stem)); err != nil {
		return "", NewScriptCreationError(name, d.DagPath(), err)
	}
	if d.JobSet.LogDir != "" {
		if err := utils.EnsureDir(d.JobSet.LogDir); err != nil {
			return "", NewScriptCreationError(name, d.JobSet.LogDir, err)
		}
	}

	if err := writeFile(d.SubmitPath(), d.RenderSubmit); err != nil {
		return "", NewScriptCreationError(name, d.SubmitPath(), err)
	}
	if err := writeFile(d.DagPath(), d.RenderDAG); err != nil {
		return "", NewScriptCreationError(name, d.DagPath(), err)
	}
	utils.PrintDebug("Wrote DAG %s with %s jobs", utils.StylePath(d.DagPath()), utils.StyleNumber(len(d.Jobs)))
	return d.DagPath(), nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := render(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RenderSubmit writes the HTCondor submit description. Per-job values come
// from the DAG's VARS.
func (d *DAG) RenderSubmit(w io.Writer) error {
	js := d.JobSet
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# HTCondor Submit File")
	fmt.Fprintln(bw, "universe = vanilla")
	fmt.Fprintf(bw, "executable = %s\n", js.Executable)
	fmt.Fprintln(bw, "transfer_executable = true")
	fmt.Fprintln(bw, "arguments = \"$(opts)\"")
	fmt.Fprintln(bw, "")

	if js.LogDir != "" {
		fmt.Fprintf(bw, "output = %s\n", filepath.Join(js.LogDir, "$(JOB).$(Cluster).$(Process).out"))
		fmt.Fprintf(bw, "error = %s\n", filepath.Join(js.LogDir, "$(JOB).$(Cluster).$(Process).err"))
		fmt.Fprintf(bw, "log = %s\n", filepath.Join(js.LogDir, "$(JOB).$(Cluster).$(Process).log"))
	}

	fmt.Fprintln(bw, "should_transfer_files = YES")
	fmt.Fprintln(bw, "when_to_transfer_output = ON_EXIT_OR_EVICT")
	if len(js.CommonInputs) > 0 {
		fmt.Fprintf(bw, "transfer_input_files = %s\n", strings.Join(js.CommonInputs, ","))
	}

	if js.Memory != "" {
		mb, err := utils.ParseSizeToMB(js.Memory)
		if err != nil {
			return fmt.Errorf("invalid memory request: %w", err)
		}
		fmt.Fprintf(bw, "request_memory = %dMB\n", mb)
	}
	if js.Disk != "" {
		mb, err := utils.ParseSizeToMB(js.Disk)
		if err != nil {
			return fmt.Errorf("invalid disk request: %w", err)
		}
		fmt.Fprintf(bw, "request_disk = %dMB\n", mb)
	}

	fmt.Fprintln(bw, "+OutputFiles = \"$(outputs)\"")
	fmt.Fprintln(bw, "+MirrorDestination = \"$(mirror)\"")
	fmt.Fprintln(bw, "notification = Never")
	fmt.Fprintln(bw, "")
	fmt.Fprintln(bw, "queue")
	return bw.Flush()
}

// RenderDAG writes the DAGMan description: one JOB and VARS line per job,
// then the node status file.
func (d *DAG) RenderDAG(w io.Writer) error {
	bw := bufio.NewWriter(w)
	submit := d.SubmitPath()
	if abs, err := filepath.Abs(submit); err == nil {
		submit = abs
	}

	fmt.Fprintln(bw, "# DAG file generated by nmssmpheno")
	for _, j := range d.Jobs {
		fmt.Fprintf(bw, "JOB %s %s\n", j.ID, submit)
		fmt.Fprintf(bw, "VARS %s opts=\"%s\" outputs=\"%s\" mirror=\"%s\"\n",
			j.ID,
			escapeVar(condorArguments(j.Args)),
			escapeVar(strings.Join(j.OutputFiles, ",")),
			escapeVar(j.MirrorDestination))
	}

	interval := d.StatusInterval
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	fmt.Fprintf(bw, "NODE_STATUS_FILE %s %d\n", d.StatusPath(), interval)
	return bw.Flush()
}

// condorArguments renders args in the submit file's quoted arguments syntax:
// arguments with whitespace or quotes are wrapped in single quotes, with
// embedded single quotes doubled and double quotes repeated.
func condorArguments(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		a = strings.ReplaceAll(a, `"`, `""`)
		if a == "" || strings.ContainsAny(a, " \t'") {
			a = "'" + strings.ReplaceAll(a, "'", "''") + "'"
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}

// escapeVar escapes a value for a double-quoted DAGMan VARS assignment.
func escapeVar(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
