package scheduler

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"

	"github.com/geonmo/NMSSMPheno/internal/utils"
)

// HTCondorScheduler submits DAGs with condor_submit_dag
type HTCondorScheduler struct {
	condorSubmitDagBin string
	jobIDRe            *regexp.Regexp
}

// NewHTCondorScheduler creates an HTCondor scheduler using condor_submit_dag
// from PATH, or the explicit binary when one is given
func NewHTCondorScheduler(condorSubmitDagBin string) (*HTCondorScheduler, error) {
	binPath := condorSubmitDagBin
	if binPath == "" || filepath.Base(binPath) == binPath {
		name := binPath
		if name == "" {
			name = "condor_submit_dag"
		}
		var err error
		binPath, err = exec.LookPath(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchedulerNotFound, err)
		}
	} else {
		if absPath, err := filepath.Abs(binPath); err == nil {
			binPath = absPath
		}
		info, err := os.Stat(binPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchedulerNotFound, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", ErrSchedulerNotFound, binPath)
		}
	}

	return &HTCondorScheduler{
		condorSubmitDagBin: binPath,
		jobIDRe:            regexp.MustCompile(`submitted to cluster (\d+)`),
	}, nil
}

// IsAvailable checks if HTCondor is available and we're not inside an HTCondor job
func (h *HTCondorScheduler) IsAvailable() bool {
	if h.condorSubmitDagBin == "" {
		return false
	}
	return !IsInsideJob()
}

// GetInfo returns information about the HTCondor scheduler
func (h *HTCondorScheduler) GetInfo() *SchedulerInfo {
	return &SchedulerInfo{
		Type:      "HTCondor",
		Binary:    h.condorSubmitDagBin,
		InJob:     IsInsideJob(),
		Available: h.IsAvailable(),
	}
}

// Submit runs condor_submit_dag on dagPath and returns the DAGMan cluster ID
func (h *HTCondorScheduler) Submit(ctx context.Context, dagPath string) (string, error) {
	cmd := exec.CommandContext(ctx, h.condorSubmitDagBin, dagPath)
	utils.PrintDebug("Executing: %s %s", h.condorSubmitDagBin, dagPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", NewSubmissionError("HTCondor", filepath.Base(dagPath), string(output), err)
	}

	// Example: "1 job(s) submitted to cluster 12345."
	matches := h.jobIDRe.FindStringSubmatch(string(output))
	if len(matches) < 2 {
		return "", fmt.Errorf("%w: %s", ErrJobIDParseFailed, string(output))
	}
	return matches[1], nil
}
