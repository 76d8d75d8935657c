// Package scheduler hands planned jobs to HTCondor DAGMan: it renders the
// shared submit description, the DAG and its status file, then submits.
package scheduler

import (
	"context"
	"os"
)

// SchedulerInfo holds information about the detected scheduler
type SchedulerInfo struct {
	Type      string // Scheduler type, always "HTCondor"
	Binary    string // Path to condor_submit_dag
	InJob     bool   // Whether we're currently inside a scheduled job
	Available bool   // Whether scheduler is available for job submission
}

// Scheduler submits a written DAG.
type Scheduler interface {
	// IsAvailable reports whether submission can happen from this host.
	IsAvailable() bool
	// GetInfo describes the scheduler binary and environment.
	GetInfo() *SchedulerInfo
	// Submit submits the DAG file and returns the DAGMan cluster ID.
	Submit(ctx context.Context, dagPath string) (string, error)
}

// IsInsideJob checks if we're currently running inside an HTCondor job.
// This is useful to avoid nested job submission.
func IsInsideJob() bool {
	_, ok := os.LookupEnv("_CONDOR_JOB_AD")
	return ok
}

// WriteAndSubmit writes d and, unless dry is set, submits it through s.
// It returns the DAG path and the cluster ID (empty on a dry run).
func WriteAndSubmit(ctx context.Context, s Scheduler, d *DAG, dry bool) (string, string, error) {
	dagPath, err := d.Write()
	if err != nil {
		return "", "", err
	}
	if dry {
		return dagPath, "", nil
	}
	if s == nil || !s.IsAvailable() {
		return dagPath, "", ErrSchedulerNotAvailable
	}
	id, err := s.Submit(ctx, dagPath)
	return dagPath, id, err
}
