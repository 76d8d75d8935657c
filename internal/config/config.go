// Package config holds the site settings the job planners need: install
// locations, log and storage roots, and the per-job resource requests.
package config

import (
	"os"
	"os/user"
	"path/filepath"
)

const VERSION = "0.3.0"

// Program log subdirectories under LogDir.
const (
	PythiaLogs  = "Pythia8"
	MG5Logs     = "MG5_aMC"
	DelphesLogs = "delphes"
)

// JobConfig is the resource request shared by every job of a DAG
type JobConfig struct {
	Memory string
	Disk   string
}

// Config holds application settings. It is passed explicitly to the
// commands; nothing below cmd reads it from a global.
type Config struct {
	Debug   bool
	Quiet   bool
	Version string

	User               string
	MG5Dir             string
	DelphesDir         string
	LogDir             string
	StoreRoot          string
	CondorSubmitDagBin string
	FilesPerJob        int
	Job                JobConfig
}

// CurrentUser returns $LOGNAME, then $USER, then the account name.
func CurrentUser() string {
	for _, key := range []string{"LOGNAME", "USER"} {
		if name := os.Getenv(key); name != "" {
			return name
		}
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "nobody"
}

// Defaults returns the settings used when nothing is configured for name.
func Defaults(name string) Config {
	return Config{
		Version:            VERSION,
		User:               name,
		MG5Dir:             filepath.Join("/users", name, "MG5_aMC", "MG5_aMC_v2_3_3"),
		DelphesDir:         filepath.Join("/users", name, "delphes"),
		LogDir:             filepath.Join("/storage", name, "NMSSMPheno"),
		StoreRoot:          "/hdfs/user",
		CondorSubmitDagBin: "condor_submit_dag",
		FilesPerJob:        2,
		Job: JobConfig{
			Memory: "100MB",
			Disk:   "2GB",
		},
	}
}

// LogRoot returns the log directory for one program, e.g. LogDir/Pythia8.
func (c Config) LogRoot(program string) string {
	return filepath.Join(c.LogDir, program)
}
