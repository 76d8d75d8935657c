package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Standard default permissions
// File: u=rw, g=rw, o=r
const PermFile os.FileMode = 0664

// Dir:  u=rwx, g=rwx, o=rx (Requires +x to traverse)
const PermDir os.FileMode = 0775

// --- Filename Checks (String-based) ---

// IsCard checks if the path looks like a generator or detector card.
func IsCard(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dat", ".cmnd", ".tcl", ".txt":
		return true
	}
	return false
}

// IsDagFile checks if the path is a DAGMan, submit or status file.
func IsDagFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dag", ".condor", ".status":
		return true
	}
	return false
}

// IsEventFile checks if the path holds generated events or histograms.
func IsEventFile(path string) bool {
	lower := strings.ToLower(strings.TrimSuffix(path, ".gz"))
	for _, ext := range []string{".hepmc", ".lhe", ".root"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// --- Filesystem Checks (OS-based) ---

// FileExists checks if a file exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDir creates path if it is missing. It fails when a file already
// occupies that name.
func EnsureDir(path string) error {
	if DirExists(path) {
		return nil
	}
	if FileExists(path) {
		return fmt.Errorf("cannot create directory %s, already exists as a file", path)
	}
	if err := os.MkdirAll(path, PermDir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	PrintDebug("Created directory %s", StylePath(path))
	return nil
}
