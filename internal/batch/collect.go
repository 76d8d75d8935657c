package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/geonmo/NMSSMPheno/internal/errs"
)

// DelphesExtensions are the input suffixes Delphes can read, gzipped or not.
var DelphesExtensions = []string{".lhe", ".hepmc", ".gz", ".tar.gz", ".tgz"}

// Accept reports whether name ends with one of exts, ignoring case.
func Accept(name string, exts []string) bool {
	lower := strings.ToLower(filepath.Base(name))
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// Collect lists the regular files in dir accepted by exts as sorted absolute
// paths. Directory listing order is never relied on.
func Collect(dir string, exts []string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Missing("input directory %s does not exist", dir)
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		path := filepath.Join(abs, e.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if Accept(e.Name(), exts) {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return nil, errs.Missing("no acceptable input file in %s", dir)
	}

	sort.Strings(files)
	return files, nil
}
