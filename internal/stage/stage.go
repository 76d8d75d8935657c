// Package stage prepares the common inputs shipped with every job of a DAG,
// such as a tarball of the MG5_aMC or Delphes installation.
package stage

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/geonmo/NMSSMPheno/internal/utils"
	"golang.org/x/mod/semver"
)

// MinMG5Version is the oldest MG5_aMC release whose run_card accepts the
// fields we render.
const MinMG5Version = "v2.3.0"

var mg5DirRe = regexp.MustCompile(`MG5_aMC_v(\d+)_(\d+)_(\d+)((?:_[A-Za-z0-9]+)*)$`)

// MG5Install describes an MG5_aMC installation directory.
type MG5Install struct {
	Dir     string // e.g. /users/rob/MG5_aMC/MG5_aMC_v2_3_3
	Name    string // e.g. MG5_aMC_v2_3_3
	Version string // canonical semver, e.g. v2.3.3
}

// Archive is the tarball name shipped to the worker.
func (m MG5Install) Archive() string {
	return m.Name + ".tgz"
}

// Executable is the mg5_aMC path once the archive is unpacked on the worker.
func (m MG5Install) Executable() string {
	return m.Name + "/bin/mg5_aMC"
}

// Supported reports whether the install is at least MinMG5Version.
func (m MG5Install) Supported() bool {
	return semver.Compare(m.Version, MinMG5Version) >= 0
}

// ParseMG5Dir extracts the release from an install directory named like
// MG5_aMC_v2_3_3 (optionally with a suffix such as _beta).
func ParseMG5Dir(dir string) (MG5Install, error) {
	clean := strings.TrimRight(dir, "/")
	name := filepath.Base(clean)
	m := mg5DirRe.FindStringSubmatch(name)
	if m == nil {
		return MG5Install{}, errs.Invalid("cannot determine MG5_aMC version from %s", dir)
	}

	version := fmt.Sprintf("v%s.%s.%s", m[1], m[2], m[3])
	if suffix := strings.TrimPrefix(m[4], "_"); suffix != "" {
		version += "-" + strings.ReplaceAll(suffix, "_", ".")
	}
	version = semver.Canonical(version)
	if version == "" {
		return MG5Install{}, errs.Invalid("bad MG5_aMC version in %s", dir)
	}
	return MG5Install{Dir: clean, Name: name, Version: version}, nil
}

// Archive writes a gzip tarball of srcDir to dest, with srcDir's basename as
// the single top-level entry.
func Archive(ctx context.Context, srcDir, dest string) error {
	clean := strings.TrimRight(srcDir, "/")
	if !utils.DirExists(clean) {
		return errs.Missing("%s does not correspond to an actual directory", srcDir)
	}
	utils.PrintNote("Creating tar file of %s, please wait...", utils.StylePath(clean))
	return runCommand(ctx, "archive", dest, "tar", "czf", dest, "-C", filepath.Dir(clean), filepath.Base(clean))
}

func runCommand(ctx context.Context, op, path, tool string, args ...string) error {
	cmd := exec.CommandContext(ctx, tool, args...)
	utils.PrintDebug("[%s] Running %s %s", op, tool, strings.Join(args, " "))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &Error{
			Op:      op,
			Path:    path,
			Tool:    tool,
			Output:  string(output),
			BaseErr: err,
		}
	}
	return nil
}
