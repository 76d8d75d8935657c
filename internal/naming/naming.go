// Package naming derives output filenames, dated subdirectories and mirror
// destinations. Every function is a pure function of its inputs.
package naming

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/geonmo/NMSSMPheno/internal/errs"
)

// DateLayout formats the dated subdirectory; it sorts lexically by date.
const DateLayout = "2006_01_02"

// ClockLayout formats the time-of-day suffix of DAG file stems.
const ClockLayout = "150405"

// Project is the directory every log and mirror path is rooted under.
const Project = "NMSSMPheno"

var extRe = regexp.MustCompile(`^[A-Za-z0-9]+(\.[A-Za-z0-9]+)*$`)

// ValidateExt rejects extensions that could make two names collide, such as
// ones containing "_", "/" or empty segments.
func ValidateExt(ext string) error {
	if !extRe.MatchString(ext) {
		return errs.Invalid("bad file extension %q", ext)
	}
	return nil
}

// FormatNumber renders f with the shortest representation that round-trips.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Point identifies one parameter point of a generator run.
type Point struct {
	Channel string
	Mass    float64
	Energy  float64 // TeV
	Events  int
}

// Label is <channel>_mass<m>_<e>TeV, shared by the output and log subdirs.
func (p Point) Label() string {
	return fmt.Sprintf("%s_mass%s_%sTeV", p.Channel, FormatNumber(p.Mass), FormatNumber(p.Energy))
}

// Stem is the label plus the event count.
func (p Point) Stem() string {
	return fmt.Sprintf("%s_n%d", p.Label(), p.Events)
}

// Filename returns <stem>_seed<seed>.<ext>. Distinct points, seeds or
// extensions always give distinct names.
func Filename(p Point, seed int, ext string) (string, error) {
	if err := ValidateExt(ext); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_seed%d.%s", p.Stem(), seed, ext), nil
}

// WithSeed drops the directory and extension of a user-chosen output name and
// appends the seed and ext.
func WithSeed(name string, seed int, ext string) (string, error) {
	if err := ValidateExt(ext); err != nil {
		return "", err
	}
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_seed%d.%s", base, seed, ext), nil
}

// RunStem is the MG5 output stem <channel>_n<events>_seed<seed>.
func RunStem(channel string, events, seed int) string {
	return fmt.Sprintf("%s_n%d_seed%d", channel, events, seed)
}

// ArtifactStem returns the basename of an input artifact up to its first dot,
// so "a.hepmc.gz" and "a.lhe" both give "a".
func ArtifactStem(p string) string {
	base := filepath.Base(p)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// Subdir returns <stem>/<date>.
func Subdir(stem string, date time.Time) string {
	return path.Join(stem, date.Format(DateLayout))
}

// DagStem returns <subdir>/<prefix>_<HHMMSS>, the common stem of the DAG,
// submit and status files.
func DagStem(subdir, prefix string, at time.Time) string {
	return path.Join(subdir, prefix+"_"+at.Format(ClockLayout))
}

// LogDir returns <root>/<subdir>/logs.
func LogDir(root, subdir string) string {
	return path.Join(root, subdir, "logs")
}

// MirrorDir returns <storeRoot>/<user>/NMSSMPheno/<program>/<subdir>.
func MirrorDir(storeRoot, user, program, subdir string) string {
	return path.Join(storeRoot, user, Project, program, subdir)
}

// CardStem is the card filename without directory or extension.
func CardStem(card string) string {
	base := filepath.Base(card)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DelphesOutputDir returns <iDir>/../<card stem>_<type>.
func DelphesOutputDir(inputDir, card, inputType string) string {
	parent := filepath.Dir(strings.TrimRight(inputDir, "/"))
	return filepath.Join(parent, CardStem(card)+"_"+inputType)
}
