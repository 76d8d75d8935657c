package naming

import (
	"testing"
	"time"

	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testDate = time.Date(2016, time.January, 13, 9, 5, 7, 0, time.UTC)

func TestFilename(t *testing.T) {
	tests := []struct {
		point Point
		seed  int
		ext   string
		want  string
	}{
		{Point{"ggh_4tau", 8, 13, 10000}, 1, "hepmc", "ggh_4tau_mass8_13TeV_n10000_seed1.hepmc"},
		{Point{"ggh", 7.5, 13.6, 1}, 42, "lhe", "ggh_mass7.5_13.6TeV_n1_seed42.lhe"},
		{Point{"ggh", 0.1, 8, 5}, 3, "root", "ggh_mass0.1_8TeV_n5_seed3.root"},
		{Point{"ggh", 15, 13, 5}, 3, "hepmc.gz", "ggh_mass15_13TeV_n5_seed3.hepmc.gz"},
	}

	for _, tt := range tests {
		got, err := Filename(tt.point, tt.seed, tt.ext)
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("Filename(%+v, %d, %q) = %q; want %q", tt.point, tt.seed, tt.ext, got, tt.want)
		}
	}
}

func TestValidateExt(t *testing.T) {
	for _, ext := range []string{"hepmc", "lhe.gz", "tar.gz", "ROOT"} {
		require.NoError(t, ValidateExt(ext), ext)
	}
	for _, ext := range []string{"", ".hepmc", "a_b", "a/b", "gz.", "a..b", "x y"} {
		require.ErrorIs(t, ValidateExt(ext), errs.ErrInvalidArgument, ext)
	}
}

func TestWithSeed(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"out.hepmc", "out_seed7.hepmc"},
		{"/some/dir/out.hepmc", "out_seed7.hepmc"},
		{"out", "out_seed7.hepmc"},
		{"my.events.hepmc", "my.events_seed7.hepmc"},
	}
	for _, tt := range tests {
		got, err := WithSeed(tt.name, 7, "hepmc")
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("WithSeed(%q) = %q; want %q", tt.name, got, tt.want)
		}
	}
}

func TestPaths(t *testing.T) {
	p := Point{Channel: "ggh_4tau", Mass: 8, Energy: 13, Events: 100}
	subdir := Subdir(p.Label(), testDate)
	require.Equal(t, "ggh_4tau_mass8_13TeV/2016_01_13", subdir)
	require.Equal(t, "/storage/rob/NMSSMPheno/Pythia8/ggh_4tau_mass8_13TeV/2016_01_13/logs",
		LogDir("/storage/rob/NMSSMPheno/Pythia8", subdir))
	require.Equal(t, "/hdfs/user/rob/NMSSMPheno/Pythia8/ggh_4tau_mass8_13TeV/2016_01_13",
		MirrorDir("/hdfs/user", "rob", "Pythia8", subdir))
	require.Equal(t, "ggh_4tau_mass8_13TeV/2016_01_13/py8_090507", DagStem(subdir, "py8", testDate))
	require.Equal(t, "ggh_4tau_n500_seed3", RunStem("ggh_4tau", 500, 3))
}

func TestSubdirSortsByDate(t *testing.T) {
	a := Subdir("x", time.Date(2015, time.December, 31, 0, 0, 0, 0, time.UTC))
	b := Subdir("x", time.Date(2016, time.January, 2, 0, 0, 0, 0, time.UTC))
	c := Subdir("x", time.Date(2016, time.October, 1, 0, 0, 0, 0, time.UTC))
	require.Less(t, a, b)
	require.Less(t, b, c)
}

func TestArtifactStemAndDelphesDir(t *testing.T) {
	require.Equal(t, "events_3", ArtifactStem("/hdfs/x/events_3.hepmc.gz"))
	require.Equal(t, "a", ArtifactStem("a"))
	require.Equal(t, "delphes_card_cms", CardStem("input_cards/delphes_card_cms.tcl"))
	require.Equal(t, "/hdfs/users/rob/delphes_card_cms_hepmc",
		DelphesOutputDir("/hdfs/users/rob/hepmc/", "input_cards/delphes_card_cms.tcl", "hepmc"))
}

func pointGen() *rapid.Generator[Point] {
	return rapid.Custom(func(t *rapid.T) Point {
		return Point{
			Channel: rapid.StringMatching(`[a-z]{1,3}(_[a-z0-9]{1,3})?`).Draw(t, "channel"),
			Mass:    float64(rapid.IntRange(1, 400).Draw(t, "mass10")) / 10,
			Energy:  rapid.SampledFrom([]float64{7, 8, 13, 13.6, 14}).Draw(t, "energy"),
			Events:  rapid.IntRange(1, 100000).Draw(t, "events"),
		}
	})
}

func TestFilenameIsInjective(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p1, p2 := pointGen().Draw(t, "p1"), pointGen().Draw(t, "p2")
		s1, s2 := rapid.IntRange(1, 1000).Draw(t, "s1"), rapid.IntRange(1, 1000).Draw(t, "s2")
		exts := []string{"hepmc", "lhe", "root", "hepmc.gz"}
		e1, e2 := rapid.SampledFrom(exts).Draw(t, "e1"), rapid.SampledFrom(exts).Draw(t, "e2")

		n1, err := Filename(p1, s1, e1)
		require.NoError(t, err)
		n2, err := Filename(p2, s2, e2)
		require.NoError(t, err)

		same := p1 == p2 && s1 == s2 && e1 == e2
		require.Equal(t, same, n1 == n2, "%q vs %q", n1, n2)
	})
}
