package planner

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/geonmo/NMSSMPheno/internal/argvec"
	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testDate = time.Date(2016, time.January, 13, 10, 10, 10, 0, time.UTC)

var pythiaSchema = argvec.NewSchema(map[string]argvec.Kind{
	"--card":   argvec.Value,
	"--mass":   argvec.Value,
	"--seed":   argvec.Value,
	"--energy": argvec.Value,
	"-n":       argvec.Value,
	"--hepmc":  argvec.OptionalValue,
	"--lhe":    argvec.OptionalValue,
	"--root":   argvec.OptionalValue,
	"--zip":    argvec.Switch,
})

func pythiaRequest(tokens ...string) *Request {
	return &Request{
		Program:        "Pythia8",
		Channel:        "ggh",
		Base:           argvec.New(pythiaSchema, tokens),
		Seeds:          SeedRange{Start: 1, End: 3},
		SeedFlag:       "--seed",
		Mass:           15,
		Energy:         13,
		Events:         100,
		Outputs:        []Output{{"--hepmc", "hepmc"}, {"--root", "root"}, {"--lhe", "lhe"}},
		CompressSwitch: "--zip",
		StoreRoot:      "/hdfs/user",
		User:           "rob",
		LogRoot:        "/storage/rob/NMSSMPheno/Pythia8",
		Date:           testDate,
	}
}

func TestPlanSeedRange(t *testing.T) {
	plan, err := PlanJobs(pythiaRequest("--card", "ggh.cmnd", "-n", "100", "--hepmc", "--zip"))
	require.NoError(t, err)
	require.Len(t, plan.Points, 1)

	jobs := plan.Descriptors()
	require.Len(t, jobs, 3)
	for i, d := range jobs {
		seed := i + 1
		name := fmt.Sprintf("ggh_mass15_13TeV_n100_seed%d.hepmc", seed)
		require.Equal(t, seed, d.Seed)
		require.Equal(t, []string{"--card", "ggh.cmnd", "-n", "100", "--hepmc", name, "--zip",
			"--seed", strconv.Itoa(seed)}, d.Args)
		require.Equal(t, []string{name + ".gz"}, d.OutputFiles)
		require.Equal(t, "/hdfs/user/rob/NMSSMPheno/Pythia8/ggh_mass15_13TeV/2016_01_13", d.MirrorDestination)
	}
	require.Equal(t, "1_ggh", jobs[0].ID)
	require.Equal(t, "/storage/rob/NMSSMPheno/Pythia8/ggh_mass15_13TeV/2016_01_13/logs", plan.Points[0].LogDir)
}

func TestPlanUserOutputName(t *testing.T) {
	req := pythiaRequest("--card", "ggh.cmnd", "--hepmc", "/tmp/mine.hepmc", "--lhe", "evts")
	req.Seeds = SeedRange{Start: 7, End: 7}
	plan, err := PlanJobs(req)
	require.NoError(t, err)

	d := plan.Descriptors()[0]
	want := []string{"--card", "ggh.cmnd", "--hepmc", "mine_seed7.hepmc", "--lhe", "evts_seed7.lhe", "--seed", "7"}
	if diff := cmp.Diff(want, d.Args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"mine_seed7.hepmc", "evts_seed7.lhe"}, d.OutputFiles)
}

func TestPlanOverwritesSeed(t *testing.T) {
	req := pythiaRequest("--seed", "99", "--card", "ggh.cmnd")
	req.Seeds = SeedRange{Start: 4, End: 4}
	plan, err := PlanJobs(req)
	require.NoError(t, err)
	require.Equal(t, []string{"--seed", "4", "--card", "ggh.cmnd"}, plan.Descriptors()[0].Args)
}

func TestPlanSweep(t *testing.T) {
	req := pythiaRequest("--card", "ggh.cmnd", "--mass", "4", "--hepmc")
	req.Seeds = SeedRange{Start: 1, End: 2}
	req.Sweep = &Sweep{Flag: "--mass", Start: 0.1, Stop: 0.3, Step: 0.1}
	req.OutputDir = "/hdfs/user/rob/scan"

	plan, err := PlanJobs(req)
	require.NoError(t, err)
	require.Len(t, plan.Points, 3)

	var labels []string
	seen := map[string]bool{}
	for _, pt := range plan.Points {
		labels = append(labels, pt.Label)
		require.Len(t, pt.Jobs, 2)
		require.Equal(t, "/hdfs/user/rob/scan/"+pt.Label, pt.MirrorDestination)
		for _, d := range pt.Jobs {
			full := d.MirrorDestination + "/" + d.OutputFiles[0]
			require.False(t, seen[full], "duplicate output %s", full)
			seen[full] = true
		}
	}
	require.Equal(t, []string{"ggh_mass0.1_13TeV", "ggh_mass0.2_13TeV", "ggh_mass0.3_13TeV"}, labels)
	require.Equal(t, "0.2", plan.Points[1].Jobs[0].Args[3])
}

func TestSweepValues(t *testing.T) {
	tests := []struct {
		sweep Sweep
		want  int
	}{
		{Sweep{Start: 1, Stop: 1, Step: 1}, 1},
		{Sweep{Start: 1, Stop: 1.5, Step: 1}, 1},
		{Sweep{Start: 0.1, Stop: 0.3, Step: 0.1}, 3},
		{Sweep{Start: 2, Stop: 10, Step: 2}, 5},
		{Sweep{Start: 2, Stop: 1, Step: 1}, 0},
	}
	for _, tt := range tests {
		if got := len(tt.sweep.Values()); got != tt.want {
			t.Errorf("len(%+v.Values()) = %d; want %d", tt.sweep, got, tt.want)
		}
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	req := pythiaRequest("--card", "ggh.cmnd")
	req.Seeds = SeedRange{Start: 0, End: -1}
	req.Sweep = &Sweep{Flag: "--mass", Start: 5, Stop: 1, Step: 0}
	req.Events = 0

	_, err := PlanJobs(req)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	for _, fragment := range []string{"first seed", "last seed", "sweep values", "sweep stop", "number of events"} {
		require.Contains(t, err.Error(), fragment)
	}
}

func TestPlanSeedRangeAtMaxInt(t *testing.T) {
	req := pythiaRequest("--card", "ggh.cmnd")
	req.Seeds = SeedRange{Start: math.MaxInt - 1, End: math.MaxInt}

	plan, err := PlanJobs(req)
	require.NoError(t, err)
	jobs := plan.Descriptors()
	require.Len(t, jobs, 2)
	require.Equal(t, math.MaxInt-1, jobs[0].Seed)
	require.Equal(t, math.MaxInt, jobs[1].Seed)
}

func TestSeedRangeLen(t *testing.T) {
	tests := []struct {
		r    SeedRange
		want int
	}{
		{SeedRange{Start: 1, End: 3}, 3},
		{SeedRange{Start: 5, End: 5}, 1},
		{SeedRange{Start: 4, End: 3}, 0},
		{SeedRange{Start: math.MaxInt, End: math.MaxInt}, 1},
		{SeedRange{Start: 1, End: math.MaxInt}, math.MaxInt},
		{SeedRange{Start: 0, End: math.MaxInt}, 0},
		{SeedRange{Start: math.MinInt, End: math.MaxInt}, 0},
	}
	for _, tt := range tests {
		if got := tt.r.Len(); got != tt.want {
			t.Errorf("%+v.Len() = %d; want %d", tt.r, got, tt.want)
		}
	}

	err := SeedRange{Start: math.MinInt, End: math.MaxInt}.validate()
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	require.Contains(t, err.Error(), "too large")
}

func TestValidateSchemaUse(t *testing.T) {
	req := pythiaRequest()
	req.SeedFlag = "--zip"
	req.Outputs = []Output{{"--hepmc", "hep_mc"}}
	err := req.Validate()
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	require.Contains(t, err.Error(), "seed flag")
	require.Contains(t, err.Error(), "bad file extension")
}

func TestPlanRunStem(t *testing.T) {
	schema := argvec.NewSchema(map[string]argvec.Kind{
		"--nevents": argvec.Value,
		"--seed":    argvec.Value,
		"--newstem": argvec.Value,
	})
	req := &Request{
		Program:  "MG5_aMC",
		Channel:  "ggh_4tau",
		Base:     argvec.New(schema, []string{"proc.txt", "--nevents", "500"}),
		Seeds:    SeedRange{Start: 2, End: 2},
		SeedFlag: "--seed",
		Events:   500,
		RunStem: &RunStem{
			Flag:  "--newstem",
			Dir:   "ggh_4tau/Events/run_01",
			Files: []string{"{stem}.lhe.gz", "summary_{stem}.txt"},
		},
		StoreRoot: "/hdfs/user",
		User:      "rob",
		LogRoot:   "/storage/rob/NMSSMPheno/MG5_aMC",
		Date:      testDate,
	}

	plan, err := PlanJobs(req)
	require.NoError(t, err)
	d := plan.Descriptors()[0]
	require.Equal(t, []string{"proc.txt", "--nevents", "500", "--seed", "2", "--newstem", "ggh_4tau_n500_seed2"}, d.Args)
	require.Equal(t, []string{
		"ggh_4tau/Events/run_01/ggh_4tau_n500_seed2.lhe.gz",
		"ggh_4tau/Events/run_01/summary_ggh_4tau_n500_seed2.txt",
	}, d.OutputFiles)
	require.Equal(t, "/hdfs/user/rob/NMSSMPheno/MG5_aMC/ggh_4tau/2016_01_13", d.MirrorDestination)
}

func TestPlanIsDeterministic(t *testing.T) {
	a, err := PlanJobs(pythiaRequest("--card", "ggh.cmnd", "--hepmc"))
	require.NoError(t, err)
	b, err := PlanJobs(pythiaRequest("--card", "ggh.cmnd", "--hepmc"))
	require.NoError(t, err)
	require.Equal(t, a.ID, b.ID)

	ea, err := a.Encode()
	require.NoError(t, err)
	eb, err := b.Encode()
	require.NoError(t, err)
	require.Equal(t, string(ea), string(eb))

	c, err := PlanJobs(pythiaRequest("--card", "other.cmnd", "--hepmc"))
	require.NoError(t, err)
	require.NotEqual(t, a.ID, c.ID)
}

func TestWriteAndReadPlan(t *testing.T) {
	plan, err := PlanJobs(pythiaRequest("--card", "ggh.cmnd", "--hepmc"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "plans", "py8.yaml")
	require.NoError(t, WritePlan(path, plan))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "id: "+plan.ID+"\n"))
	require.Contains(t, string(data), "mirror_destination: /hdfs/user/rob/NMSSMPheno/Pythia8/ggh_mass15_13TeV/2016_01_13")

	got, err := ReadPlan(path)
	require.NoError(t, err)
	if diff := cmp.Diff(plan, got); diff != "" {
		t.Errorf("plan mismatch after reload (-want +got):\n%s", diff)
	}
}

func TestPlanBatches(t *testing.T) {
	base := argvec.New(argvec.NewSchema(map[string]argvec.Kind{
		"--card": argvec.Value,
		"--exe":  argvec.Value,
	}), []string{"--card", "cms.tcl", "--exe", "./DelphesHepMC"})

	req := &BatchRequest{
		Program:     "Delphes",
		Label:       "cms",
		IDPrefix:    "delphes",
		Base:        base,
		Inputs:      []string{"/in/a.hepmc", "/in/b.hepmc.gz", "/in/c.hepmc"},
		FilesPerJob: 2,
		ProcessFlag: "--process",
		OutputExt:   "root",
		OutputDir:   "/hdfs/out",
		LogRoot:     "/storage/rob/NMSSMPheno/Delphes",
		Date:        testDate,
	}
	plan, err := PlanBatches(req)
	require.NoError(t, err)

	jobs := plan.Descriptors()
	require.Len(t, jobs, 2)
	require.Equal(t, "delphes0", jobs[0].ID)
	require.Equal(t, []string{"--card", "cms.tcl", "--exe", "./DelphesHepMC",
		"--process", "/in/a.hepmc", "/hdfs/out/a.root",
		"--process", "/in/b.hepmc.gz", "/hdfs/out/b.root"}, jobs[0].Args)
	require.Equal(t, []string{"--card", "cms.tcl", "--exe", "./DelphesHepMC",
		"--process", "/in/c.hepmc", "/hdfs/out/c.root"}, jobs[1].Args)
	require.Equal(t, "/storage/rob/NMSSMPheno/Delphes/cms/2016_01_13/logs", plan.Points[0].LogDir)
}

func TestPlanBatchesValidation(t *testing.T) {
	_, err := PlanBatches(&BatchRequest{FilesPerJob: 0, OutputExt: "root"})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	require.ErrorIs(t, err, errs.ErrMissingResource)
}

func TestPlanBatchesRejectsSharedStems(t *testing.T) {
	base := argvec.New(argvec.NewSchema(map[string]argvec.Kind{"--card": argvec.Value}), []string{"--card", "cms.tcl"})
	req := &BatchRequest{
		Program:     "Delphes",
		Label:       "cms",
		IDPrefix:    "delphes",
		Base:        base,
		Inputs:      []string{"/in/a.hepmc", "/in/a.hepmc.gz", "/in/b.lhe"},
		FilesPerJob: 2,
		ProcessFlag: "--process",
		OutputExt:   "root",
		OutputDir:   "/hdfs/out",
		Date:        testDate,
	}
	_, err := PlanBatches(req)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	require.Contains(t, err.Error(), "/in/a.hepmc and /in/a.hepmc.gz both produce output a.root")
}

func TestPlanProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.IntRange(1, 50).Draw(t, "start")
		end := rapid.IntRange(start, start+20).Draw(t, "end")
		points := rapid.IntRange(1, 4).Draw(t, "points")

		req := pythiaRequest("--card", "ggh.cmnd", "--hepmc", "--root")
		req.Seeds = SeedRange{Start: start, End: end}
		req.Sweep = &Sweep{Flag: "--mass", Start: 1, Stop: float64(points), Step: 1}

		plan, err := PlanJobs(req)
		require.NoError(t, err)
		require.Len(t, plan.Points, points)

		outputs := map[string]bool{}
		for _, pt := range plan.Points {
			require.Len(t, pt.Jobs, end-start+1)
			seeds := map[int]bool{}
			for _, d := range pt.Jobs {
				require.False(t, seeds[d.Seed], "seed %d repeated", d.Seed)
				seeds[d.Seed] = true
				for _, f := range d.OutputFiles {
					full := d.MirrorDestination + "/" + f
					require.False(t, outputs[full], "output %s repeated", full)
					outputs[full] = true
				}
			}
		}
	})
}
