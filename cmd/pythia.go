package cmd

import (
	"time"

	"github.com/geonmo/NMSSMPheno/internal/program"
	"github.com/geonmo/NMSSMPheno/internal/utils"
	"github.com/spf13/cobra"
)

var (
	pythiaOutputDir string
	pythiaExe       string
	pythiaMassRange []float64
	pythiaDry       bool
)

var pythiaCmd = &cobra.Command{
	Use:   "pythia <startID> <endID> [flags] -- <generateMC args>",
	Short: "Submit Pythia8 jobs to HTCondor",
	Long: `Plan and submit generateMC.exe jobs, one per job ID in the range.

The job ID is the random number generator seed, so the range must not
overlap a previous run of the same channel. Everything after -- is passed to
generateMC.exe; --seed, --mass and the output filenames are filled in per job,
and --zip is always added.

Outputs go to /hdfs/user/<user>/NMSSMPheno/Pythia8/<channel>_mass<m>_<e>TeV/<date>
unless --oDir is given. A separate DAG is written for each point of
--massRange.`,
	Example: `  nmssmpheno pythia 1 10 -- --card input_cards/ggh.cmnd -n 1000 --hepmc
  nmssmpheno pythia 1 5 --massRange 4,8,2 --dry -- --card input_cards/ggh.cmnd --hepmc`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, passthrough, err := splitAtDash(cmd, args, 2)
		if err != nil {
			return err
		}
		seeds, err := parseSeedRange(ids)
		if err != nil {
			return err
		}

		utils.PrintMessage(">>> Creating jobs")
		run, err := program.Pythia(program.PythiaOptions{
			Seeds:     seeds,
			Args:      passthrough,
			Exe:       pythiaExe,
			OutputDir: pythiaOutputDir,
			MassRange: pythiaMassRange,
			Date:      time.Now(),
		}, cfg)
		if err != nil {
			return err
		}
		return submitRun(cmd.Context(), run, pythiaDry)
	},
}

func init() {
	rootCmd.AddCommand(pythiaCmd)

	f := pythiaCmd.Flags()
	f.StringVar(&pythiaOutputDir, "oDir", "", "Directory for output files (default: auto-generated under store_root)")
	f.StringVar(&pythiaExe, "exe", program.PythiaExe, "Executable to run")
	f.Float64SliceVar(&pythiaMassRange, "massRange", nil, "Mass range to run over as startMass,endMass,massStep")
	f.BoolVar(&pythiaDry, "dry", false, "Dry run, write the DAGs but don't submit them")
}
