package cmd

import (
	"time"

	"github.com/geonmo/NMSSMPheno/internal/program"
	"github.com/geonmo/NMSSMPheno/internal/utils"
	"github.com/spf13/cobra"
)

var (
	mg5OutputDir string
	mg5Dry       bool
)

var mg5Cmd = &cobra.Command{
	Use:   "mg5 <startID> <endID> [flags] -- <card> <run_mg5 args>",
	Short: "Submit MG5_aMC jobs to HTCondor",
	Long: `Plan and submit run_mg5.py jobs, one per job ID in the range.

The first argument after -- is the MG5_aMC card; its "output" field names the
channel. --pythia8 and --hepmc are required and made absolute, -n/--nevents
sets the events per job, and the seed, executable and output stem are filled
in per job. The install at mg5_dir is shipped to every job as a tarball.

Outputs go to /hdfs/user/<user>/NMSSMPheno/MG5_aMC/<channel>/<date> unless
--oDir is given.`,
	Example: `  nmssmpheno mg5 1 10 -- input_cards/ggh_4tau.txt -n 500 --pythia8 /users/rob/pythia8 --hepmc /users/rob/hepmc`,
	Args:    cobra.MinimumNArgs(2),
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
		run, err := program.MG5(program.MG5Options{
			Seeds:     seeds,
			Args:      passthrough,
			OutputDir: mg5OutputDir,
			Date:      time.Now(),
		}, cfg)
		if err != nil {
			return err
		}
		return submitRun(cmd.Context(), run, mg5Dry)
	},
}

func init() {
	rootCmd.AddCommand(mg5Cmd)

	f := mg5Cmd.Flags()
	f.StringVar(&mg5OutputDir, "oDir", "", "Directory for output files (default: auto-generated under store_root)")
	f.BoolVar(&mg5Dry, "dry", false, "Dry run, write the DAG but don't submit it")
}
