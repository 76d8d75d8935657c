package cmd

import (
	"time"

	"github.com/geonmo/NMSSMPheno/internal/program"
	"github.com/geonmo/NMSSMPheno/internal/utils"
	"github.com/spf13/cobra"
)

var (
	delphesCard        string
	delphesInputDir    string
	delphesType        string
	delphesOutputDir   string
	delphesFilesPerJob int
	delphesDry         bool
)

var delphesCmd = &cobra.Command{
	Use:   "delphes --card <card> --iDir <dir> --type hepmc|lhe",
	Short: "Submit Delphes jobs over a directory of event files",
	Long: `Plan and submit Delphes jobs over every hepmc/lhe file (optionally
gzipped) in --iDir, a fixed number of files per job.

The card must live in input_cards/. ROOT files go to
<iDir>/../<card>_<type> unless --oDir is given.`,
	Example: `  nmssmpheno delphes --card input_cards/delphes_card_cms.tcl --iDir /hdfs/user/rob/hepmc --type hepmc`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		utils.PrintMessage(">>> Creating jobs")
		run, err := program.Delphes(program.DelphesOptions{
			Card:        delphesCard,
			InputDir:    delphesInputDir,
			Type:        delphesType,
			OutputDir:   delphesOutputDir,
			FilesPerJob: delphesFilesPerJob,
			Date:        time.Now(),
		}, cfg)
		if err != nil {
			return err
		}
		return submitRun(cmd.Context(), run, delphesDry)
	},
}

func init() {
	rootCmd.AddCommand(delphesCmd)

	f := delphesCmd.Flags()
	f.StringVar(&delphesCard, "card", "", "Delphes card file, must be in input_cards/")
	f.StringVar(&delphesInputDir, "iDir", "", "Input directory of hepmc/lhe files to process")
	f.StringVar(&delphesType, "type", "", "Filetype to process (hepmc or lhe)")
	f.StringVar(&delphesOutputDir, "oDir", "", "Output directory for ROOT files")
	f.IntVar(&delphesFilesPerJob, "filesPerJob", 0, "Input files per job (default: files_per_job from config)")
	f.BoolVar(&delphesDry, "dry", false, "Dry run, write the DAG but don't submit it")

	_ = delphesCmd.MarkFlagRequired("card")
	_ = delphesCmd.MarkFlagRequired("iDir")
	_ = delphesCmd.MarkFlagRequired("type")
	delphesCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"hepmc", "lhe"}, cobra.ShellCompDirectiveNoFileComp
	})
}
