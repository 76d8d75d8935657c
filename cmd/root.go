package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/geonmo/NMSSMPheno/internal/config"
	"github.com/geonmo/NMSSMPheno/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	debugMode  bool
	quietMode  bool
	configFile string

	// cfg is loaded once per invocation and handed to the planners.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:           "nmssmpheno",
	Short:         "NMSSMPheno: plan and submit Pythia8, MG5_aMC and Delphes jobs to HTCondor.",
	Version:       config.VERSION,
	SilenceErrors: true,
	SilenceUsage:  true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		utils.DebugMode = debugMode
		utils.QuietMode = quietMode
		if !utils.IsInteractiveShell() {
			color.NoColor = true
		}

		// Step 1: Read config file and env vars into viper
		v := viper.GetViper()
		if err := config.InitViper(v, configFile); err != nil {
			return err
		}

		// Step 2: Resolve into an explicit Config
		c, err := config.Load(v)
		if err != nil {
			return err
		}
		c.Debug = debugMode
		c.Quiet = quietMode
		cfg = c

		utils.PrintDebug("NMSSMPheno Version: %s", utils.StyleInfo(config.VERSION))
		utils.PrintDebug("User: %s", cfg.User)
		utils.PrintDebug("Log Directory: %s", cfg.LogDir)
		utils.PrintDebug("Store Root: %s", cfg.StoreRoot)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		utils.PrintError("%v", err)
		os.Exit(1)
	}
}

func init() {
	// Subcommands are attached to rootCmd in their respective init() functions
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode with verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Only print warnings and errors")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file to use instead of the search path")
}
