package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/geonmo/NMSSMPheno/internal/config"
	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/geonmo/NMSSMPheno/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	showPath  bool
	initPath  string
	initForce bool
)

// configKeys is the list of known configuration keys, in display order
var configKeys = []string{
	config.KeyUser,
	config.KeyMG5Dir,
	config.KeyDelphesDir,
	config.KeyLogDir,
	config.KeyStoreRoot,
	config.KeyCondorSubmitDagBin,
	config.KeyFilesPerJob,
	config.KeyJobMemory,
	config.KeyJobDisk,
}

// getConfigEnvVars returns the environment variable for every config key, sorted
func getConfigEnvVars() []string {
	vars := make([]string, 0, len(configKeys))
	for _, key := range configKeys {
		vars = append(vars, config.EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}
	sort.Strings(vars)
	return vars
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage nmssmpheno configuration",
	Long: `Manage nmssmpheno configuration settings.

Configuration file priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (NMSSMPHENO_*)
  3. User config file (~/.config/nmssmpheno/config.yaml)
  4. System config file (/etc/nmssmpheno/config.yaml)
  5. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showPath {
			configPath, err := config.GetUserConfigPath()
			if err != nil {
				return fmt.Errorf("failed to get config path: %w", err)
			}
			fmt.Println(configPath)
			return nil
		}

		fmt.Println(utils.StyleTitle("Config File:"))
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Printf("  %s\n", utils.StylePath(used))
		} else {
			fmt.Printf("  %s (use 'nmssmpheno config init' to create)\n", utils.StyleWarning("No config file found"))
		}
		fmt.Println()

		fmt.Println(utils.StyleTitle("Current Configuration:"))
		settings := cfg.Settings()
		for _, key := range configKeys {
			fmt.Printf("  %-22s %v\n", key+":", settings[key])
		}
		fmt.Println()

		fmt.Println(utils.StyleTitle("Checks:"))
		printCheck("mg5_dir", utils.DirExists(cfg.MG5Dir))
		printCheck("delphes_dir", utils.DirExists(cfg.DelphesDir))
		printCheck("condor_submit_dag_bin", config.ValidateBinary(cfg.CondorSubmitDagBin))
		fmt.Println()

		fmt.Println(utils.StyleTitle("Environment Variable Overrides:"))
		hasEnvOverrides := false
		for _, envVar := range getConfigEnvVars() {
			if val := os.Getenv(envVar); val != "" {
				fmt.Printf("  %s=%s\n", envVar, val)
				hasEnvOverrides = true
			}
		}
		if !hasEnvOverrides {
			fmt.Printf("  %s\n", utils.StyleInfo("none"))
		}
		return nil
	},
}

func printCheck(name string, ok bool) {
	status := utils.StyleSuccess("found")
	if !ok {
		status = utils.StyleWarning("not found")
	}
	fmt.Printf("  %-22s %s\n", name+":", status)
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with the current settings",
	Long: `Create a configuration file holding the current settings: defaults
derived from $LOGNAME, overridden by any environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := initPath
		if configPath == "" {
			p, err := config.GetUserConfigPath()
			if err != nil {
				return fmt.Errorf("failed to get config path: %w", err)
			}
			configPath = p
		}

		if utils.FileExists(configPath) && !initForce {
			if !confirm(fmt.Sprintf("Config file already exists: %s\nOverwrite? [y/N]: ", configPath)) {
				utils.PrintNote("Cancelled")
				return nil
			}
		}
		if utils.DirExists(configPath) {
			return errs.Invalid("%s is a directory", configPath)
		}

		if err := config.SaveConfig(cfg, configPath); err != nil {
			return err
		}
		utils.PrintSuccess("Config file created")
		fmt.Printf("  Location: %s\n", utils.StylePath(configPath))
		if !config.ValidateBinary(cfg.CondorSubmitDagBin) {
			utils.PrintHint("%s not found, set %s before submitting", cfg.CondorSubmitDagBin, config.KeyCondorSubmitDagBin)
		}
		return nil
	},
}

// confirm asks a yes/no question, answering no without a terminal.
func confirm(prompt string) bool {
	if !utils.IsInteractiveShell() {
		return false
	}
	fmt.Print(prompt)
	var response string
	fmt.Scanln(&response)
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configShowCmd.Flags().BoolVarP(&showPath, "path", "p", false, "Only print the user config file path")
	configInitCmd.Flags().StringVar(&initPath, "path", "", "Write the config file here instead of the user config path")
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
}
