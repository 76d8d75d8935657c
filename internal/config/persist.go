package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/geonmo/NMSSMPheno/internal/utils"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// ConfigFilename is the name of the config file
const ConfigFilename = "config"

// ConfigType is the type of config file (yaml, json, toml)
const ConfigType = "yaml"

// EnvPrefix prefixes the environment overrides, e.g. NMSSMPHENO_LOG_DIR
const EnvPrefix = "NMSSMPHENO"

// Keys understood in the config file
const (
	KeyUser               = "user"
	KeyMG5Dir             = "mg5_dir"
	KeyDelphesDir         = "delphes_dir"
	KeyLogDir             = "log_dir"
	KeyStoreRoot          = "store_root"
	KeyCondorSubmitDagBin = "condor_submit_dag_bin"
	KeyFilesPerJob        = "files_per_job"
	KeyJobMemory          = "job.memory"
	KeyJobDisk            = "job.disk"
)

// InitViper sets up v with search paths, environment overrides and
// defaults, then reads the config file. An explicit configFile replaces
// the search.
// Priority (highest to lowest):
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (NMSSMPHENO_*)
// 3. User config file (~/.config/nmssmpheno/config.yaml)
// 4. System config file (/etc/nmssmpheno/config.yaml)
// 5. Defaults
func InitViper(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigFilename)
		v.SetConfigType(ConfigType)

		if userConfigDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(userConfigDir, "nmssmpheno"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".nmssmpheno"))
		}
		v.AddConfigPath("/etc/nmssmpheno")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, CurrentUser())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	utils.PrintDebug("Using config file %s", utils.StylePath(v.ConfigFileUsed()))
	return nil
}

// setDefaults sets default values for all config keys
func setDefaults(v *viper.Viper, name string) {
	d := Defaults(name)
	v.SetDefault(KeyUser, d.User)
	v.SetDefault(KeyMG5Dir, d.MG5Dir)
	v.SetDefault(KeyDelphesDir, d.DelphesDir)
	v.SetDefault(KeyLogDir, d.LogDir)
	v.SetDefault(KeyStoreRoot, d.StoreRoot)
	v.SetDefault(KeyCondorSubmitDagBin, d.CondorSubmitDagBin)
	v.SetDefault(KeyFilesPerJob, d.FilesPerJob)
	v.SetDefault(KeyJobMemory, d.Job.Memory)
	v.SetDefault(KeyJobDisk, d.Job.Disk)
}

// Load reads v into a Config and checks the values that cannot be
// repaired later.
func Load(v *viper.Viper) (Config, error) {
	name := v.GetString(KeyUser)
	if name == "" {
		name = CurrentUser()
	}
	c := Defaults(name)

	if s := v.GetString(KeyMG5Dir); s != "" {
		c.MG5Dir = s
	}
	if s := v.GetString(KeyDelphesDir); s != "" {
		c.DelphesDir = s
	}
	if s := v.GetString(KeyLogDir); s != "" {
		c.LogDir = s
	}
	if s := v.GetString(KeyStoreRoot); s != "" {
		c.StoreRoot = s
	}
	if s := v.GetString(KeyCondorSubmitDagBin); s != "" {
		c.CondorSubmitDagBin = s
	}
	if v.IsSet(KeyFilesPerJob) {
		c.FilesPerJob = v.GetInt(KeyFilesPerJob)
	}
	if s := v.GetString(KeyJobMemory); s != "" {
		c.Job.Memory = s
	}
	if s := v.GetString(KeyJobDisk); s != "" {
		c.Job.Disk = s
	}

	var result *multierror.Error
	if c.FilesPerJob < 1 {
		result = multierror.Append(result, errs.Invalid("%s must be >= 1, got %d", KeyFilesPerJob, c.FilesPerJob))
	}
	if _, err := utils.ParseSizeToMB(c.Job.Memory); err != nil {
		result = multierror.Append(result, errs.Invalid("%s: %v", KeyJobMemory, err))
	}
	if _, err := utils.ParseSizeToMB(c.Job.Disk); err != nil {
		result = multierror.Append(result, errs.Invalid("%s: %v", KeyJobDisk, err))
	}
	return c, result.ErrorOrNil()
}

// Settings returns c keyed the way the config file stores it.
func (c Config) Settings() map[string]any {
	return map[string]any{
		KeyUser:               c.User,
		KeyMG5Dir:             c.MG5Dir,
		KeyDelphesDir:         c.DelphesDir,
		KeyLogDir:             c.LogDir,
		KeyStoreRoot:          c.StoreRoot,
		KeyCondorSubmitDagBin: c.CondorSubmitDagBin,
		KeyFilesPerJob:        c.FilesPerJob,
		KeyJobMemory:          c.Job.Memory,
		KeyJobDisk:            c.Job.Disk,
	}
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".nmssmpheno", ConfigFilename+"."+ConfigType), nil
	}

	return filepath.Join(userConfigDir, "nmssmpheno", ConfigFilename+"."+ConfigType), nil
}

// SaveConfig writes c to configPath, creating its directory.
func SaveConfig(c Config, configPath string) error {
	out := viper.New()
	for k, val := range c.Settings() {
		out.Set(k, val)
	}

	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := out.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ValidateBinary checks if a binary exists and is executable
func ValidateBinary(binPath string) bool {
	if binPath == "" {
		return false
	}

	if filepath.IsAbs(binPath) {
		info, err := os.Stat(binPath)
		if err != nil {
			return false
		}
		return !info.IsDir() && info.Mode()&0111 != 0
	}

	_, err := exec.LookPath(binPath)
	return err == nil
}
