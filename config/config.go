// Package config loads the pbt tool configuration: which external tools to run and
// where to find board profiles and put logs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/util"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Python    string `yaml:"python" mapstructure:"python"`
	Nmake     string `yaml:"nmake" mapstructure:"nmake"`
	FitGen    string `yaml:"fitgen" mapstructure:"fitgen"`
	Edk2Build string `yaml:"edk2_build" mapstructure:"edk2_build"`
	VSWhere   string `yaml:"vswhere" mapstructure:"vswhere"`
	// ProfilesDir holds additional board profiles, relative to the workspace root.
	ProfilesDir string `yaml:"profiles_dir" mapstructure:"profiles_dir"`
	// LogDir receives the build logs, relative to the workspace root.
	LogDir string `yaml:"log_dir" mapstructure:"log_dir"`
	// ToolsDir contains the silicon tools makefile, relative to the workspace root.
	ToolsDir string `yaml:"tools_dir" mapstructure:"tools_dir"`
	// ToolChainTag overrides the tool chain of every board if set.
	ToolChainTag string `yaml:"tool_chain_tag" mapstructure:"tool_chain_tag"`
	MinVersion   string `yaml:"min_version" mapstructure:"min_version"`
}

const configName = "pbt"
const envPrefix = "PBT"

var defaults = map[string]string{
	"python":         "python",
	"nmake":          "nmake",
	"fitgen":         "FitGen",
	"edk2_build":     "build",
	"vswhere":        `C:\Program Files (x86)\Microsoft Visual Studio\Installer\vswhere.exe`,
	"profiles_dir":   "Platform/Profiles",
	"log_dir":        util.BuildDirName,
	"tools_dir":      "Silicon/Intel/Tools",
	"tool_chain_tag": "",
	"min_version":    "",
}

func configDirs(workspaceRoot string) []string {
	dirs := []string{}
	if dir, ok := os.LookupEnv("PBT_CONFIG_DIR"); ok {
		dirs = append(dirs, dir)
	}
	if xdgConfigHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		dirs = append(dirs, filepath.Join(xdgConfigHome, configName))
	}
	if homeDir, err := homedir.Dir(); err == nil {
		dirs = append(dirs, filepath.Join(homeDir, ".config", configName))
	} else {
		log.Debug("Unable to find home directory: %s\n", err)
	}
	if workspaceRoot != "" {
		dirs = append(dirs, workspaceRoot)
	}
	return dirs
}

// Load reads pbt.yaml from `file`, or from the first configuration directory that has one.
// PBT_<KEY> environment variables take precedence over the file.
func Load(workspaceRoot, file string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		for _, dir := range configDirs(workspaceRoot) {
			v.AddConfigPath(dir)
		}
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read configuration: %w", err)
		}
		log.Debug("No %s.yaml found. Using default configuration\n", configName)
	} else {
		log.Debug("Loaded configuration from `%s`\n", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := config.checkVersion(); err != nil {
		return Config{}, err
	}
	log.Debug("Running with configuration: %+v\n", config)
	return config, nil
}

func (c Config) checkVersion() error {
	if c.MinVersion == "" {
		return nil
	}
	required, err := util.ParseVersion(c.MinVersion)
	if err != nil {
		return fmt.Errorf("invalid min_version '%s': %w", c.MinVersion, err)
	}
	if util.PbtVersion.Less(required) {
		return fmt.Errorf("configuration requires pbt %s or newer, this is %s", required, util.PbtVersion)
	}
	return nil
}

// Path resolves a configured workspace relative path.
func (c Config) Path(workspaceRoot, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(workspaceRoot, util.NormalizeRelPath(rel))
}

// YAML renders the configuration in the format Load reads.
func (c Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
