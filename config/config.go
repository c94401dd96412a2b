package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug               = "debug"
	ConfigMaxRotateAdjustment = "max-rotate-adjustment"
	ConfigFieldsPath          = "fields-path"
	ConfigHistoryFile         = "history-file"
	ConfigCPUProfile          = "cpu-profile"
	ConfigFile                = "config"

	ConfigWeightsClearLandingHeight = "weights.clear.landing-height"
	ConfigWeightsClearErodedCells   = "weights.clear.eroded-cells"
	ConfigWeightsClearHoles         = "weights.clear.holes"
	ConfigWeightsClearWells         = "weights.clear.wells"
	ConfigWeightsClearTransitions   = "weights.clear.transitions"

	ConfigWeightsBuildLandingHeight = "weights.build.landing-height"
	ConfigWeightsBuildBlueprint     = "weights.build.blueprint"
	ConfigWeightsBuildHoles         = "weights.build.holes"
	ConfigWeightsBuildWells         = "weights.build.wells"
)

type Config struct {
	viper.Viper
	args []string
}

// Args are the command line arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// DefaultConfig returns a config holding only the defaults.
func DefaultConfig() *Config {
	c := &Config{}
	c.Viper = *viper.New()
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigMaxRotateAdjustment, 2)
	c.SetDefault(ConfigFieldsPath, "./data/fields")
	c.SetDefault(ConfigHistoryFile, "/tmp/blockhint_history")
	c.SetDefault(ConfigCPUProfile, "")

	c.SetDefault(ConfigWeightsClearLandingHeight, -1.0)
	c.SetDefault(ConfigWeightsClearErodedCells, 1.0)
	c.SetDefault(ConfigWeightsClearHoles, -4.0)
	c.SetDefault(ConfigWeightsClearWells, -1.0)
	c.SetDefault(ConfigWeightsClearTransitions, -1.0)

	c.SetDefault(ConfigWeightsBuildLandingHeight, -1.0)
	c.SetDefault(ConfigWeightsBuildBlueprint, 2.0)
	c.SetDefault(ConfigWeightsBuildHoles, -4.0)
	c.SetDefault(ConfigWeightsBuildWells, -0.25)
}

// Load reads, in increasing priority, the defaults, a config.yaml in the
// working directory (or the file named by --config), BLOCKHINT_ environment
// variables and command line flags.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("blockhint", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging and invariant checks")
	fs.Int(ConfigMaxRotateAdjustment, 2, "how many columns a rotation may be nudged sideways")
	fs.String(ConfigFieldsPath, "./data/fields", "directory holding level files")
	fs.String(ConfigHistoryFile, "/tmp/blockhint_history", "shell history file")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this file")
	fs.String(ConfigFile, "", "path to a yaml config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("BLOCKHINT")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigFile); path != "" {
		c.SetConfigFile(path)
	} else {
		c.SetConfigName("config")
		c.SetConfigType("yaml")
		c.AddConfigPath(".")
	}
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}
