package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type config struct {
	Workers int  `mapstructure:"workers"`
	Strict  bool `mapstructure:"strict"`
	Quiet   bool `mapstructure:"quiet"`
}

// loadConfig merges, from lowest to highest priority: defaults, the config
// file, FXSCAN_* environment variables and explicitly set flags.
func loadConfig(flags *pflag.FlagSet, configFile string) (config, error) {
	v := viper.New()

	v.SetDefault("workers", 0)
	v.SetDefault("strict", false)
	v.SetDefault("quiet", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("cannot read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix("FXSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return config{}, fmt.Errorf("cannot bind flags: %w", err)
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Workers < 0 {
		return config{}, errors.New("workers can't be < 0")
	}
	return cfg, nil
}
