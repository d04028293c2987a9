// Package config loads swisskit settings from a YAML file, SWISSKIT_*
// environment variables and command line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. SWISSKIT_HTTP_ADDR.
const EnvPrefix = "SWISSKIT"

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "swisskit.yaml"

// Config holds the process settings.
type Config struct {
	HTTPAddr     string `mapstructure:"http_addr" yaml:"http_addr"`
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`
	DBPath       string `mapstructure:"db_path" yaml:"db_path"`
	CardTemplate string `mapstructure:"card_template" yaml:"card_template"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	SummaryTop   int    `mapstructure:"summary_top" yaml:"summary_top"`
}

// Keys lists every setting.
var Keys = []string{"http_addr", "data_dir", "db_path", "card_template", "log_level", "summary_top"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8050")
	v.SetDefault("data_dir", "data")
	v.SetDefault("db_path", "")
	v.SetDefault("card_template", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("summary_top", 2)
}

// Load reads filePath (or DefaultFile when empty and present), then the
// environment, then any flags bound by key. A missing named file is an error.
func Load(filePath string, flags map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range Keys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}
	for key, flag := range flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", key, err)
		}
	}

	switch {
	case filePath != "":
		v.SetConfigFile(filePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", filePath, err)
		}
	default:
		if _, err := os.Stat(DefaultFile); !errors.Is(err, fs.ErrNotExist) {
			v.SetConfigFile(DefaultFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", DefaultFile, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "swisskit.db")
	}
	if cfg.SummaryTop < 1 {
		cfg.SummaryTop = 2
	}
	return cfg, nil
}
