package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/iVampireSP/asmbundle/internal/bundle"
	"github.com/iVampireSP/asmbundle/internal/naming"
)

// Config holds asmbundle settings merged from flags, ASMBUNDLE_* environment
// variables and .asmbundle.yaml.
type Config struct {
	OutputDir     string   `mapstructure:"output-dir"`
	ConfigFiles   []string `mapstructure:"config-files"` // matched before discovered *.config files
	Exclude       []string `mapstructure:"exclude"`      // .gitignore-style patterns
	SkipUnchanged bool     `mapstructure:"skip-unchanged"`
	KeepGoing     bool     `mapstructure:"keep-going"`
	SymbolPrefix  string   `mapstructure:"symbol-prefix"`
	Registry      string   `mapstructure:"registry"`
	Results       string   `mapstructure:"results"`
	DryRun        bool     `mapstructure:"dry-run"`
	Verbose       bool     `mapstructure:"verbose"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output-dir", ".")
	v.SetDefault("skip-unchanged", true)
	v.SetDefault("symbol-prefix", naming.DefaultPrefix)
}

// readConfigFile loads cfgFile, or searches the project root and the home
// directory for .asmbundle.yaml. A missing file is not an error.
func readConfigFile(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("ASMBUNDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return nil
	}

	if cwd, err := os.Getwd(); err == nil {
		if root, err := findProjectRoot(cwd); err == nil {
			v.AddConfigPath(root)
		}
	}
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.SetConfigName(strings.TrimSuffix(ProjectConfigName, ".yaml"))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// loadConfig decodes the merged settings in v.
func loadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return &cfg, nil
}

// Options turns cfg and the discovered inputs into a generator run.
func (c *Config) Options(in *Inputs) bundle.Options {
	opts := bundle.Options{
		Assemblies:    in.Assemblies,
		ConfigFiles:   in.ConfigFiles,
		OutputDir:     c.OutputDir,
		SkipUnchanged: c.SkipUnchanged,
		KeepGoing:     c.KeepGoing,
		DryRun:        c.DryRun,
		RegistryPath:  c.Registry,
	}
	if c.Registry != "" {
		opts.RegistryTable = naming.New(c.SymbolPrefix).Prefix + "_entries"
	}
	return opts
}
