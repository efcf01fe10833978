package main

import (
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iVampireSP/asmbundle/internal/bundle"
	"github.com/iVampireSP/asmbundle/internal/naming"
)

func newGenerateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <path>...",
		Short: "Generate one C unit per assembly",
		Long: heredoc.Doc(`
			Generate one C unit per assembly. Each path is an assembly, a .config
			file, or a directory searched for *.dll, *.exe and *.config files.

			An assembly named Foo.dll is paired with the first configuration file
			whose name equals Foo.config ignoring case. Units whose inputs have not
			changed since the last run are left alone.
		`),
		Example: heredoc.Doc(`
			# Bundle every assembly of a publish directory
			$ asmbundle generate -o obj/bundles bin/Release/publish

			# Always regenerate and print what would be written
			$ asmbundle generate --skip-unchanged=false --dry-run app.dll app.dll.config

			# Write a registry table and a results file for the build
			$ asmbundle generate -o obj/bundles --registry obj/bundles/registry.c --results obj/bundles.yaml bin
		`),
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			return runGenerate(afero.NewOsFs(), cfg, args, cmd.OutOrStdout(), logger)
		},
	}

	flags := cmd.Flags()
	flags.StringP("output-dir", "o", ".", "Directory receiving generated units and config copies")
	flags.StringSlice("config-files", nil, "Configuration files matched before discovered ones")
	flags.StringSlice("exclude", nil, "Exclude patterns (.gitignore syntax) applied to directory walks")
	flags.Bool("skip-unchanged", true, "Skip assemblies whose output is up to date")
	flags.Bool("keep-going", false, "Continue with remaining assemblies after a failure")
	flags.String("symbol-prefix", naming.DefaultPrefix, "Prefix of generated function names")
	flags.String("registry", "", "Also write a unit with a table of all bundled assemblies")
	flags.String("results", "", "Write generated and bundled config file lists as YAML")
	flags.Bool("dry-run", false, "Print generated units instead of writing them")

	return cmd
}

// runGenerate discovers inputs and runs the generator once.
func runGenerate(fs afero.Fs, cfg *Config, args []string, stdout io.Writer, logger *log.Logger) error {
	ignore := ParseIgnorePatterns(cfg.Exclude)
	ignore = append(ignore, LoadIgnoreFile(fs, IgnoreFileName)...)

	in, err := NewDiscoverer(fs, ignore, cfg.OutputDir).Discover(args)
	if err != nil {
		return err
	}
	in.ConfigFiles = append(append([]string{}, cfg.ConfigFiles...), in.ConfigFiles...)
	logger.Debug("discovered inputs", "assemblies", len(in.Assemblies), "configs", len(in.ConfigFiles))

	opts := cfg.Options(in)
	opts.Stdout = stdout

	gen := bundle.NewGenerator(fs, naming.New(cfg.SymbolPrefix), logger)
	res, runErr := gen.Run(opts)

	if cfg.Results != "" && !cfg.DryRun && res != nil {
		if err := writeResults(fs, cfg.Results, res); err != nil {
			if runErr != nil {
				return fmt.Errorf("%w; %w", runErr, err)
			}
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	skipped := 0
	for _, u := range res.Units {
		if u.Skipped {
			skipped++
		}
	}
	logger.Info("done", "files", len(res.GeneratedFiles), "skipped", skipped, "configs", len(res.BundledConfigFiles))
	return nil
}
