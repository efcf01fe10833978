package main

import (
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	setDefaults(v)
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "asmbundle <command>",
		Short: "Embed managed assemblies into C sources",
		Long: heredoc.Doc(`
			asmbundle turns managed assemblies and their .config files into C units
			that a statically linked host can query at runtime.
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlag("verbose", cmd.Root().PersistentFlags().Lookup("verbose")); err != nil {
				return fmt.Errorf("bind --verbose: %w", err)
			}
			return readConfigFile(v, cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is .asmbundle.yaml in the project root or $HOME)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newGenerateCmd(v))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// execute runs cmd and reports a failure on its error stream. Errors are
// silenced inside cobra so each one is printed exactly once.
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "asmbundle: %v\n", err)
	}
	return err
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "asmbundle",
		Level:  level,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Printf("asmbundle %s (%s)\n", Version, GitCommit)
			return nil
		},
	}
}
