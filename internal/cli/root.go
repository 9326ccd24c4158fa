// Package cli provides the command-line interface for pyoutline.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pyoutline/internal/cli/commands"
	"github.com/dgallion1/pyoutline/internal/config"
)

// Version information (set at build time).
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
		workers int
		exclude []string
	)

	rootCmd := &cobra.Command{
		Use:   "pyoutline",
		Short: "Outline the classes and functions of Python source trees",
		Long: `pyoutline scans Python files for class and function definitions, attaches their
docstrings and prints the resulting outline as text, HTML, DOCX or JSON.

It can also serve the outliner over HTTP and publish outlines to pathstore.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg := config.Load()
			if cfgFile != "" {
				var err error
				cfg, err = config.LoadFile(cfgFile, cfg)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("workers") {
				cfg.MaxConcurrentParse = workers
			}
			cfg.Exclude = append(cfg.Exclude, exclude...)
			if err := cfg.Validate(); err != nil {
				return err
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if verbose && cfgFile != "" {
				log.Debug("using config file", "path", cfgFile)
			}

			cmd.SetContext(commands.WithRuntime(cmd.Context(), &commands.Runtime{Config: cfg, Log: log}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Files parsed concurrently")
	rootCmd.PersistentFlags().StringSliceVar(&exclude, "exclude", nil, "Directory names to skip")

	rootCmd.AddCommand(commands.NewPrintCommand())
	rootCmd.AddCommand(commands.NewHTMLCommand())
	rootCmd.AddCommand(commands.NewDOCXCommand())
	rootCmd.AddCommand(commands.NewJSONCommand())
	rootCmd.AddCommand(commands.NewIndexCommand())
	rootCmd.AddCommand(commands.NewPublishCommand())
	rootCmd.AddCommand(commands.NewServeCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
