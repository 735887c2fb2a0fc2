package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/de-tools/roi-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/roi-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/roi-atlas/pkg/services/config"
	"github.com/de-tools/roi-atlas/pkg/services/source"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	env       *commands.Env
	logOutput io.Writer
	rootCmd   *cobra.Command

	cfgPath  string
	logLevel string
}

// Options contain configuration for the CLI
type Options struct {
	Registry  source.Registry
	Profiles  config.Registry
	Output    io.Writer
	LogOutput io.Writer
	Readme    []byte
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	cli := &CLI{
		env: &commands.Env{
			Registry:      opts.Registry,
			Profiles:      opts.Profiles,
			Reporter:      export.NewReporter(opts.Output),
			PlainReporter: NewPlainReporter(opts.Output),
			Output:        opts.Output,
			Readme:        opts.Readme,
		},
		logOutput: opts.LogOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs overrides the arguments taken from os.Args.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "roi",
		Short:             "Marketing campaign ROI analysis",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}

	cmd.PersistentFlags().StringVar(&cli.cfgPath, "config", "", "Settings file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "", "Log level: debug, info, warn or error (default from settings)")

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.env))
	cmd.AddCommand(commands.NewIngestCmd(cli.env))
	cmd.AddCommand(commands.NewRunsCmd(cli.env))
	cmd.AddCommand(commands.NewSourcesCmd(cli.env))
	cmd.AddCommand(commands.NewDocsCmd(cli.env))

	return cmd
}

// setup loads settings and attaches the logger to the command context.
func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings(cli.cfgPath)
	if err != nil {
		return err
	}
	cli.env.Settings = settings

	levelName := settings.Log.Level
	if cli.logLevel != "" {
		levelName = cli.logLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelName))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: cli.logOutput}).
		Level(level).
		With().
		Timestamp().
		Logger()
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}
