package terminal

import (
	"io"
	"os"

	"github.com/de-tools/pillar-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/pillar-atlas/pkg/runtime/terminal/export"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	env      *commands.Env
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	Logger zerolog.Logger
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		env:      &commands.Env{Logger: opts.Logger},
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pillar",
		Short:         "Financial analysis and explainability tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cli.env.Init(cli.env.Context(cmd.Context()))
		},
	}

	cmd.PersistentFlags().StringVar(&cli.env.ConfigPath, "config", "", "Path to a YAML, JSON or TOML policy file")
	cmd.PersistentFlags().StringVar(&cli.env.SynonymsPath, "synonyms", "", "Path to an ini file with extra column synonyms")
	cmd.PersistentFlags().StringVar(&cli.env.DBPath, "db", "", "Path of the DuckDB file holding saved analyses")

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.env, cli.reporter))
	cmd.AddCommand(commands.NewAskCmd(cli.env))
	cmd.AddCommand(commands.NewRecommendCmd(cli.env))
	cmd.AddCommand(commands.NewSuggestCmd(cli.env))

	return cmd
}
