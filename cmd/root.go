package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/getlawrence/autodocs/internal/autodoc"
	"github.com/getlawrence/autodocs/internal/docstring"
	"github.com/getlawrence/autodocs/internal/logger"
	"github.com/getlawrence/autodocs/internal/ui"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "autodocs [flags] PATH...",
	Short: "Add docstrings to Python classes and functions",
	Long: `autodocs walks Python sources and gives every class and function a
docstring, leaving the rest of each file byte for byte as it was.

Docstrings come from a template (static mode), a local coding agent
(agent mode) or the Anthropic API (anthropic mode). Existing docstrings
are kept unless --update is given.`,
	Version:       Version,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PreRunE:       loadApp,
	RunE:          runDocs,
	PostRunE:      flushApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command under ctx.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default .autodocs.yaml in the current or home directory)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	addRunFlags(rootCmd.Flags())
}

func addRunFlags(flags *pflag.FlagSet) {
	flags.BoolP("interactive", "i", false, "confirm every docstring before it is written")
	flags.BoolP("update", "u", false, "replace docstrings that already exist")
	flags.Bool("dry-run", false, "print a diff instead of writing files")
	flags.Bool("backup", false, "keep a .bak copy of every rewritten file")
	flags.Bool("no-color", false, "disable coloured diffs")
	flags.String("mode", "static", "docstring source (static, agent, anthropic)")
	flags.String("template", "PLACEHOLDER", "docstring template for static mode")
	flags.String("quote", "double", "quote style of new docstrings (double, single)")
	flags.String("agent", "", "coding agent for agent mode (gemini, claude, openai, github)")
	flags.String("model", "", "model for anthropic mode")
	flags.IntP("workers", "w", 4, "files processed concurrently")
	flags.StringSlice("exclude", nil, "glob of paths to skip, may be repeated")
}

func runDocs(cmd *cobra.Command, args []string) error {
	app, err := appConfig(cmd)
	if err != nil {
		return err
	}
	cfg := app.Config
	ctx := cmd.Context()

	// A spinner only makes sense when nobody else is writing to the terminal.
	spinner := logger.IsInteractive() && !cfg.Run.Interactive && !cfg.Run.DryRun &&
		!cfg.Output.Verbose && cfg.Output.LogFormat == "text"

	log := app.Logger
	if spinner {
		log = ui.SpinnerLogger{}
	} else if !cfg.Output.Verbose && cfg.Output.LogFormat == "text" {
		log = logger.Nop{}
	}

	opts := autodoc.Options{
		Config: cfg,
		Logger: log,
		Diffs:  cmd.OutOrStdout(),
	}
	if cfg.Run.Interactive {
		prompter := ui.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		opts.Confirm = func(file string) docstring.ConfirmFunc {
			return prompter.ForFile(file)
		}
	}

	doc, err := autodoc.New(opts)
	if err != nil {
		return err
	}

	var summary *autodoc.Summary
	run := func(ctx context.Context) error {
		var err error
		summary, err = doc.Run(ctx, args)
		return err
	}
	if spinner {
		err = ui.RunSpinner(ctx, "Adding docstrings", run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return err
	}

	for _, failure := range summary.Failures {
		app.Logger.Logf("failed: %v\n", failure)
	}
	verb := "Updated"
	if cfg.Run.DryRun {
		verb = "Would update"
	}
	app.Logger.Logf("%s %d of %d files, %d docstrings written\n",
		verb, summary.ChangedFiles(), len(summary.Results)+len(summary.Failures), summary.Changes())

	if n := len(summary.Failures); n > 0 {
		return fmt.Errorf("%d file(s) could not be processed", n)
	}
	return nil
}
