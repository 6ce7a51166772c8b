package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/getlawrence/autodocs/internal/config"
	"github.com/getlawrence/autodocs/internal/logger"
)

type contextKey string

// Context key for the shared application state
const ConfigKey contextKey = "config"

// AppConfig holds all the shared configuration and dependencies
type AppConfig struct {
	Config *config.Config
	Logger logger.Logger
	// sync flushes buffered log output, if the logger buffers.
	sync func() error
}

// NewAppConfig creates a new configuration instance
func NewAppConfig(cfg *config.Config, log logger.Logger) *AppConfig {
	return &AppConfig{
		Config: cfg,
		Logger: log,
	}
}

func appConfig(cmd *cobra.Command) (*AppConfig, error) {
	app, ok := cmd.Context().Value(ConfigKey).(*AppConfig)
	if !ok || app == nil {
		return nil, fmt.Errorf("application not initialised")
	}
	return app, nil
}

// loadApp reads the config file, applies flag overrides and builds the logger.
func loadApp(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	app := NewAppConfig(cfg, &logger.StdoutLogger{Out: os.Stderr})
	if cfg.Output.LogFormat == "json" {
		zl, err := logger.NewZapLogger(cfg.Output.Verbose)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		zl = zl.With(zap.String("command", cmd.Name()), zap.String("version", Version))
		app.Logger = zl
		app.sync = zl.Sync
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, ConfigKey, app))
	return nil
}

func flushApp(cmd *cobra.Command, _ []string) error {
	app, err := appConfig(cmd)
	if err != nil || app.sync == nil {
		return nil
	}
	// Syncing stderr fails on some terminals; nothing useful can be done.
	_ = app.sync()
	return nil
}

// applyFlags copies explicitly set flags over the file configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	set := func(name string, apply func() error) {
		if err != nil || flags.Lookup(name) == nil || !flags.Changed(name) {
			return
		}
		err = apply()
	}

	set("verbose", func() (e error) { cfg.Output.Verbose, e = flags.GetBool("verbose"); return })
	set("log-format", func() (e error) { cfg.Output.LogFormat, e = flags.GetString("log-format"); return })
	set("interactive", func() (e error) { cfg.Run.Interactive, e = flags.GetBool("interactive"); return })
	set("update", func() (e error) { cfg.Run.Update, e = flags.GetBool("update"); return })
	set("dry-run", func() (e error) { cfg.Run.DryRun, e = flags.GetBool("dry-run"); return })
	set("backup", func() (e error) { cfg.Run.Backup, e = flags.GetBool("backup"); return })
	set("workers", func() (e error) { cfg.Run.Workers, e = flags.GetInt("workers"); return })
	set("mode", func() (e error) { cfg.Generator.Mode, e = flags.GetString("mode"); return })
	set("template", func() (e error) { cfg.Generator.Template, e = flags.GetString("template"); return })
	set("quote", func() (e error) { cfg.Generator.Quote, e = flags.GetString("quote"); return })
	set("agent", func() (e error) { cfg.Generator.Agent, e = flags.GetString("agent"); return })
	set("model", func() (e error) { cfg.Generator.Model, e = flags.GetString("model"); return })
	set("no-color", func() error {
		noColor, e := flags.GetBool("no-color")
		cfg.Output.Color = !noColor
		return e
	})
	set("exclude", func() error {
		globs, e := flags.GetStringSlice("exclude")
		cfg.Discovery.ExcludeGlobs = append(cfg.Discovery.ExcludeGlobs, globs...)
		return e
	})
	return err
}
