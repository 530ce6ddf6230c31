package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/cifmeta/pdb/cmmn"
	"github.com/andrew-torda/cifmeta/pkg/cifmeta"
	"github.com/andrew-torda/cifmeta/pkg/config"
	"github.com/andrew-torda/cifmeta/pkg/logging"
)

const dotEnv = ".env"

// usageError marks a problem with the command line rather than with
// the files.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

// app carries the global flags and, once they are read, the options for
// the sub-commands.
type app struct {
	cfgPath   string
	logLevel  string
	logFormat string
	opts      *cifmeta.Options
}

// setup reads the config, lets the environment and flags override it and
// makes the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	lookup, err := config.EnvLookup(dotEnv)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return usageError{err}
	}
	a.opts = &cifmeta.Options{Cfg: cfg, Log: log}
	return nil
}

// nArgs wraps a cobra argument check so a wrong count is a usage error.
func nArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "cifmeta",
		Short:         "Formula, unit cell and atomic sites from cif files",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          nArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "TOML config file")
	pf.StringVar(&a.logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "text", "text or json")

	root.AddCommand(
		formulaCmd(a),
		cellCmd(a),
		sitesCmd(a),
		scanCmd(a),
		fetchCmd(a),
	)
	return root
}

// execute runs the command line and turns the result into an exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := root.ExecuteContext(ctx)
	if err == nil {
		return cmmn.ExitSuccess
	}
	fmt.Fprintln(stderr, "cifmeta:", err)
	var ue usageError
	if errors.As(err, &ue) {
		return cmmn.ExitUsageError
	}
	return cmmn.ExitFailure
}
