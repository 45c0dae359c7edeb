// Command screenwrap mounts an HTML fixture with a wrap engine and runs
// queries and actions against it.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitConnFailed = 2
)

// Engines
const (
	EngineDOM    = "dom"
	EngineChrome = "chrome"
)

// Config holds the CLI configuration.
type Config struct {
	Engine     string // dom, chrome
	Host       string
	Port       int
	Timeout    time.Duration
	Output     string // json, ndjson, text
	TestIDAttr string
	Verbose    bool

	Stdout io.Writer
	Stderr io.Writer

	// ConfigPaths overrides where .screenwraprc is looked up. Nil means the
	// working directory, then the home directory.
	ConfigPaths []string

	log        *zap.Logger
	restoreLog func()
}

// DefaultConfig returns the built-in defaults. The config file, environment
// variables and flags are applied on top in run.
func DefaultConfig() *Config {
	return &Config{
		Engine:     EngineDOM,
		Host:       "localhost",
		Port:       9222,
		Timeout:    10 * time.Second,
		Output:     "json",
		TestIDAttr: "data-testid",
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

func main() {
	os.Exit(run(os.Args[1:], DefaultConfig()))
}

// exitError carries a non-default exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func run(args []string, cfg *Config) int {
	root := newRootCmd(cfg)
	root.SetArgs(args)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	err := root.Execute()
	if cfg.log != nil {
		_ = cfg.log.Sync()
		cfg.restoreLog()
	}
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(cfg.Stderr, "error: %v\n", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitError
}

// flagValues stores values parsed from CLI flags so they can be re-applied
// after the config file and environment.
type flagValues struct {
	engine     string
	host       string
	port       int
	timeout    time.Duration
	output     string
	testIDAttr string
	verbose    bool
}

func newRootCmd(cfg *Config) *cobra.Command {
	var fv flagValues

	root := &cobra.Command{
		Use:   "screenwrap",
		Short: "Query and drive HTML fixtures through wrap engines",
		Long: `screenwrap mounts an HTML fixture file with the in-memory dom engine or a
live Chrome tab, then snapshots it, dumps it, queries it by text or test id,
or scopes into one element and clicks, focuses, blurs or types into it.

Configuration is read from .screenwraprc (YAML), SCREENWRAP_* environment
variables and flags, later sources winning.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loadConfigFile(cfg)
			changed := func(name string) bool { return cmd.Flags().Changed(name) }
			applyEnvVars(cfg, changed)
			reapplyExplicitFlags(cfg, &fv, changed)
			if err := validateConfig(cfg); err != nil {
				return err
			}

			cfg.log, cfg.restoreLog = newLogger(cfg)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&fv.engine, "engine", cfg.Engine, "Render engine: dom, chrome (env: SCREENWRAP_ENGINE)")
	pf.StringVar(&fv.host, "host", cfg.Host, "Chrome debug host (env: SCREENWRAP_HOST)")
	pf.IntVar(&fv.port, "port", cfg.Port, "Chrome debug port (env: SCREENWRAP_PORT)")
	pf.DurationVar(&fv.timeout, "timeout", cfg.Timeout, "Per-call timeout (env: SCREENWRAP_TIMEOUT)")
	pf.StringVarP(&fv.output, "output", "o", cfg.Output, "Output format: json, ndjson, text (env: SCREENWRAP_OUTPUT)")
	pf.StringVar(&fv.testIDAttr, "testid-attr", cfg.TestIDAttr, "Attribute matched by test id queries (env: SCREENWRAP_TESTID_ATTR)")
	pf.BoolVarP(&fv.verbose, "verbose", "v", cfg.Verbose, "Debug logging on stderr")

	root.AddCommand(
		newSnapshotCmd(cfg),
		newDebugCmd(cfg),
		newQueryCmd(cfg),
		newActCmd(cfg),
	)
	return root
}
