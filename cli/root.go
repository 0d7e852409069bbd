// Package cli implements the proclist command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jongio/proclist/cliout"
	"github.com/jongio/proclist/config"
	"github.com/jongio/proclist/logutil"
	"github.com/jongio/proclist/snapshot"
	"github.com/jongio/proclist/version"
	"github.com/spf13/cobra"
)

const pauseMessage = "Press any key to continue..."

// app carries the state shared by all commands of one invocation.
type app struct {
	src snapshot.Source
	cfg config.Config

	configPath string
	flags      config.Config
	loaded     bool

	errOut io.Writer
	// waitForKey is replaced in tests.
	waitForKey func(string) error
}

func newApp(src snapshot.Source) *app {
	return &app{
		src:        src,
		cfg:        config.Default(),
		errOut:     os.Stderr,
		waitForKey: cliout.WaitForKey,
	}
}

// Execute runs proclist against the running system and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return run(ctx, newApp(snapshot.System()), os.Args[1:])
}

func run(ctx context.Context, a *app, args []string) int {
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetErr(a.errOut)

	code := 0
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		code = 1
	}

	if a.loaded && a.cfg.Pause {
		if err := a.waitForKey(pauseMessage); err != nil {
			logutil.Warn("pause failed", "error", err)
		}
	}
	return code
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "proclist",
		Short: "List running processes and their executable paths",
		Long: `proclist takes a one-shot snapshot of the running processes and resolves
each process ID to the full path of its executable.

Processes that cannot be inspected (missing permission, or exited during the
snapshot) are reported inline and do not stop the listing.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to a YAML config file (default: user config dir)")
	pf.StringVarP(&a.flags.Output, "output", "o", "default", "Output format: default, table or json")
	pf.BoolVar(&a.flags.Pause, "pause", false, "Wait for a key press before exiting")
	pf.BoolVar(&a.flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&a.flags.StructuredLogs, "structured-logs", false, "Write logs as JSON")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")

	f := root.Flags()
	f.IntVarP(&a.flags.Workers, "workers", "w", a.cfg.Workers, "Number of concurrent path lookups")
	f.BoolVar(&a.flags.SkipErrors, "skip-errors", false, "Omit processes whose path cannot be read")
	f.BoolVar(&a.flags.Unsorted, "unsorted", false, "Keep the OS enumeration order instead of sorting by PID")
	f.StringVar(&a.flags.MetricsFile, "metrics-file", "", "Write snapshot totals to a Prometheus textfile")

	root.AddCommand(newNameCommand(a), version.NewCommand(version.New("proclist")))
	return root
}

// load resolves the config (defaults, file, environment, then flags) and
// sets up logging and output.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = a.flags.Output
	}
	if flags.Changed("pause") {
		cfg.Pause = a.flags.Pause
	}
	if flags.Changed("debug") {
		cfg.Debug = a.flags.Debug
	}
	if flags.Changed("structured-logs") {
		cfg.StructuredLogs = a.flags.StructuredLogs
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(a.flags.LogLevel)
	}
	if flags.Changed("workers") {
		cfg.Workers = a.flags.Workers
	}
	if flags.Changed("skip-errors") {
		cfg.SkipErrors = a.flags.SkipErrors
	}
	if flags.Changed("unsorted") {
		cfg.Unsorted = a.flags.Unsorted
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = a.flags.MetricsFile
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cliout.SetFormat(cfg.Output); err != nil {
		return err
	}
	logutil.SetupLogger(cfg.Debug, cfg.StructuredLogs)
	if cfg.LogLevel != "" && !cfg.Debug {
		logutil.SetLevel(logutil.ParseLevel(cfg.LogLevel))
	}

	a.cfg = cfg
	a.loaded = true
	logutil.NewLogger("cli").WithOperation(cmd.Name()).
		WithFields("output", cfg.Output, "workers", cfg.Workers, "level", int(logutil.GetLevel())).
		Debug("config loaded", "config", a.configPath)
	return nil
}
