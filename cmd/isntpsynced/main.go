package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johnsonjh/isntpsynced/internal/check"
	"github.com/johnsonjh/isntpsynced/internal/clock"
	"github.com/johnsonjh/isntpsynced/internal/config"
	"github.com/johnsonjh/isntpsynced/internal/daemon"
	"github.com/johnsonjh/isntpsynced/internal/reference"
	"github.com/johnsonjh/isntpsynced/internal/report"
	"github.com/johnsonjh/isntpsynced/pkg/logger"
	"github.com/johnsonjh/isntpsynced/pkg/metrics"
)

var (
	// Build information
	version = "dev"

	// Replaced in tests
	newQuerier       = func() clock.Querier { return clock.NewKernelQuerier() }
	newProcessSource = daemon.NewSystemSource
)

type options struct {
	configFile      string
	output          string
	logLevel        string
	textfile        string
	reference       bool
	referenceServer string
	noDaemonCheck   bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// Exit statuses. exitQueryFailed comes from check.Result.ExitCode.
const (
	exitOK          = 0
	exitQueryFailed = 1
	exitSetupFailed = 2
)

// execute runs the root command and returns the process exit status.
// Usage and setup errors exit 2 so they never look like a failed kernel query.
func execute(args []string, stdout, stderr io.Writer) int {
	exitCode := exitOK

	cmd := newRootCmd(stdout, stderr, &exitCode)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitSetupFailed
	}

	return exitCode
}

func newRootCmd(stdout, stderr io.Writer, exitCode *int) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "isntpsynced",
		Short: "Report whether the system clock is synchronized",
		Long: "Query the kernel time-adjustment state once and report whether the system clock\n" +
			"is synchronized. When it is not, report which sync daemon is running.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := run(cmd, opts, stdout, stderr)
			if err != nil {
				return err
			}
			*exitCode = code
			return nil
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "Path to configuration file")
	flags.StringVarP(&opts.output, "output", "o", report.FormatText, "Output format (text|json)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Diagnostic log level (trace|debug|info|warn|error|off)")
	flags.StringVar(&opts.textfile, "textfile", "", "Write Prometheus metrics to this node_exporter textfile")
	flags.BoolVar(&opts.reference, "reference", false, "Also measure the offset against a reference NTP server")
	flags.StringVar(&opts.referenceServer, "reference-server", "", "Reference NTP server (implies --reference)")
	flags.BoolVar(&opts.noDaemonCheck, "no-daemon-check", false, "Do not look for a running sync daemon")

	return cmd
}

// run performs one check. Errors are reserved for setup failures; the
// check outcome is carried by the returned exit code.
func run(cmd *cobra.Command, opts *options, stdout, stderr io.Writer) (int, error) {
	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return exitSetupFailed, fmt.Errorf("failed to load configuration: %w", err)
	}

	applyFlags(cmd, opts, cfg)

	if err := config.Validate(cfg); err != nil {
		return exitSetupFailed, fmt.Errorf("invalid configuration: %w", err)
	}

	logCfg := logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePath:   cfg.Logging.FilePath,
		Component:  "isntpsynced",
		EnableFile: cfg.Logging.EnableFile,
	}
	if cfg.Logging.Output == "stderr" {
		logCfg.Writer = stderr
	}
	if err := logger.InitLogger(logCfg); err != nil {
		return exitSetupFailed, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Startup(version, map[string]interface{}{
		"go_version": runtime.Version(),
		"config":     cfg,
	})

	renderer, err := report.New(cfg.Output.Format, stdout, stderr)
	if err != nil {
		return exitSetupFailed, err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := newChecker(cfg).Run(ctx)

	if err := renderer.Render(result); err != nil {
		logger.Error("main", "Failed to write report", err)
	}

	if cfg.Metrics.Textfile != "" {
		writeTextfile(cfg, result)
	}

	return result.ExitCode(), nil
}

// newChecker builds the check from configuration
func newChecker(cfg *config.Config) *check.Checker {
	c := &check.Checker{Querier: newQuerier()}

	if !cfg.Daemon.Disabled {
		c.Identifier = daemon.NewIdentifier(newProcessSource(cfg.Daemon.ProcPath))
	}

	if cfg.Reference.Enabled {
		c.Reference = reference.NewProber(
			cfg.Reference.Server,
			cfg.Reference.Samples,
			cfg.Reference.Interval,
			cfg.Reference.Timeout,
			cfg.Reference.Version,
		)
	}

	return c
}

// writeTextfile records the result for the node_exporter textfile collector.
// A failure is logged and does not change the exit status.
func writeTextfile(cfg *config.Config, result *check.Result) {
	registry := metrics.NewRegistry(cfg.Metrics.Namespace)
	if err := registry.Register(); err != nil {
		logger.Error("main", "Failed to register metrics", err)
		return
	}

	report.RecordMetrics(registry.GetMetrics(), result)

	if err := registry.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.Error("main", "Failed to write metrics textfile", err)
	}
}

// loadConfig loads configuration based on whether a config file is specified
func loadConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		// Priority: Environment Variables > YAML File > Defaults
		return config.LoadFromYamlWithEnvOverrides(configFile)
	}
	// Priority: Environment Variables > Defaults
	return config.LoadFromEnvVarsOnly()
}

// applyFlags overrides the loaded configuration with explicitly set flags
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("output") {
		cfg.Output.Format = opts.output
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("textfile") {
		cfg.Metrics.Textfile = opts.textfile
	}
	if flags.Changed("reference") {
		cfg.Reference.Enabled = opts.reference
	}
	if flags.Changed("reference-server") {
		cfg.Reference.Server = opts.referenceServer
		cfg.Reference.Enabled = true
	}
	if flags.Changed("no-daemon-check") {
		cfg.Daemon.Disabled = opts.noDaemonCheck
	}
}
