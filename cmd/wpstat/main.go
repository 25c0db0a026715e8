// wpstat summarizes a water points dataset per community and ranks
// communities by the share of broken water points.
//
// Usage:
//
//	wpstat                                  # default onaio dataset
//	wpstat https://example.org/points.json
//	wpstat --format json water_points.json
//	curl -s $URL | wpstat -
//
// Output modes (auto-detected):
//
//	terminal  styled Unicode output (default when TTY)
//	llm       terse plain text for AI consumption (default when piped)
//	json      number_functional, number_water_points, community_ranking
//
// Exit codes: 0 report produced, 1 no community data, 2 download failed or
// usage error.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dkoosis/wpstat/internal/config"
	"github.com/dkoosis/wpstat/internal/logger"
	"github.com/dkoosis/wpstat/internal/metrics"
	"github.com/dkoosis/wpstat/internal/pipeline"
	"github.com/dkoosis/wpstat/internal/version"
	"github.com/dkoosis/wpstat/internal/waterpoint"
	"github.com/dkoosis/wpstat/pkg/mapper"
	"github.com/dkoosis/wpstat/pkg/render"
	"github.com/dkoosis/wpstat/pkg/source"
)

const (
	exitOK       = 0
	exitNoData   = 1
	exitFailure  = 2
	dotEnvFile   = ".env"
	defaultWidth = 80
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries the I/O streams and the exit code through cobra callbacks.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	configFile     string
	code           int
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "wpstat: %v\n", err)
		return exitFailure
	}
	return a.code
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wpstat [SOURCE]",
		Short:         "Summarize water point functionality per community",
		Long:          "wpstat downloads a water points dataset, counts water points per community\nand ranks communities by the percentage of broken water points.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runReport,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (default .wpstat.yaml, then user config dir)")
	config.RegisterFlags(pf)

	report := &cobra.Command{
		Use:   "report [SOURCE]",
		Short: "Build the community report (default command)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runReport,
	}
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE:  a.runConfig,
	}
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wpstat %s (commit %s, built %s)\n",
				version.Version, version.CommitHash, version.BuildDate)
		},
	}
	root.AddCommand(report, cfgCmd, versionCmd)
	return root
}

// loadConfig resolves configuration for cmd with flags > env > file > defaults.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	if err := config.ReadFile(v, a.configFile); err != nil {
		return nil, err
	}
	return config.Resolve(v)
}

func (a *app) runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func (a *app) runReport(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Source = args[0]
	}

	log := logger.New(logger.Options{Verbose: cfg.Verbose, File: cfg.LogFile, Console: a.stderr})
	defer func() { _ = log.Sync() }()
	if cfg.File != "" {
		log.Debug("using config file", zap.String("path", cfg.File))
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	loader := source.NewLoader(cfg.Timeout, cfg.UserAgent+"/"+version.Version)
	loader.Stdin = a.stdin
	loader.MaxBytes = cfg.MaxBodyBytes

	p := pipeline.New(loader,
		waterpoint.WithFields(cfg.WaterpointFields()),
		waterpoint.WithPolicy(cfg.Policy()),
	)
	p.Logger = log

	var recorder *metrics.Recorder
	if cfg.MetricsFile != "" {
		recorder = metrics.NewRecorder()
		p.Observer = recorder
	}

	out := p.Calculate(ctx, cfg.Source)

	mode := resolveFormat(cfg.Format, a.stdout)
	top := cfg.Top
	if mode == "json" {
		top = 0
	}
	patterns := mapper.FromOutcome(out, mapper.Options{Top: top})
	fmt.Fprint(a.stdout, selectRenderer(mode, cfg, a.stdout).Render(patterns))

	if recorder != nil {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("writing metrics textfile", zap.String("path", cfg.MetricsFile), zap.Error(err))
		}
	}

	a.code = exitCode(out)
	if out.Err != nil && !cfg.Verbose && mode != "json" {
		fmt.Fprintf(a.stderr, "wpstat: %v\n", out.Err)
	}
	return nil
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width for w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return defaultWidth
}

func selectRenderer(mode string, cfg *config.Config, w io.Writer) render.Renderer {
	switch mode {
	case "json":
		return render.NewJSON()
	case "llm":
		return render.NewLLM()
	default:
		theme := render.ThemeByName(cfg.Theme)
		if cfg.NoColor {
			theme = render.MonoTheme()
		}
		return render.NewTerminal(theme, termWidth(w))
	}
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	// Auto-detect: TTY = terminal, piped = llm
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

// exitCode maps an outcome to the process exit code.
func exitCode(out pipeline.Outcome) int {
	switch out.Kind {
	case pipeline.KindSuccess:
		return exitOK
	case pipeline.KindNoCommunityData:
		return exitNoData
	default:
		return exitFailure
	}
}
