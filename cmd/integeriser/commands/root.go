// Package commands implements the integeriser command line interface.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/integeriser/pkg/config"
	"github.com/Sumatoshi-tech/integeriser/pkg/observability"
	"github.com/Sumatoshi-tech/integeriser/pkg/persist"
	"github.com/Sumatoshi-tech/integeriser/pkg/version"
)

const (
	rootCmdUse   = "integeriser"
	rootCmdShort = "Dictionary-encode token streams with a persistent interning table"
	rootCmdLong  = `integeriser assigns every distinct token a dense integer code and keeps
the dictionary on disk, so token streams can be encoded to codes and back.

Commands:
  encode    Intern tokens and print their codes
  decode    Turn codes back into tokens
  lookup    Query the dictionary without changing it
  stats     Summarize and verify the dictionary`

	configFlag   = "config"
	configShort  = "c"
	configUsage  = "config file (default ./integeriser.yaml)"
	dirFlag      = "dir"
	dirShort     = "d"
	dirUsage     = "dictionary directory, overrides store.directory"
	verboseFlag  = "verbose"
	verboseShort = "v"
	verboseUsage = "verbose output"
	noColorFlag  = "no-color"
	noColorUsage = "disable colored output"

	shutdownTimeout = 5 * time.Second
)

// app carries global flags and the per-run state built before a subcommand runs.
type app struct {
	configPath string
	dir        string
	verbose    bool
	noColor    bool

	cfg       *config.Config
	providers *observability.Providers
	metrics   *observability.InternMetrics
	persister *persist.Persister[[]string]
	logger    *slog.Logger

	ctx  context.Context
	span trace.Span

	absent *color.Color
}

// NewRootCommand creates the integeriser root command with all subcommands.
func NewRootCommand() *cobra.Command {
	version.InitBinaryVersion()

	return buildRootCommand(&app{})
}

func buildRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           rootCmdUse,
		Short:         rootCmdShort,
		Long:          rootCmdLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, configFlag, configShort, "", configUsage)
	cmd.PersistentFlags().StringVarP(&a.dir, dirFlag, dirShort, "", dirUsage)
	cmd.PersistentFlags().BoolVarP(&a.verbose, verboseFlag, verboseShort, false, verboseUsage)
	cmd.PersistentFlags().BoolVar(&a.noColor, noColorFlag, false, noColorUsage)

	cmd.AddCommand(buildEncodeCommand(a))
	cmd.AddCommand(buildDecodeCommand(a))
	cmd.AddCommand(buildLookupCommand(a))
	cmd.AddCommand(buildStatsCommand(a))
	cmd.AddCommand(buildVersionCommand())

	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	if a.dir != "" {
		cfg.Store.Directory = a.dir
	}

	codec, err := cfg.Codec()
	if err != nil {
		return err
	}

	obsCfg := cfg.Observability()
	obsCfg.ServiceVersion = version.Version

	if a.verbose {
		obsCfg.LogLevel = slog.LevelDebug
	}

	providers, err := observability.Init(obsCfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewInternMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	a.cfg = cfg
	a.providers = providers
	a.metrics = metrics
	a.logger = providers.Logger
	a.persister = persist.NewPersister[[]string](cfg.Store.Name, codec)
	a.ctx, a.span = providers.Tracer.Start(cmd.Context(), cmd.Name())

	a.absent = color.New(color.FgRed)
	if a.noColor {
		a.absent.DisableColor()
	}

	a.logger.DebugContext(a.ctx, "configuration loaded",
		slog.String("backing", cfg.Table.Backing),
		slog.String("dictionary", a.persister.Path(cfg.Store.Directory)),
		slog.Bool("otlp_export", providers.Exporting()),
	)

	return nil
}

func (a *app) teardown() error {
	if a.providers == nil {
		return nil
	}

	counts, err := a.providers.Snapshot(a.ctx)
	if err == nil {
		a.logger.DebugContext(a.ctx, "lookup totals",
			slog.Int64("hits", counts.Hits()),
			slog.Int64("misses", counts.Misses()),
			slog.Int64("added", counts.Values),
		)
	}

	a.span.End()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(a.ctx), shutdownTimeout)
	defer cancel()

	// A collector that cannot be reached must not fail a finished command.
	shutdownErr := a.providers.Shutdown(ctx)
	if shutdownErr != nil {
		a.logger.Warn("observability shutdown failed", slog.Any("error", shutdownErr))
	}

	return nil
}

func buildVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "integeriser %s\n", version.String())
		},
	}
}
