package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gdpetl/internal/chrono"
	"gdpetl/internal/etl"
	"gdpetl/internal/etlerr"
	internaltelemetry "gdpetl/internal/telemetry"
	"gdpetl/lib/telemetry"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gdp-etl",
	Short: "gdp-etl scrapes the nominal GDP table, stores it as JSON and in a database, then lists the largest economies.",
	Long: `gdp-etl runs the job once: it downloads the archived Wikipedia list of countries
by nominal GDP, converts the values from USD millions to USD billions, writes
them to a JSON file and a database table, and prints the countries whose GDP
is above the threshold.

Settings are read from ` + etl.ConfigFile + ` in the working directory when present.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupTelemetry(ctx context.Context) func() {
	tel, err := telemetry.SetupFromEnv(ctx, "gdp-etl")
	if errors.Is(err, telemetry.ErrNotConfigured) {
		slog.DebugContext(ctx, "telemetry export disabled", "reason", err)
	} else if err != nil {
		slog.WarnContext(ctx, "failed to setup telemetry", "err", err)
	}
	return func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	config, err := etl.LoadConfig(etl.ConfigFile)
	if err != nil {
		telemetry.InitSlog(false)
		slog.ErrorContext(ctx, "failed to read config", "kind", etlerr.KindOf(err), "err", err)
		return err
	}
	telemetry.InitSlog(config.Verbose)

	shutdown := setupTelemetry(ctx)
	defer shutdown()

	pipeline, err := etl.New(config, internaltelemetry.SlogAPI{}, chrono.NewStandardImpl())
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize pipeline", "err", err)
		return err
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		slog.ErrorContext(
			ctx, "etl job failed",
			"stage", etlerr.StageOf(err),
			"kind", etlerr.KindOf(err),
			"err", err,
		)
		return err
	}
	telemetry.RecordPerfStats(ctx)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "ETL Job completed")
	fmt.Fprintln(out, result.Query.Statement())
	RenderRows(out, result.Rows)
	return nil
}
