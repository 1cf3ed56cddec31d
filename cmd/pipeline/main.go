package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"chartpulse/internal/config"
	perrors "chartpulse/internal/errors"
	"chartpulse/internal/infrastructure"
	"chartpulse/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "", "path to YAML configuration file (optional)")
	chartsPath := flag.String("charts", "", "override path to the raw chart export")
	outputDir := flag.String("out", "", "override output directory")
	traceExporter := flag.String("trace", "none", "trace exporter: stdout or none")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *chartsPath != "" {
		cfg.Paths.RawCharts = *chartsPath
	}
	if *outputDir != "" {
		cfg.Paths.OutputDir = *outputDir
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.TraceExporter = *traceExporter
	otelCfg.EnableTracing = *traceExporter != "none"
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		logger.Error("Failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", slog.String("error", err.Error()))
		}
	}()

	ctx := infrastructure.ContextWithRunID(context.Background())
	logger.InfoContext(ctx, "Starting chart data pipeline",
		slog.String("charts", cfg.Paths.RawCharts),
		slog.String("output_dir", cfg.Paths.OutputDir),
		slog.String("markets", fmt.Sprintf("%v", cfg.Markets)),
		slog.Int("min_year", cfg.MinYear),
		slog.Int("max_year", cfg.MaxYear))

	p := pipeline.New(cfg, logger, providers)
	result, err := p.Run(ctx)

	printRunReport(result)

	if err != nil {
		var ve *perrors.ValidationErrors
		if errors.As(err, &ve) {
			fmt.Fprintln(os.Stderr, "\nValidation errors:")
			for _, msg := range ve.Errors {
				fmt.Fprintf(os.Stderr, "  - %s\n", msg)
			}
		}
		logger.ErrorContext(ctx, "Pipeline run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Pipeline run completed",
		slog.Int("kpi_rows", result.KPIRows),
		slog.Int("high_potential", result.HighPotential),
		slog.Duration("duration", result.Duration))
}

// printRunReport writes the per-step summary to stdout so a console run
// shows every step's outcome at a glance.
func printRunReport(result *pipeline.Result) {
	if result == nil {
		return
	}
	fmt.Printf("\nRun %s\n", result.RunID)
	for _, step := range result.Steps {
		line := fmt.Sprintf("  [%-9s] %-18s %s", step.Status, step.ID, step.Name)
		if step.Status == pipeline.StepStatusCompleted {
			line += fmt.Sprintf(" (%s)", step.Duration().Round(time.Millisecond))
		}
		if step.Err != nil {
			line += fmt.Sprintf(" - %v", step.Err)
		}
		fmt.Println(line)
	}
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	fmt.Printf("  charts=%d merged=%d kpi=%d trends=%d high_potential=%d journal_steps=%d\n",
		result.ChartRows, result.MergedRows, result.KPIRows,
		result.TrendRows, result.HighPotential, result.JournalSteps)
}
