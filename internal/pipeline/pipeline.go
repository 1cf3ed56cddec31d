package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/trace"

	"chartpulse/internal/config"
	"chartpulse/internal/dataprocessing"
	perrors "chartpulse/internal/errors"
	"chartpulse/internal/exporter"
	"chartpulse/internal/infrastructure"
	"chartpulse/internal/journal"
	"chartpulse/internal/kpi"
	"chartpulse/internal/scoring"
	"chartpulse/internal/validation"
	"chartpulse/pkg/contracts/domain"
)

// Pipeline runs the full chart-data batch: load, clean, merge, score,
// aggregate, validate, export. One Pipeline value serves one run.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	tracer *RunTracer
}

// Result summarizes a completed run.
type Result struct {
	RunID         string
	Steps         []*StepState
	ChartRows     int
	MergedRows    int
	KPIRows       int
	TrendRows     int
	HighPotential int
	JournalSteps  int
	Warnings      []string
	Duration      time.Duration
}

// New creates a pipeline for the given configuration. A nil providers
// value disables tracing.
func New(cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	var tracer *RunTracer
	if providers != nil {
		tracer = NewRunTracer(providers)
	}
	return &Pipeline{
		cfg:    cfg,
		logger: logger,
		tracer: tracer,
	}
}

// runState carries the working tables between steps. The pipeline holds
// everything in memory for the duration of a run.
type runState struct {
	journal    *journal.Journal
	charts     []domain.ChartEntry
	audio      []domain.AudioFeatures
	genres     []domain.GenreAssignment
	merged     []domain.EnrichedTrack
	kpiRecords []domain.KPIRecord
	trends     []domain.MarketTrend
	shortlist  []domain.HighPotentialTrack
	warnings   []string
}

// Run executes every pipeline step in order. A failing step aborts the
// run; export only happens after the KPI table has passed validation, so a
// failed run leaves the previous run's output files untouched.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)
	logger := p.logger.With(slog.String("run_id", runID))

	start := time.Now()
	var runSpan trace.Span
	if p.tracer != nil {
		ctx, runSpan = p.tracer.TraceRun(ctx, runID)
	}

	state := &runState{journal: journal.New()}
	result := &Result{RunID: runID}

	steps := []struct {
		id   string
		name string
		fn   func(context.Context, *runState) error
	}{
		{"validate_inputs", "Validate input files", p.validateInputs},
		{"prepare_charts", "Load and clean chart export", p.prepareCharts},
		{"prepare_features", "Load audio features and genres", p.prepareFeatures},
		{"merge", "Merge charts with track data", p.merge},
		{"score", "Compute success scores", p.score},
		{"aggregate", "Aggregate KPI metrics", p.aggregate},
		{"validate_kpi", "Validate KPI table", p.validateKPI},
		{"export", "Export output tables", p.export},
	}

	var runErr error
	for _, step := range steps {
		stepState := NewStepState(step.id, step.name)
		result.Steps = append(result.Steps, stepState)

		if runErr != nil {
			stepState.Skip("previous step failed")
			continue
		}

		stepCtx := ctx
		var stepSpan trace.Span
		if p.tracer != nil {
			stepCtx, stepSpan = p.tracer.TraceStep(ctx, runID, step.id)
		}

		stepState.Start()
		logger.Info("step started", slog.String("step", step.id))

		if err := step.fn(stepCtx, state); err != nil {
			stepState.Fail(err)
			logger.Error("step failed",
				slog.String("step", step.id),
				slog.String("error", err.Error()),
				slog.String("category", string(perrors.CategoryOf(err))))
			runErr = fmt.Errorf("step %s: %w", step.id, err)
		} else {
			stepState.Complete()
			logger.Info("step completed",
				slog.String("step", step.id),
				slog.Duration("duration", stepState.Duration()))
		}

		if p.tracer != nil {
			p.tracer.RecordStepCompletion(stepSpan, stepState, stepState.Duration())
			stepSpan.End()
		}
	}

	result.ChartRows = len(state.charts)
	result.MergedRows = len(state.merged)
	result.KPIRows = len(state.kpiRecords)
	result.TrendRows = len(state.trends)
	result.HighPotential = len(state.shortlist)
	result.JournalSteps = state.journal.Len()
	result.Warnings = state.warnings
	result.Duration = time.Since(start)

	if p.tracer != nil {
		p.tracer.RecordRunCompletion(runSpan, runID, result.Duration, runErr)
		runSpan.End()
	}

	if runErr != nil {
		logger.Error("pipeline run failed",
			slog.Duration("duration", result.Duration))
		return result, runErr
	}

	logger.Info("pipeline run completed",
		slog.Int("chart_rows", result.ChartRows),
		slog.Int("kpi_rows", result.KPIRows),
		slog.Int("journal_steps", result.JournalSteps),
		slog.Duration("duration", result.Duration))
	return result, nil
}

func (p *Pipeline) validateInputs(ctx context.Context, state *runState) error {
	v := validation.NewInputValidator(p.logger)
	required := []string{p.cfg.Paths.RawCharts}
	optional := []string{p.cfg.Paths.RawDatabase, p.cfg.Paths.RawAudio, p.cfg.Paths.GenreMapping}
	if err := v.ValidateInputFiles(required, optional); err != nil {
		return err
	}
	return v.ValidateOutputDirectory(p.cfg.Paths.OutputDir)
}

func (p *Pipeline) prepareCharts(ctx context.Context, state *runState) error {
	table, err := dataprocessing.LoadTable(p.cfg.Paths.RawCharts)
	if err != nil {
		return perrors.NewIO("prepare_charts", "load chart export", err)
	}
	state.journal.Append(journal.Record{
		Action: "load", Source: filepath.Base(p.cfg.Paths.RawCharts), Target: "charts",
		Description: "Loaded the raw chart export.",
		RowsAfter:   journal.Rows(table.Len()),
	})

	preparer := dataprocessing.NewChartPreparer(p.cfg.Markets, p.cfg.MinYear, p.cfg.MaxYear, p.logger)
	charts, err := preparer.Prepare(table, state.journal)
	if err != nil {
		return err
	}
	state.charts = charts
	return nil
}

// prepareFeatures loads the track database, extracts cleaned audio
// features and harmonized genres from it, and falls back to the optional
// audio dataset for genres when the database has no genre column. Missing
// optional sources degrade the dependent features instead of failing.
func (p *Pipeline) prepareFeatures(ctx context.Context, state *runState) error {
	harmonizer, mappingSource := p.loadHarmonizer()
	featurePrep := dataprocessing.NewFeaturePreparer(p.logger)

	db, err := dataprocessing.LoadTable(p.cfg.Paths.RawDatabase)
	if err != nil {
		p.logger.Warn("track database unavailable, audio features and genres will be empty",
			slog.String("path", p.cfg.Paths.RawDatabase),
			slog.String("error", err.Error()))
	} else {
		state.journal.Append(journal.Record{
			Action: "load", Source: filepath.Base(p.cfg.Paths.RawDatabase), Target: "final_db",
			Description: "Loaded the track database with audio features and metadata.",
			RowsAfter:   journal.Rows(db.Len()),
		})
		state.audio = featurePrep.PrepareAudio(db, state.journal)
		state.genres = featurePrep.PrepareGenres(db, harmonizer, mappingSource, state.journal)
	}

	if len(state.genres) == 0 && p.cfg.Paths.RawAudio != "" {
		dataset, err := dataprocessing.LoadTable(p.cfg.Paths.RawAudio)
		if err != nil {
			p.logger.Warn("audio dataset unavailable",
				slog.String("path", p.cfg.Paths.RawAudio),
				slog.String("error", err.Error()))
			return nil
		}
		state.journal.Append(journal.Record{
			Action: "load", Source: filepath.Base(p.cfg.Paths.RawAudio), Target: "dataset",
			Description: "Loaded the audio dataset as secondary genre source.",
			RowsAfter:   journal.Rows(dataset.Len()),
		})
		state.genres = featurePrep.PrepareGenres(dataset, harmonizer, mappingSource, state.journal)
	}
	return nil
}

// loadHarmonizer builds the genre harmonizer from the configured mapping
// file, falling back to the built-in mapping when the file is absent.
func (p *Pipeline) loadHarmonizer() (*dataprocessing.Harmonizer, string) {
	if p.cfg.Paths.GenreMapping != "" {
		entries, err := dataprocessing.LoadMapping(p.cfg.Paths.GenreMapping)
		if err == nil {
			return dataprocessing.NewHarmonizer(entries), filepath.Base(p.cfg.Paths.GenreMapping)
		}
		p.logger.Warn("genre mapping file unusable, using built-in mapping",
			slog.String("path", p.cfg.Paths.GenreMapping),
			slog.String("error", err.Error()))
	}
	return dataprocessing.NewHarmonizer(dataprocessing.DefaultMapping()), "built-in mapping"
}

func (p *Pipeline) merge(ctx context.Context, state *runState) error {
	merger := dataprocessing.NewMerger(p.logger)
	state.merged = merger.Merge(state.charts, state.audio, state.genres, state.journal)
	return nil
}

func (p *Pipeline) score(ctx context.Context, state *runState) error {
	weights := scoring.Weights{
		Rank:         p.cfg.Scoring.RankWeight,
		Streams:      p.cfg.Scoring.StreamsWeight,
		Danceability: p.cfg.Scoring.DanceabilityWeight,
		Energy:       p.cfg.Scoring.EnergyWeight,
		Followers:    p.cfg.Scoring.FollowersWeight,
		Top10:        p.cfg.Scoring.Top10Weight,
	}
	if !weights.IsValid() {
		return perrors.NewInvariant("score", "scoring weights are invalid")
	}
	scorer := scoring.NewScorer(weights, p.cfg.Scoring.SuccessCutoff, p.logger)
	scorer.Score(state.merged, state.journal)
	return nil
}

func (p *Pipeline) aggregate(ctx context.Context, state *runState) error {
	aggregator := kpi.NewAggregator(p.cfg.Scoring.SuccessCutoff, p.cfg.KPI.GrowthCapPercent, p.cfg.MinYear, p.logger)
	state.kpiRecords = aggregator.Aggregate(state.merged, state.journal)

	state.trends = kpi.MarketTrends(state.merged, p.logger, state.journal)

	selector := kpi.NewHighPotentialSelector(p.cfg.KPI.StreamFloor, p.cfg.KPI.RecentYears, p.logger)
	state.shortlist = selector.Select(state.merged, state.journal)
	return nil
}

func (p *Pipeline) validateKPI(ctx context.Context, state *runState) error {
	v := validation.NewKPIValidator(p.cfg.MinYear, p.logger)
	result := v.Validate(state.kpiRecords)
	state.warnings = append(state.warnings, result.Warnings...)
	if result.HasErrors() {
		return result
	}
	return nil
}

func (p *Pipeline) export(ctx context.Context, state *runState) error {
	e := exporter.NewTableExporter(p.cfg.Paths.OutputDir, p.logger)

	if err := e.ExportKPI(state.kpiRecords); err != nil {
		return err
	}
	if err := e.ExportEnhanced(state.merged); err != nil {
		return err
	}
	if err := e.ExportHighPotential(state.shortlist); err != nil {
		return err
	}
	if err := e.ExportMarketTrends(state.trends); err != nil {
		return err
	}

	state.journal.Append(journal.Record{
		Action: "export", Source: "pipeline", Target: p.cfg.Paths.OutputDir,
		Description: "Exported the KPI, enhanced, high-potential and market-trend tables.",
		RowsAfter:   journal.Rows(len(state.kpiRecords) + len(state.merged) + len(state.shortlist) + len(state.trends)),
	})

	return e.ExportJournal(state.journal)
}
