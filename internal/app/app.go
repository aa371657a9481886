package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"NewsRiskScanner/internal/config"
	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/infrastructure/browser"
	"NewsRiskScanner/internal/infrastructure/extractor"
	"NewsRiskScanner/internal/infrastructure/llm"
	"NewsRiskScanner/internal/infrastructure/ml"
	"NewsRiskScanner/internal/infrastructure/parser"
	"NewsRiskScanner/internal/infrastructure/scheduler"
	"NewsRiskScanner/internal/infrastructure/storage"
	"NewsRiskScanner/internal/infrastructure/telegram"
	"NewsRiskScanner/internal/logging"
	"NewsRiskScanner/internal/ports"
	"NewsRiskScanner/internal/report"
	"NewsRiskScanner/internal/scanner"
	"NewsRiskScanner/internal/usecase"
)

const stopTimeout = 30 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
	closers  []io.Closer
}

// New acquires every external resource and builds the pipeline. Anything acquired before a
// failure is released again.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (_ *Application, err error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	a := &Application{cfg: cfg, logger: baseLogger}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	httpClient := &http.Client{Timeout: cfg.Fetcher.HTTPTimeout}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewRSSScanner(&http.Client{Timeout: cfg.RSS.Timeout}, cfg.RSS, logging.Component(baseLogger, "scanner.rss")))

	if usesScanner(cfg.Sources, parser.GoogleNewsScannerName) {
		collector, err := browser.Start(ctx, cfg.Browser, cfg.Fetcher.UserAgent, logging.Component(baseLogger, "browser.collector"))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, collector)
		registry.Register(parser.NewGoogleNewsScanner(collector, cfg.Collector, logging.Component(baseLogger, "scanner.googlenews")))
	}

	resolver, err := browser.Start(ctx, cfg.Browser, cfg.Fetcher.UserAgent, logging.Component(baseLogger, "browser.fetcher"))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, resolver)

	for _, src := range cfg.Sources {
		if _, err := registry.Resolve(src.Scanner); err != nil {
			return nil, fmt.Errorf("%w: source %s: %v", domain.ErrConfig, src.Name, err)
		}
	}

	deps := usecase.PipelineDeps{
		Source:          parser.NewStrategySource(registry, cfg.Sources, cfg.TargetCount, logging.Component(baseLogger, "source")),
		Fetcher:         extractor.NewReadabilityFetcher(resolver, httpClient, cfg.Fetcher, logging.Component(baseLogger, "fetcher")),
		Repository:      storage.NewJSONRepository(cfg.Output.Dir, logging.Component(baseLogger, "storage.json")),
		Reporter:        report.NewTerminal(os.Stdout, cfg.Notifications.AlertThreshold),
		Logger:          logging.Component(baseLogger, "pipeline"),
		Keywords:        cfg.Keywords,
		MinWords:        cfg.Preprocess.MinWords,
		FilterByKeyword: cfg.Preprocess.FilterByKeyword,
		AlertThreshold:  cfg.Notifications.AlertThreshold,
	}

	if cfg.Scoring.Enabled {
		deps.Scorer, err = a.buildScorer(ctx)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Summarizer.Enabled {
		deps.Summarizer = ml.NewClient(cfg.Summarizer, llm.NewLimiter(cfg.Summarizer.RatePerMinute), logging.Component(baseLogger, "summarizer"))
	}

	if cfg.Database.DSN != "" {
		db, err := storage.OpenPostgres(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		archive := storage.NewPostgresArchive(db)
		if err := archive.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrResourceInit, err)
		}
		deps.Archive = archive
	}

	if notifier := telegram.NewNotifier(cfg.Notifications.Telegram); notifier.Enabled() {
		deps.Notifier = notifier
	}

	a.pipeline = usecase.NewPipeline(deps)
	return a, nil
}

func (a *Application) buildScorer(ctx context.Context) (ports.RiskScorer, error) {
	schema, err := llm.SchemaFromConfig(a.cfg.Scoring)
	if err != nil {
		return nil, err
	}
	log := logging.Component(a.logger, "scorer."+a.cfg.Scoring.Provider)

	switch a.cfg.Scoring.Provider {
	case config.ProviderGemini:
		scorer, err := llm.NewGeminiScorer(ctx, a.cfg.Scoring, schema, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, scorer)
		return scorer, nil
	case config.ProviderGroq, "":
		return llm.NewGroqScorer(a.cfg.Scoring, schema, nil, log), nil
	default:
		return nil, fmt.Errorf("%w: unknown scoring provider %q", domain.ErrConfig, a.cfg.Scoring.Provider)
	}
}

// Run processes every keyword once, or repeatedly when an interval is configured, until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	if a.cfg.Scheduler.Interval <= 0 {
		return a.pipeline.ProcessAll(ctx)
	}

	sched := usecase.NewScheduler(scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval), a.pipeline, logging.Component(a.logger, "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("scheduler started", "interval", a.cfg.Scheduler.Interval)
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return sched.Stop(stopCtx)
}

// Close releases resources in reverse acquisition order.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func usesScanner(sources []config.SourceConfig, name string) bool {
	for _, src := range sources {
		if src.Scanner == name {
			return true
		}
	}
	return false
}
