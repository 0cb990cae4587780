package cmd

import (
	"os"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/backend"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/config"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/events"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/metadata"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/parser"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/pipeline"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/report"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/stage"
)

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) *logging.Logger {
	return logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}

// newOrchestrator wires the full pipeline from configuration. The bus is
// optional and only used by the serve command.
func newOrchestrator(cfg *config.Config, log *logging.Logger, bus *events.Bus) (*pipeline.Orchestrator, error) {
	invoker := backend.NewFromConfig(cfg, log)
	if invoker.Available() {
		log.Info("backend configured", "model", cfg.Backends.Primary.Model)
	} else {
		log.Info("no backend configured, using deterministic extraction")
	}

	var catalog core.MetadataSource
	if cfg.Metadata.Enabled {
		catalog = metadata.NewOpenAlexClient(cfg.Metadata, log)
	}

	store, err := report.NewStore(cfg.Output, log)
	if err != nil {
		return nil, err
	}

	var notifier core.Notifier
	if bus != nil {
		notifier = bus
	}

	return pipeline.New(
		stage.NewResourceExecutor(parser.New(log), catalog, log),
		stage.NewMethodologyExecutor(invoker, log),
		stage.NewExperimentExecutor(invoker, log),
		stage.NewInsightExecutor(invoker, log),
		stage.NewSynthesisExecutor(invoker, log),
		pipeline.Options{
			Store:      store,
			Notifier:   notifier,
			Logger:     log,
			RunTimeout: cfg.Pipeline.RunTimeout,
		},
	), nil
}
