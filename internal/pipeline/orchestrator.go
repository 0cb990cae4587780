// Package pipeline sequences the analysis stages into complete runs and
// folds their results into the caller-facing envelope.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/events"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/stage"
)

// Orchestrator drives one pipeline run: document acquisition, the
// parallel analysis pair, insight, synthesis, and report persistence.
// It never returns an error; every outcome is a PipelineRun.
type Orchestrator struct {
	resource    stage.Executor
	methodology stage.Executor
	experiment  stage.Executor
	insight     stage.Executor
	synthesis   stage.Executor

	store    core.ReportStore
	notifier core.Notifier
	log      *logging.Logger

	runTimeout time.Duration

	mu      sync.Mutex
	history RunCounters
}

// Options configures an Orchestrator. Store and Notifier are optional.
type Options struct {
	Store      core.ReportStore
	Notifier   core.Notifier
	Logger     *logging.Logger
	RunTimeout time.Duration
}

// New builds an orchestrator over the five stage executors.
func New(resource, methodology, experiment, insight, synthesis stage.Executor, opts Options) *Orchestrator {
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &Orchestrator{
		resource:    resource,
		methodology: methodology,
		experiment:  experiment,
		insight:     insight,
		synthesis:   synthesis,
		store:       opts.Store,
		notifier:    opts.Notifier,
		log:         log,
		runTimeout:  opts.RunTimeout,
	}
}

// Run executes the full pipeline for one request. The returned run is
// complete whatever happened: validation failures, stage degradation, and
// panics inside executors all end up as structured results.
func (o *Orchestrator) Run(ctx context.Context, req core.AnalysisRequest) *core.PipelineRun {
	run := &core.PipelineRun{
		RunID:     uuid.NewString(),
		Request:   req,
		StartedAt: time.Now(),
	}
	log := o.log.WithRun(run.RunID)

	if violations := Validate(req); len(violations) > 0 {
		run.Status = core.RunError
		run.Error = "invalid request: " + strings.Join(violations, "; ")
		run.Duration = time.Since(run.StartedAt)
		log.Warn("request rejected", "violations", strings.Join(violations, "; "))
		o.record(run)
		return run
	}

	if o.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.runTimeout)
		defer cancel()
	}

	o.publish(events.NewRunStartedEvent(run.RunID, req.Input, string(req.Kind)))
	log.Info("run started", "kind", string(req.Kind), "audience", string(req.Audience))

	sc := &stage.Context{Request: req}

	resource := o.runStage(ctx, run, o.resource, sc)
	run.Results = append(run.Results, resource)
	if !resource.Success {
		return o.finish(run, fmt.Sprintf("document acquisition failed: %s", resource.Err))
	}
	if payload, ok := resource.Payload.(core.ResourcePayload); ok {
		sc.Document = payload.Document
	}

	o.runParallel(ctx, run, sc)

	insight := o.runStage(ctx, run, o.insight, sc)
	run.Results = append(run.Results, insight)
	if insight.Success {
		if payload, ok := insight.Payload.(core.InsightPayload); ok {
			sc.Insight = &payload
		}
	}

	synthesis := o.runStage(ctx, run, o.synthesis, sc)
	run.Results = append(run.Results, synthesis)
	if payload, ok := synthesis.Payload.(core.ReportPayload); ok {
		run.Report = &payload
	}
	if !synthesis.Success {
		return o.finish(run, fmt.Sprintf("report synthesis failed: %s", synthesis.Err))
	}

	o.persist(ctx, run)

	return o.finish(run, "")
}

// runParallel executes methodology and experiment concurrently. Both are
// non-fatal, so the group never carries an error; the mutex orders result
// appends by completion.
func (o *Orchestrator) runParallel(ctx context.Context, run *core.PipelineRun, sc *stage.Context) {
	start := time.Now()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, ex := range []stage.Executor{o.methodology, o.experiment} {
		ex := ex
		g.Go(func() error {
			res := o.runStage(gctx, run, ex, sc)
			mu.Lock()
			run.Results = append(run.Results, res)
			mu.Unlock()
			return nil
		})
	}
	// Stages degrade instead of erroring, so the group never fails.
	_ = g.Wait()

	if res := run.ResultFor(core.StageMethodology); res != nil && res.Success {
		if payload, ok := res.Payload.(core.MethodologyPayload); ok {
			sc.Methodology = &payload
		}
	}
	if res := run.ResultFor(core.StageExperiment); res != nil && res.Success {
		if payload, ok := res.Payload.(core.ExperimentPayload); ok {
			sc.Experiment = &payload
		}
	}

	o.publish(events.NewParallelCompletedEvent(run.RunID,
		[]string{string(core.StageMethodology), string(core.StageExperiment)},
		time.Since(start)))
}

// runStage executes one stage behind a fault boundary: a panicking
// executor degrades its stage instead of tearing down the run.
func (o *Orchestrator) runStage(ctx context.Context, run *core.PipelineRun, ex stage.Executor, sc *stage.Context) (res core.StageResult) {
	start := time.Now()
	o.publish(events.NewStageStartedEvent(run.RunID, string(ex.Stage())))

	defer func() {
		if r := recover(); r != nil {
			o.log.WithRun(run.RunID).Error("stage panicked",
				"stage", string(ex.Stage()), "panic", fmt.Sprint(r))
			res = core.StageResult{
				Stage:       ex.Stage(),
				Success:     false,
				Payload:     fallbackFor(ex.Stage(), sc),
				Err:         fmt.Sprintf("internal stage failure: %v", r),
				Duration:    time.Since(start),
				CompletedAt: time.Now(),
			}
		}
		o.publish(events.NewStageCompletedEvent(run.RunID, string(res.Stage), res.Success, res.Err, res.Duration))
	}()

	return ex.Process(ctx, sc)
}

// fallbackFor returns the declared fallback payload for a stage, used when
// the executor itself could not produce one.
func fallbackFor(s core.Stage, sc *stage.Context) any {
	switch s {
	case core.StageResourceRetrieval:
		return core.FallbackResourcePayload()
	case core.StageMethodology:
		return core.FallbackMethodologyPayload()
	case core.StageExperiment:
		return core.FallbackExperimentPayload()
	case core.StageInsight:
		return core.FallbackInsightPayload()
	case core.StageSynthesis:
		title := ""
		if sc.Document != nil {
			title = "Analysis of: " + sc.Document.Title()
		}
		return core.FallbackReportPayload(title)
	default:
		return nil
	}
}

// persist saves the synthesized report. Persistence failures never fail
// the run; they are recorded on the persistence stage result.
func (o *Orchestrator) persist(ctx context.Context, run *core.PipelineRun) {
	if !run.Request.SaveReport || o.store == nil || run.Report == nil {
		return
	}
	start := time.Now()
	log := o.log.WithRun(run.RunID).WithStage(string(core.StagePersistence))

	path, err := o.store.Save(ctx, run.Report, run.Request.Format)
	res := core.StageResult{
		Stage:       core.StagePersistence,
		Success:     err == nil,
		Payload:     path,
		Duration:    time.Since(start),
		CompletedAt: time.Now(),
	}
	if err != nil {
		res.Err = err.Error()
		log.Warn("report not saved", "error", err.Error())
	} else {
		run.ReportPath = path
		log.Info("report saved", "path", path)
		o.publish(events.NewReportSavedEvent(run.RunID, path, string(run.Request.Format)))
	}
	run.Results = append(run.Results, res)
}

// finish stamps the terminal status and publishes run completion.
func (o *Orchestrator) finish(run *core.PipelineRun, errMsg string) *core.PipelineRun {
	run.Duration = time.Since(run.StartedAt)
	if errMsg != "" {
		run.Status = core.RunError
		run.Error = errMsg
	} else {
		run.Status = core.RunSuccess
	}

	o.publish(events.NewRunCompletedEvent(run.RunID, string(run.Status), run.Error, run.Duration))
	o.log.WithRun(run.RunID).Info("run finished",
		"status", string(run.Status),
		"duration", run.Duration.String())
	o.record(run)
	return run
}

func (o *Orchestrator) record(run *core.PipelineRun) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history.Total++
	if run.Status == core.RunSuccess {
		o.history.Successful++
	} else {
		o.history.Failed++
	}
}

func (o *Orchestrator) publish(event any) {
	if o.notifier != nil {
		o.notifier.Notify(event)
	}
}
