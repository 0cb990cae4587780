package stage

import (
	"context"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/backend"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
)

// ExperimentExecutor evaluates the paper's experimental design and results.
type ExperimentExecutor struct {
	inv *backend.Invoker
	log *logging.Logger
}

// NewExperimentExecutor creates the executor.
func NewExperimentExecutor(inv *backend.Invoker, log *logging.Logger) *ExperimentExecutor {
	if log == nil {
		log = logging.NewNop()
	}
	return &ExperimentExecutor{inv: inv, log: log}
}

// Stage identifies the executor.
func (e *ExperimentExecutor) Stage() core.Stage { return core.StageExperiment }

// Process runs the experiment evaluation.
func (e *ExperimentExecutor) Process(ctx context.Context, sc *Context) core.StageResult {
	start := time.Now()
	log := e.log.WithStage(string(e.Stage()))

	if !e.inv.Available() {
		log.Info("no backend, extracting experiment evaluation heuristically")
		return succeed(e.Stage(), start, heuristicExperiment(sc.Document))
	}

	var payload core.ExperimentPayload
	res := e.inv.InvokeStructured(ctx, e.turns(sc), &payload)
	if !res.Success {
		if res.Category == core.ErrCatBackend {
			log.Warn("backend unreachable, extracting experiment evaluation heuristically", "error", res.Err)
			return succeed(e.Stage(), start, heuristicExperiment(sc.Document))
		}
		log.Warn("experiment evaluation degraded", "category", string(res.Category), "error", res.Err)
		return degrade(e.Stage(), start, core.FallbackExperimentPayload(), res.Err)
	}

	payload.ApplyDefaults()
	return succeed(e.Stage(), start, payload)
}

func (e *ExperimentExecutor) turns(sc *Context) []core.Turn {
	doc := sc.Document
	var b strings.Builder
	b.WriteString(paperDigest(doc))
	b.WriteString(sectionBlock(doc, "Experiments and results", core.SectionExperiment, limitPrimary))
	if len(doc.Tables) > 0 {
		b.WriteString("Tables:\n")
		for _, t := range doc.Tables {
			b.WriteString("- " + t.Label + ": " + t.Text + "\n")
		}
	}
	b.WriteString("\n" + audienceInstruction(sc.Request.Audience))
	b.WriteString("\n" + languageInstruction(sc.Request.Language))
	b.WriteString("\nReply with a JSON object: {\"experimental_setup\": string, " +
		"\"baseline_comparison\": string, \"key_metrics\": [{\"metric\": string, \"value\": string, " +
		"\"significance\": string}], \"validity_assessment\": string, \"results_analysis\": string, " +
		"\"limitations\": [string]}")

	return []core.Turn{
		{Role: core.RoleSystem, Content: "You are an expert in evaluating experimental design, results, and statistical validity of academic papers."},
		{Role: core.RoleUser, Content: b.String()},
	}
}
