package stage

import (
	"context"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/backend"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
)

// SynthesisExecutor combines every surviving payload into the final
// report. Alongside resource retrieval it is pipeline-fatal: without a
// report the run has produced nothing of value.
type SynthesisExecutor struct {
	inv *backend.Invoker
	log *logging.Logger
}

// NewSynthesisExecutor creates the executor.
func NewSynthesisExecutor(inv *backend.Invoker, log *logging.Logger) *SynthesisExecutor {
	if log == nil {
		log = logging.NewNop()
	}
	return &SynthesisExecutor{inv: inv, log: log}
}

// Stage identifies the executor.
func (e *SynthesisExecutor) Stage() core.Stage { return core.StageSynthesis }

// Process builds the report.
func (e *SynthesisExecutor) Process(ctx context.Context, sc *Context) core.StageResult {
	start := time.Now()
	log := e.log.WithStage(string(e.Stage()))

	if !e.inv.Available() {
		log.Info("no backend, assembling report from extracted content")
		return succeed(e.Stage(), start, heuristicReport(sc))
	}

	var payload core.ReportPayload
	res := e.inv.InvokeStructured(ctx, e.turns(sc), &payload)
	if !res.Success {
		if res.Category == core.ErrCatBackend {
			log.Warn("backend unreachable, assembling report from extracted content", "error", res.Err)
			return succeed(e.Stage(), start, heuristicReport(sc))
		}
		log.Error("report synthesis failed", "category", string(res.Category), "error", res.Err)
		return degrade(e.Stage(), start,
			core.FallbackReportPayload("Analysis of: "+sc.Document.Title()), res.Err)
	}

	payload.ApplyDefaults()
	if payload.Audience == "" {
		payload.Audience = sc.Request.Audience
	}
	return succeed(e.Stage(), start, payload)
}

func (e *SynthesisExecutor) turns(sc *Context) []core.Turn {
	doc := sc.Document
	var b strings.Builder
	b.WriteString(paperDigest(doc))
	if sc.Methodology != nil {
		b.WriteString("Methodology analysis:\n" + core.Truncate(sc.Methodology.ArchitectureAnalysis, limitDigest) + "\n")
		if len(sc.Methodology.InnovationPoints) > 0 {
			b.WriteString("Innovations: " + strings.Join(sc.Methodology.InnovationPoints, "; ") + "\n")
		}
	}
	if sc.Experiment != nil {
		b.WriteString("Experiment evaluation:\n" + core.Truncate(sc.Experiment.ResultsAnalysis, limitDigest) + "\n")
	}
	if sc.Insight != nil && len(sc.Insight.CriticalInsights) > 0 {
		b.WriteString("Insights: " + strings.Join(sc.Insight.CriticalInsights, "; ") + "\n")
	}
	b.WriteString("\n" + audienceInstruction(sc.Request.Audience))
	b.WriteString("\n" + languageInstruction(sc.Request.Language))
	b.WriteString("\nReply with a JSON object: {\"title\": string, \"summary\": string, " +
		"\"key_contributions\": [string], \"methodology_summary\": string, " +
		"\"experiment_summary\": string, \"insights\": [string]}")

	return []core.Turn{
		{Role: core.RoleSystem, Content: "You write clear, faithful reports synthesizing prior analysis of an academic paper."},
		{Role: core.RoleUser, Content: b.String()},
	}
}
