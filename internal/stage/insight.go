package stage

import (
	"context"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/backend"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
)

// InsightExecutor generates critical insights over the paper and the
// payloads of the analytical stages before it.
type InsightExecutor struct {
	inv *backend.Invoker
	log *logging.Logger
}

// NewInsightExecutor creates the executor.
func NewInsightExecutor(inv *backend.Invoker, log *logging.Logger) *InsightExecutor {
	if log == nil {
		log = logging.NewNop()
	}
	return &InsightExecutor{inv: inv, log: log}
}

// Stage identifies the executor.
func (e *InsightExecutor) Stage() core.Stage { return core.StageInsight }

// Process runs insight generation. Predecessor payloads are optional; a
// degraded methodology or experiment stage just means a thinner context.
func (e *InsightExecutor) Process(ctx context.Context, sc *Context) core.StageResult {
	start := time.Now()
	log := e.log.WithStage(string(e.Stage()))

	if !e.inv.Available() {
		log.Info("no backend, deriving insights heuristically")
		return succeed(e.Stage(), start, heuristicInsight(sc))
	}

	var payload core.InsightPayload
	res := e.inv.InvokeStructured(ctx, e.turns(sc), &payload)
	if !res.Success {
		if res.Category == core.ErrCatBackend {
			log.Warn("backend unreachable, deriving insights heuristically", "error", res.Err)
			return succeed(e.Stage(), start, heuristicInsight(sc))
		}
		log.Warn("insight generation degraded", "category", string(res.Category), "error", res.Err)
		return degrade(e.Stage(), start, core.FallbackInsightPayload(), res.Err)
	}

	payload.ApplyDefaults()
	return succeed(e.Stage(), start, payload)
}

func (e *InsightExecutor) turns(sc *Context) []core.Turn {
	doc := sc.Document
	var b strings.Builder
	b.WriteString(paperDigest(doc))
	b.WriteString(sectionBlock(doc, "Conclusion", core.SectionConclusion, limitDigest))
	if sc.Methodology != nil {
		b.WriteString("Methodology analysis:\n" + core.Truncate(sc.Methodology.ArchitectureAnalysis, limitSupporting) + "\n")
	}
	if sc.Experiment != nil {
		b.WriteString("Experiment evaluation:\n" + core.Truncate(sc.Experiment.ResultsAnalysis, limitSupporting) + "\n")
	}
	b.WriteString("\n" + audienceInstruction(sc.Request.Audience))
	b.WriteString("\n" + languageInstruction(sc.Request.Language))
	b.WriteString("\nReply with a JSON object: {\"logical_flow\": string, \"strengths\": [string], " +
		"\"weaknesses\": [string], \"critical_insights\": [string], \"future_directions\": [string], " +
		"\"novelty_assessment\": string, \"impact_analysis\": string}")

	return []core.Turn{
		{Role: core.RoleSystem, Content: "You are a senior researcher producing critical insights about academic papers."},
		{Role: core.RoleUser, Content: b.String()},
	}
}
