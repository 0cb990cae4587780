package stage

import (
	"context"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/backend"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
)

// MethodologyExecutor analyzes the paper's technical approach.
type MethodologyExecutor struct {
	inv *backend.Invoker
	log *logging.Logger
}

// NewMethodologyExecutor creates the executor. A nil invoker selects the
// heuristic path.
func NewMethodologyExecutor(inv *backend.Invoker, log *logging.Logger) *MethodologyExecutor {
	if log == nil {
		log = logging.NewNop()
	}
	return &MethodologyExecutor{inv: inv, log: log}
}

// Stage identifies the executor.
func (e *MethodologyExecutor) Stage() core.Stage { return core.StageMethodology }

// Process runs the methodology analysis.
func (e *MethodologyExecutor) Process(ctx context.Context, sc *Context) core.StageResult {
	start := time.Now()
	log := e.log.WithStage(string(e.Stage()))

	if !e.inv.Available() {
		log.Info("no backend, extracting methodology heuristically")
		return succeed(e.Stage(), start, heuristicMethodology(sc.Document))
	}

	var payload core.MethodologyPayload
	res := e.inv.InvokeStructured(ctx, e.turns(sc), &payload)
	if !res.Success {
		// An unreachable backend is treated like an unconfigured one.
		if res.Category == core.ErrCatBackend {
			log.Warn("backend unreachable, extracting methodology heuristically", "error", res.Err)
			return succeed(e.Stage(), start, heuristicMethodology(sc.Document))
		}
		log.Warn("methodology analysis degraded", "category", string(res.Category), "error", res.Err)
		return degrade(e.Stage(), start, core.FallbackMethodologyPayload(), res.Err)
	}

	payload.ApplyDefaults()
	return succeed(e.Stage(), start, payload)
}

func (e *MethodologyExecutor) turns(sc *Context) []core.Turn {
	doc := sc.Document
	var b strings.Builder
	b.WriteString(paperDigest(doc))
	b.WriteString(sectionBlock(doc, "Methodology", core.SectionMethodology, limitPrimary))
	b.WriteString(sectionBlock(doc, "Related work", core.SectionRelatedWork, limitSecondary))
	b.WriteString("\n" + audienceInstruction(sc.Request.Audience))
	b.WriteString("\n" + languageInstruction(sc.Request.Language))
	b.WriteString("\nReply with a JSON object: {\"architecture_analysis\": string, " +
		"\"algorithm_flow\": string, \"innovation_points\": [string], " +
		"\"related_work_comparison\": string, \"technical_details\": string}")

	return []core.Turn{
		{Role: core.RoleSystem, Content: "You are an expert reviewer of research methodology in academic papers."},
		{Role: core.RoleUser, Content: b.String()},
	}
}
