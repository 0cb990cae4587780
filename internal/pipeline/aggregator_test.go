package pipeline

import (
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
)

func TestBuildEnvelope(t *testing.T) {
	doc := sampleDocument()
	run := &core.PipelineRun{
		RunID:      "run-1",
		Status:     core.RunSuccess,
		Duration:   1500 * time.Millisecond,
		ReportPath: "reports/a.md",
		Results: []core.StageResult{
			{Stage: core.StageResourceRetrieval, Success: true, Payload: core.ResourcePayload{Document: doc}, Duration: 200 * time.Millisecond},
			{Stage: core.StageMethodology, Success: true, Payload: core.MethodologyPayload{ArchitectureAnalysis: "sparse"}, Duration: 300 * time.Millisecond},
			{Stage: core.StageExperiment, Success: false, Payload: core.FallbackExperimentPayload(), Err: "backend unavailable"},
			{Stage: core.StageInsight, Success: true, Payload: core.InsightPayload{LogicalFlow: "intro -> method"}},
			{Stage: core.StageSynthesis, Success: true, Payload: core.ReportPayload{Title: "Analysis of: X"}},
		},
	}

	env := BuildEnvelope(run)

	if !env.Success || env.RunID != "run-1" {
		t.Fatalf("envelope = %+v", env)
	}
	if env.ProcessingTime != 1.5 {
		t.Errorf("processing time = %f", env.ProcessingTime)
	}
	if len(env.Stages) != 5 {
		t.Fatalf("stages = %v", env.Stages)
	}

	exp := env.Stages[string(core.StageExperiment)]
	if exp.Success || exp.Error != "backend unavailable" {
		t.Errorf("experiment envelope = %+v", exp)
	}

	if env.Outputs.Document != doc {
		t.Error("document not propagated")
	}
	if env.Outputs.Methodology == nil || env.Outputs.Methodology.ArchitectureAnalysis != "sparse" {
		t.Errorf("methodology output = %+v", env.Outputs.Methodology)
	}
	if env.Outputs.Experiment == nil {
		t.Error("degraded experiment payload should still appear in outputs")
	}
	if env.Outputs.Report == nil || env.Outputs.Report.Title != "Analysis of: X" {
		t.Errorf("report output = %+v", env.Outputs.Report)
	}
	if env.Outputs.ReportPath != "reports/a.md" {
		t.Errorf("report path = %q", env.Outputs.ReportPath)
	}
}

func TestBuildEnvelopeEmptyRun(t *testing.T) {
	run := &core.PipelineRun{
		RunID:  "run-2",
		Status: core.RunError,
		Error:  "invalid request: input must not be empty",
	}

	env := BuildEnvelope(run)

	if env.Success {
		t.Error("envelope success for failed run")
	}
	if len(env.Stages) != 0 {
		t.Errorf("stages = %v", env.Stages)
	}
	if env.Outputs.Report != nil || env.Outputs.Document != nil {
		t.Errorf("outputs = %+v", env.Outputs)
	}
}
