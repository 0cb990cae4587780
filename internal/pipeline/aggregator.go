package pipeline

import (
	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
)

// BuildEnvelope folds a finished run into the single structured result
// every caller receives. The stages map carries exactly the stages that
// ran; payloads of stages that never ran stay nil.
func BuildEnvelope(run *core.PipelineRun) core.RunEnvelope {
	env := core.RunEnvelope{
		Success:        run.Status == core.RunSuccess,
		RunID:          run.RunID,
		Error:          run.Error,
		ProcessingTime: run.Duration.Seconds(),
		Stages:         make(map[string]core.StageEnvelope, len(run.Results)),
	}

	for _, res := range run.Results {
		env.Stages[string(res.Stage)] = core.StageEnvelope{
			Success:        res.Success,
			ProcessingTime: res.Duration.Seconds(),
			Error:          res.Err,
		}

		switch payload := res.Payload.(type) {
		case core.ResourcePayload:
			env.Outputs.Document = payload.Document
		case core.MethodologyPayload:
			env.Outputs.Methodology = &payload
		case core.ExperimentPayload:
			env.Outputs.Experiment = &payload
		case core.InsightPayload:
			env.Outputs.Insight = &payload
		case core.ReportPayload:
			env.Outputs.Report = &payload
		}
	}

	env.Outputs.ReportPath = run.ReportPath
	return env
}
