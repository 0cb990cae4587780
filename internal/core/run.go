package core

import "time"

// RunStatus is the terminal status of a pipeline run.
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunError   RunStatus = "error"
)

// StageResult records the outcome of one stage execution.
// Invariant: when Success is false, Payload still holds the stage's
// declared fallback shape, never nil and never a different type.
type StageResult struct {
	Stage       Stage         `json:"stage"`
	Success     bool          `json:"success"`
	Payload     any           `json:"payload"`
	Err         string        `json:"error,omitempty"`
	Duration    time.Duration `json:"duration"`
	CompletedAt time.Time     `json:"completed_at"`
}

// PipelineRun is the complete record of one analysis run. Results are
// appended in completion order, which may differ from declaration order
// when stages overlap.
type PipelineRun struct {
	RunID      string          `json:"run_id"`
	Request    AnalysisRequest `json:"request"`
	Results    []StageResult   `json:"results"`
	Status     RunStatus       `json:"status"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	Duration   time.Duration   `json:"duration"`
	Report     *ReportPayload  `json:"report,omitempty"`
	ReportPath string          `json:"report_path,omitempty"`
}

// ResultFor returns the recorded result for a stage, or nil when the stage
// never ran.
func (r *PipelineRun) ResultFor(stage Stage) *StageResult {
	for i := range r.Results {
		if r.Results[i].Stage == stage {
			return &r.Results[i]
		}
	}
	return nil
}

// StageSucceeded reports whether a stage ran and succeeded.
func (r *PipelineRun) StageSucceeded(stage Stage) bool {
	res := r.ResultFor(stage)
	return res != nil && res.Success
}

// StageEnvelope is the per-stage entry of the run envelope.
type StageEnvelope struct {
	Success        bool    `json:"success"`
	ProcessingTime float64 `json:"processing_time"`
	Error          string  `json:"error,omitempty"`
}

// EnvelopeOutputs gathers every stage payload the run produced. Payloads of
// stages that never ran are nil.
type EnvelopeOutputs struct {
	Document    *PaperDocument      `json:"document,omitempty"`
	Methodology *MethodologyPayload `json:"methodology,omitempty"`
	Experiment  *ExperimentPayload  `json:"experiment,omitempty"`
	Insight     *InsightPayload     `json:"insight,omitempty"`
	Report      *ReportPayload      `json:"report,omitempty"`
	ReportPath  string              `json:"report_path,omitempty"`
}

// RunEnvelope is the single structured result every caller receives,
// whatever happened inside the run.
type RunEnvelope struct {
	Success        bool                     `json:"success"`
	RunID          string                   `json:"run_id"`
	Error          string                   `json:"error,omitempty"`
	ProcessingTime float64                  `json:"processing_time"`
	Stages         map[string]StageEnvelope `json:"stages"`
	Outputs        EnvelopeOutputs          `json:"outputs"`
}
