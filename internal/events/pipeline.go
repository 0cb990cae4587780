package events

import "time"

// Event type constants for pipeline progress.
const (
	TypeRunStarted        = "run_started"
	TypeStageStarted      = "stage_started"
	TypeStageCompleted    = "stage_completed"
	TypeParallelCompleted = "parallel_completed"
	TypeRunCompleted      = "run_completed"
	TypeReportSaved       = "report_saved"
)

// RunStartedEvent marks the beginning of a pipeline run.
type RunStartedEvent struct {
	BaseEvent
	Input string `json:"input"`
	Kind  string `json:"kind"`
}

// NewRunStartedEvent creates a run started event.
func NewRunStartedEvent(runID, input, kind string) RunStartedEvent {
	return RunStartedEvent{
		BaseEvent: NewBaseEvent(TypeRunStarted, runID),
		Input:     input,
		Kind:      kind,
	}
}

// StageStartedEvent marks the beginning of one stage.
type StageStartedEvent struct {
	BaseEvent
	Stage string `json:"stage"`
}

// NewStageStartedEvent creates a stage started event.
func NewStageStartedEvent(runID, stage string) StageStartedEvent {
	return StageStartedEvent{
		BaseEvent: NewBaseEvent(TypeStageStarted, runID),
		Stage:     stage,
	}
}

// StageCompletedEvent marks the end of one stage, successful or degraded.
type StageCompletedEvent struct {
	BaseEvent
	Stage    string        `json:"stage"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// NewStageCompletedEvent creates a stage completed event.
func NewStageCompletedEvent(runID, stage string, success bool, errMsg string, d time.Duration) StageCompletedEvent {
	return StageCompletedEvent{
		BaseEvent: NewBaseEvent(TypeStageCompleted, runID),
		Stage:     stage,
		Success:   success,
		Error:     errMsg,
		Duration:  d,
	}
}

// ParallelCompletedEvent marks the join point of the concurrent analysis
// stages.
type ParallelCompletedEvent struct {
	BaseEvent
	Stages  []string      `json:"stages"`
	Elapsed time.Duration `json:"elapsed"`
}

// NewParallelCompletedEvent creates a parallel completed event.
func NewParallelCompletedEvent(runID string, stages []string, elapsed time.Duration) ParallelCompletedEvent {
	return ParallelCompletedEvent{
		BaseEvent: NewBaseEvent(TypeParallelCompleted, runID),
		Stages:    stages,
		Elapsed:   elapsed,
	}
}

// RunCompletedEvent marks the end of a pipeline run.
type RunCompletedEvent struct {
	BaseEvent
	Status   string        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// NewRunCompletedEvent creates a run completed event.
func NewRunCompletedEvent(runID, status, errMsg string, d time.Duration) RunCompletedEvent {
	return RunCompletedEvent{
		BaseEvent: NewBaseEvent(TypeRunCompleted, runID),
		Status:    status,
		Error:     errMsg,
		Duration:  d,
	}
}

// ReportSavedEvent marks successful persistence of the final report.
type ReportSavedEvent struct {
	BaseEvent
	Path   string `json:"path"`
	Format string `json:"format"`
}

// NewReportSavedEvent creates a report saved event.
func NewReportSavedEvent(runID, path, format string) ReportSavedEvent {
	return ReportSavedEvent{
		BaseEvent: NewBaseEvent(TypeReportSaved, runID),
		Path:      path,
		Format:    format,
	}
}
