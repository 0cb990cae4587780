package core

import "fmt"

// Stage identifies one step of the analysis pipeline.
type Stage string

const (
	StageResourceRetrieval Stage = "resource_retrieval"
	StageMethodology       Stage = "methodology"
	StageExperiment        Stage = "experiment"
	StageInsight           Stage = "insight"
	StageSynthesis         Stage = "synthesis"
	StagePersistence       Stage = "persistence"
)

// Stages lists the analysis stages in declaration order. Persistence is a
// post-processing step, not part of the analysis proper, so it is excluded.
var Stages = []Stage{
	StageResourceRetrieval,
	StageMethodology,
	StageExperiment,
	StageInsight,
	StageSynthesis,
}

// ParseStage converts a string to a Stage.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageResourceRetrieval, StageMethodology, StageExperiment,
		StageInsight, StageSynthesis, StagePersistence:
		return Stage(s), nil
	}
	return "", fmt.Errorf("unknown stage: %q", s)
}

// IsFatal reports whether a failure in this stage aborts the run. Only
// document acquisition and report synthesis are load-bearing; the analytical
// stages degrade to fallback payloads instead.
func (s Stage) IsFatal() bool {
	return s == StageResourceRetrieval || s == StageSynthesis
}

// Description returns a short human-readable label.
func (s Stage) Description() string {
	switch s {
	case StageResourceRetrieval:
		return "Acquire and parse the paper"
	case StageMethodology:
		return "Analyze research methodology"
	case StageExperiment:
		return "Evaluate experimental design"
	case StageInsight:
		return "Generate research insights"
	case StageSynthesis:
		return "Synthesize the final report"
	case StagePersistence:
		return "Persist the report"
	}
	return string(s)
}
