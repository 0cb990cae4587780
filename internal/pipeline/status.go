package pipeline

import "github.com/hugo-lorenzo-mato/scholarmind/internal/core"

// RunCounters accumulates run outcomes over the orchestrator's lifetime.
type RunCounters struct {
	Total      int `json:"total_runs"`
	Successful int `json:"successful_runs"`
	Failed     int `json:"failed_runs"`
}

// SuccessRate is the fraction of runs that finished successfully, zero
// when nothing has run yet.
func (c RunCounters) SuccessRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Successful) / float64(c.Total)
}

// Status is a point-in-time snapshot of the orchestrator.
type Status struct {
	RunCounters
	SuccessRate float64  `json:"success_rate"`
	Stages      []string `json:"stages"`
}

// Status reports accumulated counters and the declared stage sequence.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	counters := o.history
	o.mu.Unlock()

	stages := make([]string, 0, len(core.Stages))
	for _, s := range core.Stages {
		stages = append(stages, string(s))
	}

	return Status{
		RunCounters: counters,
		SuccessRate: counters.SuccessRate(),
		Stages:      stages,
	}
}
