package core

// unavailableText fills every field of a fallback payload so downstream
// consumers always see the declared shape, never a hole.
const unavailableText = "Analysis unavailable"

// ExternalEnrichment carries best-effort catalog data attached to the
// resource retrieval payload.
type ExternalEnrichment struct {
	SearchResults  int            `json:"search_results"`
	Metrics        map[string]int `json:"metrics,omitempty"`
	ReferenceCount int            `json:"reference_count"`
}

// ResourcePayload is the output of the resource retrieval stage.
type ResourcePayload struct {
	Document *PaperDocument     `json:"document"`
	External ExternalEnrichment `json:"external"`
}

// FallbackResourcePayload returns the declared failure shape for resource
// retrieval: an empty document, never nil.
func FallbackResourcePayload() ResourcePayload {
	return ResourcePayload{Document: &PaperDocument{}}
}

// MethodologyPayload is the output of the methodology analysis stage.
type MethodologyPayload struct {
	ArchitectureAnalysis    string   `json:"architecture_analysis"`
	AlgorithmFlow           string   `json:"algorithm_flow"`
	InnovationPoints        []string `json:"innovation_points"`
	RelatedWorkComparison   string   `json:"related_work_comparison"`
	TechnicalDetails        string   `json:"technical_details"`
	ComplexityAnalysis      string   `json:"complexity_analysis,omitempty"`
	MathematicalFormulation string   `json:"mathematical_formulation,omitempty"`
}

// ApplyDefaults fills omitted fields so the payload always matches its
// declared shape.
func (p *MethodologyPayload) ApplyDefaults() {
	fillString(&p.ArchitectureAnalysis, "No architecture analysis provided")
	fillString(&p.AlgorithmFlow, "No algorithm flow provided")
	fillString(&p.RelatedWorkComparison, "No comparison provided")
	fillString(&p.TechnicalDetails, "No technical details provided")
	if p.InnovationPoints == nil {
		p.InnovationPoints = []string{}
	}
}

// FallbackMethodologyPayload returns the declared failure shape.
func FallbackMethodologyPayload() MethodologyPayload {
	return MethodologyPayload{
		ArchitectureAnalysis:  unavailableText,
		AlgorithmFlow:         unavailableText,
		InnovationPoints:      []string{unavailableText},
		RelatedWorkComparison: unavailableText,
		TechnicalDetails:      unavailableText,
	}
}

// MetricResult is one reported experimental metric.
type MetricResult struct {
	Metric       string `json:"metric"`
	Value        string `json:"value"`
	Significance string `json:"significance,omitempty"`
}

// ExperimentPayload is the output of the experiment evaluation stage.
type ExperimentPayload struct {
	ExperimentalSetup       string         `json:"experimental_setup"`
	BaselineComparison      string         `json:"baseline_comparison"`
	KeyMetrics              []MetricResult `json:"key_metrics"`
	ValidityAssessment      string         `json:"validity_assessment"`
	ResultsAnalysis         string         `json:"results_analysis"`
	Limitations             []string       `json:"limitations"`
	StatisticalSignificance string         `json:"statistical_significance,omitempty"`
}

// ApplyDefaults fills omitted fields.
func (p *ExperimentPayload) ApplyDefaults() {
	fillString(&p.ExperimentalSetup, "No experimental setup described")
	fillString(&p.BaselineComparison, "No baseline comparison provided")
	fillString(&p.ValidityAssessment, "No validity assessment provided")
	fillString(&p.ResultsAnalysis, "No results analysis provided")
	if p.KeyMetrics == nil {
		p.KeyMetrics = []MetricResult{}
	}
	if p.Limitations == nil {
		p.Limitations = []string{}
	}
}

// FallbackExperimentPayload returns the declared failure shape.
func FallbackExperimentPayload() ExperimentPayload {
	return ExperimentPayload{
		ExperimentalSetup:  unavailableText,
		BaselineComparison: unavailableText,
		KeyMetrics:         []MetricResult{},
		ValidityAssessment: unavailableText,
		ResultsAnalysis:    unavailableText,
		Limitations:        []string{unavailableText},
	}
}

// InsightPayload is the output of the insight generation stage.
type InsightPayload struct {
	LogicalFlow       string   `json:"logical_flow"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	CriticalInsights  []string `json:"critical_insights"`
	FutureDirections  []string `json:"future_directions"`
	NoveltyAssessment string   `json:"novelty_assessment"`
	ImpactAnalysis    string   `json:"impact_analysis"`
	ResearchQuestions []string `json:"research_questions,omitempty"`
}

// ApplyDefaults fills omitted fields.
func (p *InsightPayload) ApplyDefaults() {
	fillString(&p.LogicalFlow, "No logical flow analysis provided")
	fillString(&p.NoveltyAssessment, "No novelty assessment provided")
	fillString(&p.ImpactAnalysis, "No impact analysis provided")
	for _, s := range []*[]string{&p.Strengths, &p.Weaknesses, &p.CriticalInsights, &p.FutureDirections} {
		if *s == nil {
			*s = []string{}
		}
	}
}

// FallbackInsightPayload returns the declared failure shape.
func FallbackInsightPayload() InsightPayload {
	return InsightPayload{
		LogicalFlow:       unavailableText,
		Strengths:         []string{unavailableText},
		Weaknesses:        []string{unavailableText},
		CriticalInsights:  []string{unavailableText},
		FutureDirections:  []string{unavailableText},
		NoveltyAssessment: unavailableText,
		ImpactAnalysis:    unavailableText,
	}
}

// ReportPayload is the output of the synthesis stage and the body of the
// final report.
type ReportPayload struct {
	Title              string   `json:"title"`
	Summary            string   `json:"summary"`
	KeyContributions   []string `json:"key_contributions"`
	MethodologySummary string   `json:"methodology_summary"`
	ExperimentSummary  string   `json:"experiment_summary"`
	Insights           []string `json:"insights"`
	Audience           Audience `json:"audience"`
}

// ApplyDefaults fills omitted fields.
func (p *ReportPayload) ApplyDefaults() {
	fillString(&p.Title, "Untitled Analysis")
	fillString(&p.Summary, "No summary provided")
	fillString(&p.MethodologySummary, "No methodology summary provided")
	fillString(&p.ExperimentSummary, "No experiment summary provided")
	if p.KeyContributions == nil {
		p.KeyContributions = []string{}
	}
	if p.Insights == nil {
		p.Insights = []string{}
	}
}

// FallbackReportPayload returns the declared failure shape for synthesis.
func FallbackReportPayload(title string) ReportPayload {
	if title == "" {
		title = "Untitled Analysis"
	}
	return ReportPayload{
		Title:              title,
		Summary:            unavailableText,
		KeyContributions:   []string{unavailableText},
		MethodologySummary: unavailableText,
		ExperimentSummary:  unavailableText,
		Insights:           []string{unavailableText},
	}
}

func fillString(s *string, def string) {
	if *s == "" {
		*s = def
	}
}
