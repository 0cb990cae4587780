package stage

import (
	"regexp"
	"strings"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
)

// Zero-backend heuristics: pure functions over the parsed document. They
// run when no backend is configured and are deterministic by construction.

var (
	sentenceSplitRe = regexp.MustCompile(`(?m)[.!?]\s+`)
	noveltyRe       = regexp.MustCompile(`(?i)\b(novel|new|propose|introduce|first)\b`)
	strengthRe      = regexp.MustCompile(`(?i)\b(improve|outperform|achieve|state-of-the-art|effective|efficient)\b`)
	weaknessRe      = regexp.MustCompile(`(?i)\b(limitation|however|drawback|fail|cannot|restricted)\b`)
	futureRe        = regexp.MustCompile(`(?i)future (work|direction|research)`)
	percentRe       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
)

// sentences splits text into trimmed sentences.
func sentences(text string) []string {
	parts := sentenceSplitRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); len(s) > 10 {
			out = append(out, s)
		}
	}
	return out
}

// matchingSentences collects up to max sentences matching the pattern.
func matchingSentences(text string, re *regexp.Regexp, max int) []string {
	var out []string
	for _, s := range sentences(text) {
		if re.MatchString(s) {
			out = append(out, core.Truncate(s, limitSummary))
			if len(out) >= max {
				break
			}
		}
	}
	return out
}

func heuristicMethodology(doc *core.PaperDocument) core.MethodologyPayload {
	body := firstNonEmpty(
		doc.TextOfKind(core.SectionMethodology, limitPrimary),
		core.Truncate(doc.FullText, limitPrimary),
	)

	points := matchingSentences(doc.FullText, noveltyRe, 3)
	if len(points) == 0 {
		points = []string{"No explicit innovation claims found in the text"}
	}

	p := core.MethodologyPayload{
		ArchitectureAnalysis:  body,
		AlgorithmFlow:         firstNonEmpty(doc.TextOfKind(core.SectionMethodology, limitDigest), "No algorithm description found"),
		InnovationPoints:      points,
		RelatedWorkComparison: firstNonEmpty(doc.TextOfKind(core.SectionRelatedWork, limitSecondary), "No related work section found"),
		TechnicalDetails:      firstNonEmpty(doc.TextOfKind(core.SectionMethodology, limitSupporting), "No technical details found"),
	}
	p.ApplyDefaults()
	return p
}

func heuristicExperiment(doc *core.PaperDocument) core.ExperimentPayload {
	body := firstNonEmpty(
		doc.TextOfKind(core.SectionExperiment, limitPrimary),
		core.Truncate(doc.FullText, limitPrimary),
	)

	var metrics []core.MetricResult
	for _, m := range percentRe.FindAllStringSubmatch(doc.TextOfKind(core.SectionExperiment, 0), -1) {
		metrics = append(metrics, core.MetricResult{
			Metric: "reported percentage",
			Value:  m[1] + "%",
		})
		if len(metrics) >= 5 {
			break
		}
	}

	limitations := matchingSentences(doc.FullText, weaknessRe, 3)
	if len(limitations) == 0 {
		limitations = []string{"No explicit limitations stated in the text"}
	}

	p := core.ExperimentPayload{
		ExperimentalSetup:  body,
		BaselineComparison: firstNonEmpty(doc.TextOfKind(core.SectionExperiment, limitSecondary), "No baseline comparison found"),
		KeyMetrics:         metrics,
		ValidityAssessment: "Assessment derived from reported content only, no independent validation",
		ResultsAnalysis:    firstNonEmpty(doc.TextOfKind(core.SectionExperiment, limitDigest), "No results section found"),
		Limitations:        limitations,
	}
	p.ApplyDefaults()
	return p
}

// heuristicInsight prefers the surviving analytical payloads, falling
// back to regex scans over the raw text when a predecessor is missing.
func heuristicInsight(sc *Context) core.InsightPayload {
	doc := sc.Document
	headings := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		headings = append(headings, s.Heading)
	}

	conclusion := doc.TextOfKind(core.SectionConclusion, 0)
	insights := matchingSentences(conclusion, noveltyRe, 3)
	if len(insights) == 0 {
		for i, s := range sentences(conclusion) {
			if i >= 2 {
				break
			}
			insights = append(insights, core.Truncate(s, limitSummary))
		}
	}
	if len(insights) == 0 {
		insights = []string{"No conclusion section to draw insights from"}
	}

	var strengths []string
	if sc.Methodology != nil {
		strengths = sc.Methodology.InnovationPoints
	}
	if len(strengths) == 0 {
		strengths = matchingSentences(doc.FullText, strengthRe, 3)
	}
	if len(strengths) == 0 {
		strengths = []string{"No explicit strength claims found in the text"}
	}

	var weaknesses []string
	if sc.Experiment != nil {
		weaknesses = sc.Experiment.Limitations
	}
	if len(weaknesses) == 0 {
		weaknesses = matchingSentences(doc.FullText, weaknessRe, 3)
	}
	if len(weaknesses) == 0 {
		weaknesses = []string{"No explicit weaknesses stated in the text"}
	}
	future := matchingSentences(doc.FullText, futureRe, 3)
	if len(future) == 0 {
		future = []string{"No future directions stated in the text"}
	}

	p := core.InsightPayload{
		LogicalFlow:       strings.Join(headings, " -> "),
		Strengths:         strengths,
		Weaknesses:        weaknesses,
		CriticalInsights:  insights,
		FutureDirections:  future,
		NoveltyAssessment: "Novelty inferred from the paper's own claims, not a literature comparison",
		ImpactAnalysis:    "Impact not assessed without backend analysis",
	}
	p.ApplyDefaults()
	return p
}

// heuristicReport assembles the final report from whatever predecessor
// payloads survived, falling back to the document itself.
func heuristicReport(sc *Context) core.ReportPayload {
	doc := sc.Document

	summary := firstNonEmpty(
		doc.Metadata.Abstract,
		core.Truncate(doc.FullText, limitSummary),
		"No summary available",
	)

	var contributions []string
	if sc.Methodology != nil {
		contributions = sc.Methodology.InnovationPoints
	}
	if len(contributions) == 0 {
		contributions = matchingSentences(doc.FullText, noveltyRe, 3)
	}

	methodSummary := "No methodology analysis available"
	if sc.Methodology != nil {
		methodSummary = core.Truncate(sc.Methodology.ArchitectureAnalysis, limitDigest)
	} else if t := doc.TextOfKind(core.SectionMethodology, limitDigest); t != "" {
		methodSummary = t
	}

	expSummary := "No experiment analysis available"
	if sc.Experiment != nil {
		expSummary = core.Truncate(sc.Experiment.ResultsAnalysis, limitDigest)
	} else if t := doc.TextOfKind(core.SectionExperiment, limitDigest); t != "" {
		expSummary = t
	}

	var insights []string
	if sc.Insight != nil {
		insights = sc.Insight.CriticalInsights
	}
	if len(insights) == 0 {
		insights = matchingSentences(doc.TextOfKind(core.SectionConclusion, 0), noveltyRe, 3)
	}

	p := core.ReportPayload{
		Title:              "Analysis of: " + doc.Title(),
		Summary:            summary,
		KeyContributions:   contributions,
		MethodologySummary: methodSummary,
		ExperimentSummary:  expSummary,
		Insights:           insights,
		Audience:           sc.Request.Audience,
	}
	p.ApplyDefaults()
	return p
}
