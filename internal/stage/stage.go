// Package stage holds one executor per analysis capability. Executors are
// fault isolation boundaries: Process never returns an error, every
// internal failure becomes a StageResult carrying the stage's declared
// fallback payload.
package stage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
)

// Truncation limits for instruction context fragments.
const (
	limitPrimary    = 1000
	limitSecondary  = 600
	limitDigest     = 500
	limitSupporting = 400
	limitSummary    = 300
)

// Context carries the request, the parsed document, and the payloads of
// succeeded predecessors. A nil payload means the predecessor failed or
// has not run; executors must still produce a valid result.
type Context struct {
	Request     core.AnalysisRequest
	Document    *core.PaperDocument
	Methodology *core.MethodologyPayload
	Experiment  *core.ExperimentPayload
	Insight     *core.InsightPayload
}

// Executor is one analysis capability.
type Executor interface {
	Stage() core.Stage
	Process(ctx context.Context, sc *Context) core.StageResult
}

// succeed builds a successful result.
func succeed(stage core.Stage, start time.Time, payload any) core.StageResult {
	return core.StageResult{
		Stage:       stage,
		Success:     true,
		Payload:     payload,
		Duration:    time.Since(start),
		CompletedAt: time.Now(),
	}
}

// degrade builds a failed result that still carries the declared fallback
// payload shape.
func degrade(stage core.Stage, start time.Time, fallback any, errMsg string) core.StageResult {
	return core.StageResult{
		Stage:       stage,
		Success:     false,
		Payload:     fallback,
		Err:         errMsg,
		Duration:    time.Since(start),
		CompletedAt: time.Now(),
	}
}

// languageInstruction tells the model which language the output fields use.
func languageInstruction(lang core.Language) string {
	if lang == core.LanguageChinese {
		return "Write every output field in Chinese (中文)."
	}
	return "Write every output field in English."
}

// audienceInstruction adjusts depth for the requested audience.
func audienceInstruction(a core.Audience) string {
	switch a {
	case core.AudienceBeginner:
		return "Explain for a reader new to the field, avoiding jargon."
	case core.AudienceAdvanced:
		return "Assume an expert reader, keep full technical depth."
	default:
		return "Assume a graduate-level reader."
	}
}

// paperDigest renders the document header every stage prompt shares.
func paperDigest(doc *core.PaperDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", doc.Title())
	if len(doc.Metadata.Authors) > 0 {
		fmt.Fprintf(&b, "Authors: %s\n", strings.Join(doc.Metadata.Authors, ", "))
	}
	if doc.Metadata.Year > 0 {
		fmt.Fprintf(&b, "Year: %d\n", doc.Metadata.Year)
	}
	if doc.Metadata.Abstract != "" {
		fmt.Fprintf(&b, "Abstract: %s\n", core.Truncate(doc.Metadata.Abstract, limitSecondary))
	}
	return b.String()
}

// sectionBlock renders the named fragment, falling back to a full-text
// prefix when no section of the kind exists.
func sectionBlock(doc *core.PaperDocument, label string, kind core.SectionKind, limit int) string {
	text := doc.TextOfKind(kind, limit)
	if text == "" {
		text = core.Truncate(doc.FullText, limit)
	}
	return fmt.Sprintf("%s:\n%s\n", label, text)
}

// firstNonEmpty returns the first non-blank string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
