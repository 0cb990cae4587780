package stage

import (
	"context"
	"regexp"
	"time"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
)

// ResourceExecutor acquires and parses the paper, then enriches it with
// best-effort catalog data. It is the first stage and the only one whose
// failure aborts the run before analysis starts.
type ResourceExecutor struct {
	parser core.DocumentParser
	source core.MetadataSource
	log    *logging.Logger
}

// NewResourceExecutor creates the executor. source may be nil to disable
// catalog enrichment.
func NewResourceExecutor(parser core.DocumentParser, source core.MetadataSource, log *logging.Logger) *ResourceExecutor {
	if log == nil {
		log = logging.NewNop()
	}
	return &ResourceExecutor{parser: parser, source: source, log: log}
}

// Stage identifies the executor.
func (e *ResourceExecutor) Stage() core.Stage { return core.StageResourceRetrieval }

var referenceEntryRe = regexp.MustCompile(`(?m)^\s*\[\d+\]`)

// Process parses the input into a document. Catalog failures are swallowed;
// parse failures fail the stage.
func (e *ResourceExecutor) Process(ctx context.Context, sc *Context) core.StageResult {
	start := time.Now()
	log := e.log.WithStage(string(e.Stage()))

	doc, err := e.parser.Parse(ctx, sc.Request.Input, sc.Request.Kind)
	if err != nil {
		log.Error("document acquisition failed", "error", err.Error())
		return degrade(e.Stage(), start, core.FallbackResourcePayload(), err.Error())
	}

	payload := core.ResourcePayload{
		Document: doc,
		External: core.ExternalEnrichment{
			ReferenceCount: len(referenceEntryRe.FindAllString(doc.FullText, -1)),
		},
	}

	if e.source != nil {
		if rec, err := e.source.Lookup(ctx, doc.Metadata.Title); err == nil {
			doc.External = *rec
			payload.External.SearchResults = 1
			payload.External.Metrics = map[string]int{"citations": rec.Citations}
		} else {
			// Enrichment is optional, the run continues without it.
			log.Debug("catalog lookup skipped", "error", err.Error())
		}
	}

	log.Info("document ready",
		"title", doc.Title(),
		"sections", len(doc.Sections),
		"references", payload.External.ReferenceCount)
	return succeed(e.Stage(), start, payload)
}
