package stage

import (
	"context"
	"errors"
	"testing"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
)

type fakeParser struct {
	doc *core.PaperDocument
	err error
}

func (f *fakeParser) Parse(ctx context.Context, input string, kind core.InputKind) (*core.PaperDocument, error) {
	return f.doc, f.err
}

type fakeCatalog struct {
	rec *core.ExternalRecord
	err error
}

func (f *fakeCatalog) Lookup(ctx context.Context, title string) (*core.ExternalRecord, error) {
	return f.rec, f.err
}

func TestResourceProcess(t *testing.T) {
	doc := testDocument()
	doc.FullText += "\n[1] First reference\n[2] Second reference\n"
	e := NewResourceExecutor(
		&fakeParser{doc: doc},
		&fakeCatalog{rec: &core.ExternalRecord{Source: "openalex", DOI: "10.1/x", Citations: 42}},
		nil,
	)

	res := e.Process(context.Background(), testContext())
	if !res.Success {
		t.Fatalf("expected success: %+v", res)
	}
	p := res.Payload.(core.ResourcePayload)
	if p.Document == nil || p.Document.External.DOI != "10.1/x" {
		t.Errorf("catalog enrichment not attached: %+v", p.Document)
	}
	if p.External.ReferenceCount != 2 {
		t.Errorf("reference count = %d, want 2", p.External.ReferenceCount)
	}
	if p.External.Metrics["citations"] != 42 {
		t.Errorf("metrics = %v", p.External.Metrics)
	}
}

func TestResourceSwallowsCatalogFailure(t *testing.T) {
	e := NewResourceExecutor(
		&fakeParser{doc: testDocument()},
		&fakeCatalog{err: errors.New("catalog down")},
		nil,
	)

	res := e.Process(context.Background(), testContext())
	if !res.Success {
		t.Fatalf("catalog failure must not fail the stage: %+v", res)
	}
	p := res.Payload.(core.ResourcePayload)
	if p.External.SearchResults != 0 {
		t.Error("no search results expected after lookup failure")
	}
}

func TestResourceFailsOnParseError(t *testing.T) {
	e := NewResourceExecutor(
		&fakeParser{err: core.ErrDocument("FILE_NOT_FOUND", "missing paper")},
		nil,
		nil,
	)

	res := e.Process(context.Background(), testContext())
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Err == "" {
		t.Error("parse failure must surface the error message")
	}
	p, ok := res.Payload.(core.ResourcePayload)
	if !ok || p.Document == nil {
		t.Errorf("fallback payload must keep the declared shape, got %T", res.Payload)
	}
}

func TestResourceWithoutCatalog(t *testing.T) {
	e := NewResourceExecutor(&fakeParser{doc: testDocument()}, nil, nil)
	res := e.Process(context.Background(), testContext())
	if !res.Success {
		t.Fatalf("expected success without catalog: %+v", res)
	}
}
