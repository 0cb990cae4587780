package core

import "context"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Turn is one message in the instruction context sent to a backend.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Response is the tagged union a backend may answer with. Concrete shapes
// are TextResponse and StreamResponse; normalization to a flat string
// happens exactly once, at the invoker boundary.
type Response interface {
	isResponse()
}

// TextResponse is a complete reply in a single string.
type TextResponse struct {
	Text string
}

func (TextResponse) isResponse() {}

// StreamResponse is a chunked reply. Chunks are cumulative: each element
// contains everything produced so far, so the last chunk is the full text.
type StreamResponse struct {
	Chunks []string
}

func (StreamResponse) isResponse() {}

// Backend is a generative model endpoint.
type Backend interface {
	// Name identifies the backend for logs and events.
	Name() string
	// Invoke sends the instruction context and returns the raw response.
	Invoke(ctx context.Context, turns []Turn) (Response, error)
}

// DocumentParser converts raw input into a normalized PaperDocument.
type DocumentParser interface {
	Parse(ctx context.Context, input string, kind InputKind) (*PaperDocument, error)
}

// MetadataSource looks up bibliographic records in an external catalog.
// Lookups are best-effort: callers swallow errors and proceed without
// enrichment.
type MetadataSource interface {
	Lookup(ctx context.Context, title string) (*ExternalRecord, error)
}

// ReportStore persists a rendered report and returns its location.
type ReportStore interface {
	Save(ctx context.Context, report *ReportPayload, format ReportFormat) (string, error)
}

// Notifier receives progress events as a run advances. Implementations
// must not block the pipeline.
type Notifier interface {
	Notify(event any)
}
