// Package parser turns raw paper input (inline text, local files, URLs)
// into the normalized document the analysis stages consume.
package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
)

// Parser implements core.DocumentParser with text heuristics. PDF and
// DOCX extraction need native tooling and are rejected up front.
type Parser struct {
	client *http.Client
	log    *logging.Logger
}

// New creates a parser.
func New(log *logging.Logger) *Parser {
	if log == nil {
		log = logging.NewNop()
	}
	return &Parser{
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

// Parse dispatches on the input kind.
func (p *Parser) Parse(ctx context.Context, input string, kind core.InputKind) (*core.PaperDocument, error) {
	switch kind {
	case core.InputText:
		return p.parseText(input, "text_input"), nil
	case core.InputFile:
		return p.parseFile(input)
	case core.InputURL:
		return p.parseURL(ctx, input)
	default:
		return nil, core.ErrDocument("UNKNOWN_KIND", fmt.Sprintf("unsupported input kind %q", kind))
	}
}

func (p *Parser) parseFile(path string) (*core.PaperDocument, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt":
	case ".pdf", ".docx":
		return nil, core.ErrDocument("UNSUPPORTED_FORMAT",
			fmt.Sprintf("%s extraction is not supported, convert the paper to plain text first", ext))
	default:
		return nil, core.ErrDocument("UNSUPPORTED_FORMAT", fmt.Sprintf("unsupported file format %q", ext))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrDocument("FILE_NOT_FOUND", fmt.Sprintf("file not found: %s", path)).WithCause(err)
		}
		return nil, core.ErrDocument("READ_FAILED", fmt.Sprintf("reading %s", path)).WithCause(err)
	}

	return p.parseText(string(data), filepath.Base(path)), nil
}

func (p *Parser) parseURL(ctx context.Context, rawURL string) (*core.PaperDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, core.ErrDocument("BAD_URL", fmt.Sprintf("invalid URL %q", rawURL)).WithCause(err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, core.ErrDocument("DOWNLOAD_FAILED", fmt.Sprintf("fetching %s", rawURL)).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.ErrDocument("DOWNLOAD_FAILED",
			fmt.Sprintf("fetching %s: HTTP %d", rawURL, resp.StatusCode))
	}
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "application/pdf") {
		return nil, core.ErrDocument("UNSUPPORTED_FORMAT",
			"URL serves a PDF, download and convert it to plain text first")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, core.ErrDocument("DOWNLOAD_FAILED", fmt.Sprintf("reading body of %s", rawURL)).WithCause(err)
	}

	return p.parseText(string(body), rawURL), nil
}

// parseText runs every extraction heuristic over the raw text.
func (p *Parser) parseText(text, source string) *core.PaperDocument {
	doc := &core.PaperDocument{
		Source:   source,
		Metadata: extractMetadata(text, source),
		Sections: splitSections(text),
		Figures:  extractCaptions(text, "figure"),
		Tables:   extractCaptions(text, "table"),
		FullText: text,
	}
	p.log.Debug("parsed document",
		"source", source,
		"sections", len(doc.Sections),
		"figures", len(doc.Figures),
		"tables", len(doc.Tables))
	return doc
}
