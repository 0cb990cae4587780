package pipeline

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
)

var urlRe = regexp.MustCompile(`^https?://[^\s]+$`)

// Bounds for raw text input.
const (
	minTextLength = 10
	maxTextLength = 1 << 20
)

// supported file extensions for document input. Extraction only handles
// plain text, so binary paper formats are rejected here with a hint
// instead of failing mid-run.
var fileExtensions = map[string]bool{
	".txt": true,
}

var convertHintExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
}

// Validate checks an analysis request and returns the list of
// violations found. An empty slice means the request is acceptable.
func Validate(req core.AnalysisRequest) []string {
	var violations []string

	if strings.TrimSpace(req.Input) == "" {
		violations = append(violations, "input must not be empty")
	}

	if !req.Kind.Valid() {
		violations = append(violations, fmt.Sprintf("unknown input type %q", req.Kind))
	}
	if !req.Audience.Valid() {
		violations = append(violations, fmt.Sprintf("unknown audience %q", req.Audience))
	}
	if !req.Language.Valid() {
		violations = append(violations, fmt.Sprintf("unknown language %q", req.Language))
	}
	if !req.Format.Valid() {
		violations = append(violations, fmt.Sprintf("unknown report format %q", req.Format))
	}

	switch req.Kind {
	case core.InputFile:
		ext := strings.ToLower(filepath.Ext(req.Input))
		switch {
		case fileExtensions[ext]:
		case convertHintExtensions[ext]:
			violations = append(violations, fmt.Sprintf("%s extraction is not supported, convert the paper to plain text first", ext))
		default:
			violations = append(violations, fmt.Sprintf("unsupported file extension %q", ext))
		}
	case core.InputURL:
		if req.Input != "" && !urlRe.MatchString(req.Input) {
			violations = append(violations, "input is not a valid http(s) URL")
		}
	case core.InputText:
		if n := len(req.Input); n > 0 && n < minTextLength {
			violations = append(violations, fmt.Sprintf("text input too short (%d chars, need at least %d)", n, minTextLength))
		} else if n > maxTextLength {
			violations = append(violations, fmt.Sprintf("text input too long (%d chars, limit %d)", n, maxTextLength))
		}
	}

	return violations
}
