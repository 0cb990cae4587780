package backend

import (
	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
)

// Normalize flattens a backend response union to plain text. This is the
// only place the union is inspected; everything downstream sees a string.
//
// Stream chunks are cumulative, so only the final chunk is kept.
// Concatenating them would duplicate the body once per chunk.
func Normalize(resp core.Response) (string, error) {
	switch r := resp.(type) {
	case core.TextResponse:
		return r.Text, nil
	case *core.TextResponse:
		return r.Text, nil
	case core.StreamResponse:
		return lastChunk(r.Chunks), nil
	case *core.StreamResponse:
		return lastChunk(r.Chunks), nil
	case nil:
		return "", core.ErrMalformedOutput("backend returned no response")
	default:
		return "", core.ErrMalformedOutput("backend returned an unknown response shape")
	}
}

func lastChunk(chunks []string) string {
	if len(chunks) == 0 {
		return ""
	}
	return chunks[len(chunks)-1]
}
