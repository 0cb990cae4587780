package backend

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// fencedJSON matches a markdown code fence, optionally tagged json,
// wrapping a single object.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSON decodes a JSON object out of model output. Three forms are
// accepted, tried in order: the whole string, a fenced code block, and the
// first balanced object embedded in surrounding prose.
func ExtractJSON(output string, v any) error {
	trimmed := strings.TrimSpace(output)
	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	if m := fencedJSON.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(m[1]), v); err == nil {
			return nil
		}
	}

	if candidate := firstBalancedJSON(trimmed); candidate != "" {
		return json.Unmarshal([]byte(candidate), v)
	}

	return errors.New("no JSON object found in output")
}

// HasJSON reports whether any of the accepted forms is present.
func HasJSON(output string) bool {
	var sink json.RawMessage
	return ExtractJSON(output, &sink) == nil
}

// firstBalancedJSON scans for the first balanced JSON object or array,
// tracking string literals and escapes so braces inside values don't
// terminate the scan early.
func firstBalancedJSON(output string) string {
	start := strings.IndexByte(output, '{')
	if start == -1 {
		start = strings.IndexByte(output, '[')
	}
	if start == -1 {
		return ""
	}

	openChar := output[start]
	closeChar := byte('}')
	if openChar == '[' {
		closeChar = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(output); i++ {
		c := output[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				return output[start : i+1]
			}
		}
	}
	return ""
}
