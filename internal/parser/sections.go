package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
)

// kindPatterns classifies section headings. Order matters: the first match
// wins, so introduction outranks the broader related-work pattern.
var kindPatterns = []struct {
	kind core.SectionKind
	re   *regexp.Regexp
}{
	{core.SectionIntroduction, regexp.MustCompile(`(?i)introduction|intro\b|motivation`)},
	{core.SectionRelatedWork, regexp.MustCompile(`(?i)related\s+work|literature\s+review|background`)},
	{core.SectionMethodology, regexp.MustCompile(`(?i)method|methodology|approach|technique|algorithm|model`)},
	{core.SectionExperiment, regexp.MustCompile(`(?i)experiment|evaluation|result|performance|test|study`)},
	{core.SectionConclusion, regexp.MustCompile(`(?i)conclusion|discussion|future|summary`)},
}

func classifyHeading(heading string) core.SectionKind {
	for _, kp := range kindPatterns {
		if kp.re.MatchString(heading) {
			return kp.kind
		}
	}
	return core.SectionOther
}

var (
	numberedHeading = regexp.MustCompile(`(?m)^\s*(\d+\.?\s+[A-Z][A-Za-z ]{1,80})\s*$`)
	plainHeading    = regexp.MustCompile(`(?m)^([A-Z][a-z]+(?: [A-Z]?[a-z]+)?)\s*$`)
	yearRe          = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	authorsLineRe   = regexp.MustCompile(`(?i)\b(?:authors?|by)[:\s]+(.+)`)
	keywordsLineRe  = regexp.MustCompile(`(?i)keywords?[:\s]+(.+)`)
	captionRe       = map[string]*regexp.Regexp{
		"figure": regexp.MustCompile(`(?im)^(?:figure|fig\.?)\s+(\d+)[.:]?\s+(.+)$`),
		"table":  regexp.MustCompile(`(?im)^table\s+(\d+)[.:]?\s+(.+)$`),
	}
)

// extractMetadata pulls title, abstract, authors, keywords and year out of
// the text with line heuristics. Anything it cannot find stays empty.
func extractMetadata(text, fallbackTitle string) core.PaperMetadata {
	lines := strings.Split(text, "\n")

	title := ""
	for _, line := range lines[:min(10, len(lines))] {
		line = strings.TrimSpace(line)
		if len(line) > 10 && len(line) < 200 && !strings.HasPrefix(line, "Abstract") {
			title = line
			break
		}
	}
	if title == "" {
		title = fallbackTitle
	}

	meta := core.PaperMetadata{
		Title:    title,
		Abstract: extractAbstract(lines),
	}

	head := strings.Join(lines[:min(50, len(lines))], "\n")
	if m := authorsLineRe.FindStringSubmatch(head); m != nil {
		meta.Authors = splitList(m[1])
	}
	if m := keywordsLineRe.FindStringSubmatch(text); m != nil {
		meta.Keywords = splitList(m[1])
	}
	if m := yearRe.FindString(text); m != "" {
		if y, err := strconv.Atoi(m); err == nil {
			meta.Year = y
		}
	}
	return meta
}

// extractAbstract takes everything between an "Abstract" marker and the
// next blank line or section opener.
func extractAbstract(lines []string) string {
	start := -1
	var collected []string
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if start == -1 {
			lower := strings.ToLower(trimmed)
			if strings.HasPrefix(lower, "abstract") {
				start = i
				rest := strings.TrimSpace(trimmed[len("abstract"):])
				rest = strings.TrimLeft(rest, ":. ")
				if rest != "" {
					collected = append(collected, rest)
				}
			}
			continue
		}
		if trimmed == "" && len(collected) > 0 {
			break
		}
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "introduction") || strings.HasPrefix(lower, "keywords") ||
			strings.HasPrefix(lower, "1.") || strings.HasPrefix(lower, "1 ") {
			break
		}
		if trimmed != "" {
			collected = append(collected, trimmed)
		}
	}
	return strings.Join(collected, " ")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSections tries heading styles in decreasing order of confidence:
// numbered headings, then bare capitalized lines. When neither yields
// enough structure, the whole text becomes one section.
func splitSections(text string) []core.PaperSection {
	if sections := splitByHeadings(text, numberedHeading, 3); sections != nil {
		return sections
	}
	if sections := splitByHeadings(text, plainHeading, 3); sections != nil {
		return sections
	}
	return []core.PaperSection{{
		Heading: "Full Text",
		Kind:    core.SectionOther,
		Content: strings.TrimSpace(text),
	}}
}

func splitByHeadings(text string, re *regexp.Regexp, minCount int) []core.PaperSection {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) < minCount {
		return nil
	}

	sections := make([]core.PaperSection, 0, len(locs))
	for i, loc := range locs {
		heading := strings.TrimSpace(text[loc[2]:loc[3]])
		if len(heading) < 2 || len(heading) > 100 {
			continue
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		content := strings.TrimSpace(text[loc[1]:end])
		if content == "" {
			continue
		}
		sections = append(sections, core.PaperSection{
			Heading: heading,
			Kind:    classifyHeading(heading),
			Content: content,
		})
	}
	if len(sections) < minCount {
		return nil
	}
	return sections
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// extractCaptions scans for figure or table captions, capped at 200 runes.
func extractCaptions(text, kind string) []core.Caption {
	re := captionRe[kind]
	label := "Figure"
	if kind == "table" {
		label = "Table"
	}
	var out []core.Caption
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		caption := whitespaceRe.ReplaceAllString(strings.TrimSpace(m[2]), " ")
		out = append(out, core.Caption{
			Label: fmt.Sprintf("%s %s", label, m[1]),
			Text:  core.Truncate(caption, 200),
		})
	}
	return out
}
