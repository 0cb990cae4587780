// Package report renders synthesized analyses and persists them to a
// filesystem directory or a SQLite database.
package report

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
)

// Render serializes a report in the requested format.
func Render(report *core.ReportPayload, format core.ReportFormat) ([]byte, error) {
	switch format {
	case core.FormatMarkdown:
		return []byte(renderMarkdown(report)), nil
	case core.FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding report: %w", err)
		}
		return append(data, '\n'), nil
	case core.FormatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("encoding report: %w", err)
		}
		return data, nil
	default:
		return nil, core.ErrValidation("UNKNOWN_FORMAT", fmt.Sprintf("unknown report format %q", format))
	}
}

func renderMarkdown(report *core.ReportPayload) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", report.Title)
	fmt.Fprintf(&b, "*Generated %s", time.Now().Format("2006-01-02 15:04"))
	if report.Audience != "" {
		fmt.Fprintf(&b, " · %s audience", report.Audience)
	}
	b.WriteString("*\n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString(report.Summary)
	b.WriteString("\n\n")

	if len(report.KeyContributions) > 0 {
		b.WriteString("## Key Contributions\n\n")
		for i, c := range report.KeyContributions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, c)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Methodology\n\n")
	b.WriteString(report.MethodologySummary)
	b.WriteString("\n\n")

	b.WriteString("## Experiments\n\n")
	b.WriteString(report.ExperimentSummary)
	b.WriteString("\n\n")

	if len(report.Insights) > 0 {
		b.WriteString("## Insights\n\n")
		for i, ins := range report.Insights {
			fmt.Fprintf(&b, "%d. %s\n", i+1, ins)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Extension returns the file extension for a format.
func Extension(format core.ReportFormat) string {
	switch format {
	case core.FormatJSON:
		return ".json"
	case core.FormatYAML:
		return ".yaml"
	default:
		return ".md"
	}
}

var unsafeFilenameRe = regexp.MustCompile(`[^a-z0-9]+`)

// Filename derives a stable, filesystem-safe name for a report from its
// title and creation time.
func Filename(title string, format core.ReportFormat, now time.Time) string {
	slug := unsafeFilenameRe.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "analysis"
	}
	if len(slug) > 60 {
		slug = strings.Trim(slug[:60], "-")
	}
	return fmt.Sprintf("%s_%s%s", slug, now.Format("20060102-150405"), Extension(format))
}
