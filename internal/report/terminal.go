package report

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
)

var degradedStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#F59E0B")).
	Bold(true)

// RenderTerminal renders the report as styled terminal output. It falls
// back to plain markdown when no renderer can be built.
func RenderTerminal(report *core.ReportPayload, width int) string {
	if width <= 0 {
		width = 100
	}
	md := renderMarkdown(report)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// DegradedNotice formats a warning line for stages that fell back to their
// degraded output.
func DegradedNotice(stages []string) string {
	if len(stages) == 0 {
		return ""
	}
	msg := "Degraded stages: "
	for i, s := range stages {
		if i > 0 {
			msg += ", "
		}
		msg += s
	}
	return degradedStyle.Render(msg)
}
