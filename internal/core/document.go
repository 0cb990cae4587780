package core

import "strings"

// SectionKind classifies what part of a paper a section belongs to.
type SectionKind string

const (
	SectionIntroduction SectionKind = "introduction"
	SectionRelatedWork  SectionKind = "related_work"
	SectionMethodology  SectionKind = "methodology"
	SectionExperiment   SectionKind = "experiment"
	SectionConclusion   SectionKind = "conclusion"
	SectionOther        SectionKind = "other"
)

// PaperMetadata holds bibliographic fields extracted from the paper text.
type PaperMetadata struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Year     int      `json:"year,omitempty"`
}

// PaperSection is one contiguous region of the paper body.
type PaperSection struct {
	Heading string      `json:"heading"`
	Kind    SectionKind `json:"kind"`
	Content string      `json:"content"`
}

// Caption is a figure or table caption found in the text.
type Caption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// ExternalRecord is a best-effort bibliographic match from an external
// catalog. All fields may be empty; lookups never block a run.
type ExternalRecord struct {
	Source    string `json:"source,omitempty"`
	ID        string `json:"id,omitempty"`
	DOI       string `json:"doi,omitempty"`
	Venue     string `json:"venue,omitempty"`
	Citations int    `json:"citations,omitempty"`
}

// PaperDocument is the normalized representation of one paper,
// produced by the resource retrieval stage and consumed by every
// analytical stage after it.
type PaperDocument struct {
	Source   string         `json:"source"`
	Metadata PaperMetadata  `json:"metadata"`
	Sections []PaperSection `json:"sections"`
	Figures  []Caption      `json:"figures,omitempty"`
	Tables   []Caption      `json:"tables,omitempty"`
	External ExternalRecord `json:"external,omitempty"`
	FullText string         `json:"-"`
}

// Title returns the paper title, or a placeholder when extraction found none.
func (d *PaperDocument) Title() string {
	if t := strings.TrimSpace(d.Metadata.Title); t != "" {
		return t
	}
	return "Untitled Paper"
}

// SectionsOfKind returns every section classified under kind, in order.
func (d *PaperDocument) SectionsOfKind(kind SectionKind) []PaperSection {
	var out []PaperSection
	for _, s := range d.Sections {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// TextOfKind concatenates the content of every section of the given kind,
// capped at limit runes. It returns the empty string when no section matches.
func (d *PaperDocument) TextOfKind(kind SectionKind, limit int) string {
	var b strings.Builder
	for _, s := range d.SectionsOfKind(kind) {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.Content)
	}
	return Truncate(b.String(), limit)
}

// Truncate caps s at limit runes, appending an ellipsis marker when cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
