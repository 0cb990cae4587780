package core

// InputKind tells the pipeline how to interpret the request input.
type InputKind string

const (
	InputFile InputKind = "file" // Path to a local paper file
	InputURL  InputKind = "url"  // HTTP(S) location of the paper
	InputText InputKind = "text" // Raw paper text supplied inline
)

// Valid reports whether the kind is one of the supported values.
func (k InputKind) Valid() bool {
	return k == InputFile || k == InputURL || k == InputText
}

// Audience selects the depth and register of generated analysis.
type Audience string

const (
	AudienceBeginner     Audience = "beginner"
	AudienceIntermediate Audience = "intermediate"
	AudienceAdvanced     Audience = "advanced"
)

// Valid reports whether the audience is supported.
func (a Audience) Valid() bool {
	return a == AudienceBeginner || a == AudienceIntermediate || a == AudienceAdvanced
}

// Language selects the output language of the report.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageChinese Language = "zh"
)

// Valid reports whether the language is supported.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageChinese
}

// ReportFormat selects the serialization of the saved report.
type ReportFormat string

const (
	FormatMarkdown ReportFormat = "markdown"
	FormatJSON     ReportFormat = "json"
	FormatYAML     ReportFormat = "yaml"
)

// Valid reports whether the format is supported.
func (f ReportFormat) Valid() bool {
	return f == FormatMarkdown || f == FormatJSON || f == FormatYAML
}

// AnalysisRequest describes one paper analysis run.
type AnalysisRequest struct {
	Input      string       `json:"input"`
	Kind       InputKind    `json:"kind"`
	Audience   Audience     `json:"audience"`
	Language   Language     `json:"language"`
	Format     ReportFormat `json:"format"`
	SaveReport bool         `json:"save_report"`
}

// NewAnalysisRequest returns a request with defaults applied for every
// optional field.
func NewAnalysisRequest(input string, kind InputKind) AnalysisRequest {
	return AnalysisRequest{
		Input:      input,
		Kind:       kind,
		Audience:   AudienceIntermediate,
		Language:   LanguageEnglish,
		Format:     FormatMarkdown,
		SaveReport: true,
	}
}
