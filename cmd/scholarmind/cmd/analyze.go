package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/pipeline"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/report"
)

var (
	analyzeType     string
	analyzeAudience string
	analyzeLanguage string
	analyzeFormat   string
	analyzeSave     bool
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|url|text>",
	Short: "Analyze an academic paper",
	Long: `Analyze runs the full pipeline on a paper given as a file path, a URL,
or raw text. The input type is detected automatically and can be forced
with --type.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeType, "type", "",
		"input type (file, url, text); detected when omitted")
	analyzeCmd.Flags().StringVar(&analyzeAudience, "audience", "intermediate",
		"target audience (beginner, intermediate, advanced)")
	analyzeCmd.Flags().StringVar(&analyzeLanguage, "language", "en",
		"report language (en, zh)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "output-format", "markdown",
		"report format (markdown, json, yaml)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save-report", true,
		"persist the synthesized report")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false,
		"print the raw result envelope as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	orch, err := newOrchestrator(cfg, log, nil)
	if err != nil {
		return err
	}

	input := args[0]
	req := core.NewAnalysisRequest(input, detectKind(input, analyzeType))
	req.Audience = core.Audience(analyzeAudience)
	req.Language = core.Language(analyzeLanguage)
	req.Format = core.ReportFormat(analyzeFormat)
	req.SaveReport = analyzeSave

	run := orch.Run(cmd.Context(), req)
	envelope := pipeline.BuildEnvelope(run)

	if analyzeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(envelope); err != nil {
			return err
		}
		if !envelope.Success {
			return errors.New(envelope.Error)
		}
		return nil
	}

	if !envelope.Success {
		return errors.New(envelope.Error)
	}
	printRun(cmd, run)
	return nil
}

// detectKind resolves the input type, honoring an explicit override.
func detectKind(input, override string) core.InputKind {
	if override != "" {
		return core.InputKind(override)
	}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return core.InputURL
	}
	if _, err := os.Stat(input); err == nil {
		return core.InputFile
	}
	return core.InputText
}

func printRun(cmd *cobra.Command, run *core.PipelineRun) {
	out := cmd.OutOrStdout()

	if run.Report != nil {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			width, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				width = 100
			}
			fmt.Fprint(out, report.RenderTerminal(run.Report, width))
		} else {
			data, err := report.Render(run.Report, core.FormatMarkdown)
			if err == nil {
				fmt.Fprint(out, string(data))
			}
		}
	}

	var degraded []string
	for _, res := range run.Results {
		if !res.Success {
			degraded = append(degraded, string(res.Stage))
		}
	}
	if notice := report.DegradedNotice(degraded); notice != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), notice)
	}

	if run.ReportPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", run.ReportPath)
	}
}
