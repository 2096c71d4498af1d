package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pvidalgo/relato/internal/model"
)

// Renderer writes run results as JSON, Markdown and a stdout summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// runDocument is the external JSON shape of a finished run.
type runDocument struct {
	State      model.PipelineState       `json:"state"`
	Facts      json.RawMessage           `json:"facts"`
	Narrative  string                    `json:"narrative"`
	Report     *model.VerificationReport `json:"report,omitempty"`
	Rounds     int                       `json:"correction_rounds"`
	Applied    []model.Correction        `json:"applied_corrections,omitempty"`
	Skipped    []model.Correction        `json:"skipped_corrections,omitempty"`
	FromCache  bool                      `json:"from_cache"`
}

// RenderJSON writes the run result to a JSON file
func (r *Renderer) RenderJSON(result *RunResult, path string) error {
	facts, err := result.Catalog.JSON()
	if err != nil {
		return fmt.Errorf("render facts: %w", err)
	}

	doc := runDocument{
		State:     result.State,
		Facts:     facts,
		Narrative: result.Narrative,
		Report:    result.Report,
		Rounds:    result.Rounds,
		Applied:   result.Applied,
		Skipped:   result.Skipped,
		FromCache: result.FromCache,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run document: %w", err)
	}

	return os.WriteFile(path, append(data, '\n'), 0644)
}

// RenderMarkdown writes the narrative plus the verification appendix
func (r *Renderer) RenderMarkdown(result *RunResult, path string) error {
	var b strings.Builder

	b.WriteString(result.Narrative)
	b.WriteString("\n\n---\n\n")
	b.WriteString("## Verificación\n\n")
	b.WriteString(fmt.Sprintf("- Resultado: **%s**\n", result.Report.Verdict))
	for _, check := range result.Report.Checks() {
		status := "✓"
		if !check.Passed {
			status = "✗"
		}
		b.WriteString(fmt.Sprintf("- %s %s", status, check.Name))
		if check.Detail != "" {
			b.WriteString(": " + check.Detail)
		}
		b.WriteString("\n")
	}
	if result.Rounds > 0 {
		b.WriteString(fmt.Sprintf("- Rondas de corrección: %d (%d aplicadas, %d omitidas)\n",
			result.Rounds, len(result.Applied), len(result.Skipped)))
	}

	if r.includeFooter {
		b.WriteString("\n---\n")
		b.WriteString("Generado por relato; la verificación de orden, veracidad y completitud es determinista e independiente del modelo.\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

// RenderSummary prints a short result summary to stdout
func (r *Renderer) RenderSummary(result *RunResult) {
	fmt.Printf("State:     %s\n", result.State)
	if result.Report != nil {
		fmt.Printf("Verdict:   %s\n", result.Report.Verdict)
		for _, check := range result.Report.Checks() {
			status := "pass"
			if !check.Passed {
				status = "FAIL"
			}
			fmt.Printf("  %-13s %s\n", check.Name+":", status)
		}
	}
	fmt.Printf("Facts:     %d\n", result.Catalog.Len())
	fmt.Printf("Rounds:    %d\n", result.Rounds)
	if result.FromCache {
		fmt.Printf("Narrative: served from cache\n")
	}
}
