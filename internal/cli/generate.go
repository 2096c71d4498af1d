package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pvidalgo/relato/internal/ingest"
	"github.com/pvidalgo/relato/internal/model"
	"github.com/pvidalgo/relato/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	rowNum      int
	companyName string
	siteName    string
	address     string
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	noFooter    bool
	llmProvider string
	llmModel    string
	maxRounds   int
	promptsFile string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <survey.csv>",
	Short: "Generate and verify a narrative report for one respondent",
	Long: `Generate decodes one respondent row from a one-hot survey export,
asks the configured language model for a narrative report, and runs
the deterministic fidelity checks:
- Order: answers appear in questionnaire order
- Veracity: no values beyond the respondent's answers
- Completeness: every answered question is covered
- Structure: the required sections are present

Reports that need only literal patches are corrected and re-verified.

Example:
  relato generate survey.csv --row 1 --company "Acme SA" --site "Planta Norte"
  relato generate survey.csv --row 3 --llm-provider openai --llm-model gpt-4o-mini
  relato generate survey.csv --row 2 --json report.json --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	// Row selection and report context
	generateCmd.Flags().IntVar(&rowNum, "row", 1, "1-based respondent row to process")
	generateCmd.Flags().StringVar(&companyName, "company", "", "company name for the report header")
	generateCmd.Flags().StringVar(&siteName, "site", "", "work site name for the report header")
	generateCmd.Flags().StringVar(&address, "address", "", "site address for the report header")

	// Output flags
	generateCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	generateCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	generateCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Generation flags
	generateCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall run timeout")
	generateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable narrative cache (force fresh generation)")
	generateCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	generateCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
	generateCmd.Flags().IntVar(&maxRounds, "max-rounds", 3, "maximum correction rounds before settling")
	generateCmd.Flags().StringVar(&promptsFile, "prompts", "", "YAML prompt-templates file (default: built-in)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Survey: %s (row %d)\n", file, rowNum)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	survey, err := ingest.ReadFile(file)
	if err != nil {
		return err
	}
	row, err := survey.Row(rowNum)
	if err != nil {
		return err
	}

	rctx := model.ReportContext{
		CompanyName: companyName,
		SiteName:    siteName,
		Address:     address,
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Decoding row and generating narrative...\n")
	}

	result, err := p.RunRow(ctx, survey.Header, row, rctx)
	if err != nil {
		var malformed *model.MalformedInputError
		if errors.As(err, &malformed) {
			return fmt.Errorf("survey export is malformed: %w", err)
		}
		return fmt.Errorf("run failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Decoded %d facts\n", result.Catalog.Len())
		fmt.Fprintf(os.Stderr, "✓ Verdict: %s after %d correction rounds\n", result.Report.Verdict, result.Rounds)
		if result.FromCache {
			fmt.Fprintf(os.Stderr, "✓ Narrative served from cache\n")
		}
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if err := renderer.RenderJSON(result, outJSON); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}
	renderer.RenderSummary(result)

	return nil
}

// buildConfig assembles the runtime configuration from defaults, env vars
// and flags, and resolves the provider API key.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Correct.MaxRounds = maxRounds
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.TemplatesPath = promptsFile

	// Get API key from environment
	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		baseURL := os.Getenv("OLLAMA_BASE_URL")
		if baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	case "":
		return nil, fmt.Errorf("a narrative provider is required (--llm-provider)")
	}

	return cfg, nil
}
