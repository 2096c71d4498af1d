package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pvidalgo/relato/internal/ingest"
	"github.com/pvidalgo/relato/internal/model"
	"github.com/pvidalgo/relato/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// noCache, noFooter and the llm* flags are defined in generate.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <survey.csv>",
	Short: "Generate and verify reports for every respondent in parallel",
	Long: `Batch processes every data row of a one-hot survey export:
- Decode each respondent row into its fact catalog
- Generate narratives with a configurable worker count
- Verify and correct each report independently
- Write one JSON and one Markdown report per respondent

Example:
  relato batch survey.csv --company "Acme SA"
  relato batch survey.csv --concurrency 8 --output-dir ./reports
  relato batch survey.csv --llm-provider ollama --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./relato-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Report context
	batchCmd.Flags().StringVar(&companyName, "company", "", "company name for the report headers")
	batchCmd.Flags().StringVar(&siteName, "site", "", "work site name for the report headers")
	batchCmd.Flags().StringVar(&address, "address", "", "site address for the report headers")

	// Inherit flags from generate command
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable narrative cache (force fresh generation)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().IntVar(&maxRounds, "max-rounds", 3, "maximum correction rounds before settling")
	batchCmd.Flags().StringVar(&promptsFile, "prompts", "", "YAML prompt-templates file (default: built-in)")

	// LLM flags
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Relato Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Survey file:  %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.RowWorkers = concurrency

	fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Reading survey export...\n")
	survey, err := ingest.ReadFile(file)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d respondent rows\n", len(survey.Rows))

	rctx := model.ReportContext{
		CompanyName: companyName,
		SiteName:    siteName,
		Address:     address,
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	processor := pipeline.NewBatchProcessor(p, concurrency)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Processing rows with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	results := processor.ProcessRows(ctx, survey.Header, survey.Rows, rctx)

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ row %d: %v\n", result.RowNum, result.Err)
			continue
		}

		successCount++

		jsonPath := filepath.Join(outputDir, fmt.Sprintf("row-%04d.json", result.RowNum))
		mdPath := filepath.Join(outputDir, fmt.Sprintf("row-%04d.md", result.RowNum))

		if err := renderer.RenderJSON(result.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ row %d: failed to write JSON: %v\n", result.RowNum, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Result, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ row %d: failed to write Markdown: %v\n", result.RowNum, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ row %d: %s (%d facts, %d correction rounds)\n",
			result.RowNum, result.Result.Report.Verdict, result.Result.Catalog.Len(), result.Result.Rounds)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d rows\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)

	if _, total := p.Generator().Usage(); total > 0 {
		fmt.Fprintf(os.Stderr, "  Tokens:    %d\n", total)
	}
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
