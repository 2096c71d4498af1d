// Package llm is the narrative-generator boundary: providers turn a fact
// catalog plus report context into prose. The pipeline treats the output as
// opaque text; all fidelity guarantees come from the verifier, never from
// the provider.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/pvidalgo/relato/internal/model"
)

// Provider defines the interface for narrative generators.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces a prose narrative for the request's fact catalog
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for narrative generation.
type GenerateRequest struct {
	// Catalog is the ordered fact set the narrative must describe
	Catalog *model.FactCatalog

	// Context carries company/site parameters interpolated into the prompt
	Context model.ReportContext

	// Prompt is an optional fully-built prompt (if empty, built from templates)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the generated narrative.
type GenerateResponse struct {
	// Narrative is the generated prose text
	Narrative string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds narrative provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// RequestsPerMinute paces provider calls
	RequestsPerMinute float64

	// Templates carries the prompt/boilerplate configuration
	Templates *Templates
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:          "", // Disabled by default
		Model:             "",
		Timeout:           60,
		MaxTokens:         4000,
		RequestsPerMinute: 30,
		Templates:         DefaultTemplates(),
	}
}

// BuildPrompt fills the narrative template with the catalog, context and
// required section list.
func BuildPrompt(t *Templates, catalog *model.FactCatalog, rctx model.ReportContext, sections []string) (string, error) {
	factsJSON, err := catalog.JSON()
	if err != nil {
		return "", fmt.Errorf("render facts: %w", err)
	}

	sectionList := ""
	for _, s := range sections {
		sectionList += fmt.Sprintf("- %s\n", s)
	}

	replacer := strings.NewReplacer(
		"{company}", rctx.CompanyName,
		"{site}", rctx.SiteName,
		"{address}", rctx.Address,
		"{sections}", sectionList,
		"{facts}", string(factsJSON),
	)
	return replacer.Replace(t.NarrativePrompt), nil
}
