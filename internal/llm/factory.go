package llm

import (
	"fmt"
	"strings"

	"github.com/pvidalgo/relato/internal/model"
)

// NewProvider creates a new narrative provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - return nil (generation disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown narrative provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config, loading the
// templates file when one is configured.
func ConfigFromModel(modelConfig model.LLMConfig) (Config, error) {
	templates := DefaultTemplates()
	if modelConfig.TemplatesPath != "" {
		t, err := LoadTemplates(modelConfig.TemplatesPath)
		if err != nil {
			return Config{}, err
		}
		templates = t
	}

	return Config{
		Provider:          modelConfig.Provider,
		Model:             modelConfig.Model,
		APIKey:            modelConfig.APIKey,
		BaseURL:           modelConfig.BaseURL,
		Timeout:           modelConfig.Timeout,
		MaxTokens:         modelConfig.MaxTokens,
		RequestsPerMinute: modelConfig.RequestsPerMinute,
		Templates:         templates,
	}, nil
}
