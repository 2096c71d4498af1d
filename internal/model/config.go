package model

import "time"

// Config is the full runtime configuration, loadable from
// ~/.relato/config.yaml, RELATO_* environment variables, or CLI flags.
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Verify      VerifyConfig      `yaml:"verify"`
	Correct     CorrectionConfig  `yaml:"correct"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// LLMConfig configures the external narrative generator.
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, anthropic, ollama, "" = disabled
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Timeout  int    `yaml:"timeout"` // seconds, per generation call

	MaxTokens int `yaml:"max_tokens"`

	// RequestsPerMinute paces calls to the provider API.
	RequestsPerMinute float64 `yaml:"requests_per_minute"`

	// TemplatesPath points to a YAML prompt-templates file. Empty uses the
	// built-in defaults.
	TemplatesPath string `yaml:"templates_path,omitempty"`
}

// VerifyConfig configures the fidelity verifier.
type VerifyConfig struct {
	// Sentinels are "no information available" answers exempt from the
	// completeness check.
	Sentinels []string `yaml:"sentinels"`

	// Sections, when non-empty, enables the structural check: every named
	// section must appear in the narrative.
	Sections []string `yaml:"sections"`
}

// CorrectionConfig bounds the verify/correct loop.
type CorrectionConfig struct {
	// MaxRounds caps correction rounds so the loop always terminates.
	MaxRounds int `yaml:"max_rounds"`
}

// CacheConfig configures the generated-narrative cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig sizes the batch worker pool.
type ConcurrencyConfig struct {
	RowWorkers int `yaml:"row_workers"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultSections are the fixed mobility-report sections, in required order.
func DefaultSections() []string {
	return []string{
		"Introducción",
		"Datos generales",
		"Tu viaje habitual al trabajo",
		"Coche y moto",
		"Transporte público",
		"Mejora de la movilidad",
	}
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:          "",
			Model:             "",
			Timeout:           60,
			MaxTokens:         4000,
			RequestsPerMinute: 30,
		},
		Verify: VerifyConfig{
			Sentinels: []string{"No hay información disponible", "N/A"},
			Sections:  DefaultSections(),
		},
		Correct: CorrectionConfig{
			MaxRounds: 3,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			RowWorkers: 4,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
