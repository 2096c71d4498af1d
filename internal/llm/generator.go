package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pvidalgo/relato/internal/model"
	"github.com/pvidalgo/relato/internal/worker"
)

// Generator wraps a Provider with prompt building, call pacing and usage
// tracking. A nil provider means generation is disabled.
type Generator struct {
	provider Provider
	config   Config
	limiter  *worker.Limiter

	mu          sync.Mutex
	totalTokens int
	history     []UsageRecord
}

// UsageRecord tracks one provider call for reporting and budgeting.
type UsageRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	TokensUsed int       `json:"tokens_used"`
}

// usageHistoryLimit bounds the in-memory call history.
const usageHistoryLimit = 1000

// NewGenerator creates a generator from configuration
func NewGenerator(config Config) (*Generator, error) {
	if config.Templates == nil {
		config.Templates = DefaultTemplates()
	}

	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	rpm := config.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}

	return &Generator{
		provider: provider,
		config:   config,
		limiter:  worker.NewLimiter(rpm/60.0, 1),
	}, nil
}

// NewGeneratorWithProvider wraps an already-built provider. Used when the
// caller supplies its own Provider implementation.
func NewGeneratorWithProvider(provider Provider, config Config) *Generator {
	if config.Templates == nil {
		config.Templates = DefaultTemplates()
	}
	rpm := config.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	return &Generator{
		provider: provider,
		config:   config,
		limiter:  worker.NewLimiter(rpm/60.0, 1),
	}
}

// IsEnabled returns whether a provider is configured
func (g *Generator) IsEnabled() bool {
	return g.provider != nil
}

// ProviderName returns the active provider's name
func (g *Generator) ProviderName() string {
	if g.provider == nil {
		return ""
	}
	return g.provider.Name()
}

// Templates exposes the active prompt configuration, so the verifier can
// exempt its boilerplate.
func (g *Generator) Templates() *Templates {
	return g.config.Templates
}

// Generate produces a narrative for the catalog. Timeouts and transport
// failures are fatal for the run and come back as typed errors; retry
// policy, if any, belongs to the caller.
func (g *Generator) Generate(ctx context.Context, catalog *model.FactCatalog, rctx model.ReportContext, sections []string) (*GenerateResponse, error) {
	if g.provider == nil {
		return nil, fmt.Errorf("no narrative provider configured")
	}

	prompt, err := BuildPrompt(g.config.Templates, catalog, rctx, sections)
	if err != nil {
		return nil, err
	}

	if err := g.limiter.Wait(ctx, g.provider.Name()); err != nil {
		return nil, &model.GenerationTimeoutError{Provider: g.provider.Name(), Err: err}
	}

	resp, err := g.provider.Generate(ctx, GenerateRequest{
		Catalog: catalog,
		Context: rctx,
		Prompt:  prompt,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, &model.GenerationTimeoutError{Provider: g.provider.Name(), Err: err}
		}
		return nil, &model.GenerationTransportError{Provider: g.provider.Name(), Err: err}
	}
	if resp.Narrative == "" {
		return nil, &model.GenerationTransportError{Provider: g.provider.Name(), Err: fmt.Errorf("provider returned empty narrative")}
	}

	g.trackUsage(resp)
	return resp, nil
}

// trackUsage records a completed call, trimming old history.
func (g *Generator) trackUsage(resp *GenerateResponse) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.totalTokens += resp.TokensUsed
	g.history = append(g.history, UsageRecord{
		Timestamp:  time.Now().UTC(),
		Provider:   g.provider.Name(),
		Model:      resp.Model,
		TokensUsed: resp.TokensUsed,
	})
	if len(g.history) > usageHistoryLimit {
		g.history = g.history[len(g.history)-usageHistoryLimit:]
	}
}

// Usage returns the call history and total token count.
func (g *Generator) Usage() ([]UsageRecord, int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	records := make([]UsageRecord, len(g.history))
	copy(records, g.history)
	return records, g.totalTokens
}
