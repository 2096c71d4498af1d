// Package pipeline sequences Decode → Generate → Verify → Correct for one
// respondent row and decides acceptance.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/pvidalgo/relato/internal/cache"
	"github.com/pvidalgo/relato/internal/correct"
	"github.com/pvidalgo/relato/internal/decode"
	"github.com/pvidalgo/relato/internal/llm"
	"github.com/pvidalgo/relato/internal/model"
	"github.com/pvidalgo/relato/internal/verify"
)

// Pipeline orchestrates the complete run for one respondent row. All state
// lives in the RunResult of each call; the pipeline itself is reusable and
// safe for concurrent rows.
type Pipeline struct {
	decoder   *decode.Decoder
	verifier  *verify.Verifier
	applier   *correct.Applier
	generator *llm.Generator
	cache     cache.Cache // nil when caching is disabled
	config    *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	llmConfig, err := llm.ConfigFromModel(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("configure narrative provider: %w", err)
	}

	generator, err := llm.NewGenerator(llmConfig)
	if err != nil {
		return nil, fmt.Errorf("initialize narrative provider: %w", err)
	}

	var narrativeCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			narrativeCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			narrativeCache = cache.NewMemoryCache(cfg.Cache.MemoryTTL, cfg.Cache.MemoryTTL)
		}
	}

	return &Pipeline{
		decoder:   decode.NewDecoder(),
		verifier:  verify.NewVerifier(cfg.Verify, generator.Templates().Boilerplate),
		applier:   correct.NewApplier(),
		generator: generator,
		cache:     narrativeCache,
		config:    cfg,
	}, nil
}

// NewPipelineWithGenerator builds a pipeline around a caller-supplied
// generator instead of one constructed from configuration.
func NewPipelineWithGenerator(cfg *model.Config, generator *llm.Generator) *Pipeline {
	var narrativeCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			narrativeCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			narrativeCache = cache.NewMemoryCache(cfg.Cache.MemoryTTL, cfg.Cache.MemoryTTL)
		}
	}
	return &Pipeline{
		decoder:   decode.NewDecoder(),
		verifier:  verify.NewVerifier(cfg.Verify, generator.Templates().Boilerplate),
		applier:   correct.NewApplier(),
		generator: generator,
		cache:     narrativeCache,
		config:    cfg,
	}
}

// Generator exposes the wrapped narrative generator (for usage reporting).
func (p *Pipeline) Generator() *llm.Generator {
	return p.generator
}

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	State     model.PipelineState       `json:"state"`
	Catalog   *model.FactCatalog        `json:"-"`
	Narrative string                    `json:"narrative"`
	Report    *model.VerificationReport `json:"report,omitempty"`
	Rounds    int                       `json:"correction_rounds"`
	Applied   []model.Correction        `json:"applied_corrections,omitempty"`
	Skipped   []model.Correction        `json:"skipped_corrections,omitempty"`
	FromCache bool                      `json:"from_cache"`
}

// RunRow executes the full state machine for one respondent row:
//
//	DECODED → GENERATED → VERIFIED → {ACCEPTED | CORRECTED → VERIFIED | REJECTED}
//
// Decoding and generation failures abort the run with an error; REJECTED is
// a terminal outcome, not an error. The correction loop is bounded by
// Config.Correct.MaxRounds, after which the run settles at the last verdict.
func (p *Pipeline) RunRow(ctx context.Context, header, row []string, rctx model.ReportContext) (*RunResult, error) {
	// 1. Decode the row into the fact catalog
	catalog, err := p.decoder.Decode(header, row)
	if err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}

	result := &RunResult{
		State:   model.StateDecoded,
		Catalog: catalog,
	}

	// 2. Obtain a narrative, preferring the cache
	narrative, fromCache, err := p.obtainNarrative(ctx, catalog, rctx)
	if err != nil {
		return nil, err
	}
	result.State = model.StateGenerated
	result.Narrative = narrative
	result.FromCache = fromCache

	// 3. Verify, correcting between rounds while a literal patch can help
	report, corrections := p.verifier.Verify(catalog, result.Narrative, rctx)
	result.State = model.StateVerified
	result.Report = report

	for round := 0; round < p.config.Correct.MaxRounds; round++ {
		if report.Verdict != model.VerdictNeedsReview || len(corrections) == 0 {
			break
		}

		applied, err := p.applier.Apply(result.Narrative, corrections)
		if err != nil {
			return nil, fmt.Errorf("apply corrections: %w", err)
		}
		result.Skipped = append(result.Skipped, applied.Skipped...)
		if len(applied.Applied) == 0 {
			break // nothing applicable, re-verifying cannot change the verdict
		}

		result.State = model.StateCorrected
		result.Narrative = applied.Narrative
		result.Applied = append(result.Applied, applied.Applied...)
		result.Rounds++

		report, corrections = p.verifier.Verify(catalog, result.Narrative, rctx)
		result.State = model.StateVerified
		result.Report = report
	}

	switch report.Verdict {
	case model.VerdictApproved:
		result.State = model.StateAccepted
	case model.VerdictRejected:
		result.State = model.StateRejected
	}
	// NEEDS_REVIEW after the final round stays in VERIFIED: the run settles
	// at the last verdict and the report carries the remediation detail.

	return result, nil
}

// obtainNarrative returns a cached narrative for this catalog/context pair
// or calls the generator. A cached narrative still goes through VERIFIED.
func (p *Pipeline) obtainNarrative(ctx context.Context, catalog *model.FactCatalog, rctx model.ReportContext) (string, bool, error) {
	key := p.cacheKey(catalog, rctx)
	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			return string(data), true, nil
		}
	}

	resp, err := p.generator.Generate(ctx, catalog, rctx, p.config.Verify.Sections)
	if err != nil {
		return "", false, err
	}

	if p.cache != nil {
		_ = p.cache.Set(key, []byte(resp.Narrative), 0)
	}
	return resp.Narrative, false, nil
}

func (p *Pipeline) cacheKey(catalog *model.FactCatalog, rctx model.ReportContext) string {
	ctxJSON, _ := json.Marshal(rctx)
	ctxSum := sha256.Sum256(ctxJSON)
	return cache.NarrativeKey(catalog.Hash(), hex.EncodeToString(ctxSum[:]), p.config.LLM.Provider, p.config.LLM.Model)
}
