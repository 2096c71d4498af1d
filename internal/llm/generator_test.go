package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pvidalgo/relato/internal/model"
)

// mockProvider implements Provider for tests
type mockProvider struct {
	name      string
	narrative string
	err       error
	calls     int
	lastReq   GenerateRequest
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &GenerateResponse{
		Narrative:  m.narrative,
		Model:      "mock-model",
		TokensUsed: 42,
	}, nil
}

func (m *mockProvider) IsAvailable(ctx context.Context) bool { return true }

func testCatalog(t *testing.T) *model.FactCatalog {
	t.Helper()
	catalog, err := model.NewFactCatalog([]model.Fact{
		{Index: 1, Question: "Medio de transporte", Answer: "Coche"},
		{Index: 2, Question: "Distancia", Answer: "12 km"},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return catalog
}

func TestGenerator_DisabledWithoutProvider(t *testing.T) {
	gen, err := NewGenerator(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gen.IsEnabled() {
		t.Error("Expected generator to be disabled without a provider")
	}

	_, err = gen.Generate(context.Background(), testCatalog(t), model.ReportContext{}, nil)
	if err == nil {
		t.Error("Expected error when generating without a provider")
	}
}

func TestGenerator_UnknownProvider(t *testing.T) {
	_, err := NewGenerator(Config{Provider: "nonexistent"})
	if err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestGenerator_SuccessTracksUsage(t *testing.T) {
	provider := &mockProvider{name: "mock", narrative: "Texto generado."}
	gen := NewGeneratorWithProvider(provider, Config{RequestsPerMinute: 6000})

	resp, err := gen.Generate(context.Background(), testCatalog(t), model.ReportContext{CompanyName: "Acme"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Narrative != "Texto generado." {
		t.Errorf("Expected provider narrative, got %q", resp.Narrative)
	}
	if provider.calls != 1 {
		t.Errorf("Expected 1 provider call, got %d", provider.calls)
	}

	records, total := gen.Usage()
	if len(records) != 1 {
		t.Fatalf("Expected 1 usage record, got %d", len(records))
	}
	if total != 42 {
		t.Errorf("Expected 42 total tokens, got %d", total)
	}
	if records[0].Provider != "mock" {
		t.Errorf("Expected provider 'mock', got %q", records[0].Provider)
	}
}

func TestGenerator_PromptCarriesFactsAndContext(t *testing.T) {
	provider := &mockProvider{name: "mock", narrative: "ok"}
	gen := NewGeneratorWithProvider(provider, Config{RequestsPerMinute: 6000})

	rctx := model.ReportContext{CompanyName: "Acme SA", SiteName: "Planta Norte"}
	sections := []string{"Introducción", "Datos generales"}

	_, err := gen.Generate(context.Background(), testCatalog(t), rctx, sections)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	prompt := provider.lastReq.Prompt
	for _, want := range []string{"Acme SA", "Planta Norte", "Medio de transporte", "12 km", "- Introducción", "- Datos generales"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestGenerator_TimeoutErrorClassification(t *testing.T) {
	provider := &mockProvider{name: "mock", err: context.DeadlineExceeded}
	gen := NewGeneratorWithProvider(provider, Config{RequestsPerMinute: 6000})

	_, err := gen.Generate(context.Background(), testCatalog(t), model.ReportContext{}, nil)
	if err == nil {
		t.Fatal("Expected error")
	}

	var timeout *model.GenerationTimeoutError
	if !errors.As(err, &timeout) {
		t.Errorf("Expected GenerationTimeoutError, got %T: %v", err, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("Expected wrapped cause to survive unwrapping")
	}
}

func TestGenerator_TransportErrorClassification(t *testing.T) {
	provider := &mockProvider{name: "mock", err: errors.New("api returned 500")}
	gen := NewGeneratorWithProvider(provider, Config{RequestsPerMinute: 6000})

	_, err := gen.Generate(context.Background(), testCatalog(t), model.ReportContext{}, nil)
	if err == nil {
		t.Fatal("Expected error")
	}

	var transport *model.GenerationTransportError
	if !errors.As(err, &transport) {
		t.Errorf("Expected GenerationTransportError, got %T: %v", err, err)
	}
}

func TestGenerator_EmptyNarrativeIsTransportError(t *testing.T) {
	provider := &mockProvider{name: "mock", narrative: ""}
	gen := NewGeneratorWithProvider(provider, Config{RequestsPerMinute: 6000})

	_, err := gen.Generate(context.Background(), testCatalog(t), model.ReportContext{}, nil)
	if err == nil {
		t.Fatal("Expected error for empty narrative")
	}

	var transport *model.GenerationTransportError
	if !errors.As(err, &transport) {
		t.Errorf("Expected GenerationTransportError, got %T: %v", err, err)
	}
}

func TestBuildPrompt(t *testing.T) {
	templates := DefaultTemplates()

	prompt, err := BuildPrompt(templates, testCatalog(t), model.ReportContext{
		CompanyName: "Acme SA",
		SiteName:    "Planta Norte",
		Address:     "Calle Mayor 1",
	}, []string{"Introducción"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(prompt, "{company}") || strings.Contains(prompt, "{facts}") {
		t.Error("Expected all placeholders to be substituted")
	}
	for _, want := range []string{"Acme SA", "Calle Mayor 1", `"question": "Distancia"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}
