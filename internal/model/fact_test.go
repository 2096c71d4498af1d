package model

import (
	"encoding/json"
	"testing"
)

func TestNewFactCatalog_Invariants(t *testing.T) {
	_, err := NewFactCatalog([]Fact{
		{Index: 1, Question: "A", Answer: "x"},
		{Index: 1, Question: "B", Answer: "y"},
	})
	if err == nil {
		t.Error("Expected error for duplicate index")
	}

	_, err = NewFactCatalog([]Fact{
		{Index: 2, Question: "A", Answer: "x"},
		{Index: 1, Question: "B", Answer: "y"},
	})
	if err == nil {
		t.Error("Expected error for decreasing index")
	}

	_, err = NewFactCatalog([]Fact{
		{Index: 1, Question: "A", Answer: ""},
	})
	if err == nil {
		t.Error("Expected error for empty answer")
	}

	catalog, err := NewFactCatalog(nil)
	if err != nil {
		t.Fatalf("Expected empty catalog to be valid, got %v", err)
	}
	if catalog.Len() != 0 {
		t.Errorf("Expected empty catalog, got %d facts", catalog.Len())
	}
}

func TestFactCatalog_Immutable(t *testing.T) {
	source := []Fact{{Index: 1, Question: "A", Answer: "x"}}
	catalog, err := NewFactCatalog(source)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Mutating the source slice must not affect the catalog
	source[0].Answer = "mutated"
	if catalog.At(0).Answer != "x" {
		t.Error("Expected catalog to copy its input")
	}

	// Mutating the accessor's result must not affect the catalog either
	facts := catalog.Facts()
	facts[0].Answer = "mutated"
	if catalog.At(0).Answer != "x" {
		t.Error("Expected Facts() to return a copy")
	}
}

func TestFactCatalog_JSON(t *testing.T) {
	catalog, err := NewFactCatalog([]Fact{
		{Index: 1, Question: "Medio", Answer: "Coche"},
		{Index: 2, Question: "Turno", Answer: "Tarde"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := catalog.JSON()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded []Fact
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if len(decoded) != 2 || decoded[0].Index != 1 || decoded[1].Question != "Turno" {
		t.Errorf("Unexpected round-trip result: %+v", decoded)
	}
}

func TestFactCatalog_Hash(t *testing.T) {
	a, _ := NewFactCatalog([]Fact{{Index: 1, Question: "Q", Answer: "x"}})
	b, _ := NewFactCatalog([]Fact{{Index: 1, Question: "Q", Answer: "x"}})
	c, _ := NewFactCatalog([]Fact{{Index: 1, Question: "Q", Answer: "y"}})

	if a.Hash() != b.Hash() {
		t.Error("Expected identical catalogs to hash equal")
	}
	if a.Hash() == c.Hash() {
		t.Error("Expected different content to hash differently")
	}
}

func TestReportContext_Values(t *testing.T) {
	rctx := ReportContext{CompanyName: "Acme", Address: "Calle 1"}
	vals := rctx.Values()

	if len(vals) != 2 {
		t.Fatalf("Expected 2 non-empty values, got %d", len(vals))
	}
	if vals[0] != "Acme" || vals[1] != "Calle 1" {
		t.Errorf("Unexpected values order: %v", vals)
	}
}
