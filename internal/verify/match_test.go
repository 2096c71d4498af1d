package verify

import (
	"reflect"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Coche, Bus — Taxi compartido", "coche bus taxi compartido"},
		{"¿Cuánto ahorras? 50%", "cuánto ahorras 50%"},
		{"  multiple   spaces  ", "multiple spaces"},
		{"MAYÚSCULAS", "mayúsculas"},
		{"", ""},
		{"...", ""},
		{"12.5 km", "12 5 km"},
	}

	for _, tt := range tests {
		if got := normalizeText(tt.in); got != tt.want {
			t.Errorf("normalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFindFrom(t *testing.T) {
	haystack := "el coche y el bus y el coche"

	if pos := findFrom(haystack, "coche", 0); pos != 3 {
		t.Errorf("Expected first 'coche' at 3, got %d", pos)
	}
	if pos := findFrom(haystack, "coche", 4); pos != 23 {
		t.Errorf("Expected second 'coche' at 23, got %d", pos)
	}
	if pos := findFrom(haystack, "tren", 0); pos != -1 {
		t.Errorf("Expected -1 for absent needle, got %d", pos)
	}
	if pos := findFrom(haystack, "", 0); pos != -1 {
		t.Errorf("Expected -1 for empty needle, got %d", pos)
	}
	if pos := findFrom(haystack, "coche", len(haystack)+5); pos != -1 {
		t.Errorf("Expected -1 when from is past the end, got %d", pos)
	}
}

func TestAnswerTerms(t *testing.T) {
	tests := []struct {
		answer string
		want   []string
	}{
		{"Selected: Coche, Bus — Taxi compartido", []string{"Coche", "Bus", "Taxi compartido"}},
		{"Selected: Coche, Bus", []string{"Coche", "Bus"}},
		{"Tarde — solo en invierno", []string{"Tarde", "solo en invierno"}},
		{"Tarde", []string{"Tarde"}},
		{"12 km", []string{"12 km"}},
	}

	for _, tt := range tests {
		got := answerTerms(tt.answer)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("answerTerms(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}
}

func TestEntityTokens(t *testing.T) {
	tests := []struct {
		sentence string
		want     []string
	}{
		{"Trabajas en Planta Norte desde 2020.", []string{"Planta", "Norte"}},
		{"Te desplazas en coche.", nil},
		{"Valencia queda lejos.", nil}, // sentence-initial capital carries no signal
		{"Vives cerca, en Valencia.", []string{"Valencia"}},
		{"El ahorro ronda el 50%.", nil},
	}

	for _, tt := range tests {
		got := entityTokens(tt.sentence)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("entityTokens(%q) = %v, want %v", tt.sentence, got, tt.want)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	text := "Primera frase. Segunda frase! ¿Tercera? Cuarta sin cierre"
	sentences := splitSentences(text)

	if len(sentences) != 4 {
		t.Fatalf("Expected 4 sentences, got %d: %v", len(sentences), sentences)
	}
	if sentences[0] != "Primera frase." {
		t.Errorf("Expected 'Primera frase.', got %q", sentences[0])
	}
	if sentences[3] != "Cuarta sin cierre" {
		t.Errorf("Expected trailing fragment kept, got %q", sentences[3])
	}
}
