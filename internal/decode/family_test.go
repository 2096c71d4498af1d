package decode

import "testing"

func TestGroupFamilies_Ordering(t *testing.T) {
	header := []string{
		"b___x",
		"a___y",
		"b___z",
		"c",
	}

	families, err := groupFamilies(header)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(families) != 3 {
		t.Fatalf("Expected 3 families, got %d", len(families))
	}

	want := []string{"b", "a", "c"}
	for i, q := range want {
		if families[i].question != q {
			t.Errorf("Family %d: expected question %q, got %q", i, q, families[i].question)
		}
	}

	if len(families[0].options) != 2 {
		t.Errorf("Expected 2 options for family b, got %d", len(families[0].options))
	}
	if families[2].base == nil {
		t.Error("Expected family c to have a base column")
	}
}

func TestDisplayText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"medio_de_transporte", "Medio de transporte"},
		{"coche", "Coche"},
		{"12_km", "12 km"},
		{"", ""},
		{"ñame", "Ñame"},
	}

	for _, tt := range tests {
		if got := displayText(tt.in); got != tt.want {
			t.Errorf("displayText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	falsy := []string{"", "0", "  ", " 0 "}
	for _, cell := range falsy {
		if truthy(cell) {
			t.Errorf("Expected %q to be falsy", cell)
		}
	}

	selected := []string{"1", "0.0", "x", "true", "-1"}
	for _, cell := range selected {
		if !truthy(cell) {
			t.Errorf("Expected %q to be truthy", cell)
		}
	}
}
