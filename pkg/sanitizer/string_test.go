package sanitizer

import (
	"reflect"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"leading and trailing", "  Sea View Loft  ", "Sea View Loft"},
		{"internal runs collapsed", "Sea   View\t\tLoft", "Sea View Loft"},
		{"already clean", "Sea View Loft", "Sea View Loft"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeTag(t *testing.T) {
	if got := NormalizeTag("  Free  WiFi "); got != "free wifi" {
		t.Errorf("NormalizeTag = %q, want %q", got, "free wifi")
	}
}

func TestNormalizeAmenities(t *testing.T) {
	input := []string{" Free WiFi", "free  wifi", "", "Parking", "PARKING "}
	expected := []string{"free wifi", "parking"}

	got := NormalizeAmenities(input)
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("NormalizeAmenities = %v, want %v", got, expected)
	}
}

func TestNormalizeStringSlice_Idempotent(t *testing.T) {
	input := []string{"No Smoking", "no pets"}

	once := NormalizeRules(input)
	twice := NormalizeRules(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalization not idempotent: %v vs %v", once, twice)
	}
}
