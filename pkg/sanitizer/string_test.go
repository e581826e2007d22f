package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Main Street Garage", "Main Street Garage"},
		{"leading and trailing", "  Main Street  ", "Main Street"},
		{"inner runs collapsed", "Main   Street", "Main Street"},
		{"mixed whitespace", "Main\t\nStreet", "Main Street"},
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeNameOrAddress(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Main Street Garage", "main_street_garage"},
		{"  Main--Street  ", "main_street"},
		{"Garage #4, Level 2", "garage_4_level_2"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeNameOrAddress(tt.input); got != tt.want {
			t.Errorf("SanitizeNameOrAddress(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeSlice(t *testing.T) {
	input := []string{"ABC-123", "abc-123", " abc-123 ", "", "XYZ 99"}
	result := SanitizeSlice(input, NormalizePlate)

	if len(result) != 2 {
		t.Fatalf("expected 2 unique plates, got %d: %v", len(result), result)
	}
	if result[0] != "ABC-123" || result[1] != "XYZ 99" {
		t.Errorf("unexpected result: %v", result)
	}
}
