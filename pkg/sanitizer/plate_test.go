package sanitizer

import "testing"

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "ABC-123", "ABC-123"},
		{"lowercase", "abc-123", "ABC-123"},
		{"surrounding whitespace", "  abc-123  ", "ABC-123"},
		{"inner whitespace collapsed", "abc  123", "ABC 123"},
		{"tabs and newlines", "\tabc-123\n", "ABC-123"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePlate(tt.input); got != tt.want {
				t.Errorf("NormalizePlate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePlateIdempotent(t *testing.T) {
	inputs := []string{" abc-123 ", "XYZ 99", "a  b  c"}
	for _, in := range inputs {
		once := NormalizePlate(in)
		twice := NormalizePlate(once)
		if once != twice {
			t.Errorf("NormalizePlate not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
