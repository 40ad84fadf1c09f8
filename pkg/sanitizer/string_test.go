package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n ", ""},
		{"leading and trailing", "  kernel bisect run  ", "kernel bisect run"},
		{"collapses inner runs", "lab\t\tdevice   07", "lab device 07"},
		{"newlines become spaces", "line one\nline two", "line one line two"},
		{"drops control runes", "before\x00\x07after", "beforeafter"},
		{"unicode preserved", "café réservation", "café réservation"},
		{"idempotent", "already clean", "already clean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := TrimAndNormalize(got); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	if got := NormalizeDescription("  flashing  firmware "); got != "flashing firmware" {
		t.Errorf("unexpected result: %q", got)
	}
}
