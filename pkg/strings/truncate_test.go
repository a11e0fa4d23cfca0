package strings

import "testing"

func TestSingleLine(t *testing.T) {
	got := SingleLine("  backend\n\tservices \r\n only ")
	if got != "backend services only" {
		t.Errorf("SingleLine() = %q", got)
	}
}

func TestTruncateDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"cut with ellipsis", "[Mocked] Environment with all backend dependencies.", 20, "[Mocked] Environm..."},
		{"newlines flattened before cutting", "line one\nline two", 12, "line one ..."},
		{"multibyte runes stay whole", "Umgebung für Äpfel", 15, "Umgebung für..."},
		{"tiny width clamped", "abcdefgh", 1, "a..."},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateDescription(tt.input, tt.maxLen); got != tt.expected {
				t.Errorf("TruncateDescription(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}
