package render

import "testing"

func TestAddEllipsis(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "", expected: ""},
		{input: "Done.", expected: "Done."},
		{input: "Really?", expected: "Really?"},
		{input: "Wow!", expected: "Wow!"},
		{input: "And then", expected: "And then..."},
	}
	for _, tt := range tests {
		if got := AddEllipsis(tt.input); got != tt.expected {
			t.Errorf("AddEllipsis(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{name: "short", input: "hello", limit: 10, expected: "hello"},
		{name: "exact", input: "hello", limit: 5, expected: "hello"},
		{name: "cut", input: "hello world", limit: 8, expected: "hello..."},
		{name: "trailing space trimmed", input: "hello world", limit: 9, expected: "hello..."},
		{name: "tiny limit", input: "hello", limit: 2, expected: "he"},
		{name: "runes", input: "žluťoučký kůň", limit: 7, expected: "žluť..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.limit); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUppercaseFirst(t *testing.T) {
	for input, expected := range map[string]string{
		"":     "",
		"nuxt": "Nuxt",
		"Vite": "Vite",
		"élan": "Élan",
		"1st":  "1st",
	} {
		if got := UppercaseFirst(input); got != expected {
			t.Errorf("UppercaseFirst(%q) = %q, expected %q", input, got, expected)
		}
	}
}
