package security

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "Short string untouched", input: "hello", max: 10, want: "hello"},
		{name: "Exact length untouched", input: "hello", max: 5, want: "hello"},
		{name: "ASCII cut", input: "hello", max: 3, want: "hel"},
		{name: "Two-byte rune preserved", input: "héllo", max: 2, want: "h"},
		{name: "Emoji not split", input: "a📎b", max: 3, want: "a"},
		{name: "Cut lands on boundary", input: "héllo", max: 3, want: "hé"},
		{name: "Zero max", input: "hé", max: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.max)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Truncate(%q, %d) produced invalid UTF-8", tt.input, tt.max)
			}
		})
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Plain text", input: "hello there", want: "hello there"},
		{name: "Trims whitespace", input: "  hi  ", want: "hi"},
		{name: "Strips tags", input: "<script>alert(1)</script>hi", want: "hi"},
		{name: "Strips markup keeps text", input: "<b>bold</b> move", want: "bold move"},
		{name: "Removes null bytes", input: "a\x00b", want: "ab"},
		{name: "Empty", input: "", want: ""},
		{name: "Only markup", input: "<img src=x onerror=alert(1)>", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeString_CapsLength(t *testing.T) {
	long := strings.Repeat("a", 5000)
	if got := SanitizeString(long); len(got) != 4000 {
		t.Errorf("len = %d, want 4000", len(got))
	}
}

func TestValidateAttachmentType(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"image/png", true},
		{"image/jpeg", true},
		{"application/pdf", true},
		{"application/zip", false},
		{"text/html", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateAttachmentType(tt.mime); got != tt.want {
			t.Errorf("ValidateAttachmentType(%q) = %v, want %v", tt.mime, got, tt.want)
		}
	}
}

func TestValidateAttachmentSize(t *testing.T) {
	tests := []struct {
		name string
		size int64
		max  int64
		want bool
	}{
		{name: "Within limit", size: 100, max: 1000, want: true},
		{name: "At limit", size: 1000, max: 1000, want: true},
		{name: "Over limit", size: 1001, max: 1000, want: false},
		{name: "Zero size", size: 0, max: 1000, want: false},
		{name: "Negative size", size: -5, max: 1000, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateAttachmentSize(tt.size, tt.max); got != tt.want {
				t.Errorf("ValidateAttachmentSize(%d, %d) = %v, want %v", tt.size, tt.max, got, tt.want)
			}
		})
	}
}
