package naming

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Jazz FM", "Jazz FM"},
		{"punctuation stripped", "Jazz FM!", "Jazz FM"},
		{"slashes and colons", "BBC/Radio: 4", "BBCRadio 4"},
		{"hyphen kept", "Radio X-Tra", "Radio X-Tra"},
		{"whitespace collapsed", "  A \t B\n\nC  ", "A B C"},
		{"unicode letters kept", "Rádio São Paulo", "Rádio São Paulo"},
		{"only punctuation", "!!! ???", Placeholder},
		{"empty", "", Placeholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeNeverEmptyNeverOverLimit(t *testing.T) {
	inputs := []string{
		"",
		"***",
		strings.Repeat("x", 500),
		strings.Repeat("word ", 60),
		strings.Repeat("é", 300),
		"name-" + strings.Repeat("-", 200),
	}
	for _, in := range inputs {
		got := Sanitize(in)
		if got == "" {
			t.Errorf("Sanitize(%q) returned empty string", in)
		}
		if n := utf8.RuneCountInString(got); n > MaxNameLength {
			t.Errorf("Sanitize(%q) returned %d runes, limit %d", in, n, MaxNameLength)
		}
	}
}

func TestSanitizeTruncatesAtWordBoundary(t *testing.T) {
	// 20 words of 9 chars each plus spaces crosses the 100-rune limit
	// mid-word; the cut should land on a whole word.
	in := strings.TrimSpace(strings.Repeat("wordhere+ ", 20))
	got := Sanitize(in)
	if strings.HasSuffix(got, " ") || strings.HasSuffix(got, "-") {
		t.Errorf("truncated name has trailing separator: %q", got)
	}
	for _, word := range strings.Fields(got) {
		if word != "wordhere" {
			t.Errorf("truncation split a word: %q", word)
		}
	}
}

func TestAllocatorClaimSuffixes(t *testing.T) {
	alloc := NewAllocator()
	if got := alloc.Claim("Jazz FM"); got != "Jazz FM" {
		t.Fatalf("first claim = %q", got)
	}
	if got := alloc.Claim("Jazz FM"); got != "Jazz FM 1" {
		t.Fatalf("second claim = %q", got)
	}
	if got := alloc.Claim("Jazz FM"); got != "Jazz FM 2" {
		t.Fatalf("third claim = %q", got)
	}
}

func TestAllocatorPairwiseDistinct(t *testing.T) {
	alloc := NewAllocator()
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		got := alloc.Claim("Station")
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate allocation %q", got)
		}
		seen[got] = struct{}{}
	}
}

func TestAllocatorSeedBlocksPriorNames(t *testing.T) {
	alloc := NewAllocator()
	alloc.Seed("Jazz FM", "Rock FM")
	if got := alloc.Claim("Jazz FM"); got != "Jazz FM 1" {
		t.Fatalf("claim against seeded name = %q", got)
	}
	if !alloc.Used("Rock FM") {
		t.Fatal("seeded name not marked used")
	}
}

func TestAllocatorDeterministic(t *testing.T) {
	run := func() []string {
		alloc := NewAllocator()
		input := []string{"A", "B", "A", "A", "B"}
		out := make([]string, 0, len(input))
		for _, name := range input {
			out = append(out, alloc.Claim(name))
		}
		return out
	}
	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("allocation order not deterministic: %v vs %v", first, second)
		}
	}
}
