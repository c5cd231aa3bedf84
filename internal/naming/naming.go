// Package naming sanitizes station names into filesystem-safe identifiers
// and deduplicates them within a session.
package naming

import (
	"strconv"
	"strings"
	"unicode"
)

// Placeholder is returned when sanitization leaves nothing usable.
const Placeholder = "unnamed"

// MaxNameLength bounds sanitized names, matching the dataset schema.
const MaxNameLength = 100

// Sanitize strips every character outside word characters, whitespace, and
// hyphens, collapses whitespace runs to single spaces, and bounds the
// result to MaxNameLength without splitting mid-word when possible. Empty
// results fall back to Placeholder.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	name := strings.Join(strings.Fields(b.String()), " ")
	if name == "" {
		return Placeholder
	}
	return truncateAtWord(name, MaxNameLength)
}

func truncateAtWord(name string, limit int) string {
	runes := []rune(name)
	if len(runes) <= limit {
		return name
	}
	cut := string(runes[:limit])
	// Prefer ending on a word boundary; a name made of one giant token
	// keeps the hard cut.
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	cut = strings.TrimRight(cut, " -")
	if cut == "" {
		return Placeholder
	}
	return cut
}

// Allocator tracks names claimed during one session and resolves
// duplicates by appending " 1", " 2", and so on. Methods are not
// goroutine-safe; the session drives allocation from a single flow.
type Allocator struct {
	used map[string]struct{}
}

// NewAllocator creates an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{used: make(map[string]struct{})}
}

// Seed marks names from a prior dataset as taken without returning them.
func (a *Allocator) Seed(names ...string) {
	for _, name := range names {
		if name != "" {
			a.used[name] = struct{}{}
		}
	}
}

// Claim returns candidate if unclaimed, otherwise the first numbered
// variant that is free, and records the result as taken.
func (a *Allocator) Claim(candidate string) string {
	if candidate == "" {
		candidate = Placeholder
	}
	name := candidate
	for counter := 1; ; counter++ {
		if _, taken := a.used[name]; !taken {
			a.used[name] = struct{}{}
			return name
		}
		name = candidate + " " + strconv.Itoa(counter)
	}
}

// Used reports whether a name has already been claimed.
func (a *Allocator) Used(name string) bool {
	_, ok := a.used[name]
	return ok
}

// Len returns the number of claimed names.
func (a *Allocator) Len() int { return len(a.used) }
