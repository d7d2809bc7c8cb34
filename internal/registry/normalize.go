package registry

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeName canonicalizes a free-text creator name into "First Last"
// form for registry lookup. It handles "Last, First" and "LAST,FIRST"
// inversions via a token-count heuristic: exactly two tokens around a
// single comma means an inverted name; anything more complex keeps the
// first two-token pair as the primary creator. Input it cannot interpret
// is returned unchanged (minus stray punctuation) rather than rejected --
// normalization trades recall for never crashing the pipeline.
func NormalizeName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return name
	}

	cleaned := stripPunct(name)

	commas := strings.Count(cleaned, ",")
	if commas == 0 {
		return recaseName(cleaned)
	}

	head, tail, _ := strings.Cut(cleaned, ",")
	last := strings.TrimSpace(head)
	first := strings.TrimSpace(tail)

	if commas > 1 {
		// Multi-creator list: keep the first "Last, First" pair as primary.
		first, _, _ = strings.Cut(first, ",")
		first = strings.TrimSpace(first)
	}

	if last == "" || first == "" {
		return recaseName(strings.TrimSpace(strings.ReplaceAll(cleaned, ",", " ")))
	}

	// Two tokens around a single comma is an inverted name. A longer first
	// segment ("Goodwin, Doris Kearns") still inverts; a multi-token last
	// segment ("Frank Herbert, Brian Herbert") is a creator list, and the
	// segment before the comma is already the primary creator.
	if len(strings.Fields(last)) > 1 {
		return recaseName(last)
	}

	return recaseName(first + " " + last)
}

// stripPunct removes punctuation except the commas the inversion
// heuristic depends on ("CLANCY, Tom." -> "CLANCY, Tom").
func stripPunct(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '.', '\'', '"', ';', ':', '!', '?', '(', ')', '[', ']':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// recaseName title-cases tokens that carry no casing signal (all-upper or
// all-lower) and leaves mixed-case tokens like "McCarthy" untouched, so
// normalizing an already-canonical name is the identity. The caser is
// built per call: cases.Caser is stateful and not safe for concurrent
// use, and normalization runs on every batch worker and HTTP request.
func recaseName(s string) string {
	caser := cases.Title(language.English)
	fields := strings.Fields(s)
	for i, f := range fields {
		if f == strings.ToUpper(f) || f == strings.ToLower(f) {
			fields[i] = caser.String(strings.ToLower(f))
		}
	}
	return strings.Join(fields, " ")
}
