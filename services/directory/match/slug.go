// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package match

import "strings"

// MaxNameVariations caps the ordered guess list produced by NameVariations.
const MaxNameVariations = 6

// honorificPrefixes are the title tokens stripped from the front of a display
// name during slug derivation, longest first so "the honorable" wins over
// "honorable". Matching is case-insensitive and token-bounded.
var honorificPrefixes = []string{
	"the honorable",
	"honorable",
	"justice",
	"judge",
	"hon.",
	"hon",
}

// MakeSlug derives the canonical short identifier from a display name.
//
// # Description
//
//	Lowercases the name, strips leading honorific prefixes ("Judge",
//	"Justice", "Hon.", "The Honorable"), collapses every run of
//	non-alphanumeric characters to a single '-', and trims leading/trailing
//	separators.
//
//	Pure function of the name: same name always yields the same slug, and
//	MakeSlug is idempotent (MakeSlug(MakeSlug(n)) == MakeSlug(n)).
//
// # Inputs
//
//   - name: Display name or previously derived slug. May be empty.
//
// # Outputs
//
//   - string: The derived slug, e.g. "jane-a-doe". Empty for names with no
//     alphanumeric content.
//
// # Thread Safety
//
// Stateless. Safe for concurrent use.
func MakeSlug(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	stripped := stripHonorifics(lower)
	if stripped == "" {
		// A name that consists only of honorific tokens ("Justice") is kept
		// as-is rather than collapsing to an empty slug.
		stripped = lower
	}
	return slugify(stripped)
}

// stripHonorifics removes leading honorific tokens, repeatedly, so compound
// titles like "The Honorable Judge Jane Doe" fully reduce to the name.
func stripHonorifics(lower string) string {
	s := lower
	for {
		trimmed := strings.TrimLeft(s, " -._,")
		matched := false
		for _, prefix := range honorificPrefixes {
			if !strings.HasPrefix(trimmed, prefix) {
				continue
			}
			rest := trimmed[len(prefix):]
			// Token boundary: the prefix must be followed by a separator or
			// end of string, otherwise "judgement" would lose its head.
			if rest != "" && isAlnum(rest[0]) {
				continue
			}
			trimmed = rest
			matched = true
			break
		}
		if !matched {
			return strings.TrimLeft(trimmed, " -._,")
		}
		s = trimmed
		if s == "" {
			return ""
		}
	}
}

// slugify collapses non-alphanumeric runs to single '-' separators.
func slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlnum(c) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteByte(c)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// NameVariations reconstructs plausible display names from a slug.
//
// # Description
//
//	The inverse of MakeSlug, lossy by nature. Produces an ordered,
//	de-duplicated list capped at MaxNameVariations:
//
//	  1. The base reconstructed name ("jane-a-doe" → "Jane A Doe")
//	  2. The last-token-first permutation ("Doe Jane A")
//	  3. Honorific-prefixed variants ("Hon. Jane A Doe", "Judge Jane A Doe",
//	     "Justice Jane A Doe")
//
//	Order matters: the resolution cascade tries variations front to back and
//	stops on the first one that yields results, so the most likely written
//	form comes first.
//
// # Inputs
//
//   - slug: A derived identifier. Empty or separator-only slugs return nil.
//
// # Outputs
//
//   - []string: Ordered, de-duplicated name guesses. Deterministic for a
//     given slug.
//
// # Thread Safety
//
// Stateless. Safe for concurrent use.
func NameVariations(slug string) []string {
	tokens := splitSlug(slug)
	if len(tokens) == 0 {
		return nil
	}

	base := strings.Join(capitalize(tokens), " ")

	candidates := []string{base}
	if len(tokens) > 1 {
		// Surname-first permutation tolerates "doe-jane" style identifiers.
		rotated := append([]string{tokens[len(tokens)-1]}, tokens[:len(tokens)-1]...)
		candidates = append(candidates, strings.Join(capitalize(rotated), " "))
	}
	candidates = append(candidates,
		"Hon. "+base,
		"Judge "+base,
		"Justice "+base,
	)

	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
		if len(out) == MaxNameVariations {
			break
		}
	}
	return out
}

// splitSlug breaks a slug into its non-empty tokens.
func splitSlug(slug string) []string {
	parts := strings.FieldsFunc(strings.ToLower(slug), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return parts
}

// capitalize upper-cases the first letter of each token.
func capitalize(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		if t == "" {
			continue
		}
		if t[0] >= 'a' && t[0] <= 'z' {
			out[i] = string(t[0]-'a'+'A') + t[1:]
		} else {
			out[i] = t
		}
	}
	return out
}
