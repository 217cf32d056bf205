// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package match provides the pure string-matching primitives shared by the
// resolution and search engines: normalized edit-distance similarity, slug
// derivation, and name-variation expansion.
//
// Everything in this package is stateless, CPU-bound, and safe for
// concurrent use.
package match

// Similarity computes normalized edit-distance similarity between two strings.
//
// # Description
//
//	Returns (maxLen - levenshtein(a, b)) / maxLen, a value in [0.0, 1.0]
//	where 1.0 means the strings are identical. Two empty strings are
//	identical by definition and score 1.0.
//
//	Symmetric: Similarity(a, b) == Similarity(b, a) for all a, b.
//
// # Inputs
//
//   - a, b: Arbitrary finite strings. Compared byte-wise; callers that want
//     case-insensitive similarity lowercase first.
//
// # Outputs
//
//   - float64: Similarity score in [0.0, 1.0].
//
// # Thread Safety
//
// Stateless. Safe for concurrent use.
func Similarity(a, b string) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	return float64(maxLen-LevenshteinDistance(a, b)) / float64(maxLen)
}

// LevenshteinDistance calculates the classic edit distance between two
// strings with unit cost for substitution, insertion, and deletion.
//
// Uses two rolling rows instead of the full O(|a|·|b|) table, keeping memory
// at O(|b|) while preserving the DP recurrence.
func LevenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
