// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package search implements the cross-entity relevance search engine: a
// concurrent fan-out over judges, courts, and jurisdictions with a shared
// deterministic scoring and ranking model.
package search

import "strings"

// Relevance tier scores. Tiers are disjoint: a title is scored by the
// strongest tier it satisfies, and only the weakest tier is fractional.
const (
	scoreExact    = 100.0
	scorePrefix   = 80.0
	scoreContains = 60.0
	scoreWordCap  = 40.0
)

// Relevance scores how well a title matches a query, in [0, 100].
//
// # Description
//
//	Comparison is case-insensitive. The tiers, strongest first:
//
//	  - exact match: 100
//	  - title starts with the query: 80
//	  - title contains the query: 60
//	  - otherwise: the fraction of query words that prefix-match some
//	    title word, scaled to at most 40
//
//	The word tier makes "jane d" still surface "Jane A. Doe" at a score
//	clearly below any substring hit.
//
// # Inputs
//
//   - title: Candidate display title. May be empty.
//   - query: Caller query, already sanitized. May be empty.
//
// # Outputs
//
//   - float64: The relevance score. 0 when either input is empty.
func Relevance(title, query string) float64 {
	t := strings.ToLower(strings.TrimSpace(title))
	q := strings.ToLower(strings.TrimSpace(query))
	if t == "" || q == "" {
		return 0
	}
	if t == q {
		return scoreExact
	}
	if strings.HasPrefix(t, q) {
		return scorePrefix
	}
	if strings.Contains(t, q) {
		return scoreContains
	}

	queryWords := strings.Fields(q)
	titleWords := strings.Fields(t)
	if len(queryWords) == 0 {
		return 0
	}
	matched := 0
	for _, qw := range queryWords {
		for _, tw := range titleWords {
			if strings.HasPrefix(tw, qw) {
				matched++
				break
			}
		}
	}
	return scoreWordCap * float64(matched) / float64(len(queryWords))
}

// startsWith reports whether title begins with query, case-insensitively.
// Used as the primary sort key so prefix hits always outrank everything else
// regardless of raw score ties.
func startsWith(title, query string) bool {
	return strings.HasPrefix(
		strings.ToLower(strings.TrimSpace(title)),
		strings.ToLower(strings.TrimSpace(query)),
	)
}
