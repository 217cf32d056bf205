// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// =============================================================================
// Resolution Results
// =============================================================================

// FoundBy identifies which cascade stage produced a resolution.
type FoundBy string

const (
	// FoundBySlug means the identifier matched a stored slug exactly.
	FoundBySlug FoundBy = "exact_slug"

	// FoundByName means the match was made through the display name (either
	// an exact-equal slug discovered inside a substring query, or a name
	// variation query).
	FoundByName FoundBy = "exact_name"

	// FoundByPartialName means the identifier matched a slug only as a
	// substring; the primary result is a best guess.
	FoundByPartialName FoundBy = "partial_name"

	// FoundByNone means no stage matched. Alternatives may still carry
	// similarity-ranked suggestions.
	FoundByNone FoundBy = "not_found"
)

// MaxAlternatives bounds the suggestion list attached to any resolution.
const MaxAlternatives = 5

// ResolutionResult is the tagged outcome of a lookup cascade.
//
// Invariants:
//   - Judge is nil exactly when FoundBy == FoundByNone.
//   - Alternatives is empty when FoundBy == FoundBySlug.
//   - len(Alternatives) <= MaxAlternatives.
type ResolutionResult struct {
	// Judge is the resolved primary record, nil when nothing matched.
	Judge *Judge `json:"judge,omitempty"`

	// FoundBy tags the cascade stage that produced this result.
	FoundBy FoundBy `json:"found_by"`

	// Alternatives are ordered suggestion candidates for the caller to offer.
	Alternatives []Judge `json:"alternatives,omitempty"`
}

// Resolved reports whether a primary record was found.
func (r *ResolutionResult) Resolved() bool {
	return r != nil && r.Judge != nil
}

// =============================================================================
// Search Results
// =============================================================================

// EntityKind discriminates the three searchable entity categories.
type EntityKind string

const (
	KindJudge        EntityKind = "judge"
	KindCourt        EntityKind = "court"
	KindJurisdiction EntityKind = "jurisdiction"
)

// AllEntityKinds lists every searchable kind in canonical order.
func AllEntityKinds() []EntityKind {
	return []EntityKind{KindJudge, KindCourt, KindJurisdiction}
}

// ParseEntityKind validates a caller-supplied kind string.
func ParseEntityKind(s string) (EntityKind, bool) {
	switch EntityKind(s) {
	case KindJudge, KindCourt, KindJurisdiction:
		return EntityKind(s), true
	}
	return "", false
}

// SearchResult is one relevance-scored hit of any entity kind.
type SearchResult struct {
	// Kind is the entity category this hit belongs to.
	Kind EntityKind `json:"kind"`

	// Title is the primary display line (judge name, court name, ...).
	Title string `json:"title"`

	// Subtitle is the secondary display line (court, region code, ...).
	Subtitle string `json:"subtitle,omitempty"`

	// Description is free text shown under the title.
	Description string `json:"description,omitempty"`

	// TargetRef is the canonical navigation reference, e.g. "/judges/jane-a-doe".
	TargetRef string `json:"target_ref"`

	// Score is the relevance score in [0, 100].
	Score float64 `json:"score"`
}

// SearchResponse carries the merged ranking plus a per-kind breakdown.
type SearchResponse struct {
	// Query is the sanitized query the engine actually ran.
	Query string `json:"query"`

	// Results is the merged, sorted, truncated cross-kind ranking.
	Results []SearchResult `json:"results"`

	// Judges, Courts, and Jurisdictions are the per-kind slices, each
	// independently capped at the request limit.
	Judges        []SearchResult `json:"judges,omitempty"`
	Courts        []SearchResult `json:"courts,omitempty"`
	Jurisdictions []SearchResult `json:"jurisdictions,omitempty"`

	// TookMs is the total elapsed wall time for the search, in milliseconds.
	TookMs int64 `json:"took_ms"`
}

// Total returns the number of merged results.
func (r *SearchResponse) Total() int {
	return len(r.Results)
}
