// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package search

import (
	"math"
	"testing"
)

func TestRelevance_Tiers(t *testing.T) {
	tests := []struct {
		name  string
		title string
		query string
		want  float64
	}{
		{"exact", "Jane A. Doe", "jane a. doe", 100},
		{"exact same case", "Jane A. Doe", "Jane A. Doe", 100},
		{"prefix", "Jane A. Doe", "jane", 80},
		{"contains", "Jane A. Doe", "doe", 60},
		{"contains mid-word", "Superior Court", "perior", 60},
		{"all words prefix-match", "Jane A. Doe", "do ja", 40},
		{"half the words match", "Jane A. Doe", "jane xavier", 20},
		{"no overlap", "Jane A. Doe", "zzz", 0},
		{"empty query", "Jane A. Doe", "", 0},
		{"empty title", "", "jane", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Relevance(tc.title, tc.query)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Relevance(%q, %q) = %f, want %f", tc.title, tc.query, got, tc.want)
			}
		})
	}
}

func TestRelevance_Bounds(t *testing.T) {
	titles := []string{"Jane A. Doe", "Superior Court of California", "X", ""}
	queries := []string{"jane", "doe jane", "q w e r t y", "", "Superior Court of California"}
	for _, title := range titles {
		for _, query := range queries {
			got := Relevance(title, query)
			if got < 0 || got > 100 {
				t.Errorf("Relevance(%q, %q) = %f out of [0, 100]", title, query, got)
			}
		}
	}
}

func TestStartsWith(t *testing.T) {
	if !startsWith("Jane A. Doe", "jane") {
		t.Error("startsWith must be case-insensitive")
	}
	if startsWith("Jane A. Doe", "doe") {
		t.Error("startsWith must not match mid-string")
	}
}

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  jane   doe  ", "jane doe"},
		{"jane; DROP TABLE--", "jane DROP TABLE--"},
		{"o'brien & sons, jr.", "o'brien & sons, jr."},
		{"<script>x</script>", "script x script"},
		{"%%%", ""},
	}
	for _, tc := range tests {
		if got := sanitizeQuery(tc.in); got != tc.want {
			t.Errorf("sanitizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
