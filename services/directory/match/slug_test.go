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

import (
	"reflect"
	"testing"
)

func TestMakeSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "Jane A. Doe", "jane-a-doe"},
		{"judge prefix", "Judge Jane Doe", "jane-doe"},
		{"justice prefix", "Justice Ruth Marshall", "ruth-marshall"},
		{"hon dot prefix", "Hon. Jane Doe", "jane-doe"},
		{"the honorable", "The Honorable Jane A. Doe", "jane-a-doe"},
		{"stacked honorifics", "The Honorable Judge Jane Doe", "jane-doe"},
		{"whitespace folding", "  Jane   A.\tDoe ", "jane-a-doe"},
		{"mixed separators", "O'Brien, Patrick", "o-brien-patrick"},
		{"already a slug", "jane-a-doe", "jane-a-doe"},
		{"honorific only", "Justice", "justice"},
		{"empty", "", ""},
		{"punctuation only", "---", ""},
		{"no false prefix strip", "Judgement Day", "judgement-day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MakeSlug(tt.in); got != tt.want {
				t.Errorf("MakeSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMakeSlug_Idempotent(t *testing.T) {
	names := []string{
		"Jane A. Doe",
		"Judge Jane Doe",
		"The Honorable Judge Jane Doe",
		"Justice",
		"O'Brien, Patrick",
		"",
	}
	for _, n := range names {
		once := MakeSlug(n)
		twice := MakeSlug(once)
		if once != twice {
			t.Errorf("MakeSlug not idempotent for %q: first %q, second %q", n, once, twice)
		}
	}
}

func TestMakeSlug_Deterministic(t *testing.T) {
	if MakeSlug("Hon. Jane Doe") != MakeSlug("Hon. Jane Doe") {
		t.Error("MakeSlug must be a pure function of its input")
	}
}

func TestNameVariations(t *testing.T) {
	got := NameVariations("jane-a-doe")
	want := []string{
		"Jane A Doe",
		"Doe Jane A",
		"Hon. Jane A Doe",
		"Judge Jane A Doe",
		"Justice Jane A Doe",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NameVariations(jane-a-doe) = %v, want %v", got, want)
	}
}

func TestNameVariations_SingleToken(t *testing.T) {
	got := NameVariations("doe")
	want := []string{"Doe", "Hon. Doe", "Judge Doe", "Justice Doe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NameVariations(doe) = %v, want %v", got, want)
	}
}

func TestNameVariations_CapAndDeterminism(t *testing.T) {
	for _, slug := range []string{"a-b-c-d-e", "jane-a-doe", "doe"} {
		first := NameVariations(slug)
		second := NameVariations(slug)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("NameVariations(%q) not deterministic", slug)
		}
		if len(first) > MaxNameVariations {
			t.Errorf("NameVariations(%q) returned %d entries, cap is %d", slug, len(first), MaxNameVariations)
		}
		seen := map[string]bool{}
		for _, v := range first {
			if seen[v] {
				t.Errorf("NameVariations(%q) contains duplicate %q", slug, v)
			}
			seen[v] = true
		}
	}
}

func TestNameVariations_Empty(t *testing.T) {
	if got := NameVariations(""); got != nil {
		t.Errorf("NameVariations(\"\") = %v, want nil", got)
	}
	if got := NameVariations("---"); got != nil {
		t.Errorf("NameVariations(\"---\") = %v, want nil", got)
	}
}
