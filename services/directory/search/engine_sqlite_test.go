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
	"context"
	"path/filepath"
	"testing"

	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/datatypes"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/storage/sqlite"
)

// openSeededStore builds a real SQLite store so the word-aware judge path is
// exercised end-to-end instead of through stubs.
func openSeededStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "directory.db"), nil)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	judges := []datatypes.Judge{
		{Name: "Jane A. Doe", Slug: "jane-a-doe", CourtName: "Superior Court", Jurisdiction: "CA", TotalCases: 120},
		{Name: "Jane B. Doe", Slug: "jane-b-doe", CourtName: "Superior Court", Jurisdiction: "CA", TotalCases: 40},
		{Name: "Ruth Marshall", Slug: "ruth-marshall", CourtName: "Kings County Court", Jurisdiction: "NY", TotalCases: 75},
	}
	for _, j := range judges {
		if _, err := s.InsertJudge(ctx, j); err != nil {
			t.Fatalf("seeding judge %q: %v", j.Name, err)
		}
	}
	return s
}

func TestSearch_ReorderedNameAgainstRealStore(t *testing.T) {
	e := NewEngine(openSeededStore(t), nil, Options{})

	// Last name first: no phrase match exists, only the token path can find
	// the Does.
	resp, err := e.Search(context.Background(), "doe jane", 10, []datatypes.EntityKind{datatypes.KindJudge})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Judges) != 2 {
		t.Fatalf("reordered query found %d judges, want both Jane Does", len(resp.Judges))
	}
	if resp.Judges[0].Title != "Jane A. Doe" || resp.Judges[1].Title != "Jane B. Doe" {
		t.Errorf("judges = [%s, %s], want alphabetical Jane A. Doe then Jane B. Doe",
			resp.Judges[0].Title, resp.Judges[1].Title)
	}
	for _, r := range resp.Judges {
		if r.Title == "Ruth Marshall" {
			t.Error("token match must require every token; Ruth Marshall matches neither")
		}
	}
}

func TestSearch_PhraseOrderStillMatchesRealStore(t *testing.T) {
	e := NewEngine(openSeededStore(t), nil, Options{})

	resp, err := e.Search(context.Background(), "jane doe", 10, []datatypes.EntityKind{datatypes.KindJudge})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Judges) != 2 {
		t.Fatalf("natural-order query found %d judges, want 2", len(resp.Judges))
	}
}
