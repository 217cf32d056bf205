// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolve

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/datatypes"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/match"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/storage"
)

// =============================================================================
// Mocks
// =============================================================================

// mockStore implements storage.RecordStore with per-method hooks. Unset
// hooks behave as an empty backend.
type mockStore struct {
	judgeBySlugFn     func(ctx context.Context, slug string) (*datatypes.Judge, error)
	bySlugSubstringFn func(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error)
	byNameFn          func(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error)
	sampleFn          func(ctx context.Context, limit int) ([]datatypes.Judge, error)

	calls []string
}

func (m *mockStore) record(name string) { m.calls = append(m.calls, name) }

func (m *mockStore) JudgeBySlug(ctx context.Context, slug string) (*datatypes.Judge, error) {
	m.record("JudgeBySlug")
	if m.judgeBySlugFn != nil {
		return m.judgeBySlugFn(ctx, slug)
	}
	return nil, storage.ErrNotFound
}

func (m *mockStore) JudgesBySlugSubstring(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error) {
	m.record("JudgesBySlugSubstring")
	if m.bySlugSubstringFn != nil {
		return m.bySlugSubstringFn(ctx, sub, limit)
	}
	return nil, nil
}

func (m *mockStore) JudgesByName(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error) {
	m.record("JudgesByName")
	if m.byNameFn != nil {
		return m.byNameFn(ctx, sub, limit)
	}
	return nil, nil
}

func (m *mockStore) JudgesByNameTokens(ctx context.Context, tokens []string, limit int) ([]datatypes.Judge, error) {
	m.record("JudgesByNameTokens")
	return nil, nil
}

func (m *mockStore) SampleJudges(ctx context.Context, limit int) ([]datatypes.Judge, error) {
	m.record("SampleJudges")
	if m.sampleFn != nil {
		return m.sampleFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockStore) TopJudgesByCaseVolume(ctx context.Context, limit int) ([]datatypes.Judge, error) {
	m.record("TopJudgesByCaseVolume")
	return nil, nil
}

func (m *mockStore) CourtsByName(ctx context.Context, sub string, limit int) ([]datatypes.Court, error) {
	return nil, nil
}

func (m *mockStore) JurisdictionsByName(ctx context.Context, sub string, limit int) ([]datatypes.Jurisdiction, error) {
	return nil, nil
}

// fakeCache is an in-memory ResolutionCache that records the TTL of every
// write so tests can assert on cache tiers.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*datatypes.ResolutionResult
	ttls    map[string]time.Duration
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string]*datatypes.ResolutionResult),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *fakeCache) Get(ctx context.Context, key string) (*datatypes.ResolutionResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	res, ok := c.entries[key]
	return res, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, res *datatypes.ResolutionResult, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = res
	c.ttls[key] = ttl
	return nil
}

// panickingSink always panics; resolutions must survive it.
type panickingSink struct{}

func (panickingSink) Record(string, time.Duration, map[string]string) {
	panic("sink exploded")
}

func judge(name, slug string, cases int) datatypes.Judge {
	return datatypes.Judge{ID: "id-" + slug, Name: name, Slug: slug, TotalCases: cases}
}

func newTestResolver(store *mockStore, cache ResolutionCache) *Resolver {
	return NewResolver(store, cache, PromSink{}, nil, Options{})
}

// =============================================================================
// Validation
// =============================================================================

func TestResolve_RejectsInvalidInput(t *testing.T) {
	store := &mockStore{}
	r := newTestResolver(store, nil)

	inputs := []string{
		"",
		strings.Repeat("a", 201),
		"jane/doe",
		"jane;doe--",
		"<script>",
	}
	for _, in := range inputs {
		_, err := r.Resolve(context.Background(), in)
		if err == nil {
			t.Errorf("Resolve(%q) expected validation error", in)
			continue
		}
		if !IsInvalidInput(err) {
			t.Errorf("Resolve(%q) error = %v, want invalid-input", in, err)
		}
	}
	if len(store.calls) != 0 {
		t.Errorf("malformed input must be rejected before any backend call, got %v", store.calls)
	}
}

// =============================================================================
// Cascade Stages
// =============================================================================

func TestResolve_CacheHitShortCircuits(t *testing.T) {
	store := &mockStore{}
	cache := newFakeCache()
	cached := &datatypes.ResolutionResult{
		Judge:   &datatypes.Judge{ID: "1", Name: "Jane A. Doe", Slug: "jane-a-doe"},
		FoundBy: datatypes.FoundByPartialName,
	}
	cache.entries["jane-a-doe"] = cached

	r := newTestResolver(store, cache)
	got, err := r.Resolve(context.Background(), "jane-a-doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FoundBy != datatypes.FoundByPartialName {
		t.Errorf("cache hit must be returned as-is, got foundBy %q", got.FoundBy)
	}
	if len(store.calls) != 0 {
		t.Errorf("cache hit must not reach the backend, got calls %v", store.calls)
	}
}

func TestResolve_ExactSlug(t *testing.T) {
	j := judge("Jane Doe", "jane-doe", 50)
	store := &mockStore{
		judgeBySlugFn: func(ctx context.Context, slug string) (*datatypes.Judge, error) {
			if slug == "jane-doe" {
				return &j, nil
			}
			return nil, storage.ErrNotFound
		},
		// Fuzzy and name matches would also apply; they must never run.
		bySlugSubstringFn: func(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error) {
			t.Error("slug substring stage must not run after an exact match")
			return nil, nil
		},
	}
	cache := newFakeCache()

	r := newTestResolver(store, cache)
	got, err := r.Resolve(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FoundBy != datatypes.FoundBySlug {
		t.Errorf("foundBy = %q, want %q", got.FoundBy, datatypes.FoundBySlug)
	}
	if len(got.Alternatives) != 0 {
		t.Errorf("exact slug match must carry no alternatives, got %d", len(got.Alternatives))
	}
	if ttl := cache.ttls["jane-doe"]; ttl != 30*time.Minute {
		t.Errorf("exact match TTL = %v, want 30m", ttl)
	}
}

func TestResolve_NormalizesDisplayNameInput(t *testing.T) {
	j := judge("Jane Doe", "jane-doe", 50)
	store := &mockStore{
		judgeBySlugFn: func(ctx context.Context, slug string) (*datatypes.Judge, error) {
			if slug == "jane-doe" {
				return &j, nil
			}
			return nil, storage.ErrNotFound
		},
	}
	r := newTestResolver(store, nil)

	got, err := r.Resolve(context.Background(), "Judge Jane Doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Resolved() || got.FoundBy != datatypes.FoundBySlug {
		t.Errorf("display-name input should normalize to the slug, got %+v", got)
	}
}

func TestResolve_PartialSlugMatch(t *testing.T) {
	janeA := judge("Jane A. Doe", "jane-a-doe", 120)
	janeB := judge("Jane B. Doe", "jane-b-doe", 40)
	store := &mockStore{
		bySlugSubstringFn: func(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error) {
			if sub != "jane-doe" {
				t.Errorf("substring query = %q, want jane-doe", sub)
			}
			if limit != fuzzyFetchLimit {
				t.Errorf("substring limit = %d, want %d", limit, fuzzyFetchLimit)
			}
			return []datatypes.Judge{janeA, janeB}, nil
		},
	}
	cache := newFakeCache()

	r := newTestResolver(store, cache)
	got, err := r.Resolve(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FoundBy != datatypes.FoundByPartialName {
		t.Errorf("foundBy = %q, want %q", got.FoundBy, datatypes.FoundByPartialName)
	}
	if got.Judge.Slug != "jane-a-doe" {
		t.Errorf("primary = %q, want the store's first candidate jane-a-doe", got.Judge.Slug)
	}
	if len(got.Alternatives) != 1 || got.Alternatives[0].Slug != "jane-b-doe" {
		t.Errorf("alternatives = %+v, want [jane-b-doe]", got.Alternatives)
	}
	if ttl := cache.ttls["jane-doe"]; ttl != 15*time.Minute {
		t.Errorf("partial match TTL = %v, want 15m", ttl)
	}
}

func TestResolve_SubstringPromotedToExactName(t *testing.T) {
	exact := judge("Jane Doe", "jane-doe", 10)
	other := judge("Jane Doeson", "jane-doeson", 5)
	store := &mockStore{
		bySlugSubstringFn: func(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error) {
			// Store ordering puts the longer slug first; the exact-equal
			// candidate must still win.
			return []datatypes.Judge{other, exact}, nil
		},
	}
	cache := newFakeCache()

	r := newTestResolver(store, cache)
	got, err := r.Resolve(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FoundBy != datatypes.FoundByName {
		t.Errorf("foundBy = %q, want %q", got.FoundBy, datatypes.FoundByName)
	}
	if got.Judge.Slug != "jane-doe" {
		t.Errorf("primary = %q, want jane-doe", got.Judge.Slug)
	}
	if ttl := cache.ttls["jane-doe"]; ttl != 30*time.Minute {
		t.Errorf("promoted match TTL = %v, want 30m", ttl)
	}
}

func TestResolve_NameVariationFallback(t *testing.T) {
	target := judge("Jane Doe", "", 10) // no stored slug; derived from name
	noise := judge("Mary Jane Doe", "mary-jane-doe", 5)
	var queried []string
	store := &mockStore{
		byNameFn: func(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error) {
			queried = append(queried, sub)
			if sub == "Jane Doe" {
				return []datatypes.Judge{noise, target}, nil
			}
			return nil, nil
		},
	}

	r := newTestResolver(store, newFakeCache())
	got, err := r.Resolve(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FoundBy != datatypes.FoundByName {
		t.Errorf("foundBy = %q, want %q", got.FoundBy, datatypes.FoundByName)
	}
	// The candidate whose derived slug equals the identifier is preferred
	// over the store's first candidate.
	if got.Judge.Name != "Jane Doe" {
		t.Errorf("primary = %q, want Jane Doe", got.Judge.Name)
	}
	if len(got.Alternatives) != 1 || got.Alternatives[0].Name != "Mary Jane Doe" {
		t.Errorf("alternatives = %+v, want [Mary Jane Doe]", got.Alternatives)
	}
	if len(queried) == 0 || queried[0] != "Jane Doe" {
		t.Errorf("variations must be tried in order, got %v", queried)
	}
}

func TestResolve_SuggestionFallback(t *testing.T) {
	store := &mockStore{
		sampleFn: func(ctx context.Context, limit int) ([]datatypes.Judge, error) {
			if limit != 100 {
				t.Errorf("sample limit = %d, want 100", limit)
			}
			return []datatypes.Judge{
				judge("Jane A. Doe", "jane-a-doe", 1),   // close
				judge("Jane B. Doe", "jane-b-doe", 1),   // close
				judge("Jane Dow", "jane-dow", 1),        // close
				judge("Zachary Quill", "zachary-quill", 1), // far
				judge("J", "j", 1),                      // filtered by length
			}, nil
		},
	}
	cache := newFakeCache()

	r := newTestResolver(store, cache)
	got, err := r.Resolve(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FoundBy != datatypes.FoundByNone {
		t.Errorf("foundBy = %q, want %q", got.FoundBy, datatypes.FoundByNone)
	}
	if got.Judge != nil {
		t.Error("suggestion fallback must not set a primary judge")
	}
	if len(got.Alternatives) == 0 || len(got.Alternatives) > 5 {
		t.Fatalf("suggestions = %d, want 1..5", len(got.Alternatives))
	}
	for _, alt := range got.Alternatives {
		if s := match.Similarity("jane-doe", alt.EffectiveSlug()); s <= 0.6 {
			t.Errorf("suggestion %q similarity %f <= 0.6", alt.Slug, s)
		}
	}
	if len(cache.entries) != 0 {
		t.Error("pure not-found outcomes must not be cached")
	}
}

func TestResolve_SuggestionsSortedAndCapped(t *testing.T) {
	// Ten near-identical slugs; only the five most similar survive, ordered
	// by similarity descending with slug as the deterministic tiebreak.
	var sample []datatypes.Judge
	for i := 0; i < 10; i++ {
		slug := fmt.Sprintf("jane-do%c", 'a'+byte(i))
		sample = append(sample, judge("Jane "+slug, slug, 1))
	}
	store := &mockStore{
		sampleFn: func(ctx context.Context, limit int) ([]datatypes.Judge, error) {
			return sample, nil
		},
	}

	r := newTestResolver(store, nil)
	got, err := r.Resolve(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Alternatives) != 5 {
		t.Fatalf("suggestions = %d, want exactly 5", len(got.Alternatives))
	}
	for i := 1; i < len(got.Alternatives); i++ {
		prev := match.Similarity("jane-doe", got.Alternatives[i-1].EffectiveSlug())
		curr := match.Similarity("jane-doe", got.Alternatives[i].EffectiveSlug())
		if curr > prev {
			t.Errorf("suggestions not sorted by similarity: %f before %f", prev, curr)
		}
		if curr == prev && got.Alternatives[i-1].Slug > got.Alternatives[i].Slug {
			t.Errorf("equal-similarity suggestions must tiebreak by slug ascending")
		}
	}
}

// =============================================================================
// Degraded Operation
// =============================================================================

func TestResolve_StageFailureContinuesCascade(t *testing.T) {
	janeA := judge("Jane A. Doe", "jane-a-doe", 120)
	store := &mockStore{
		judgeBySlugFn: func(ctx context.Context, slug string) (*datatypes.Judge, error) {
			return nil, fmt.Errorf("%w: connection reset", storage.ErrUnavailable)
		},
		bySlugSubstringFn: func(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error) {
			return []datatypes.Judge{janeA}, nil
		},
	}

	r := newTestResolver(store, nil)
	got, err := r.Resolve(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("stage failure must not abort the cascade: %v", err)
	}
	if !got.Resolved() || got.Judge.Slug != "jane-a-doe" {
		t.Errorf("cascade should recover via the next stage, got %+v", got)
	}
}

func TestResolve_AllStagesFail_DegradesToNotFound(t *testing.T) {
	boom := fmt.Errorf("%w: backend down", storage.ErrUnavailable)
	store := &mockStore{
		judgeBySlugFn: func(ctx context.Context, slug string) (*datatypes.Judge, error) {
			return nil, boom
		},
		bySlugSubstringFn: func(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error) {
			return nil, boom
		},
		byNameFn: func(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error) {
			return nil, boom
		},
		sampleFn: func(ctx context.Context, limit int) ([]datatypes.Judge, error) {
			return nil, boom
		},
	}

	r := newTestResolver(store, nil)
	got, err := r.Resolve(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("total backend failure must degrade, not raise: %v", err)
	}
	if got.FoundBy != datatypes.FoundByNone || len(got.Alternatives) != 0 {
		t.Errorf("want empty not-found outcome, got %+v", got)
	}
}

func TestResolve_CacheFailureIsAMiss(t *testing.T) {
	j := judge("Jane Doe", "jane-doe", 50)
	store := &mockStore{
		judgeBySlugFn: func(ctx context.Context, slug string) (*datatypes.Judge, error) {
			return &j, nil
		},
	}
	cache := newFakeCache()
	cache.getErr = fmt.Errorf("cache store offline")

	r := newTestResolver(store, cache)
	got, err := r.Resolve(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("cache failure must not fail resolution: %v", err)
	}
	if got.FoundBy != datatypes.FoundBySlug {
		t.Errorf("foundBy = %q, want exact slug via backend", got.FoundBy)
	}
}

func TestResolve_SinkPanicIsSwallowed(t *testing.T) {
	j := judge("Jane Doe", "jane-doe", 50)
	store := &mockStore{
		judgeBySlugFn: func(ctx context.Context, slug string) (*datatypes.Judge, error) {
			return &j, nil
		},
	}

	r := NewResolver(store, nil, panickingSink{}, nil, Options{})
	got, err := r.Resolve(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("a panicking metrics sink must never fail resolution: %v", err)
	}
	if !got.Resolved() {
		t.Error("expected resolved result despite sink panic")
	}
}
