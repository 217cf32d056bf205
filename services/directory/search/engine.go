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
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/datatypes"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/storage"
)

var searchTracer = otel.Tracer("directory.search")

// =============================================================================
// Metrics
// =============================================================================

var (
	searchKindTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_search_kind_total",
		Help: "Per-entity-kind search outcomes.",
	}, []string{"kind", "outcome"})

	searchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "directory_search_duration_seconds",
		Help:    "End-to-end search latency.",
		Buckets: prometheus.DefBuckets,
	})
)

// =============================================================================
// Engine
// =============================================================================

// queryCharPattern strips everything outside the safe query subset during
// sanitization. Unlike resolution identifiers, search queries are cleaned
// rather than rejected.
var queryCharPattern = regexp.MustCompile(`[^A-Za-z0-9 .,'&-]+`)

// multiSpace collapses runs of whitespace left behind by stripping.
var multiSpace = regexp.MustCompile(`\s+`)

// maxQueryLen bounds sanitized queries; anything longer is truncated rather
// than rejected, keeping the endpoint forgiving to end users.
const maxQueryLen = 200

// Options configures search limits.
type Options struct {
	// DefaultLimit applies when the caller passes limit <= 0. Default: 20.
	DefaultLimit int

	// HardLimit is the server-side ceiling any requested limit is clamped
	// to. Default: 2000.
	HardLimit int

	// BrowseLimit bounds the top-judges slice of the empty-query browse
	// response. Default: 10.
	BrowseLimit int

	// QueryTimeout bounds each per-kind backend query. Default: 2s.
	QueryTimeout time.Duration
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		DefaultLimit: 20,
		HardLimit:    2000,
		BrowseLimit:  10,
		QueryTimeout: 2 * time.Second,
	}
}

// Engine runs relevance searches across all entity kinds.
//
// # Description
//
//	Each requested kind is searched concurrently through its own store
//	query; a failure in one kind is isolated (that kind returns an empty
//	slice, the failure is logged) so partial results always reach the
//	caller. Per-kind slices are merged under a single deterministic order.
//
// # Thread Safety
//
// Safe for concurrent use. The engine holds no per-call state.
type Engine struct {
	store  storage.RecordStore
	logger *slog.Logger
	opts   Options
}

// NewEngine creates a search Engine.
//
// # Inputs
//
//   - store: Record store collaborator. Must not be nil.
//   - logger: Logger instance. Nil uses slog.Default().
//   - opts: Limits. Zero fields take defaults.
//
// # Outputs
//
//   - *Engine: The constructed engine. Never nil.
func NewEngine(store storage.RecordStore, logger *slog.Logger, opts Options) *Engine {
	if store == nil {
		panic("NewEngine: store must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultOptions()
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = def.DefaultLimit
	}
	if opts.HardLimit <= 0 {
		opts.HardLimit = def.HardLimit
	}
	if opts.BrowseLimit <= 0 {
		opts.BrowseLimit = def.BrowseLimit
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = def.QueryTimeout
	}
	return &Engine{store: store, logger: logger, opts: opts}
}

// Search runs a relevance search across the requested entity kinds.
//
// # Description
//
//	The query is sanitized before use; a query that sanitizes to empty
//	yields the default browse response (top judges by case volume plus
//	pinned jurisdictions) rather than an error or an empty result. The
//	limit is clamped to [1, HardLimit], defaulting when non-positive. An
//	empty kinds set means all kinds.
//
// # Inputs
//
//   - ctx: Context for cancellation/timeout. Must not be nil.
//   - query: Raw caller query.
//   - limit: Requested per-kind and merged-result cap.
//   - kinds: Entity kinds to search. Nil/empty searches every kind.
//
// # Outputs
//
//   - *datatypes.SearchResponse: Merged ranking plus per-kind breakdown.
//     Never nil.
//   - error: Non-nil only when ctx is cancelled before any work completes.
func (e *Engine) Search(ctx context.Context, query string, limit int, kinds []datatypes.EntityKind) (*datatypes.SearchResponse, error) {
	ctx, span := searchTracer.Start(ctx, "search.Engine.Search")
	defer span.End()
	start := time.Now()
	defer func() { searchLatency.Observe(time.Since(start).Seconds()) }()

	q := sanitizeQuery(query)
	limit = e.clampLimit(limit)
	if len(kinds) == 0 {
		kinds = datatypes.AllEntityKinds()
	}
	span.SetAttributes(
		attribute.String("query", q),
		attribute.Int("limit", limit),
		attribute.Int("kinds", len(kinds)),
	)

	if q == "" {
		resp, err := e.Browse(ctx)
		if resp != nil {
			resp.TookMs = time.Since(start).Milliseconds()
		}
		return resp, err
	}

	perKind := make(map[datatypes.EntityKind][]datatypes.SearchResult, len(kinds))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		kind := kind
		g.Go(func() error {
			results, err := e.searchKind(gctx, kind, q, limit)
			if err != nil {
				// Isolate: one kind failing must not fail the others.
				e.logger.Warn("entity kind search failed, returning empty slice",
					slog.String("kind", string(kind)),
					slog.String("query", q),
					slog.String("error", err.Error()),
				)
				searchKindTotal.WithLabelValues(string(kind), "error").Inc()
				results = nil
			} else {
				searchKindTotal.WithLabelValues(string(kind), "ok").Inc()
			}
			mu.Lock()
			perKind[kind] = results
			mu.Unlock()
			return nil
		})
	}
	// Goroutines only return nil; Wait is for completion, not errors.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &datatypes.SearchResponse{
		Query:         q,
		Judges:        capResults(sortResults(perKind[datatypes.KindJudge], q), limit),
		Courts:        capResults(sortResults(perKind[datatypes.KindCourt], q), limit),
		Jurisdictions: capResults(sortResults(perKind[datatypes.KindJurisdiction], q), limit),
	}

	merged := make([]datatypes.SearchResult, 0, len(resp.Judges)+len(resp.Courts)+len(resp.Jurisdictions))
	merged = append(merged, resp.Judges...)
	merged = append(merged, resp.Courts...)
	merged = append(merged, resp.Jurisdictions...)
	resp.Results = capResults(sortResults(merged, q), limit)
	resp.TookMs = time.Since(start).Milliseconds()

	span.SetAttributes(attribute.Int("results", len(resp.Results)))
	return resp, nil
}

// clampLimit normalizes a caller limit into [1, HardLimit].
func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.opts.DefaultLimit
	}
	if limit > e.opts.HardLimit {
		return e.opts.HardLimit
	}
	return limit
}

// searchKind dispatches one entity kind to its backend query and scoring.
func (e *Engine) searchKind(ctx context.Context, kind datatypes.EntityKind, query string, limit int) ([]datatypes.SearchResult, error) {
	qctx, cancel := context.WithTimeout(ctx, e.opts.QueryTimeout)
	defer cancel()

	switch kind {
	case datatypes.KindJudge:
		return e.searchJudges(qctx, query, limit)
	case datatypes.KindCourt:
		courts, err := e.store.CourtsByName(qctx, query, limit)
		if err != nil {
			return nil, err
		}
		out := make([]datatypes.SearchResult, 0, len(courts))
		for i := range courts {
			out = append(out, courtResult(&courts[i], query))
		}
		return out, nil
	case datatypes.KindJurisdiction:
		regions, err := e.store.JurisdictionsByName(qctx, query, limit)
		if err != nil {
			return nil, err
		}
		out := make([]datatypes.SearchResult, 0, len(regions))
		for i := range regions {
			out = append(out, jurisdictionResult(&regions[i], query))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown entity kind %q", kind)
}

// searchJudges is word-aware: a single-token query is a plain name substring
// match; a multi-token query additionally matches the tokens loosely so
// first/last name reordering ("doe jane") still finds "Jane A. Doe".
// Candidates from both queries are de-duplicated by slug.
func (e *Engine) searchJudges(ctx context.Context, query string, limit int) ([]datatypes.SearchResult, error) {
	tokens := strings.Fields(query)

	judges, err := e.store.JudgesByName(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(tokens) > 1 {
		loose, err := e.store.JudgesByNameTokens(ctx, tokens, limit)
		if err != nil {
			// The phrase query already succeeded; degrade to its results.
			e.logger.Warn("loose token query failed, using phrase results only",
				slog.String("query", query),
				slog.String("error", err.Error()),
			)
		} else {
			judges = append(judges, loose...)
		}
	}

	seen := make(map[string]bool, len(judges))
	out := make([]datatypes.SearchResult, 0, len(judges))
	for i := range judges {
		slug := judges[i].EffectiveSlug()
		if seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, judgeResult(&judges[i], query))
	}
	return out, nil
}

// =============================================================================
// Result Construction & Ordering
// =============================================================================

func judgeResult(j *datatypes.Judge, query string) datatypes.SearchResult {
	return datatypes.SearchResult{
		Kind:        datatypes.KindJudge,
		Title:       j.Name,
		Subtitle:    j.CourtName,
		Description: fmt.Sprintf("%d cases", j.TotalCases),
		TargetRef:   "/judges/" + j.EffectiveSlug(),
		Score:       Relevance(j.Name, query),
	}
}

func courtResult(c *datatypes.Court, query string) datatypes.SearchResult {
	return datatypes.SearchResult{
		Kind:        datatypes.KindCourt,
		Title:       c.Name,
		Subtitle:    c.Jurisdiction,
		Description: fmt.Sprintf("%d judges", c.JudgeCount),
		TargetRef:   "/courts/" + c.ID,
		Score:       Relevance(c.Name, query),
	}
}

func jurisdictionResult(r *datatypes.Jurisdiction, query string) datatypes.SearchResult {
	return datatypes.SearchResult{
		Kind:        datatypes.KindJurisdiction,
		Title:       r.Name,
		Subtitle:    r.RegionCode,
		Description: fmt.Sprintf("%d judges", r.JudgeCount),
		TargetRef:   "/jurisdictions/" + r.ID,
		Score:       Relevance(r.Name, query),
	}
}

// sortResults orders results by (starts-with desc, score desc, title asc,
// target ref asc). The trailing target-ref key makes the order total even for
// duplicate titles across kinds.
func sortResults(results []datatypes.SearchResult, query string) []datatypes.SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		si, sj := startsWith(results[i].Title, query), startsWith(results[j].Title, query)
		if si != sj {
			return si
		}
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Title != results[j].Title {
			return results[i].Title < results[j].Title
		}
		return results[i].TargetRef < results[j].TargetRef
	})
	return results
}

func capResults(results []datatypes.SearchResult, limit int) []datatypes.SearchResult {
	if len(results) > limit {
		return results[:limit]
	}
	return results
}

// sanitizeQuery trims, strips characters outside the safe subset, and
// collapses whitespace runs.
func sanitizeQuery(query string) string {
	q := queryCharPattern.ReplaceAllString(query, " ")
	q = multiSpace.ReplaceAllString(q, " ")
	q = strings.TrimSpace(q)
	if len(q) > maxQueryLen {
		q = strings.TrimSpace(q[:maxQueryLen])
	}
	return q
}
