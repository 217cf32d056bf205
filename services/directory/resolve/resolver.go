// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resolve implements the entity resolution engine: a cascade of
// progressively looser matching strategies that turns a caller-supplied
// identifier into a canonical judge record.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/datatypes"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/match"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/storage"
)

var resolverTracer = otel.Tracer("directory.resolve")

// identifierPattern is the allowed character set for raw identifiers.
// Anything outside it is rejected before any I/O.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9 .'_-]+$`)

// Cascade bounds. The fuzzy stage fetches a handful of candidates; the
// suggestion stage keeps its similarity threshold and prefilter tight so a
// 100-record sample stays cheap.
const (
	fuzzyFetchLimit         = 10
	maxSecondaryAlternates  = 3
	suggestionMinSimilarity = 0.6
	suggestionLengthSlack   = 0.3
	maxSuggestions          = 5
)

// Options configures resolver limits and cache tiers.
type Options struct {
	// MaxIdentifierLen bounds raw identifier length. Default: 200.
	MaxIdentifierLen int

	// TTLLong is the cache lifetime for high-confidence matches (exact slug,
	// name-based). Default: 30m.
	TTLLong time.Duration

	// TTLMedium is the cache lifetime for softer partial-slug matches.
	// Default: 15m.
	TTLMedium time.Duration

	// SuggestionSampleSize bounds the candidate scan of the suggestion
	// fallback. The quota is enforced strictly for cost control. Default: 100.
	SuggestionSampleSize int

	// QueryTimeout bounds each individual backend query. Default: 2s.
	QueryTimeout time.Duration
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		MaxIdentifierLen:     200,
		TTLLong:              30 * time.Minute,
		TTLMedium:            15 * time.Minute,
		SuggestionSampleSize: 100,
		QueryTimeout:         2 * time.Second,
	}
}

// Resolver resolves identifiers through the lookup cascade.
//
// # Description
//
//	Stages run strictly in order, each attempted only when the previous
//	produced nothing:
//
//	  1. cache check
//	  2. exact slug match
//	  3. slug substring match
//	  4. name-variation fallback
//	  5. similarity suggestions
//
//	A backend failure in any stage downgrades that stage to "no result" and
//	the cascade proceeds; only a failure of the final suggestion stage
//	degrades the whole lookup to an empty not-found outcome. The resolver
//	never returns an error for "not found".
//
// # Thread Safety
//
// Safe for concurrent use. The resolver holds no per-call state.
type Resolver struct {
	store  storage.RecordStore
	cache  ResolutionCache
	sink   MetricsSink
	logger *slog.Logger
	opts   Options
}

// NewResolver creates a Resolver.
//
// # Inputs
//
//   - store: Record store collaborator. Must not be nil.
//   - cache: Resolution cache. Nil disables caching.
//   - sink: Metrics sink for stage observations. Nil disables them.
//   - logger: Logger instance. Nil uses slog.Default().
//   - opts: Limits and cache tiers. Zero fields take defaults.
//
// # Outputs
//
//   - *Resolver: The constructed resolver. Never nil.
func NewResolver(store storage.RecordStore, cache ResolutionCache, sink MetricsSink, logger *slog.Logger, opts Options) *Resolver {
	if store == nil {
		panic("NewResolver: store must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultOptions()
	if opts.MaxIdentifierLen <= 0 {
		opts.MaxIdentifierLen = def.MaxIdentifierLen
	}
	if opts.TTLLong <= 0 {
		opts.TTLLong = def.TTLLong
	}
	if opts.TTLMedium <= 0 {
		opts.TTLMedium = def.TTLMedium
	}
	if opts.SuggestionSampleSize <= 0 {
		opts.SuggestionSampleSize = def.SuggestionSampleSize
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = def.QueryTimeout
	}
	return &Resolver{
		store:  store,
		cache:  cache,
		sink:   sink,
		logger: logger,
		opts:   opts,
	}
}

// stageResult is one cascade stage's optional outcome plus the cache tier it
// should be stored under.
type stageResult struct {
	res *datatypes.ResolutionResult
	ttl time.Duration
}

// stage is a named cascade step. Returning a nil result means "produced
// nothing"; the cascade moves on.
type stage struct {
	name string
	run  func(ctx context.Context, id string) (*stageResult, error)
}

// Resolve resolves an identifier to a canonical judge record.
//
// # Description
//
//	Validates the raw identifier (fail fast, no backend call on malformed
//	input), normalizes it to slug form, then walks the cascade. The first
//	stage that produces a result short-circuits the rest; its outcome is
//	cached under the stage's TTL tier and returned.
//
// # Inputs
//
//   - ctx: Context for cancellation/timeout. Must not be nil.
//   - identifier: Raw caller-supplied identifier, e.g. "jane-a-doe" or
//     "Judge Jane Doe".
//
// # Outputs
//
//   - *datatypes.ResolutionResult: The tagged outcome. Non-nil whenever
//     error is nil; FoundBy == FoundByNone when nothing matched.
//   - error: Non-nil only for invalid input (ErrCodeInvalidInput).
//
// # Thread Safety
//
// Safe for concurrent use.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*datatypes.ResolutionResult, error) {
	ctx, span := resolverTracer.Start(ctx, "resolve.Resolver.Resolve")
	defer span.End()

	id, err := r.normalizeIdentifier(identifier)
	if err != nil {
		span.SetAttributes(attribute.Bool("invalid_input", true))
		return nil, err
	}
	span.SetAttributes(attribute.String("identifier", id))

	// Stage 1: cache. A hit is returned as-is regardless of which stage
	// originally produced it.
	if cached := r.cacheLookup(ctx, id); cached != nil {
		span.SetAttributes(attribute.String("found_by", string(cached.FoundBy)), attribute.Bool("cache_hit", true))
		return cached, nil
	}

	stages := []stage{
		{name: "exact_slug", run: r.stageExactSlug},
		{name: "slug_substring", run: r.stageSlugSubstring},
		{name: "name_variations", run: r.stageNameVariations},
	}

	for _, st := range stages {
		start := time.Now()
		out, err := st.run(ctx, id)
		elapsed := time.Since(start)

		switch {
		case err != nil:
			// Downgrade to "stage produced nothing" and continue.
			r.logger.Warn("resolution stage failed, continuing cascade",
				slog.String("stage", st.name),
				slog.String("identifier", id),
				slog.String("error", err.Error()),
			)
			emitObservation(r.sink, "resolve_stage", elapsed, map[string]string{"stage": st.name, "outcome": "error"})
		case out != nil:
			emitObservation(r.sink, "resolve_stage", elapsed, map[string]string{"stage": st.name, "outcome": "hit"})
			r.cacheStore(ctx, id, out.res, out.ttl)
			span.SetAttributes(attribute.String("found_by", string(out.res.FoundBy)), attribute.String("stage", st.name))
			return out.res, nil
		default:
			emitObservation(r.sink, "resolve_stage", elapsed, map[string]string{"stage": st.name, "outcome": "miss"})
		}
	}

	// Stage 5: similarity suggestions. Not cached — a transient backend
	// hiccup must not be remembered as a permanent miss.
	start := time.Now()
	res := r.stageSuggestions(ctx, id)
	emitObservation(r.sink, "resolve_stage", time.Since(start), map[string]string{
		"stage":   "suggestions",
		"outcome": suggestionOutcome(res),
	})
	span.SetAttributes(attribute.String("found_by", string(res.FoundBy)), attribute.Int("suggestions", len(res.Alternatives)))
	return res, nil
}

// normalizeIdentifier validates the raw input and reduces it to slug form.
func (r *Resolver) normalizeIdentifier(identifier string) (string, error) {
	if identifier == "" {
		return "", NewError(ErrCodeInvalidInput, "identifier must not be empty", false)
	}
	if len(identifier) > r.opts.MaxIdentifierLen {
		return "", NewError(ErrCodeInvalidInput,
			fmt.Sprintf("identifier exceeds %d characters", r.opts.MaxIdentifierLen), false)
	}
	if !identifierPattern.MatchString(identifier) {
		return "", NewError(ErrCodeInvalidInput, "identifier contains disallowed characters", false)
	}
	id := match.MakeSlug(identifier)
	if id == "" {
		return "", NewError(ErrCodeInvalidInput, "identifier has no resolvable content", false)
	}
	return id, nil
}

// cacheLookup returns a cached outcome, treating any cache failure as a miss.
func (r *Resolver) cacheLookup(ctx context.Context, id string) *datatypes.ResolutionResult {
	if r.cache == nil {
		return nil
	}
	qctx, cancel := context.WithTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	res, hit, err := r.cache.Get(qctx, id)
	if err != nil {
		r.logger.Warn("resolution cache read failed, treating as miss",
			slog.String("identifier", id),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if !hit {
		return nil
	}
	return res
}

// cacheStore writes an outcome back, best effort.
func (r *Resolver) cacheStore(ctx context.Context, id string, res *datatypes.ResolutionResult, ttl time.Duration) {
	if r.cache == nil || res == nil || ttl <= 0 {
		return
	}
	qctx, cancel := context.WithTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	if err := r.cache.Set(qctx, id, res, ttl); err != nil {
		r.logger.Warn("resolution cache write failed",
			slog.String("identifier", id),
			slog.String("error", err.Error()),
		)
	}
}

// stageExactSlug matches the identifier against stored slugs exactly.
func (r *Resolver) stageExactSlug(ctx context.Context, id string) (*stageResult, error) {
	qctx, cancel := context.WithTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	j, err := r.store.JudgeBySlug(qctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stageResult{
		res: &datatypes.ResolutionResult{Judge: j, FoundBy: datatypes.FoundBySlug},
		ttl: r.opts.TTLLong,
	}, nil
}

// stageSlugSubstring matches the identifier as a substring of stored slugs.
//
// If one of the candidates carries a slug exactly equal to the input — this
// happens for records whose slug was backfilled after ingest — the match is
// promoted to exact-name confidence. Otherwise the first candidate becomes a
// partial-name best guess with the next few as alternatives.
func (r *Resolver) stageSlugSubstring(ctx context.Context, id string) (*stageResult, error) {
	qctx, cancel := context.WithTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	candidates, err := r.store.JudgesBySlugSubstring(qctx, id, fuzzyFetchLimit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	for i := range candidates {
		if candidates[i].EffectiveSlug() == id {
			primary := candidates[i]
			return &stageResult{
				res: &datatypes.ResolutionResult{
					Judge:        &primary,
					FoundBy:      datatypes.FoundByName,
					Alternatives: alternatesExcluding(candidates, i, maxSecondaryAlternates),
				},
				ttl: r.opts.TTLLong,
			}, nil
		}
	}

	primary := candidates[0]
	return &stageResult{
		res: &datatypes.ResolutionResult{
			Judge:        &primary,
			FoundBy:      datatypes.FoundByPartialName,
			Alternatives: alternatesExcluding(candidates, 0, maxSecondaryAlternates),
		},
		ttl: r.opts.TTLMedium,
	}, nil
}

// stageNameVariations reconstructs name guesses from the identifier and
// queries them in order, stopping at the first variation with results.
// Within that result set, a candidate whose derived slug equals the input
// wins; otherwise the store's first candidate does.
func (r *Resolver) stageNameVariations(ctx context.Context, id string) (*stageResult, error) {
	var lastErr error
	for _, variation := range match.NameVariations(id) {
		qctx, cancel := context.WithTimeout(ctx, r.opts.QueryTimeout)
		candidates, err := r.store.JudgesByName(qctx, variation, fuzzyFetchLimit)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		if len(candidates) == 0 {
			continue
		}

		primaryIdx := 0
		for i := range candidates {
			if match.MakeSlug(candidates[i].Name) == id {
				primaryIdx = i
				break
			}
		}
		primary := candidates[primaryIdx]
		return &stageResult{
			res: &datatypes.ResolutionResult{
				Judge:        &primary,
				FoundBy:      datatypes.FoundByName,
				Alternatives: alternatesExcluding(candidates, primaryIdx, maxSecondaryAlternates),
			},
			ttl: r.opts.TTLLong,
		}, nil
	}
	return nil, lastErr
}

// stageSuggestions is the terminal fallback: a bounded similarity scan over
// a sample of records. Always returns a not-found outcome; the only question
// is whether it carries suggestions.
func (r *Resolver) stageSuggestions(ctx context.Context, id string) *datatypes.ResolutionResult {
	qctx, cancel := context.WithTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	sample, err := r.store.SampleJudges(qctx, r.opts.SuggestionSampleSize)
	if err != nil {
		// Final stage, nothing left to fall through to: degrade to an empty
		// not-found outcome rather than raising.
		r.logger.Warn("suggestion sampling failed, returning empty not-found",
			slog.String("identifier", id),
			slog.String("error", err.Error()),
		)
		return &datatypes.ResolutionResult{FoundBy: datatypes.FoundByNone}
	}

	type scored struct {
		judge datatypes.Judge
		slug  string
		score float64
	}
	var kept []scored
	for _, j := range sample {
		slug := j.EffectiveSlug()
		// Cheap length prefilter before paying for the DP table.
		diff := len(slug) - len(id)
		if diff < 0 {
			diff = -diff
		}
		if float64(diff) > suggestionLengthSlack*float64(len(id)) {
			continue
		}
		score := match.Similarity(id, slug)
		if score > suggestionMinSimilarity {
			kept = append(kept, scored{judge: j, slug: slug, score: score})
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		return kept[i].slug < kept[j].slug
	})
	if len(kept) > maxSuggestions {
		kept = kept[:maxSuggestions]
	}

	alternatives := make([]datatypes.Judge, len(kept))
	for i, k := range kept {
		alternatives[i] = k.judge
	}
	return &datatypes.ResolutionResult{
		FoundBy:      datatypes.FoundByNone,
		Alternatives: alternatives,
	}
}

// alternatesExcluding copies up to max candidates, skipping index skip.
func alternatesExcluding(candidates []datatypes.Judge, skip, max int) []datatypes.Judge {
	var out []datatypes.Judge
	for i := range candidates {
		if i == skip {
			continue
		}
		out = append(out, candidates[i])
		if len(out) == max {
			break
		}
	}
	return out
}

// suggestionOutcome labels the terminal stage for metrics.
func suggestionOutcome(res *datatypes.ResolutionResult) string {
	if len(res.Alternatives) > 0 {
		return "hit"
	}
	return "miss"
}
