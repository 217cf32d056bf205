// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package storage defines the record-store contract the directory engines
// depend on, plus the error signals that let callers distinguish "no rows"
// from a transient backend failure.
package storage

import (
	"context"
	"errors"

	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/datatypes"
)

var (
	// ErrNotFound reports that a single-record lookup matched no row.
	// A normal outcome, never a backend failure.
	ErrNotFound = errors.New("storage: record not found")

	// ErrUnavailable reports a transient backend failure (connection lost,
	// query timeout). Engines treat it as "stage produced nothing" and
	// continue degraded.
	ErrUnavailable = errors.New("storage: backend unavailable")
)

// RecordStore is the read-side contract over the directory's canonical
// records.
//
// # Description
//
// Every method is a suspension point: implementations perform I/O and must
// honor context cancellation. Multi-row methods return an empty slice (not
// an error) when nothing matches; single-row methods return ErrNotFound.
// Transient failures are wrapped with ErrUnavailable.
//
// Substring arguments are plain text, not patterns — implementations escape
// any wildcard characters of their query language.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type RecordStore interface {
	// JudgeBySlug returns the judge whose stored slug equals slug exactly.
	JudgeBySlug(ctx context.Context, slug string) (*datatypes.Judge, error)

	// JudgesBySlugSubstring returns judges whose stored slug contains sub,
	// bounded by limit, ordered by slug ascending for determinism.
	JudgesBySlugSubstring(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error)

	// JudgesByName returns judges whose display name contains sub
	// (case-insensitive), bounded by limit, ordered by name ascending.
	JudgesByName(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error)

	// JudgesByNameTokens returns judges whose display name contains every
	// token, independent of token order, so reordered first/last names
	// still match. Bounded by limit, ordered by name ascending.
	JudgesByNameTokens(ctx context.Context, tokens []string, limit int) ([]datatypes.Judge, error)

	// SampleJudges returns a bounded sample of judges for similarity
	// suggestion scans. Deterministic order (slug ascending).
	SampleJudges(ctx context.Context, limit int) ([]datatypes.Judge, error)

	// TopJudgesByCaseVolume returns judges ordered by total case volume
	// descending (name ascending on ties), bounded by limit.
	TopJudgesByCaseVolume(ctx context.Context, limit int) ([]datatypes.Judge, error)

	// CourtsByName returns courts whose name contains sub, bounded by limit,
	// ordered by name ascending.
	CourtsByName(ctx context.Context, sub string, limit int) ([]datatypes.Court, error)

	// JurisdictionsByName returns jurisdictions whose name or region code
	// contains sub, bounded by limit, ordered by name ascending.
	JurisdictionsByName(ctx context.Context, sub string, limit int) ([]datatypes.Jurisdiction, error)
}
