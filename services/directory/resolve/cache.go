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
	"time"

	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/datatypes"
)

// ResolutionCache is the key/value facade the resolver uses to avoid
// repeated backend lookups.
//
// # Description
//
// Keys are normalized identifiers; values are complete resolution outcomes.
// Entries are never explicitly invalidated — staleness is tolerated and
// bounded by the TTL the resolver attaches per confidence tier. Writers
// overwrite unconditionally: every value is an idempotent recomputation of
// the same lookup, so last-writer-wins is safe without locking.
//
// Get failures are treated by the resolver as cache misses; Set failures are
// logged and dropped. A nil ResolutionCache is valid and disables caching —
// the resolver checks for nil and skips both operations.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type ResolutionCache interface {
	// Get retrieves the cached outcome for key. Returns (nil, false, nil)
	// on miss, (nil, false, err) on storage failure.
	Get(ctx context.Context, key string) (*datatypes.ResolutionResult, bool, error)

	// Set stores the outcome under key with the given TTL. Implementations
	// may skip non-positive TTLs.
	Set(ctx context.Context, key string, res *datatypes.ResolutionResult, ttl time.Duration) error
}
