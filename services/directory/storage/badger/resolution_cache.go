// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package badger

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"time"

	dgbadger "github.com/dgraph-io/badger/v4"

	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/datatypes"
)

// resolutionKeyPrefix versions the storage layout so a future format change
// cannot collide with stale entries.
const resolutionKeyPrefix = "directory/resolve/v1/"

// errCacheMiss distinguishes "key not found" (a normal miss) from a genuine
// storage error inside the read transaction.
var errCacheMiss = errors.New("cache miss")

// ResolutionCache persists resolution outcomes keyed by normalized
// identifier, with per-entry TTL enforced by Badger's native GC. Expired
// keys return ErrKeyNotFound, which this store reports as a miss.
//
// Values are gob-encoded datatypes.ResolutionResult — compact, fast, and
// idempotent recomputations of the same lookup, so last-writer-wins
// overwrites are safe without read-modify-write locking.
//
// # Thread Safety
//
// Safe for concurrent use.
type ResolutionCache struct {
	db     *DB
	logger *slog.Logger
}

// NewResolutionCache creates a cache backed by the given DB instance. The
// caller owns the DB lifecycle — this store does not close it.
func NewResolutionCache(db *DB, logger *slog.Logger) *ResolutionCache {
	if db == nil {
		panic("NewResolutionCache: db must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolutionCache{db: db, logger: logger}
}

// Get retrieves a cached resolution for key.
//
// Returns (nil, false, nil) on miss (absent or expired), (nil, false, err)
// on storage or decode failure, and (result, true, nil) on a hit.
func (c *ResolutionCache) Get(ctx context.Context, key string) (*datatypes.ResolutionResult, bool, error) {
	var raw []byte
	err := c.db.WithReadTxn(ctx, func(txn *dgbadger.Txn) error {
		item, err := txn.Get(cacheKey(key))
		if errors.Is(err, dgbadger.ErrKeyNotFound) {
			return errCacheMiss
		}
		if err != nil {
			return fmt.Errorf("get cache key: %w", err)
		}
		raw, err = item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("copy value: %w", err)
		}
		return nil
	})

	if errors.Is(err, errCacheMiss) {
		c.logger.Debug("resolution cache: miss", slog.String("key", key))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("resolution cache load: %w", err)
	}

	var res datatypes.ResolutionResult
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&res); err != nil {
		return nil, false, fmt.Errorf("resolution cache decode: %w", err)
	}

	c.logger.Debug("resolution cache: hit",
		slog.String("key", key),
		slog.String("found_by", string(res.FoundBy)),
	)
	return &res, true, nil
}

// Set stores a resolution under key with the given TTL. A non-positive TTL
// skips the write (pure not-found outcomes are never cached).
func (c *ResolutionCache) Set(ctx context.Context, key string, res *datatypes.ResolutionResult, ttl time.Duration) error {
	if res == nil || ttl <= 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(res); err != nil {
		return fmt.Errorf("resolution cache encode: %w", err)
	}

	err := c.db.WithTxn(ctx, func(txn *dgbadger.Txn) error {
		entry := dgbadger.NewEntry(cacheKey(key), buf.Bytes()).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("resolution cache save: %w", err)
	}

	c.logger.Debug("resolution cache: saved",
		slog.String("key", key),
		slog.Duration("ttl", ttl),
	)
	return nil
}

// cacheKey builds the versioned Badger key for an identifier.
func cacheKey(key string) []byte {
	return []byte(resolutionKeyPrefix + key)
}
