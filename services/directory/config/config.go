// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads directory service configuration from environment
// variables and ships the embedded browse defaults.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all tunables for the directory service.
//
// Description:
//
//	Loaded from environment variables at startup via Load(). All fields
//	have safe defaults; an unset environment is a valid production setup
//	backed by the local SQLite file and Badger cache directory.
//
// Thread Safety: Config is a value type. Safe to copy and share after loading.
type Config struct {
	// ListenAddr is the HTTP bind address.
	// Env: DIRECTORY_LISTEN_ADDR (default: ":8080")
	ListenAddr string

	// DBPath is the SQLite record store file.
	// Env: DIRECTORY_DB_PATH (default: "directory.db")
	DBPath string

	// CacheDir is the Badger resolution cache directory. Empty disables the
	// persistent cache (the resolver runs cacheless).
	// Env: DIRECTORY_CACHE_DIR (default: "")
	CacheDir string

	// MaxIdentifierLen bounds resolve/search input length.
	// Env: DIRECTORY_MAX_IDENTIFIER_LEN (default: 200)
	MaxIdentifierLen int

	// ResolveTTLLong is the cache TTL for high-confidence resolutions.
	// Env: DIRECTORY_RESOLVE_TTL_LONG (default: 30m)
	ResolveTTLLong time.Duration

	// ResolveTTLMedium is the cache TTL for softer partial-slug matches.
	// Env: DIRECTORY_RESOLVE_TTL_MEDIUM (default: 15m)
	ResolveTTLMedium time.Duration

	// SuggestionSampleSize bounds the candidate scan of the suggestion
	// fallback stage. Strictly enforced for cost control.
	// Env: DIRECTORY_SUGGESTION_SAMPLE (default: 100)
	SuggestionSampleSize int

	// SearchDefaultLimit is used when callers omit or zero the limit.
	// Env: DIRECTORY_SEARCH_DEFAULT_LIMIT (default: 20)
	SearchDefaultLimit int

	// SearchHardLimit caps any caller-requested limit.
	// Env: DIRECTORY_SEARCH_HARD_LIMIT (default: 2000)
	SearchHardLimit int

	// QueryTimeout bounds each backend query inside the engines.
	// Env: DIRECTORY_QUERY_TIMEOUT (default: 2s)
	QueryTimeout time.Duration

	// RateLimitPerMin bounds requests per client IP per minute at the HTTP
	// layer, before the engines are reached. Zero disables limiting.
	// Env: DIRECTORY_RATE_LIMIT_PER_MIN (default: 120)
	RateLimitPerMin int

	// TraceStdout enables the stdout OTel span exporter for local debugging.
	// Env: DIRECTORY_TRACE_STDOUT (default: "false")
	TraceStdout bool
}

// Load reads directory configuration from environment variables.
//
// Outputs:
//   - Config: Fully populated configuration with defaults applied.
func Load() Config {
	return Config{
		ListenAddr:           envString("DIRECTORY_LISTEN_ADDR", ":8080"),
		DBPath:               envString("DIRECTORY_DB_PATH", "directory.db"),
		CacheDir:             envString("DIRECTORY_CACHE_DIR", ""),
		MaxIdentifierLen:     envInt("DIRECTORY_MAX_IDENTIFIER_LEN", 200),
		ResolveTTLLong:       envDuration("DIRECTORY_RESOLVE_TTL_LONG", 30*time.Minute),
		ResolveTTLMedium:     envDuration("DIRECTORY_RESOLVE_TTL_MEDIUM", 15*time.Minute),
		SuggestionSampleSize: envInt("DIRECTORY_SUGGESTION_SAMPLE", 100),
		SearchDefaultLimit:   envInt("DIRECTORY_SEARCH_DEFAULT_LIMIT", 20),
		SearchHardLimit:      envInt("DIRECTORY_SEARCH_HARD_LIMIT", 2000),
		QueryTimeout:         envDuration("DIRECTORY_QUERY_TIMEOUT", 2*time.Second),
		RateLimitPerMin:      envInt("DIRECTORY_RATE_LIMIT_PER_MIN", 120),
		TraceStdout:          envBool("DIRECTORY_TRACE_STDOUT", false),
	}
}

// envString returns the environment value or a default.
func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envBool parses a boolean environment variable with a default.
func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return parsed
}

// envInt parses an integer environment variable with a default.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

// envDuration parses a Go duration environment variable with a default.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return parsed
}
