// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package sqlite implements storage.RecordStore on an embedded SQLite
// database (modernc.org/sqlite, pure Go — no cgo toolchain dependency).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/datatypes"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS judges (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	slug         TEXT NOT NULL DEFAULT '',
	court_name   TEXT NOT NULL DEFAULT '',
	jurisdiction TEXT NOT NULL DEFAULT '',
	total_cases  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_judges_slug ON judges(slug);
CREATE INDEX IF NOT EXISTS idx_judges_name ON judges(name);

CREATE TABLE IF NOT EXISTS courts (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	type         TEXT NOT NULL DEFAULT '',
	jurisdiction TEXT NOT NULL DEFAULT '',
	judge_count  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_courts_name ON courts(name);

CREATE TABLE IF NOT EXISTS jurisdictions (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	region_code TEXT NOT NULL DEFAULT '',
	judge_count INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_jurisdictions_name ON jurisdictions(name);
`

// Store implements storage.RecordStore backed by an embedded SQLite file.
//
// # Thread Safety
//
// Safe for concurrent use; database/sql pools connections internally.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the database at path and applies the schema.
//
// # Inputs
//
//   - path: SQLite file path, or ":memory:" for an ephemeral database.
//   - logger: Logger for diagnostics. May be nil.
//
// # Outputs
//
//   - *Store: Ready-to-use store. The caller owns Close.
//   - error: Non-nil if the file cannot be opened or the schema fails.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	logger.Debug("sqlite record store opened", slog.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// storage.RecordStore
// =============================================================================

// JudgeBySlug returns the judge whose stored slug equals slug exactly.
func (s *Store) JudgeBySlug(ctx context.Context, slug string) (*datatypes.Judge, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, slug, court_name, jurisdiction, total_cases
		 FROM judges WHERE slug = ? LIMIT 1`, slug)
	j, err := scanJudge(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, backendErr("judge by slug", err)
	}
	return j, nil
}

// JudgesBySlugSubstring returns judges whose slug contains sub.
func (s *Store) JudgesBySlugSubstring(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error) {
	return s.queryJudges(ctx,
		`SELECT id, name, slug, court_name, jurisdiction, total_cases
		 FROM judges WHERE slug LIKE ? ESCAPE '\' ORDER BY slug ASC, id ASC LIMIT ?`,
		"%"+escapeLike(sub)+"%", limit)
}

// JudgesByName returns judges whose display name contains sub.
func (s *Store) JudgesByName(ctx context.Context, sub string, limit int) ([]datatypes.Judge, error) {
	return s.queryJudges(ctx,
		`SELECT id, name, slug, court_name, jurisdiction, total_cases
		 FROM judges WHERE LOWER(name) LIKE ? ESCAPE '\' ORDER BY name ASC, id ASC LIMIT ?`,
		"%"+escapeLike(strings.ToLower(sub))+"%", limit)
}

// JudgesByNameTokens returns judges whose name contains every token,
// regardless of token order. Each token gets its own LIKE clause so
// "doe jane" still finds "Jane A. Doe".
func (s *Store) JudgesByNameTokens(ctx context.Context, tokens []string, limit int) ([]datatypes.Judge, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	clauses := make([]string, len(tokens))
	args := make([]any, 0, len(tokens)+1)
	for i, tok := range tokens {
		clauses[i] = `LOWER(name) LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(strings.ToLower(tok))+"%")
	}
	args = append(args, limit)
	return s.queryJudges(ctx,
		`SELECT id, name, slug, court_name, jurisdiction, total_cases
		 FROM judges WHERE `+strings.Join(clauses, " AND ")+
			` ORDER BY name ASC, id ASC LIMIT ?`,
		args...)
}

// SampleJudges returns a bounded sample in deterministic slug order.
func (s *Store) SampleJudges(ctx context.Context, limit int) ([]datatypes.Judge, error) {
	return s.queryJudges(ctx,
		`SELECT id, name, slug, court_name, jurisdiction, total_cases
		 FROM judges ORDER BY slug ASC, id ASC LIMIT ?`, limit)
}

// TopJudgesByCaseVolume returns judges ordered by case volume descending.
func (s *Store) TopJudgesByCaseVolume(ctx context.Context, limit int) ([]datatypes.Judge, error) {
	return s.queryJudges(ctx,
		`SELECT id, name, slug, court_name, jurisdiction, total_cases
		 FROM judges ORDER BY total_cases DESC, name ASC, id ASC LIMIT ?`, limit)
}

// CourtsByName returns courts whose name contains sub.
func (s *Store) CourtsByName(ctx context.Context, sub string, limit int) ([]datatypes.Court, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, jurisdiction, judge_count
		 FROM courts WHERE LOWER(name) LIKE ? ESCAPE '\' ORDER BY name ASC, id ASC LIMIT ?`,
		"%"+escapeLike(strings.ToLower(sub))+"%", limit)
	if err != nil {
		return nil, backendErr("courts by name", err)
	}
	defer rows.Close()

	var out []datatypes.Court
	for rows.Next() {
		var c datatypes.Court
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Jurisdiction, &c.JudgeCount); err != nil {
			return nil, backendErr("scan court", err)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("court row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, backendErr("courts by name", err)
	}
	return out, nil
}

// JurisdictionsByName returns jurisdictions matching sub by name or region code.
func (s *Store) JurisdictionsByName(ctx context.Context, sub string, limit int) ([]datatypes.Jurisdiction, error) {
	pattern := "%" + escapeLike(strings.ToLower(sub)) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, region_code, judge_count
		 FROM jurisdictions
		 WHERE LOWER(name) LIKE ? ESCAPE '\' OR LOWER(region_code) LIKE ? ESCAPE '\'
		 ORDER BY name ASC, id ASC LIMIT ?`,
		pattern, pattern, limit)
	if err != nil {
		return nil, backendErr("jurisdictions by name", err)
	}
	defer rows.Close()

	var out []datatypes.Jurisdiction
	for rows.Next() {
		var r datatypes.Jurisdiction
		if err := rows.Scan(&r.ID, &r.Name, &r.RegionCode, &r.JudgeCount); err != nil {
			return nil, backendErr("scan jurisdiction", err)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("jurisdiction row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, backendErr("jurisdictions by name", err)
	}
	return out, nil
}

// =============================================================================
// Write Side (ingest/seed)
// =============================================================================

// InsertJudge stores a judge record. A missing ID is generated; a missing
// slug is derived from the name so every stored row is resolvable.
func (s *Store) InsertJudge(ctx context.Context, j datatypes.Judge) (string, error) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.Slug == "" {
		j.Slug = j.EffectiveSlug()
	}
	if err := j.Validate(); err != nil {
		return "", err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO judges (id, name, slug, court_name, jurisdiction, total_cases)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		j.ID, j.Name, j.Slug, j.CourtName, j.Jurisdiction, j.TotalCases)
	if err != nil {
		return "", backendErr("insert judge", err)
	}
	return j.ID, nil
}

// InsertCourt stores a court record, generating a missing ID.
func (s *Store) InsertCourt(ctx context.Context, c datatypes.Court) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := c.Validate(); err != nil {
		return "", err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO courts (id, name, type, jurisdiction, judge_count)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Type, c.Jurisdiction, c.JudgeCount)
	if err != nil {
		return "", backendErr("insert court", err)
	}
	return c.ID, nil
}

// InsertJurisdiction stores a jurisdiction record, generating a missing ID.
func (s *Store) InsertJurisdiction(ctx context.Context, r datatypes.Jurisdiction) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := r.Validate(); err != nil {
		return "", err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jurisdictions (id, name, region_code, judge_count)
		 VALUES (?, ?, ?, ?)`,
		r.ID, r.Name, r.RegionCode, r.JudgeCount)
	if err != nil {
		return "", backendErr("insert jurisdiction", err)
	}
	return r.ID, nil
}

// =============================================================================
// Helpers
// =============================================================================

// queryJudges runs a judge-shaped query and maps rows, failing loudly on
// rows that are missing required fields.
func (s *Store) queryJudges(ctx context.Context, query string, args ...any) ([]datatypes.Judge, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, backendErr("query judges", err)
	}
	defer rows.Close()

	var out []datatypes.Judge
	for rows.Next() {
		j, err := scanJudge(rows.Scan)
		if err != nil {
			return nil, backendErr("scan judge", err)
		}
		out = append(out, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, backendErr("query judges", err)
	}
	return out, nil
}

// scanJudge maps one row into a validated Judge.
func scanJudge(scan func(dest ...any) error) (*datatypes.Judge, error) {
	var j datatypes.Judge
	if err := scan(&j.ID, &j.Name, &j.Slug, &j.CourtName, &j.Jurisdiction, &j.TotalCases); err != nil {
		return nil, err
	}
	if err := j.Validate(); err != nil {
		return nil, fmt.Errorf("judge row: %w", err)
	}
	return &j, nil
}

// escapeLike escapes LIKE wildcards so substring arguments are matched
// literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// backendErr wraps a driver error with the transient-failure sentinel so
// engines can downgrade the stage instead of aborting.
func backendErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", storage.ErrUnavailable, op, err)
}
