// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the directory's canonical entity records and the
// result types exchanged between the resolution/search engines, the storage
// layer, and API callers.
//
// Entities are explicit structs mapped at the storage boundary — missing
// required fields fail loudly there instead of being coerced with scattered
// defaults in engine code.
package datatypes

import (
	"fmt"

	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/match"
)

// Judge is a canonical judicial official record.
//
// Identity fields (ID, Name, Slug) are immutable once stored. Descriptive
// fields (CourtName, Jurisdiction, TotalCases) may change between syncs.
//
// Ownership: engines treat Judge values as read-only; the record store owns
// the backing rows.
type Judge struct {
	// ID is the opaque unique identifier (UUID string).
	ID string `json:"id"`

	// Name is the display name, e.g. "Hon. Jane A. Doe".
	Name string `json:"name"`

	// Slug is the stored canonical short identifier. May be empty for
	// records ingested before slug backfill; use EffectiveSlug for lookups.
	Slug string `json:"slug,omitempty"`

	// CourtName is the judge's current court affiliation.
	CourtName string `json:"court_name,omitempty"`

	// Jurisdiction is the human-readable jurisdiction label, e.g. "CA".
	Jurisdiction string `json:"jurisdiction,omitempty"`

	// TotalCases is the case-volume counter used for browse ranking.
	TotalCases int `json:"total_cases"`
}

// EffectiveSlug returns the stored slug, or a slug derived deterministically
// from the display name when none is stored. Same name, same result.
func (j *Judge) EffectiveSlug() string {
	if j.Slug != "" {
		return j.Slug
	}
	return match.MakeSlug(j.Name)
}

// Validate checks that the required identity fields are present.
func (j *Judge) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("judge: missing id")
	}
	if j.Name == "" {
		return fmt.Errorf("judge %s: missing name", j.ID)
	}
	return nil
}

// Court is a judicial organization record.
type Court struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	JudgeCount   int    `json:"judge_count"`
}

// Validate checks that the required identity fields are present.
func (c *Court) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("court: missing id")
	}
	if c.Name == "" {
		return fmt.Errorf("court %s: missing name", c.ID)
	}
	return nil
}

// Jurisdiction is a geographic/administrative region record.
type Jurisdiction struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RegionCode string `json:"region_code,omitempty"`
	JudgeCount int    `json:"judge_count"`
}

// Validate checks that the required identity fields are present.
func (r *Jurisdiction) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("jurisdiction: missing id")
	}
	if r.Name == "" {
		return fmt.Errorf("jurisdiction %s: missing name", r.ID)
	}
	return nil
}
