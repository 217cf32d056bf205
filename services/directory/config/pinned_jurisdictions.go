// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Embedded Pinned Jurisdictions
// =============================================================================

//go:embed pinned_jurisdictions.yaml
var pinnedJurisdictionsYAML []byte

// PinnedJurisdiction is one entry of the fixed browse list shown for empty
// search queries.
type PinnedJurisdiction struct {
	Name        string `yaml:"name"`
	RegionCode  string `yaml:"region_code"`
	Description string `yaml:"description"`
}

var (
	cachedPinned []PinnedJurisdiction
	pinnedOnce   sync.Once
	pinnedErr    error
)

// LoadPinnedJurisdictions loads and caches the pinned jurisdiction list from
// the embedded YAML configuration. Returns the cached result on subsequent
// calls.
//
// # Outputs
//
//   - []PinnedJurisdiction: The ordered list. Never empty on success.
//   - error: Non-nil if YAML parsing fails.
//
// # Thread Safety
//
// Safe for concurrent use (uses sync.Once internally).
func LoadPinnedJurisdictions() ([]PinnedJurisdiction, error) {
	pinnedOnce.Do(func() {
		var raw struct {
			Jurisdictions []PinnedJurisdiction `yaml:"jurisdictions"`
		}
		if err := yaml.Unmarshal(pinnedJurisdictionsYAML, &raw); err != nil {
			pinnedErr = fmt.Errorf("parsing pinned_jurisdictions.yaml: %w", err)
			return
		}
		if len(raw.Jurisdictions) == 0 {
			pinnedErr = fmt.Errorf("pinned_jurisdictions.yaml: empty jurisdiction list")
			return
		}
		cachedPinned = raw.Jurisdictions
		slog.Info("pinned jurisdictions loaded",
			slog.Int("count", len(raw.Jurisdictions)),
		)
	})
	return cachedPinned, pinnedErr
}
