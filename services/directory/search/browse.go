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

	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/config"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/datatypes"
)

// Browse builds the default response for an empty query: top judges ranked
// by case volume plus the fixed pinned jurisdictions.
//
// # Description
//
//	An empty query is a landing-page browse, not an error and not an empty
//	result. Only judges and jurisdictions appear; courts have no natural
//	"top" ranking for browsing. If the case-volume query fails, the pinned
//	jurisdictions alone still make the response non-empty.
//
// # Inputs
//
//   - ctx: Context for cancellation/timeout. Must not be nil.
//
// # Outputs
//
//   - *datatypes.SearchResponse: The browse response. Never nil, never
//     empty on success.
//   - error: Non-nil only when the embedded pinned-jurisdiction list is
//     unreadable, which indicates a broken build.
func (e *Engine) Browse(ctx context.Context) (*datatypes.SearchResponse, error) {
	ctx, span := searchTracer.Start(ctx, "search.Engine.Browse")
	defer span.End()

	qctx, cancel := context.WithTimeout(ctx, e.opts.QueryTimeout)
	defer cancel()

	var judgeHits []datatypes.SearchResult
	top, err := e.store.TopJudgesByCaseVolume(qctx, e.opts.BrowseLimit)
	if err != nil {
		e.logger.Warn("top judges query failed, browse degrades to pinned jurisdictions",
			slog.String("error", err.Error()),
		)
	} else {
		judgeHits = make([]datatypes.SearchResult, 0, len(top))
		for i := range top {
			hit := judgeResult(&top[i], "")
			// Browse entries carry no query; rank them by store order.
			hit.Score = 0
			judgeHits = append(judgeHits, hit)
		}
	}

	pinned, err := config.LoadPinnedJurisdictions()
	if err != nil {
		return nil, fmt.Errorf("loading pinned jurisdictions: %w", err)
	}
	regionHits := make([]datatypes.SearchResult, 0, len(pinned))
	for _, p := range pinned {
		regionHits = append(regionHits, datatypes.SearchResult{
			Kind:        datatypes.KindJurisdiction,
			Title:       p.Name,
			Subtitle:    p.RegionCode,
			Description: p.Description,
			TargetRef:   "/jurisdictions/" + p.RegionCode,
		})
	}

	resp := &datatypes.SearchResponse{
		Query:         "",
		Judges:        judgeHits,
		Jurisdictions: regionHits,
	}
	resp.Results = make([]datatypes.SearchResult, 0, len(judgeHits)+len(regionHits))
	resp.Results = append(resp.Results, judgeHits...)
	resp.Results = append(resp.Results, regionHits...)

	return resp, nil
}
