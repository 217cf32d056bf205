// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package directory exposes the entity resolution and relevance search
// engines over HTTP. The engines themselves are plain libraries; everything
// HTTP-shaped (parsing, status codes, rate limiting) lives here.
package directory

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/datatypes"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/resolve"
)

// Resolver is the handler-facing slice of the resolution engine.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (*datatypes.ResolutionResult, error)
}

// Searcher is the handler-facing slice of the search engine.
type Searcher interface {
	Search(ctx context.Context, query string, limit int, kinds []datatypes.EntityKind) (*datatypes.SearchResponse, error)
}

// ErrorResponse is the JSON error envelope for every directory endpoint.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Handlers holds the engine collaborators for the directory endpoints.
type Handlers struct {
	resolver Resolver
	searcher Searcher
}

// NewHandlers creates the directory handlers.
//
// # Inputs
//
//   - resolver: Resolution engine. Must not be nil.
//   - searcher: Search engine. Must not be nil.
func NewHandlers(resolver Resolver, searcher Searcher) *Handlers {
	if resolver == nil {
		panic("NewHandlers: resolver must not be nil")
	}
	if searcher == nil {
		panic("NewHandlers: searcher must not be nil")
	}
	return &Handlers{resolver: resolver, searcher: searcher}
}

// HandleResolve handles GET /v1/directory/resolve?id=<identifier>.
//
// # Description
//
//	Resolves a caller-supplied identifier through the lookup cascade.
//	Invalid identifiers are a 400; a not-found outcome is a normal 200
//	whose body carries found_by == "not_found" and any suggestions.
func (h *Handlers) HandleResolve(c *gin.Context) {
	identifier := c.Query("id")
	if identifier == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "missing required query parameter: id",
			Code:      string(resolve.ErrCodeInvalidInput),
			RequestID: requestID(c),
		})
		return
	}

	result, err := h.resolver.Resolve(c.Request.Context(), identifier)
	if err != nil {
		status := http.StatusInternalServerError
		code := string(resolve.ErrCodeInternal)
		var rerr *resolve.Error
		if errors.As(err, &rerr) {
			code = string(rerr.Code)
			if rerr.Code == resolve.ErrCodeInvalidInput {
				status = http.StatusBadRequest
			}
		}
		c.JSON(status, ErrorResponse{
			Error:     err.Error(),
			Code:      code,
			RequestID: requestID(c),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleSearch handles GET /v1/directory/search?q=&limit=&types=.
//
// # Description
//
//	Runs a relevance search. types is a comma-separated subset of
//	{judge, court, jurisdiction}; unknown values are a 400. An empty or
//	missing q yields the default browse response.
func (h *Handlers) HandleSearch(c *gin.Context) {
	query := c.Query("q")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:     "limit must be an integer",
				RequestID: requestID(c),
			})
			return
		}
		limit = parsed
	}

	var kinds []datatypes.EntityKind
	if raw := c.Query("types"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			kind, ok := datatypes.ParseEntityKind(part)
			if !ok {
				c.JSON(http.StatusBadRequest, ErrorResponse{
					Error:     "unknown entity type: " + part,
					RequestID: requestID(c),
				})
				return
			}
			kinds = append(kinds, kind)
		}
	}

	resp, err := h.searcher.Search(c.Request.Context(), query, limit, kinds)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     err.Error(),
			RequestID: requestID(c),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleHealth handles GET /v1/directory/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// requestID returns the request-scoped correlation ID, minting one when the
// middleware has not run (e.g. in tests hitting a bare handler).
func requestID(c *gin.Context) string {
	if id := c.GetString(requestIDKey); id != "" {
		return id
	}
	return uuid.NewString()
}
