// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package directory

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all directory routes with the router.
//
// Description:
//
//	Registers all /v1/directory/* endpoints with the given Gin router
//	group. The router group should already have any required middleware
//	applied; per-route rate limiting is attached here.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//	limiter - Optional rate-limit middleware for the query endpoints. Can be nil.
//
// Endpoints:
//
//	GET /v1/directory/resolve - Resolve an identifier to a canonical record
//	GET /v1/directory/search - Cross-entity relevance search
//	GET /v1/directory/health - Health check
//
// Example:
//
//	handlers := directory.NewHandlers(resolver, engine)
//
//	v1 := router.Group("/v1")
//	directory.RegisterRoutes(v1, handlers, directory.RateLimit(cfg.RateLimitPerMin))
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers, limiter gin.HandlerFunc) {
	dir := rg.Group("/directory", RequestID())
	{
		queries := dir.Group("")
		if limiter != nil {
			queries.Use(limiter)
		}
		queries.GET("/resolve", handlers.HandleResolve)
		queries.GET("/search", handlers.HandleSearch)

		// Health stays outside the rate limit so probes never starve.
		dir.GET("/health", handlers.HandleHealth)
	}
}
