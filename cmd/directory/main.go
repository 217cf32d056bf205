// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command directory starts the judicial directory API server.
//
// The directory provides:
//   - Cascading entity resolution (exact slug, fuzzy slug, name variations,
//     similarity suggestions) with a TTL-tiered Badger cache
//   - Cross-entity relevance search over judges, courts, and jurisdictions
//
// Usage:
//
//	go run ./cmd/directory
//	go run ./cmd/directory -addr :9090
//	go run ./cmd/directory -seed ./test/fixtures/seed.json
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/directory/health
//
//	# Resolve an identifier
//	curl 'http://localhost:8080/v1/directory/resolve?id=jane-a-doe' | jq
//
//	# Search judges and courts
//	curl 'http://localhost:8080/v1/directory/search?q=doe&limit=10&types=judge,court' | jq
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/config"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/datatypes"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/resolve"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/search"
	badgerstore "github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/storage/badger"
	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/storage/sqlite"
)

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.ListenAddr, "HTTP listen address")
	dbPath := flag.String("db", cfg.DBPath, "SQLite record store path")
	cacheDir := flag.String("cache-dir", cfg.CacheDir, "Badger resolution cache directory (empty disables)")
	seedPath := flag.String("seed", "", "Optional JSON fixture to load into the record store at startup")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if cfg.TraceStdout {
		shutdown, err := setupStdoutTracing()
		if err != nil {
			slog.Warn("Stdout trace exporter unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			defer shutdown()
		}
	}

	store, err := sqlite.Open(*dbPath, logger)
	if err != nil {
		slog.Error("Failed to open record store",
			slog.String("path", *dbPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Record store opened", slog.String("path", *dbPath))

	if *seedPath != "" {
		if err := seedFromFile(context.Background(), store, *seedPath); err != nil {
			slog.Error("Seeding failed",
				slog.String("path", *seedPath),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Resolution cache is optional: if Badger cannot open, the resolver runs
	// cacheless rather than refusing to start.
	var cache resolve.ResolutionCache
	var cacheDB *badgerstore.DB
	if *cacheDir != "" {
		db, err := badgerstore.Open(*cacheDir, logger)
		if err != nil {
			slog.Warn("Resolution cache unavailable, running cacheless",
				slog.String("dir", *cacheDir),
				slog.String("error", err.Error()))
		} else {
			cacheDB = db
			cache = badgerstore.NewResolutionCache(db, logger)
			slog.Info("Resolution cache opened", slog.String("dir", *cacheDir))
		}
	}

	resolver := resolve.NewResolver(store, cache, resolve.PromSink{}, logger, resolve.Options{
		MaxIdentifierLen:     cfg.MaxIdentifierLen,
		TTLLong:              cfg.ResolveTTLLong,
		TTLMedium:            cfg.ResolveTTLMedium,
		SuggestionSampleSize: cfg.SuggestionSampleSize,
		QueryTimeout:         cfg.QueryTimeout,
	})
	engine := search.NewEngine(store, logger, search.Options{
		DefaultLimit: cfg.SearchDefaultLimit,
		HardLimit:    cfg.SearchHardLimit,
		QueryTimeout: cfg.QueryTimeout,
	})

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("judicial-directory"))
	if *debug {
		router.Use(gin.Logger())
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	handlers := directory.NewHandlers(resolver, engine)
	directory.RegisterRoutes(v1, handlers, directory.RateLimit(cfg.RateLimitPerMin))

	srv := &http.Server{
		Addr:    *addr,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		slog.Info("Shutting down directory server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Graceful shutdown failed", slog.String("error", err.Error()))
		}
		if cacheDB != nil {
			if err := cacheDB.Close(); err != nil {
				slog.Warn("Failed to close resolution cache", slog.String("error", err.Error()))
			}
		}
	}()

	slog.Info("Starting directory server", slog.String("address", *addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupStdoutTracing installs a stdout span exporter for local debugging.
func setupStdoutTracing() (func(), error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("creating stdout exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			slog.Warn("Trace provider shutdown failed", slog.String("error", err.Error()))
		}
	}, nil
}

// seedFixture is the JSON shape accepted by -seed.
type seedFixture struct {
	Judges        []datatypes.Judge        `json:"judges"`
	Courts        []datatypes.Court        `json:"courts"`
	Jurisdictions []datatypes.Jurisdiction `json:"jurisdictions"`
}

// seedFromFile loads a JSON fixture into the record store. Intended for
// local development and demos; production data arrives through sync jobs.
func seedFromFile(ctx context.Context, store *sqlite.Store, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading fixture: %w", err)
	}
	var fixture seedFixture
	if err := json.Unmarshal(raw, &fixture); err != nil {
		return fmt.Errorf("parsing fixture: %w", err)
	}

	for _, j := range fixture.Judges {
		if _, err := store.InsertJudge(ctx, j); err != nil {
			return fmt.Errorf("seeding judge %q: %w", j.Name, err)
		}
	}
	for _, c := range fixture.Courts {
		if _, err := store.InsertCourt(ctx, c); err != nil {
			return fmt.Errorf("seeding court %q: %w", c.Name, err)
		}
	}
	for _, r := range fixture.Jurisdictions {
		if _, err := store.InsertJurisdiction(ctx, r); err != nil {
			return fmt.Errorf("seeding jurisdiction %q: %w", r.Name, err)
		}
	}
	slog.Info("Record store seeded",
		slog.Int("judges", len(fixture.Judges)),
		slog.Int("courts", len(fixture.Courts)),
		slog.Int("jurisdictions", len(fixture.Jurisdictions)),
	)
	return nil
}
