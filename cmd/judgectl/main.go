// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command judgectl is a thin CLI client for the directory API.
//
// Usage:
//
//	judgectl resolve jane-a-doe
//	judgectl resolve "Judge Jane Doe"
//	judgectl search doe --limit 10 --types judge,court
//	judgectl search ""            # browse: top judges + pinned jurisdictions
//
// The server address comes from --server or DIRECTORY_SERVER_URL
// (default http://localhost:8080).
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thefiredev-cloud/JudgeFinderPlatform-sub005/services/directory/datatypes"
)

var (
	serverURL   string
	searchLimit int
	searchTypes string
	outputJSON  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "judgectl",
		Short: "Client for the judicial directory API",
		Long:  "judgectl resolves judge identifiers and searches the judicial directory over HTTP.",
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(),
		"Directory server base URL")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false,
		"Print raw JSON responses")

	resolveCmd := &cobra.Command{
		Use:   "resolve <identifier>",
		Short: "Resolve an identifier to a canonical judge record",
		Args:  cobra.ExactArgs(1),
		Run:   runResolveCommand,
	}

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search judges, courts, and jurisdictions",
		Args:  cobra.MaximumNArgs(1),
		Run:   runSearchCommand,
	}
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Result limit (0 uses the server default)")
	searchCmd.Flags().StringVar(&searchTypes, "types", "", "Comma-separated entity types (judge,court,jurisdiction)")

	rootCmd.AddCommand(resolveCmd, searchCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultServerURL() string {
	if v := os.Getenv("DIRECTORY_SERVER_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func runResolveCommand(_ *cobra.Command, args []string) {
	q := url.Values{}
	q.Set("id", args[0])

	body, err := apiGet("/v1/directory/resolve", q)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if outputJSON {
		fmt.Println(string(body))
		return
	}

	var result datatypes.ResolutionResult
	if err := json.Unmarshal(body, &result); err != nil {
		log.Fatalf("Error: decoding response: %v", err)
	}
	printResolution(&result)
}

func runSearchCommand(_ *cobra.Command, args []string) {
	q := url.Values{}
	if len(args) > 0 {
		q.Set("q", args[0])
	}
	if searchLimit > 0 {
		q.Set("limit", fmt.Sprintf("%d", searchLimit))
	}
	if searchTypes != "" {
		q.Set("types", searchTypes)
	}

	body, err := apiGet("/v1/directory/search", q)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if outputJSON {
		fmt.Println(string(body))
		return
	}

	var resp datatypes.SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Fatalf("Error: decoding response: %v", err)
	}
	printSearch(&resp)
}

// apiGet issues a GET and returns the body, surfacing the server's error
// envelope on non-2xx status.
func apiGet(path string, q url.Values) ([]byte, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	endpoint := strings.TrimRight(serverURL, "/") + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	resp, err := client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return body, nil
}

func printResolution(result *datatypes.ResolutionResult) {
	fmt.Printf("Found by: %s\n", result.FoundBy)
	if result.Judge != nil {
		fmt.Println("---")
		printJudge(result.Judge)
	}
	if len(result.Alternatives) > 0 {
		label := "Alternatives"
		if result.Judge == nil {
			label = "Did you mean"
		}
		fmt.Printf("\n%s:\n", label)
		for i := range result.Alternatives {
			fmt.Printf("%d. %s (%s)\n", i+1,
				result.Alternatives[i].Name,
				result.Alternatives[i].EffectiveSlug())
		}
	}
	if result.Judge == nil && len(result.Alternatives) == 0 {
		fmt.Println("No match found.")
	}
}

func printJudge(j *datatypes.Judge) {
	fmt.Printf("Name:         %s\n", j.Name)
	fmt.Printf("Slug:         %s\n", j.EffectiveSlug())
	if j.CourtName != "" {
		fmt.Printf("Court:        %s\n", j.CourtName)
	}
	if j.Jurisdiction != "" {
		fmt.Printf("Jurisdiction: %s\n", j.Jurisdiction)
	}
	fmt.Printf("Cases:        %d\n", j.TotalCases)
}

func printSearch(resp *datatypes.SearchResponse) {
	if resp.Query == "" {
		fmt.Println("Browse results:")
	} else {
		fmt.Printf("Results for %q:\n", resp.Query)
	}
	fmt.Println("---")
	if len(resp.Results) == 0 {
		fmt.Println("No results.")
		return
	}
	for i, r := range resp.Results {
		line := fmt.Sprintf("%d. [%s] %s", i+1, r.Kind, r.Title)
		if r.Subtitle != "" {
			line += " - " + r.Subtitle
		}
		fmt.Println(line)
		if r.Description != "" {
			fmt.Printf("   %s\n", r.Description)
		}
		fmt.Printf("   %s (score %.0f)\n", r.TargetRef, r.Score)
	}
	fmt.Printf("\n%d results in %dms\n", resp.Total(), resp.TookMs)
}
