package main

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ksysoev/feedback-digest/pkg/core"
	"github.com/ksysoev/feedback-digest/pkg/github"
	"github.com/sethvargo/go-githubactions"
)

func main() {
	// Set up action
	action := githubactions.New()
	ctx := context.Background()

	// Get action inputs - first try action inputs, then fall back to env vars
	githubToken := action.GetInput("github_token")
	if githubToken == "" {
		githubToken = os.Getenv("GITHUB_TOKEN")
	}

	repoFullName := action.GetInput("repository")
	if repoFullName == "" {
		repoFullName = os.Getenv("GITHUB_REPOSITORY")
		if repoFullName == "" {
			action.Fatalf("repository input is required")
		}
	}

	if len(strings.Split(repoFullName, "/")) != 2 {
		action.Fatalf("repository must be in owner/name form, got: %s", repoFullName)
	}

	outputFile := action.GetInput("output_file")
	if outputFile == "" {
		outputFile = os.Getenv("DIGEST_OUTPUT_FILE")
		if outputFile == "" {
			outputFile = "weekly_digest.md"
		}
	}

	// Initialize config
	config := core.DefaultConfig()

	configPath := action.GetInput("config_path")
	if configPath == "" {
		configPath = os.Getenv("DIGEST_CONFIG_PATH")
	}

	if configPath != "" {
		loaded, err := core.LoadConfig(configPath)
		if err != nil {
			action.Fatalf("Failed to load config %s: %v", configPath, err)
		}

		config = loaded
	}

	if lookback := action.GetInput("lookback_days"); lookback != "" {
		days, err := strconv.Atoi(lookback)
		if err != nil || days < 1 {
			action.Fatalf("lookback_days must be a positive integer, got: %s", lookback)
		}

		config.LookbackDays = days
	}

	windowEnd := time.Now().UTC()
	windowStart := windowEnd.Add(-config.Lookback())

	// Fetch issues for the window
	client := github.NewClient(githubToken, repoFullName, config)

	action.Infof("Fetching issues from %s opened in the last %d days", repoFullName, config.LookbackDays)

	issues, err := client.FetchIssues(ctx, windowStart)
	if err != nil {
		action.Fatalf("Fetch stage failed: %v", err)
	}

	action.Infof("Found %d issues", len(issues))

	// Categorize
	categorized := core.NewCategorizer(config).CategorizeAll(issues)

	// Aggregate and extract quotes
	report := core.NewAggregator(config).Aggregate(categorized, windowStart, windowEnd)
	report.Quotes = core.NewQuoteExtractor(config).Extract(categorized, report.TopDiscussed)

	action.Infof("Extracted %d representative quotes", len(report.Quotes))

	// Render fully before touching the output file so a failed run never
	// overwrites the previous digest.
	digest, err := core.NewRenderer(config).Render(report)
	if err != nil {
		action.Fatalf("Render stage failed: %v", err)
	}

	if err := os.WriteFile(outputFile, []byte(digest), 0644); err != nil {
		action.Fatalf("Failed to write digest to %s: %v", outputFile, err)
	}

	action.Infof("Digest written to %s", outputFile)
}
