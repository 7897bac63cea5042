package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ksysoev/feedback-digest/pkg/core"
	"github.com/ksysoev/feedback-digest/pkg/github"
)

// Manual smoke runner: fetches a real repository and prints the digest to
// stdout without writing a file.
func main() {
	repoFullName := os.Getenv("GITHUB_REPOSITORY")
	if repoFullName == "" {
		fmt.Println("GITHUB_REPOSITORY environment variable is required")
		os.Exit(1)
	}

	// Token is optional for public repositories
	token := os.Getenv("GITHUB_TOKEN")

	config := core.DefaultConfig()

	windowEnd := time.Now().UTC()
	windowStart := windowEnd.Add(-config.Lookback())

	client := github.NewClient(token, repoFullName, config)

	ctx := context.Background()

	issues, err := client.FetchIssues(ctx, windowStart)
	if err != nil {
		fmt.Printf("Error fetching issues: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Fetched %d issues from %s\n\n", len(issues), repoFullName)

	categorized := core.NewCategorizer(config).CategorizeAll(issues)

	report := core.NewAggregator(config).Aggregate(categorized, windowStart, windowEnd)
	report.Quotes = core.NewQuoteExtractor(config).Extract(categorized, report.TopDiscussed)

	digest, err := core.NewRenderer(config).Render(report)
	if err != nil {
		fmt.Printf("Error rendering digest: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(digest)
}
