package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateCategoryCounts(t *testing.T) {
	cfg := DefaultConfig()
	windowEnd := time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC)
	windowStart := windowEnd.AddDate(0, 0, -7)

	categorized := []CategorizedIssue{
		{Issue: Issue{Number: 1}, Category: "bug", MatchedKeywords: []string{"crash"}},
		{Issue: Issue{Number: 2}, Category: "feature_request", MatchedKeywords: []string{"add"}},
		{Issue: Issue{Number: 3}, Category: "other"},
	}

	report := NewAggregator(cfg).Aggregate(categorized, windowStart, windowEnd)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, windowStart, report.WindowStart)
	assert.Equal(t, windowEnd, report.WindowEnd)

	require.Len(t, report.Categories, len(cfg.Categories))

	byName := make(map[string]CategoryStat)
	for _, stat := range report.Categories {
		byName[stat.Name] = stat
	}

	assert.Equal(t, 1, byName["bug"].Count)
	assert.Equal(t, 33, byName["bug"].Percent)
	assert.Equal(t, 1, byName["feature_request"].Count)
	assert.Equal(t, 33, byName["feature_request"].Percent)
	assert.Equal(t, 1, byName["other"].Count)
	assert.Equal(t, 33, byName["other"].Percent)

	// Categories with no matches are still reported, at zero.
	assert.Equal(t, 0, byName["ux_confusion"].Count)
	assert.Equal(t, 0, byName["ux_confusion"].Percent)
	assert.Equal(t, 0, byName["documentation"].Count)
	assert.Equal(t, 0, byName["documentation"].Percent)
}

func TestAggregatePercentagesSumNear100(t *testing.T) {
	cfg := DefaultConfig()

	var categorized []CategorizedIssue
	for i := 0; i < 7; i++ {
		name := cfg.Categories[i%len(cfg.Categories)].Name
		categorized = append(categorized, CategorizedIssue{Issue: Issue{Number: i}, Category: name})
	}

	report := NewAggregator(cfg).Aggregate(categorized, time.Time{}, time.Time{})

	sum := 0
	for _, stat := range report.Categories {
		sum += stat.Percent
	}

	assert.InDelta(t, 100, sum, float64(len(cfg.Categories)))
}

func TestAggregateEmptyWindow(t *testing.T) {
	cfg := DefaultConfig()

	report := NewAggregator(cfg).Aggregate(nil, time.Time{}, time.Time{})

	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.TopDiscussed)

	require.Len(t, report.Categories, len(cfg.Categories))

	for _, stat := range report.Categories {
		assert.Equal(t, 0, stat.Count)
		assert.Equal(t, 0, stat.Percent)
		assert.Empty(t, stat.TopKeywords)
	}
}

func TestAggregateTopDiscussed(t *testing.T) {
	cfg := DefaultConfig()
	base := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	categorized := []CategorizedIssue{
		{Issue: Issue{Number: 1, Comments: 5, CreatedAt: base.Add(2 * time.Hour)}, Category: "bug"},
		{Issue: Issue{Number: 2, Comments: 9, CreatedAt: base}, Category: "other"},
		{Issue: Issue{Number: 3, Comments: 5, CreatedAt: base.Add(time.Hour)}, Category: "bug"},
		{Issue: Issue{Number: 4, Comments: 1, CreatedAt: base}, Category: "other"},
	}

	report := NewAggregator(cfg).Aggregate(categorized, time.Time{}, time.Time{})

	require.Len(t, report.TopDiscussed, 3)

	// Descending by comments; the tie at 5 ranks the earlier-created
	// issue first.
	assert.Equal(t, 2, report.TopDiscussed[0].Issue.Number)
	assert.Equal(t, 3, report.TopDiscussed[1].Issue.Number)
	assert.Equal(t, 1, report.TopDiscussed[2].Issue.Number)
}

func TestAggregateTopKeywords(t *testing.T) {
	cfg := DefaultConfig()

	categorized := []CategorizedIssue{
		{Issue: Issue{Number: 1}, Category: "bug", MatchedKeywords: []string{"error", "crash"}},
		{Issue: Issue{Number: 2}, Category: "bug", MatchedKeywords: []string{"crash", "broken"}},
		{Issue: Issue{Number: 3}, Category: "bug", MatchedKeywords: []string{"broken", "error"}},
		{Issue: Issue{Number: 4}, Category: "bug", MatchedKeywords: []string{"crash"}},
	}

	report := NewAggregator(cfg).Aggregate(categorized, time.Time{}, time.Time{})

	var bugStat CategoryStat
	for _, stat := range report.Categories {
		if stat.Name == "bug" {
			bugStat = stat
		}
	}

	// crash leads on frequency; error and broken tie at 2 and keep
	// first-encountered order.
	assert.Equal(t, []KeywordCount{
		{Keyword: "crash", Count: 3},
		{Keyword: "error", Count: 2},
		{Keyword: "broken", Count: 2},
	}, bugStat.TopKeywords)
}

func TestAggregateTopKeywordsBounded(t *testing.T) {
	cfg := DefaultConfig()

	categorized := []CategorizedIssue{
		{Issue: Issue{Number: 1}, Category: "bug", MatchedKeywords: []string{"bug", "error", "crash", "broken", "fail"}},
	}

	report := NewAggregator(cfg).Aggregate(categorized, time.Time{}, time.Time{})

	for _, stat := range report.Categories {
		assert.LessOrEqual(t, len(stat.TopKeywords), cfg.TopKeywords)
	}
}
