package core

import (
	"math"
	"sort"
	"time"
)

// Aggregator folds categorized issues into a DigestReport.
type Aggregator struct {
	cfg Config
}

// NewAggregator creates an aggregator for the given configuration.
func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Aggregate builds the report for one run. An empty issue set is valid
// and produces all-zero stats. Quotes are attached separately by the
// caller because quote extraction consults the top-discussed ranking.
func (a *Aggregator) Aggregate(issues []CategorizedIssue, windowStart, windowEnd time.Time) DigestReport {
	report := DigestReport{
		Total:        len(issues),
		WindowStart:  windowStart,
		WindowEnd:    windowEnd,
		GeneratedAt:  windowEnd,
		Categories:   a.categoryStats(issues),
		TopDiscussed: a.topDiscussed(issues),
	}

	return report
}

// categoryStats computes count, percentage and top keywords per category,
// in configured category order. Categories without matches are reported
// at zero rather than omitted.
func (a *Aggregator) categoryStats(issues []CategorizedIssue) []CategoryStat {
	stats := make([]CategoryStat, 0, len(a.cfg.Categories))

	for _, cat := range a.cfg.Categories {
		count := 0
		keywordCounts := make(map[string]int)

		var keywordOrder []string

		for _, item := range issues {
			if item.Category != cat.Name {
				continue
			}

			count++

			for _, keyword := range item.MatchedKeywords {
				if keywordCounts[keyword] == 0 {
					keywordOrder = append(keywordOrder, keyword)
				}
				keywordCounts[keyword]++
			}
		}

		percent := 0
		if len(issues) > 0 {
			percent = int(math.Round(float64(count) / float64(len(issues)) * 100))
		}

		// Most frequent first; equal counts keep first-encountered order.
		sort.SliceStable(keywordOrder, func(i, j int) bool {
			return keywordCounts[keywordOrder[i]] > keywordCounts[keywordOrder[j]]
		})

		if len(keywordOrder) > a.cfg.TopKeywords {
			keywordOrder = keywordOrder[:a.cfg.TopKeywords]
		}

		top := make([]KeywordCount, 0, len(keywordOrder))
		for _, keyword := range keywordOrder {
			top = append(top, KeywordCount{Keyword: keyword, Count: keywordCounts[keyword]})
		}

		stats = append(stats, CategoryStat{
			Name:        cat.Name,
			Label:       cat.Label,
			Display:     cat.Display,
			Count:       count,
			Percent:     percent,
			TopKeywords: top,
		})
	}

	return stats
}

// topDiscussed ranks issues by comment count descending; equal counts
// rank the earlier-created issue first.
func (a *Aggregator) topDiscussed(issues []CategorizedIssue) []RankedIssue {
	ranked := make([]RankedIssue, 0, len(issues))
	for _, item := range issues {
		ranked = append(ranked, RankedIssue{Issue: item.Issue, Category: item.Category})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Issue.Comments != ranked[j].Issue.Comments {
			return ranked[i].Issue.Comments > ranked[j].Issue.Comments
		}

		return ranked[i].Issue.CreatedAt.Before(ranked[j].Issue.CreatedAt)
	})

	if len(ranked) > a.cfg.TopIssues {
		ranked = ranked[:a.cfg.TopIssues]
	}

	return ranked
}
