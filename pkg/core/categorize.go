package core

import "strings"

// Categorizer assigns each issue to exactly one category by walking the
// configured categories in priority order. The first category with any
// keyword present in the issue text wins; issues matching nothing fall
// through to the final fallback category.
type Categorizer struct {
	categories []Category
}

// NewCategorizer creates a categorizer for the given configuration.
func NewCategorizer(cfg Config) *Categorizer {
	return &Categorizer{categories: cfg.Categories}
}

// Categorize assigns a category to a single issue. Matching is a
// case-insensitive substring test over title and body. Every keyword of
// the winning category found in the text is recorded for keyword
// reporting; the category decision itself only needs the first hit.
func (c *Categorizer) Categorize(issue Issue) CategorizedIssue {
	text := strings.ToLower(issue.Title + " " + issue.Body)

	for i, cat := range c.categories {
		// The last category is the keyword-free fallback.
		if i == len(c.categories)-1 {
			break
		}

		var matched []string

		for _, keyword := range cat.Keywords {
			if strings.Contains(text, strings.ToLower(keyword)) {
				matched = append(matched, keyword)
			}
		}

		if len(matched) > 0 {
			return CategorizedIssue{
				Issue:           issue,
				Category:        cat.Name,
				MatchedKeywords: matched,
			}
		}
	}

	return CategorizedIssue{
		Issue:    issue,
		Category: c.categories[len(c.categories)-1].Name,
	}
}

// CategorizeAll categorizes every issue, preserving input order.
func (c *Categorizer) CategorizeAll(issues []Issue) []CategorizedIssue {
	categorized := make([]CategorizedIssue, 0, len(issues))
	for _, issue := range issues {
		categorized = append(categorized, c.Categorize(issue))
	}

	return categorized
}
