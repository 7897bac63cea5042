package core

import "time"

// Issue represents a single issue fetched from the tracker.
type Issue struct {
	Number    int
	Title     string
	Body      string
	Author    string
	CreatedAt time.Time
	Comments  int
	URL       string
}

// CategorizedIssue pairs an issue with its assigned category and the
// trigger keywords of that category found in the issue text.
type CategorizedIssue struct {
	Issue           Issue
	Category        string
	MatchedKeywords []string
}

// KeywordCount is a matched trigger keyword and how often it matched
// within one category.
type KeywordCount struct {
	Keyword string
	Count   int
}

// CategoryStat holds the aggregated numbers for one category.
type CategoryStat struct {
	Name        string
	Label       string
	Display     string
	Count       int
	Percent     int
	TopKeywords []KeywordCount
}

// RankedIssue is an entry in the most-discussed ranking.
type RankedIssue struct {
	Issue    Issue
	Category string
}

// Quote is a representative excerpt attributed to its source issue.
type Quote struct {
	Text        string
	IssueNumber int
	Category    string
}

// DigestReport is the aggregate result of one run, consumed only by the
// renderer. Constructed once, never mutated afterwards.
type DigestReport struct {
	Total        int
	WindowStart  time.Time
	WindowEnd    time.Time
	GeneratedAt  time.Time
	Categories   []CategoryStat
	TopDiscussed []RankedIssue
	Quotes       []Quote
}
