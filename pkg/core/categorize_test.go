package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	categorizer := NewCategorizer(DefaultConfig())

	tests := []struct {
		name  string
		title string
		body  string
		want  string
	}{
		{
			name:  "crash title is a bug",
			title: "App crashes on startup",
			want:  "bug",
		},
		{
			name:  "feature request",
			title: "Please add dark mode",
			want:  "feature_request",
		},
		{
			name:  "bug outranks feature request",
			title: "bug: feature request handling is broken",
			want:  "bug",
		},
		{
			name:  "ux confusion",
			title: "How do I switch profiles?",
			want:  "ux_confusion",
		},
		{
			name:  "documentation",
			title: "Typo in the readme",
			want:  "documentation",
		},
		{
			name:  "keyword in body only",
			title: "Startup behavior",
			body:  "The window crashes immediately.",
			want:  "bug",
		},
		{
			name:  "matching is case-insensitive",
			title: "CRASH LOOP ON LAUNCH",
			want:  "bug",
		},
		{
			name:  "no keyword falls back to other",
			title: "Weekly sync notes",
			want:  "other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorizer.Categorize(Issue{Title: tt.title, Body: tt.body})
			assert.Equal(t, tt.want, got.Category)
		})
	}
}

func TestCategorizeRecordsMatchedKeywords(t *testing.T) {
	categorizer := NewCategorizer(DefaultConfig())

	got := categorizer.Categorize(Issue{Title: "Crash with error message"})

	assert.Equal(t, "bug", got.Category)
	// Keyword order follows the category's configured keyword list.
	assert.Equal(t, []string{"error", "crash"}, got.MatchedKeywords)
}

func TestCategorizeFallbackHasNoKeywords(t *testing.T) {
	categorizer := NewCategorizer(DefaultConfig())

	got := categorizer.Categorize(Issue{Title: "Weekly sync notes"})

	assert.Equal(t, "other", got.Category)
	assert.Empty(t, got.MatchedKeywords)
}

func TestCategorizeAll(t *testing.T) {
	categorizer := NewCategorizer(DefaultConfig())

	issues := []Issue{
		{Number: 1, Title: "App crashes on startup"},
		{Number: 2, Title: "Please add dark mode"},
		{Number: 3, Title: "Weekly sync notes"},
	}

	categorized := categorizer.CategorizeAll(issues)

	assert.Len(t, categorized, len(issues), "every issue yields exactly one categorized issue")
	assert.Equal(t, "bug", categorized[0].Category)
	assert.Equal(t, "feature_request", categorized[1].Category)
	assert.Equal(t, "other", categorized[2].Category)
}
