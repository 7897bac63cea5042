package core

import (
	"fmt"
	"strings"
)

// RenderError signals a malformed report reaching the renderer. That is
// a programming error in the pipeline, not a recoverable condition.
type RenderError struct {
	Reason string
}

func (e *RenderError) Error() string {
	return "malformed digest report: " + e.Reason
}

// Renderer formats a DigestReport as the fixed-layout markdown digest.
type Renderer struct {
	cfg Config
}

// NewRenderer creates a renderer for the given configuration.
func NewRenderer(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render produces the markdown document. Rendering the same report twice
// yields byte-identical output.
func (r *Renderer) Render(report DigestReport) (string, error) {
	if err := r.check(report); err != nil {
		return "", err
	}

	var md []string

	md = append(md, fmt.Sprintf("# %s Feedback Digest", r.cfg.Title))
	md = append(md, fmt.Sprintf("**Period:** %s - %s",
		report.WindowStart.UTC().Format("January 02"),
		report.WindowEnd.UTC().Format("January 02, 2006")))
	md = append(md, "")

	md = append(md, "## Summary")
	md = append(md, fmt.Sprintf("**Total issues opened:** %d", report.Total))
	md = append(md, "")

	md = append(md, "## Category Breakdown")
	md = append(md, "")

	for _, stat := range report.Categories {
		line := fmt.Sprintf("- %s: **%d** (%d%%)", stat.Label, stat.Count, stat.Percent)
		if len(stat.TopKeywords) > 0 {
			line += fmt.Sprintf(" — *%s*", joinKeywords(stat.TopKeywords))
		}

		md = append(md, line)
	}
	md = append(md, "")

	md = append(md, fmt.Sprintf("## Top %d Most-Discussed Issues", r.cfg.TopIssues))
	md = append(md, "")

	for i, ranked := range report.TopDiscussed {
		display := ranked.Category
		if cat, ok := r.cfg.CategoryByName(ranked.Category); ok {
			display = cat.Display
		}

		md = append(md, fmt.Sprintf("### %d. [%s](%s)", i+1, ranked.Issue.Title, ranked.Issue.URL))
		md = append(md, fmt.Sprintf("- **Comments:** %d", ranked.Issue.Comments))
		md = append(md, fmt.Sprintf("- **Category:** %s", display))
		md = append(md, fmt.Sprintf("- **Opened by:** @%s", ranked.Issue.Author))
		md = append(md, "")
	}

	md = append(md, "## Representative User Feedback")
	md = append(md, "")

	if len(report.Quotes) > 0 {
		for _, quote := range report.Quotes {
			md = append(md, fmt.Sprintf("> \"%s\"", quote.Text))
			md = append(md, fmt.Sprintf("> — Issue #%d (%s)", quote.IssueNumber, quote.Category))
			md = append(md, "")
		}
	} else {
		md = append(md, "*No representative quotes extracted this week.*")
		md = append(md, "")
	}

	md = append(md, "---")
	md = append(md, fmt.Sprintf("*Generated on %s UTC by Feedback Digest*",
		report.GeneratedAt.UTC().Format("2006-01-02 15:04")))
	md = append(md, "")

	return strings.Join(md, "\n"), nil
}

// check enforces report invariants the pipeline is supposed to hold.
func (r *Renderer) check(report DigestReport) error {
	if report.Total < 0 {
		return &RenderError{Reason: fmt.Sprintf("negative total %d", report.Total)}
	}

	if len(report.Categories) == 0 {
		return &RenderError{Reason: "no category stats"}
	}

	sum := 0
	for _, stat := range report.Categories {
		if stat.Count < 0 {
			return &RenderError{Reason: fmt.Sprintf("negative count for category %q", stat.Name)}
		}

		sum += stat.Count
	}

	if sum != report.Total {
		return &RenderError{Reason: fmt.Sprintf("category counts sum to %d, total is %d", sum, report.Total)}
	}

	return nil
}

func joinKeywords(keywords []KeywordCount) string {
	parts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		parts = append(parts, fmt.Sprintf("%s (%d)", kw.Keyword, kw.Count))
	}

	return strings.Join(parts, ", ")
}
