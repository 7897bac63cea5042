package core

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Phrases that mark a body line as issue-template boilerplate.
var templatePhrases = []string{
	"preflight checklist", "i have searched", "i have checked",
	"bug report", "feature request", "describe the bug",
	"steps to reproduce", "expected behavior", "actual behavior",
	"screenshots", "additional context", "environment",
	"operating system", "version:", "node version", "npm version",
	"to reproduce", "relevant log", "checklist",
}

var (
	keyValueLine     = regexp.MustCompile(`^[A-Za-z\s]+:\s*\S+`)
	numberedLabel    = regexp.MustCompile(`^\d+\.\s*\w+:?\s*$`)
	trailingListRef  = regexp.MustCompile(`:\s*\d+\.?\s*$`)
	firstPersonVoice = regexp.MustCompile(`\b(i|my|me|we|our)\b`)
	sentenceEnd      = regexp.MustCompile(`[.!?]\s+`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`test coverage`),
	regexp.MustCompile(`issue #\d+`),
	regexp.MustCompile(`(high|medium|low)\s*-\s*feature`),
	regexp.MustCompile(`discovered during`),
	regexp.MustCompile(`test file:`),
	regexp.MustCompile(`workaround`),
	regexp.MustCompile(`manual verification`),
	regexp.MustCompile(`preflight`),
	regexp.MustCompile(`checklist`),
}

// sentimentWords weights words that signal genuine user feedback.
var sentimentWords = map[string]int{
	"frustrated": 3, "frustrating": 3, "annoying": 3, "annoyed": 3,
	"love": 3, "great": 2, "awesome": 2, "amazing": 2,
	"wish": 2, "hope": 2, "would be nice": 3,
	"broken": 2, "confused": 2, "confusing": 2, "unclear": 2,
	"difficult": 2, "hard to": 2, "impossible": 3,
	"doesn't work": 3, "not working": 3, "stopped working": 3,
	"please": 1, "need": 1, "important": 2, "critical": 3,
	"unfortunately": 2, "disappointed": 3, "expected": 1,
	"but": 1, "however": 1, "instead": 1,
	"keeps": 2, "always": 1, "never": 2, "every time": 2,
	"can't": 2, "cannot": 2, "unable": 2,
	"should": 1, "shouldn't": 2, "why": 1,
	"better": 1, "worse": 2, "terrible": 3, "horrible": 3,
	"useful": 2, "helpful": 2, "useless": 3,
}

// minSentimentScore is the unboosted score a sentence needs to qualify.
const minSentimentScore = 2

// maxSentenceChars drops walls of text before truncation even applies.
const maxSentenceChars = 350

// QuoteExtractor selects a bounded set of representative excerpts from
// issue bodies. Best-effort sampling, not summarization: template and
// log-like text is filtered out and the remaining sentences are ranked
// by a sentiment heuristic.
type QuoteExtractor struct {
	cfg Config
}

// NewQuoteExtractor creates a quote extractor for the given configuration.
func NewQuoteExtractor(cfg Config) *QuoteExtractor {
	return &QuoteExtractor{cfg: cfg}
}

type quoteCandidate struct {
	text     string
	number   int
	category string
	score    int
}

// Extract selects up to MaxQuotes excerpts. Issues already surfaced as
// top-discussed, and issues in the highest-priority category, are
// preferred. At most one quote per issue.
func (q *QuoteExtractor) Extract(issues []CategorizedIssue, topDiscussed []RankedIssue) []Quote {
	topSet := make(map[int]bool, len(topDiscussed))
	for _, ranked := range topDiscussed {
		topSet[ranked.Issue.Number] = true
	}

	highSignal := q.cfg.Categories[0].Name

	var candidates []quoteCandidate

	for _, item := range issues {
		body := item.Issue.Body
		if len(body) < q.cfg.QuoteMinChars {
			continue
		}

		for _, sentence := range candidateSentences(body) {
			if len(sentence) < q.cfg.QuoteMinChars || len(sentence) > maxSentenceChars {
				continue
			}

			score := scoreSentiment(sentence)
			if score < minSentimentScore {
				continue
			}

			if topSet[item.Issue.Number] {
				score += 2
			}

			if item.Category == highSignal {
				score += 2
			}

			candidates = append(candidates, quoteCandidate{
				text:     sentence,
				number:   item.Issue.Number,
				category: item.Category,
				score:    score,
			})
		}
	}

	// Stable: equal scores keep encounter order, which keeps output
	// deterministic across runs.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	seen := make(map[int]bool)
	quotes := make([]Quote, 0, q.cfg.MaxQuotes)

	for _, cand := range candidates {
		if len(quotes) >= q.cfg.MaxQuotes {
			break
		}

		if seen[cand.number] {
			continue
		}
		seen[cand.number] = true

		display := cand.category
		if cat, ok := q.cfg.CategoryByName(cand.category); ok {
			display = cat.Display
		}

		quotes = append(quotes, Quote{
			Text:        q.sanitize(cand.text),
			IssueNumber: cand.number,
			Category:    display,
		})
	}

	return quotes
}

// sanitize collapses whitespace runs (including line breaks, which would
// break block-quote rendering) and truncates to the configured width.
func (q *QuoteExtractor) sanitize(text string) string {
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

	return runewidth.Truncate(text, q.cfg.QuoteMaxChars, "…")
}

// candidateSentences strips template lines from a body and splits the
// remainder into sentences.
func candidateSentences(body string) []string {
	var clean []string

	for _, line := range strings.Split(body, "\n") {
		if !isTemplateLine(line) {
			clean = append(clean, strings.TrimSpace(line))
		}
	}

	var sentences []string

	for _, sentence := range splitSentences(strings.Join(clean, " ")) {
		if isTemplateLine(sentence) || isBoilerplateSentence(sentence) {
			continue
		}

		sentences = append(sentences, sentence)
	}

	return sentences
}

// isTemplateLine reports whether a line looks like issue-template
// boilerplate rather than user prose.
func isTemplateLine(line string) bool {
	line = strings.TrimSpace(line)

	if line == "" {
		return true
	}

	for _, prefix := range []string{"**", "###", "##", "#", "---", "```", "- [", "* ["} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}

	lower := strings.ToLower(line)
	for _, phrase := range templatePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	// Key-value pairs like "OS: macOS".
	if len(line) < 80 && keyValueLine.MatchString(line) {
		return true
	}

	// Paths, stack frames and error dumps.
	for _, prefix := range []string{"/", "at ", "Error:", "TypeError", "SyntaxError"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}

	return false
}

// isBoilerplateSentence reports whether a sentence is a list intro,
// label or other non-quote structure that survived line filtering.
func isBoilerplateSentence(sentence string) bool {
	sentence = strings.TrimSpace(sentence)
	lower := strings.ToLower(sentence)

	if trailingListRef.MatchString(sentence) {
		return true
	}

	for _, pattern := range boilerplatePatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}

	if strings.HasSuffix(sentence, ":") {
		return true
	}

	return numberedLabel.MatchString(sentence)
}

// scoreSentiment scores feedback value: weighted sentiment words plus a
// bonus for first-person voice.
func scoreSentiment(text string) int {
	lower := strings.ToLower(text)
	score := 0

	for word, weight := range sentimentWords {
		if strings.Contains(lower, word) {
			score += weight
		}
	}

	if firstPersonVoice.MatchString(lower) {
		score++
	}

	return score
}

// splitSentences splits prose on sentence-ending punctuation followed by
// whitespace, keeping the punctuation with the sentence.
func splitSentences(text string) []string {
	var sentences []string

	start := 0

	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		sentences = append(sentences, strings.TrimSpace(text[start:loc[0]+1]))
		start = loc[1]
	}

	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}

	return sentences
}
