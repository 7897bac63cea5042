// Package core implements the digest pipeline: categorization,
// aggregation, quote extraction and markdown rendering.
package core

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoCategories         = errors.New("at least one category is required")
	ErrCategoryMissingName  = errors.New("category name is required")
	ErrCategoryMissingLabel = errors.New("category label is required")
	ErrDuplicateCategory    = errors.New("category names must be unique")
	ErrFallbackNotLast      = errors.New("the keyword-free fallback category must be last")
	ErrFallbackHasKeywords  = errors.New("the last category is the fallback and must have no keywords")
	ErrInvalidLookback      = errors.New("lookback_days must be at least 1")
	ErrInvalidTopIssues     = errors.New("top_issues must be at least 1")
	ErrInvalidTopKeywords   = errors.New("top_keywords must be at least 1")
	ErrInvalidMaxQuotes     = errors.New("max_quotes must be non-negative")
	ErrInvalidQuoteBounds   = errors.New("quote_min_chars must be positive and below quote_max_chars")
	ErrInvalidMaxAttempts   = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay  = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidMaxDelay      = errors.New("retry.max_delay_ms must be at least initial_delay_ms")
	ErrInvalidBackoffFactor = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidJitter        = errors.New("retry.jitter must be between 0 and 1")
	ErrInvalidTimeout       = errors.New("retry.timeout_sec must be at least 1")
)

// Category is one classification bucket with its ordered trigger keywords.
// Slice position in Config.Categories is the match priority and the render
// order. The last category is the keyword-free fallback.
type Category struct {
	Name     string   `yaml:"name"`
	Label    string   `yaml:"label"`
	Display  string   `yaml:"display"`
	Keywords []string `yaml:"keywords"`
}

// RetryPolicy defines the fetcher's retry behavior.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	Jitter            float64 `yaml:"jitter"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// Config is the immutable configuration for one digest run. It is built
// once in main and passed into each component.
type Config struct {
	Title         string      `yaml:"title"`
	LookbackDays  int         `yaml:"lookback_days"`
	TopIssues     int         `yaml:"top_issues"`
	TopKeywords   int         `yaml:"top_keywords"`
	MaxQuotes     int         `yaml:"max_quotes"`
	QuoteMinChars int         `yaml:"quote_min_chars"`
	QuoteMaxChars int         `yaml:"quote_max_chars"`
	Categories    []Category  `yaml:"categories"`
	Retry         RetryPolicy `yaml:"retry"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Title:         "Weekly",
		LookbackDays:  7,
		TopIssues:     3,
		TopKeywords:   3,
		MaxQuotes:     5,
		QuoteMinChars: 50,
		QuoteMaxChars: 300,
		Categories: []Category{
			{
				Name:    "bug",
				Label:   "🐛 Bugs",
				Display: "Bug",
				Keywords: []string{
					"bug", "error", "crash", "broken", "fail", "not working",
					"doesn't work", "problem", "exception", "traceback",
					"unexpected", "wrong",
				},
			},
			{
				Name:    "feature_request",
				Label:   "✨ Feature Requests",
				Display: "Feature Request",
				Keywords: []string{
					"feature", "request", "add", "support", "would be nice",
					"suggestion", "enhance", "improvement", "could you",
					"please add", "wish", "proposal",
				},
			},
			{
				Name:    "ux_confusion",
				Label:   "😕 UX Confusion",
				Display: "UX Confusion",
				Keywords: []string{
					"confusing", "unclear", "how do i", "how to",
					"don't understand", "unexpected behavior", "intuitive",
					"ux", "user experience", "hard to",
				},
			},
			{
				Name:    "documentation",
				Label:   "📚 Documentation",
				Display: "Documentation",
				Keywords: []string{
					"doc", "documentation", "readme", "example", "tutorial",
					"guide", "instructions", "typo", "clarify", "explain",
				},
			},
			{
				Name:    "other",
				Label:   "📋 Other",
				Display: "Other",
			},
		},
		Retry: RetryPolicy{
			MaxAttempts:       4,
			InitialDelayMs:    1000,
			MaxDelayMs:        30000,
			BackoffMultiplier: 2.0,
			Jitter:            0.1,
			TimeoutSec:        30,
		},
	}
}

// LoadConfig reads a YAML file over the defaults. Fields absent from the
// file keep their default values.
func LoadConfig(filepath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Categories) == 0 {
		return ErrNoCategories
	}

	seen := make(map[string]bool, len(c.Categories))

	for i, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("%w: categories[%d]", ErrCategoryMissingName, i)
		}

		if cat.Label == "" || cat.Display == "" {
			return fmt.Errorf("%w: categories[%d]", ErrCategoryMissingLabel, i)
		}

		if seen[cat.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, cat.Name)
		}
		seen[cat.Name] = true

		// Only the final category may act as the fallback.
		if len(cat.Keywords) == 0 && i != len(c.Categories)-1 {
			return fmt.Errorf("%w: categories[%d]", ErrFallbackNotLast, i)
		}
	}

	if len(c.Categories[len(c.Categories)-1].Keywords) != 0 {
		return ErrFallbackHasKeywords
	}

	if c.LookbackDays < 1 {
		return ErrInvalidLookback
	}

	if c.TopIssues < 1 {
		return ErrInvalidTopIssues
	}

	if c.TopKeywords < 1 {
		return ErrInvalidTopKeywords
	}

	if c.MaxQuotes < 0 {
		return ErrInvalidMaxQuotes
	}

	if c.QuoteMinChars < 1 || c.QuoteMinChars >= c.QuoteMaxChars {
		return ErrInvalidQuoteBounds
	}

	return c.Retry.Validate()
}

// Validate validates the retry policy.
func (rp *RetryPolicy) Validate() error {
	if rp.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if rp.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if rp.MaxDelayMs < rp.InitialDelayMs {
		return ErrInvalidMaxDelay
	}

	if rp.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffFactor
	}

	if rp.Jitter < 0 || rp.Jitter > 1 {
		return ErrInvalidJitter
	}

	if rp.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	return nil
}

// Fallback returns the fallback category assigned when no keyword matches.
func (c *Config) Fallback() Category {
	return c.Categories[len(c.Categories)-1]
}

// CategoryByName looks up a category by its stable name.
func (c *Config) CategoryByName(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}

	return Category{}, false
}

// Lookback returns the trailing window duration.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

// Delay calculates the exponential backoff delay before the given attempt
// (1-based). The first attempt has no delay; later delays are capped at
// MaxDelayMs and spread by the jitter fraction.
func (rp *RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 2; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	if delayMs > float64(rp.MaxDelayMs) {
		delayMs = float64(rp.MaxDelayMs)
	}

	if rp.Jitter > 0 {
		delayMs += delayMs * rp.Jitter * rand.Float64()
	}

	return time.Duration(delayMs) * time.Millisecond
}

// Timeout returns the per-call network timeout.
func (rp *RetryPolicy) Timeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}
