// Package github fetches issues from the GitHub API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/ksysoev/feedback-digest/pkg/core"
	"golang.org/x/oauth2"
)

// FetchError is returned when the fetch stage fails for good, either on
// a non-transient error or after exhausting the retry budget. The run
// must abort: a partial issue set would skew every percentage in the
// digest.
type FetchError struct {
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching issues failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IssueLister is the slice of the GitHub API the fetcher needs. Satisfied
// by *github.IssuesService; tests substitute a scripted implementation.
type IssueLister interface {
	ListByRepo(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error)
}

// Client fetches issues opened within a trailing window from one
// repository, handling pagination and transient failures.
type Client struct {
	issues IssueLister
	owner  string
	repo   string
	retry  core.RetryPolicy
	sleep  func(time.Duration)
}

// NewClient creates a new GitHub client. An empty token yields an
// unauthenticated client, which works against public repositories at a
// lower rate limit.
func NewClient(token, repoFullName string, cfg core.Config) *Client {
	var httpClient *http.Client

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)

	parts := strings.Split(repoFullName, "/")
	owner := parts[0]
	repo := parts[1]

	return &Client{
		issues: client.Issues,
		owner:  owner,
		repo:   repo,
		retry:  cfg.Retry,
		sleep:  time.Sleep,
	}
}

// NewClientWithDeps creates a client with injected dependencies.
func NewClientWithDeps(lister IssueLister, owner, repo string, retry core.RetryPolicy, sleep func(time.Duration)) *Client {
	return &Client{
		issues: lister,
		owner:  owner,
		repo:   repo,
		retry:  retry,
		sleep:  sleep,
	}
}

// FetchIssues returns all issues created at or after since, deduplicated
// by number. Pull requests are skipped (the issues endpoint returns them
// too). Traversal is newest-first, so a page that crosses the window
// start ends pagination.
func (c *Client) FetchIssues(ctx context.Context, since time.Time) ([]core.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:     "all",
		Sort:      "created",
		Direction: "desc",
		// The API's since filters by update time, so old issues with
		// recent activity still come back. Creation time is re-checked
		// on every item below.
		Since:       since,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var issues []core.Issue

	seen := make(map[int]bool)

	for {
		page, resp, err := c.listPage(ctx, opts)
		if err != nil {
			return nil, err
		}

		pastWindow := false

		for _, item := range page {
			if item.IsPullRequest() {
				continue
			}

			created := item.GetCreatedAt().Time
			if created.Before(since) {
				pastWindow = true
				continue
			}

			number := item.GetNumber()
			if seen[number] {
				continue
			}
			seen[number] = true

			issues = append(issues, core.Issue{
				Number:    number,
				Title:     item.GetTitle(),
				Body:      item.GetBody(),
				Author:    item.GetUser().GetLogin(),
				CreatedAt: created,
				Comments:  item.GetComments(),
				URL:       item.GetHTMLURL(),
			})
		}

		if pastWindow || resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	return issues, nil
}

// listPage fetches one result page, retrying transient failures with
// exponential backoff. Non-transient errors fail immediately.
func (c *Client) listPage(ctx context.Context, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if delay := c.retry.Delay(attempt); delay > 0 {
			c.sleep(delay)
		}

		callCtx, cancel := context.WithTimeout(ctx, c.retry.Timeout())
		page, resp, err := c.issues.ListByRepo(callCtx, c.owner, c.repo, opts)
		cancel()

		if err == nil {
			return page, resp, nil
		}

		lastErr = err

		if !isTransient(err) {
			return nil, nil, &FetchError{Attempts: attempt, Err: err}
		}
	}

	return nil, nil, &FetchError{Attempts: c.retry.MaxAttempts, Err: lastErr}
}

// isTransient reports whether an error is worth retrying: rate limiting,
// server-side failures, timeouts and network errors. Anything else, auth
// failures included, escalates immediately.
func isTransient(err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		code := respErr.Response.StatusCode

		return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
