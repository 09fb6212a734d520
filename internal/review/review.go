// Package review surfaces the disposition of the external review agent
// for a commit. It never performs review itself and never fails the
// gate: an unreachable or ambiguous status API resolves to pending.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sprite-ai/riskgate/internal/model"
)

// ReviewRequiredTier is the lowest tier for which agent review is owed.
const ReviewRequiredTier = model.TierHigh

// DefaultCheckName is the check-run name the review agent reports under.
const DefaultCheckName = "review-agent"

// Resolver queries the check-runs API for review-agent conclusions.
type Resolver struct {
	BaseURL   string // API root, e.g. https://api.github.com
	Token     string // bearer token; empty for unauthenticated calls
	CheckName string
	Client    *http.Client
}

// NewResolver returns a resolver against the public GitHub API.
func NewResolver(token string) *Resolver {
	return &Resolver{
		BaseURL:   "https://api.github.com",
		Token:     token,
		CheckName: DefaultCheckName,
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Resolve determines the review status for sha in repo at the given
// tier. Precedence: tiers below ReviewRequiredTier are skipped outright;
// a non-empty override is trusted verbatim (used by remediation loops
// that already know the outcome); otherwise the status API is queried.
// Every query anomaly maps to pending with an explanatory note.
func (r *Resolver) Resolve(ctx context.Context, repo, sha string, tier model.Tier, override string) (model.ReviewStatus, string) {
	if tier < ReviewRequiredTier {
		return model.ReviewSkipped, ""
	}

	if override != "" {
		status, err := model.ParseReviewStatus(override)
		if err != nil {
			return model.ReviewPending, fmt.Sprintf("unrecognized status override %q; treating as pending", override)
		}
		return status, "status supplied by override"
	}

	if repo == "" {
		return model.ReviewPending, "no repository identifier; cannot query review status"
	}

	conclusion, err := r.latestConclusion(ctx, repo, sha)
	if err != nil {
		return model.ReviewPending, fmt.Sprintf("review status query failed (%v); treating as pending", err)
	}

	switch conclusion {
	case "success":
		return model.ReviewApproved, ""
	case "failure", "timed_out", "cancelled":
		return model.ReviewRejected, fmt.Sprintf("review agent concluded %s", conclusion)
	case "":
		return model.ReviewPending, "no completed review-agent run for this commit"
	default:
		return model.ReviewPending, fmt.Sprintf("review agent conclusion %q is not terminal; treating as pending", conclusion)
	}
}

// checkRunsResponse mirrors the slice of the check-runs payload the
// resolver reads. Raw API strings stop here.
type checkRunsResponse struct {
	CheckRuns []struct {
		Status     string `json:"status"`
		Conclusion string `json:"conclusion"`
	} `json:"check_runs"`
}

// latestConclusion returns the conclusion of the newest completed
// check-run named CheckName, or "" when none has completed.
func (r *Resolver) latestConclusion(ctx context.Context, repo, sha string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/commits/%s/check-runs?check_name=%s&per_page=10",
		r.BaseURL, repo, sha, url.QueryEscape(r.CheckName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status API returned %d", resp.StatusCode)
	}

	var body checkRunsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding status response: %w", err)
	}

	// The API returns runs newest first; the first completed one wins.
	for _, run := range body.CheckRuns {
		if run.Status == "completed" {
			return run.Conclusion, nil
		}
	}
	return "", nil
}
