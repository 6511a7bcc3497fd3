package splashapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Dory74/STEMX373-SafeToManu/internal/domain"
	"github.com/Dory74/STEMX373-SafeToManu/internal/observability"
)

const (
	latestJumpPath  = "/api/latestJump"
	leaderboardPath = "/api/leaderboard"

	endpointLatestJump  = "latest_jump"
	endpointLeaderboard = "leaderboard"
)

// Client implements domain.ScoreSource against the splash scoring service.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a scoring service client. Every request is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: u,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// LatestJump fetches the most recently recorded jump. A body without a numeric
// score is reported as domain.ErrMalformedResponse.
func (c *Client) LatestJump(ctx context.Context) (domain.ScoreRecord, error) {
	var body latestJump
	if err := c.getJSON(ctx, latestJumpPath, endpointLatestJump, &body); err != nil {
		return domain.ScoreRecord{}, err
	}

	score, ok := body.Score.(float64)
	if !ok {
		c.metrics.APIRequests.WithLabelValues(endpointLatestJump, "malformed").Inc()
		return domain.ScoreRecord{}, fmt.Errorf("%w: latest jump score is %T, not a number", domain.ErrMalformedResponse, body.Score)
	}

	username, _ := body.Username.(string)
	if username == "" {
		username = domain.DefaultUsername
	}

	c.metrics.APIRequests.WithLabelValues(endpointLatestJump, "success").Inc()
	return domain.ScoreRecord{Username: username, Score: score}, nil
}

// Leaderboard fetches the full leaderboard, drops non-numeric scores, and sorts
// it highest first. The service enforces no size limit.
func (c *Client) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	var items []leaderboardItem
	if err := c.getJSON(ctx, leaderboardPath, endpointLeaderboard, &items); err != nil {
		return nil, err
	}

	raw := make([]domain.RawEntry, len(items))
	for i, item := range items {
		username, _ := item.Username.(string)
		raw[i] = domain.RawEntry{Username: username, Score: item.Score}
	}

	c.metrics.APIRequests.WithLabelValues(endpointLeaderboard, "success").Inc()
	return domain.NormalizeLeaderboard(raw), nil
}

func (c *Client) getJSON(ctx context.Context, path, endpoint string, v any) error {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.APIDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(endpoint, "network_error").Inc()
		return fmt.Errorf("%w: %s request: %w", domain.ErrNetworkFailure, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.metrics.APIRequests.WithLabelValues(endpoint, "network_error").Inc()
		return fmt.Errorf("%w: %s: status %d: %s", domain.ErrNetworkFailure, endpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		c.metrics.APIRequests.WithLabelValues(endpoint, "malformed").Inc()
		return fmt.Errorf("%w: decode %s: %w", domain.ErrMalformedResponse, endpoint, err)
	}

	c.logger.Debug("scoring service request complete", "endpoint", endpoint, "status", resp.StatusCode)
	return nil
}

// Scoring service response types. Fields are decoded loosely so a wrong type is
// reported as a malformed score rather than a decode failure of the whole body.

type latestJump struct {
	Score    any `json:"score"`
	Username any `json:"username"`
}

type leaderboardItem struct {
	Username any `json:"username"`
	Score    any `json:"score"`
}
