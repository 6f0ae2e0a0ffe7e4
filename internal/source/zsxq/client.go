// Package zsxq implements the content source client for the ZSXQ API:
// reverse-chronological topic pages keyed by an end_time cursor, plus
// per-topic detail fetches.
package zsxq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"zsxq_sync/internal/domain"
)

const (
	defaultBaseURL = "https://api.zsxq.com/v2"

	// API caps a single page at 50 topics.
	maxPageSize = 50

	authErrorCode = 401
)

// ErrAuth marks an invalid or expired access token. Fatal for the
// whole run; never retried.
var ErrAuth = errors.New("zsxq: authentication failed, check access token")

type Config struct {
	BaseURL     string
	AccessToken string
	UserAgent   string
	GroupID     string

	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// RequestInterval is the minimum spacing between API calls; the
	// API rate-limits aggressively.
	RequestInterval time.Duration
}

type Client struct {
	httpClient     *http.Client
	limiter        *rate.Limiter
	baseURL        string
	accessToken    string
	userAgent      string
	groupID        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = 1 * time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 60 * time.Second
	}
	if cfg.RequestInterval == 0 {
		cfg.RequestInterval = 2 * time.Second
	}

	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
		baseURL:        cfg.BaseURL,
		accessToken:    cfg.AccessToken,
		userAgent:      cfg.UserAgent,
		groupID:        cfg.GroupID,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", "zsxq"),
	}
}

// Validate checks the token against a minimal topics request.
func (c *Client) Validate(ctx context.Context) error {
	_, _, err := c.ListTopics(ctx, "", 1)
	return err
}

// ListTopics fetches one reverse-chronological page. cursor is the
// create_time of the last topic of the previous page, empty for the
// first. The returned cursor is empty when the source is exhausted.
func (c *Client) ListTopics(ctx context.Context, cursor string, count int) ([]domain.Topic, string, error) {
	if count <= 0 || count > maxPageSize {
		count = maxPageSize
	}

	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	if cursor != "" {
		params.Set("end_time", cursor)
	}

	endpoint := fmt.Sprintf("%s/groups/%s/topics?%s", c.baseURL, c.groupID, params.Encode())

	resp, err := c.request(ctx, endpoint)
	if err != nil {
		return nil, "", err
	}

	topics := resp.RespData.Topics
	next := ""
	if len(topics) == count {
		next = topics[len(topics)-1].CreateTime
	}

	c.logger.Debug("fetched topic page", "count", len(topics), "cursor", cursor)
	return topics, next, nil
}

// TopicDetail fetches the full topic, needed for articles whose list
// entry only carries a summary.
func (c *Client) TopicDetail(ctx context.Context, topicID string) (*domain.Topic, error) {
	endpoint := fmt.Sprintf("%s/groups/%s/topics/%s", c.baseURL, c.groupID, topicID)

	resp, err := c.request(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if resp.RespData.Topic == nil {
		return nil, fmt.Errorf("topic %s not found", topicID)
	}
	return resp.RespData.Topic, nil
}

func (c *Client) request(ctx context.Context, endpoint string) (*apiResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.doRequest(ctx, endpoint)
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, ErrAuth) {
			return nil, err
		}
		lastErr = err

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) doRequest(ctx context.Context, endpoint string) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Cookie", "zsxq_access_token="+c.accessToken)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrAuth
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited: status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if !apiResp.ok() {
		if apiResp.Code == authErrorCode {
			return nil, ErrAuth
		}
		return nil, fmt.Errorf("api error: %s", apiResp.errorMessage())
	}

	return &apiResp, nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}
