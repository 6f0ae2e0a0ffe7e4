// Package wordpress implements the publish target over the WordPress
// REST API (application-password auth).
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"zsxq_sync/internal/domain"
)

// ErrAuth marks rejected credentials. Fatal for the whole run.
var ErrAuth = errors.New("wordpress: authentication failed, check username and application password")

type Config struct {
	BaseURL  string
	Username string
	Password string

	// MomentPostType is the REST base of the custom post type moments
	// publish to. Empty means moments go to regular posts.
	MomentPostType string

	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	username       string
	password       string
	momentPostType string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger

	mu          sync.Mutex
	tagIDs      map[string]int
	categoryIDs map[string]int
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = 1 * time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 30 * time.Second
	}

	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		username:       cfg.Username,
		password:       cfg.Password,
		momentPostType: cfg.MomentPostType,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("target", "wordpress"),
		tagIDs:         make(map[string]int),
		categoryIDs:    make(map[string]int),
	}
}

type postPayload struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	Date       string `json:"date,omitempty"`
	Tags       []int  `json:"tags,omitempty"`
	Categories []int  `json:"categories,omitempty"`
}

type renderedField struct {
	Rendered string `json:"rendered"`
}

type postResponse struct {
	ID    int           `json:"id"`
	Title renderedField `json:"title"`
}

type termResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Validate checks the credentials against the authenticated user
// endpoint.
func (c *Client) Validate(ctx context.Context) error {
	var me struct {
		ID int `json:"id"`
	}
	return c.request(ctx, http.MethodGet, "/wp-json/wp/v2/users/me?context=edit", nil, &me)
}

// CreatePost publishes the post and returns the created id. Moments go
// to the configured custom post type when one is set, falling back to
// a regular post when the target site does not expose it.
func (c *Client) CreatePost(ctx context.Context, post *domain.Post) (string, error) {
	payload := postPayload{
		Title:   post.Title,
		Content: post.Body,
		Status:  "publish",
	}
	if !post.CreatedAt.IsZero() {
		payload.Date = post.CreatedAt.Format("2006-01-02T15:04:05")
	}

	var err error
	if payload.Tags, err = c.resolveTerms(ctx, "tags", post.Tags); err != nil {
		c.logger.Warn("tag resolution failed, publishing without tags", "error", err)
		payload.Tags = nil
	}
	if payload.Categories, err = c.resolveTerms(ctx, "categories", post.Categories); err != nil {
		c.logger.Warn("category resolution failed, publishing without categories", "error", err)
		payload.Categories = nil
	}

	endpoint := "/wp-json/wp/v2/posts"
	if post.Kind == domain.KindMoment && c.momentPostType != "" {
		endpoint = "/wp-json/wp/v2/" + c.momentPostType
	}

	var created postResponse
	err = c.request(ctx, http.MethodPost, endpoint, payload, &created)
	if err != nil && endpoint != "/wp-json/wp/v2/posts" && isNotFound(err) {
		c.logger.Warn("custom post type unavailable, falling back to regular post",
			"post_type", c.momentPostType,
		)
		err = c.request(ctx, http.MethodPost, "/wp-json/wp/v2/posts", payload, &created)
	}
	if err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}

	c.logger.Info("post created", "post_id", created.ID, "title", post.Title, "kind", post.Kind.String())
	return strconv.Itoa(created.ID), nil
}

// PostExists reports whether a post with exactly this title already
// exists, the secondary duplicate guard behind the ledger.
func (c *Client) PostExists(ctx context.Context, title string) (bool, error) {
	endpoint := "/wp-json/wp/v2/posts?search=" + url.QueryEscape(title) +
		"&per_page=100&status=publish,draft,private&_fields=id,title"

	var posts []postResponse
	if err := c.request(ctx, http.MethodGet, endpoint, nil, &posts); err != nil {
		return false, fmt.Errorf("search posts: %w", err)
	}

	for _, p := range posts {
		if html.UnescapeString(p.Title.Rendered) == title {
			return true, nil
		}
	}
	return false, nil
}

// resolveTerms maps term names onto WordPress term ids, creating
// missing ones. Resolved ids are cached per client.
func (c *Client) resolveTerms(ctx context.Context, taxonomy string, names []string) ([]int, error) {
	var ids []int
	for _, name := range names {
		id, err := c.ensureTerm(ctx, taxonomy, name)
		if err != nil {
			return nil, fmt.Errorf("resolve %s %q: %w", taxonomy, name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Client) ensureTerm(ctx context.Context, taxonomy, name string) (int, error) {
	c.mu.Lock()
	cache := c.tagIDs
	if taxonomy == "categories" {
		cache = c.categoryIDs
	}
	if id, ok := cache[name]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	id, err := c.findTerm(ctx, taxonomy, name)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		id, err = c.createTerm(ctx, taxonomy, name)
		if err != nil {
			return 0, err
		}
	}

	c.mu.Lock()
	cache[name] = id
	c.mu.Unlock()
	return id, nil
}

func (c *Client) findTerm(ctx context.Context, taxonomy, name string) (int, error) {
	endpoint := fmt.Sprintf("/wp-json/wp/v2/%s?search=%s&per_page=100", taxonomy, url.QueryEscape(name))

	var terms []termResponse
	if err := c.request(ctx, http.MethodGet, endpoint, nil, &terms); err != nil {
		return 0, err
	}
	for _, t := range terms {
		if html.UnescapeString(t.Name) == name {
			return t.ID, nil
		}
	}
	return 0, nil
}

func (c *Client) createTerm(ctx context.Context, taxonomy, name string) (int, error) {
	var created termResponse
	err := c.request(ctx, http.MethodPost, "/wp-json/wp/v2/"+taxonomy, map[string]string{"name": name}, &created)
	if err != nil {
		// Lost a create race: another writer made the term first.
		if id, findErr := c.findTerm(ctx, taxonomy, name); findErr == nil && id != 0 {
			return id, nil
		}
		return 0, err
	}
	c.logger.Debug("term created", "taxonomy", taxonomy, "name", name, "id", created.ID)
	return created.ID, nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}

func (c *Client) request(ctx context.Context, method, endpoint string, payload, out any) error {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err := c.doRequest(ctx, method, endpoint, payload, out)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrAuth) || isNotFound(err) {
			return err
		}
		lastErr = err

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"method", method,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrAuth
	case resp.StatusCode >= 300:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
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
