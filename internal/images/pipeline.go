package images

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"zsxq_sync/internal/domain"
)

// Limit on a single image download.
const maxImageBytes = 32 << 20

// BlobStore relocates raw bytes under a derived key and returns the
// public URL.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// Config holds pipeline tuning.
type Config struct {
	Workers        int
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func (c *Config) setDefaults() {
	if c.Workers == 0 {
		c.Workers = 3
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = 1 * time.Second
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 30 * time.Second
	}
}

// Pipeline downloads source images and relocates them to the blob
// store with bounded concurrency. Failures degrade: the image keeps
// its original URL and the item is still published.
type Pipeline struct {
	httpClient *http.Client
	store      BlobStore
	cfg        Config
	logger     *slog.Logger
}

func NewPipeline(store BlobStore, cfg Config, logger *slog.Logger) *Pipeline {
	cfg.setDefaults()
	return &Pipeline{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		store:      store,
		cfg:        cfg,
		logger:     logger.With("component", "images"),
	}
}

// Relocate processes each distinct source URL and returns the mapping
// from original URL to relocated URL. URLs whose acquisition or upload
// exhausted all retries are absent from the map.
func (p *Pipeline) Relocate(ctx context.Context, refs []domain.ImageRef) map[string]string {
	urls := distinctURLs(refs)
	if len(urls) == 0 {
		return map[string]string{}
	}

	workers := p.cfg.Workers
	if workers > len(urls) {
		workers = len(urls)
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = make(map[string]string, len(urls))
	)

	jobs := make(chan string)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				final, err := p.relocateOne(ctx, src)
				if err != nil {
					p.logger.Warn("image relocation failed, keeping original URL",
						"url", src,
						"error", err,
					)
					continue
				}
				mu.Lock()
				result[src] = final
				mu.Unlock()
			}
		}()
	}

	for _, src := range urls {
		jobs <- src
	}
	close(jobs)
	wg.Wait()

	p.logger.Debug("image batch complete", "total", len(urls), "relocated", len(result))
	return result
}

func (p *Pipeline) relocateOne(ctx context.Context, src string) (string, error) {
	data, ext, err := p.fetch(ctx, src)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}

	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:]) + ext

	final, err := p.store.Put(ctx, key, data)
	if err != nil {
		return "", fmt.Errorf("relocate image: %w", err)
	}

	p.logger.Debug("image relocated", "url", src, "key", key)
	return final, nil
}

func (p *Pipeline) fetch(ctx context.Context, src string) ([]byte, string, error) {
	var lastErr error

	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		data, ext, err := p.doFetch(ctx, src)
		if err == nil {
			return data, ext, nil
		}
		lastErr = err

		if attempt == p.cfg.MaxAttempts {
			break
		}

		backoff := p.calculateBackoff(attempt)
		p.logger.Debug("image fetch failed, retrying",
			"url", src,
			"attempt", attempt,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, "", fmt.Errorf("after %d attempts: %w", p.cfg.MaxAttempts, lastErr)
}

func (p *Pipeline) doFetch(ctx context.Context, src string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}

	return data, extensionFor(resp.Header.Get("Content-Type"), src), nil
}

func (p *Pipeline) calculateBackoff(attempt int) time.Duration {
	backoff := p.cfg.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > p.cfg.MaxBackoff {
		backoff = p.cfg.MaxBackoff
	}
	return backoff
}

func distinctURLs(refs []domain.ImageRef) []string {
	seen := make(map[string]bool, len(refs))
	var urls []string
	for _, ref := range refs {
		if ref.URL != "" && !seen[ref.URL] {
			seen[ref.URL] = true
			urls = append(urls, ref.URL)
		}
	}
	return urls
}

func extensionFor(contentType, src string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return ".jpg"
	case strings.Contains(ct, "png"):
		return ".png"
	case strings.Contains(ct, "gif"):
		return ".gif"
	case strings.Contains(ct, "webp"):
		return ".webp"
	}
	if u, err := url.Parse(src); err == nil {
		if ext := path.Ext(u.Path); ext != "" {
			return ext
		}
	}
	return ".jpg"
}
