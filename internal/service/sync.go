package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"zsxq_sync/internal/config"
	"zsxq_sync/internal/content"
	"zsxq_sync/internal/domain"
)

// Mode selects how a sync run walks the source group.
type Mode string

const (
	ModeFull        Mode = "full"
	ModeIncremental Mode = "incremental"
	ModeConcurrent  Mode = "concurrent"
)

type SyncService struct {
	source    ContentSource
	target    PublishTarget
	relocator ImageRelocator
	ledger    Ledger
	notifier  Notifier
	processor *content.Processor
	logger    *slog.Logger
	config    config.SyncConfig
}

func NewSyncService(
	source ContentSource,
	target PublishTarget,
	relocator ImageRelocator,
	ledger Ledger,
	notifier Notifier,
	processor *content.Processor,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *SyncService {
	return &SyncService{
		source:    source,
		target:    target,
		relocator: relocator,
		ledger:    ledger,
		notifier:  notifier,
		processor: processor,
		logger:    logger,
		config:    cfg,
	}
}

// Run executes one sync pass in the given mode and records its summary
// in the ledger. The summary is nil when topic collection fails.
func (s *SyncService) Run(ctx context.Context, mode Mode) (*domain.RunSummary, error) {
	startTime := time.Now()

	since := time.Time{}
	if mode == ModeIncremental {
		since = s.ledger.Watermark()
		if since.IsZero() {
			s.logger.Info("no watermark recorded, falling back to full sync")
		}
	}

	s.logger.Info("starting sync",
		"mode", string(mode),
		"page_size", s.config.PageSize,
		"max_topics", s.config.MaxTopics,
	)

	topics, err := s.collectTopics(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("collect topics: %w", err)
	}

	s.logger.Info("collected topics from source", "count", len(topics))

	summary := &domain.RunSummary{
		Mode:      string(mode),
		Total:     len(topics),
		Timestamp: startTime,
	}

	if mode == ModeConcurrent {
		s.syncConcurrent(ctx, topics, summary)
	} else {
		for i := range topics {
			s.applyOutcome(summary, s.syncTopic(ctx, &topics[i]))
		}
	}

	if err := s.ledger.AdvanceWatermark(ctx, time.Now()); err != nil {
		s.logger.Error("failed to advance watermark", "error", err)
	}

	summary.Duration = time.Since(startTime)
	if err := s.ledger.RecordRun(ctx, *summary); err != nil {
		s.logger.Error("failed to record run summary", "error", err)
	}

	s.logger.Info("sync completed",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)

	return summary, nil
}

// collectTopics pages through the group newest-first. A zero since
// walks the whole group; otherwise paging stops at the first topic at
// or before the watermark.
func (s *SyncService) collectTopics(ctx context.Context, since time.Time) ([]domain.Topic, error) {
	var collected []domain.Topic
	cursor := ""

	for {
		topics, next, err := s.source.ListTopics(ctx, cursor, s.config.PageSize)
		if err != nil {
			return nil, err
		}
		if len(topics) == 0 {
			break
		}

		for i := range topics {
			t := &topics[i]
			if !since.IsZero() {
				createdAt := t.CreatedAt()
				if !createdAt.IsZero() && !createdAt.After(since) {
					s.logger.Debug("reached watermark, stopping pagination",
						"topic_id", t.ID(),
						"create_time", t.CreateTime,
					)
					return collected, nil
				}
			}
			collected = append(collected, topics[i])
			if s.config.MaxTopics > 0 && len(collected) >= s.config.MaxTopics {
				return collected, nil
			}
		}

		if next == "" {
			break
		}
		cursor = next
	}

	return collected, nil
}

type outcome int

const (
	outcomeSucceeded outcome = iota
	outcomeSkipped
	outcomeFailed
)

func (s *SyncService) applyOutcome(summary *domain.RunSummary, o outcome) {
	switch o {
	case outcomeSucceeded:
		summary.Succeeded++
	case outcomeSkipped:
		summary.Skipped++
	case outcomeFailed:
		summary.Failed++
	}
}

func (s *SyncService) syncConcurrent(ctx context.Context, topics []domain.Topic, summary *domain.RunSummary) {
	workers := s.config.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan *domain.Topic)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				o := s.syncTopic(ctx, t)
				mu.Lock()
				s.applyOutcome(summary, o)
				mu.Unlock()
			}
		}()
	}

	for i := range topics {
		jobs <- &topics[i]
	}
	close(jobs)
	wg.Wait()
}

// syncTopic pushes one topic through the whole pipeline. Failures are
// logged and counted but never abort the run.
func (s *SyncService) syncTopic(ctx context.Context, t *domain.Topic) outcome {
	logger := s.logger.With("topic_id", t.ID())

	if s.ledger.IsSynced(t.ID()) {
		logger.Debug("topic already synced, skipping")
		return outcomeSkipped
	}

	kind := content.Classify(t)
	if kind == domain.KindArticle && s.config.FetchArticleDetails {
		detail, err := s.source.TopicDetail(ctx, t.ID())
		if err != nil {
			logger.Warn("failed to fetch article detail, using summary", "error", err)
		} else {
			t = detail
		}
	}

	post := s.processor.Process(t)

	exists, err := s.target.PostExists(ctx, post.Title)
	if err != nil {
		logger.Warn("duplicate check failed, publishing anyway", "error", err)
	} else if exists {
		logger.Info("post with same title already published, skipping", "title", post.Title)
		rec := domain.SyncRecord{
			TopicID:   t.ID(),
			PostID:    domain.DuplicatePostID,
			Title:     post.Title,
			CreatedAt: t.CreatedAt(),
			SyncedAt:  time.Now().UTC(),
		}
		if err := s.ledger.Commit(ctx, rec); err != nil {
			logger.Error("failed to commit duplicate record", "error", err)
		}
		return outcomeSkipped
	}

	var relocated map[string]string
	if s.relocator != nil && len(post.Images) > 0 {
		relocated = s.relocator.Relocate(ctx, post.Images)
	}
	post.Body = content.AssembleBody(post, relocated)

	postID, err := s.target.CreatePost(ctx, post)
	if err != nil {
		logger.Error("failed to publish post", "title", post.Title, "error", err)
		return outcomeFailed
	}

	rec := domain.SyncRecord{
		TopicID:   t.ID(),
		PostID:    postID,
		Title:     post.Title,
		CreatedAt: t.CreatedAt(),
		SyncedAt:  time.Now().UTC(),
	}
	if err := s.ledger.Commit(ctx, rec); err != nil {
		logger.Error("published but failed to commit sync record", "post_id", postID, "error", err)
		return outcomeFailed
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, rec, post.Kind); err != nil {
			logger.Warn("failed to publish sync event", "error", err)
		}
	}

	logger.Info("topic synced",
		"post_id", postID,
		"kind", post.Kind.String(),
		"title", post.Title,
		"images", len(post.Images),
	)
	return outcomeSucceeded
}
