package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"zsxq_sync/internal/domain"
)

type ContentSource interface {
	ListTopics(ctx context.Context, cursor string, count int) ([]domain.Topic, string, error)
	TopicDetail(ctx context.Context, topicID string) (*domain.Topic, error)
	Validate(ctx context.Context) error
}

type PublishTarget interface {
	CreatePost(ctx context.Context, post *domain.Post) (string, error)
	PostExists(ctx context.Context, title string) (bool, error)
	Validate(ctx context.Context) error
}

type ImageRelocator interface {
	Relocate(ctx context.Context, refs []domain.ImageRef) map[string]string
}

type Ledger interface {
	IsSynced(topicID string) bool
	Commit(ctx context.Context, rec domain.SyncRecord) error
	AdvanceWatermark(ctx context.Context, t time.Time) error
	Watermark() time.Time
	RecordRun(ctx context.Context, sum domain.RunSummary) error
}

type Notifier interface {
	Notify(ctx context.Context, rec domain.SyncRecord, kind domain.ContentKind) error
	Close() error
}
