package content

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"zsxq_sync/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		topic domain.Topic
		want  domain.ContentKind
	}{
		{
			name:  "talk without article is a moment",
			topic: domain.Topic{Type: "talk", Talk: &domain.Talk{Text: "quick thought"}},
			want:  domain.KindMoment,
		},
		{
			name: "talk with article reference is an article",
			topic: domain.Topic{
				Type: "talk",
				Talk: &domain.Talk{Text: "teaser", Article: &domain.ArticleRef{Title: "Deep Dive"}},
			},
			want: domain.KindArticle,
		},
		{
			name:  "question is an article",
			topic: domain.Topic{Type: "q&a-question", Question: &domain.QA{Text: "how?"}},
			want:  domain.KindArticle,
		},
		{
			name:  "answer is an article",
			topic: domain.Topic{Type: "q&a-answer", Answer: &domain.QA{Text: "like this"}},
			want:  domain.KindArticle,
		},
		{
			name:  "content topic is an article",
			topic: domain.Topic{Type: "article", Content: &domain.Content{Title: "Essay", Text: "body"}},
			want:  domain.KindArticle,
		},
		{
			name:  "unknown shape defaults to article",
			topic: domain.Topic{Type: "solution"},
			want:  domain.KindArticle,
		},
		{
			name:  "talk type without talk payload defaults to article",
			topic: domain.Topic{Type: "talk"},
			want:  domain.KindArticle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&tt.topic))
		})
	}
}
