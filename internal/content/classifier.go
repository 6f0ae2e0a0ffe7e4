package content

import "zsxq_sync/internal/domain"

// Classify maps a raw topic onto a content kind. Total: every shape
// lands on exactly one branch and the fallback is Article.
//
// A topic is a moment only when it is a talk without an attached
// article. Q&A topics and anything else are articles.
func Classify(t *domain.Topic) domain.ContentKind {
	if t.Type == "talk" && t.Talk != nil {
		if t.Talk.Article != nil {
			return domain.KindArticle
		}
		return domain.KindMoment
	}
	switch t.Type {
	case "q&a-question", "q&a-answer", "article":
		return domain.KindArticle
	}
	return domain.KindArticle
}
