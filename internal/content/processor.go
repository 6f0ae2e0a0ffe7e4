package content

import (
	"fmt"
	"strings"

	"zsxq_sync/internal/domain"
)

// Options tunes title generation and tag/category mapping.
type Options struct {
	ArticleMaxTitleLen int
	MomentMaxTitleLen  int
	MomentTitlePrefix  string
	PlaceholderTitle   string
	EliteTag           string
	EliteCategory      string
	StickyCategory     string
	ArticleCategory    string
	MomentCategory     string
}

func (o *Options) setDefaults() {
	if o.ArticleMaxTitleLen == 0 {
		o.ArticleMaxTitleLen = 80
	}
	if o.MomentMaxTitleLen == 0 {
		o.MomentMaxTitleLen = 30
	}
	if o.MomentTitlePrefix == "" {
		o.MomentTitlePrefix = "[Moment]"
	}
	if o.PlaceholderTitle == "" {
		o.PlaceholderTitle = "Untitled"
	}
	if o.EliteTag == "" {
		o.EliteTag = "elite"
	}
	if o.EliteCategory == "" {
		o.EliteCategory = "Elite"
	}
	if o.StickyCategory == "" {
		o.StickyCategory = "Pinned"
	}
	if o.ArticleCategory == "" {
		o.ArticleCategory = "Articles"
	}
	if o.MomentCategory == "" {
		o.MomentCategory = "Moments"
	}
}

// Processor turns raw topics into publish-ready posts. Pure: no I/O,
// safe for concurrent use.
type Processor struct {
	opts Options
}

func NewProcessor(opts Options) *Processor {
	opts.setDefaults()
	return &Processor{opts: opts}
}

// Process classifies and transforms one topic. Never fails: malformed
// markup degrades to literal text and is counted on the post.
func (p *Processor) Process(t *domain.Topic) *domain.Post {
	kind := Classify(t)
	title, sourceLine := p.titleFor(t, kind)

	text := t.Text()
	if kind == domain.KindArticle {
		text = removeTitleDuplication(text, title, sourceLine)
	}
	text = stripFooter(text)

	normalized := normalizeMarkup(text)

	post := &domain.Post{
		TopicID:      t.ID(),
		Kind:         kind,
		Title:        title,
		Body:         renderParagraphs(normalized.text, kind),
		Images:       dedupeRefs(normalized.images, ExtractImages(t)),
		Tags:         normalized.tags,
		CreatedAt:    t.CreatedAt(),
		DegradedTags: normalized.degraded,
	}

	if t.Digested {
		post.Tags = appendUnique(post.Tags, p.opts.EliteTag)
		post.Categories = append(post.Categories, p.opts.EliteCategory)
	}
	if t.Sticky {
		post.Categories = append(post.Categories, p.opts.StickyCategory)
	}
	if len(post.Categories) == 0 {
		if kind == domain.KindMoment {
			post.Categories = []string{p.opts.MomentCategory}
		} else {
			post.Categories = []string{p.opts.ArticleCategory}
		}
	}

	return post
}

// ExtractImages walks the topic's known attachment slots in a fixed
// order and returns the preferred source URLs as discovered.
func ExtractImages(t *domain.Topic) []domain.ImageRef {
	var refs []domain.ImageRef
	add := func(images []domain.Image) {
		for _, img := range images {
			if u := img.SourceURL(); u != "" {
				refs = append(refs, domain.ImageRef{URL: u})
			}
		}
	}
	if t.Talk != nil {
		add(t.Talk.Images)
	}
	if t.Question != nil {
		add(t.Question.Images)
	}
	if t.Answer != nil {
		add(t.Answer.Images)
	}
	if t.Content != nil {
		add(t.Content.Images)
	}
	return refs
}

// AssembleBody resolves image references against the relocation map.
// A reference whose URL occurs inline is rewritten in place and marked
// embedded; the rest are appended as trailing blocks in discovery
// order. Missing map entries fall back to the original URL.
func AssembleBody(post *domain.Post, relocated map[string]string) string {
	body := post.Body
	var trailing []string

	for i := range post.Images {
		ref := &post.Images[i]
		final := relocated[ref.URL]
		if final == "" {
			final = ref.URL
		}
		if strings.Contains(body, ref.URL) {
			body = strings.ReplaceAll(body, ref.URL, final)
			ref.Embedded = true
			continue
		}
		trailing = append(trailing, fmt.Sprintf(`<img src="%s" alt="">`, final))
	}

	if len(trailing) > 0 {
		block := "<p>" + strings.Join(trailing, "</p>\n\n<p>") + "</p>"
		if body == "" {
			return block
		}
		body += "\n\n" + block
	}
	return body
}

// dedupeRefs merges inline and attachment references, first occurrence
// wins, order preserved.
func dedupeRefs(groups ...[]domain.ImageRef) []domain.ImageRef {
	seen := make(map[string]bool)
	var out []domain.ImageRef
	for _, group := range groups {
		for _, ref := range group {
			if !seen[ref.URL] {
				seen[ref.URL] = true
				out = append(out, ref)
			}
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}
