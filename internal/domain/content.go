package domain

import "time"

// ContentKind classifies a topic for publishing. The zero value is
// Article so unmatched shapes always land on the default branch.
type ContentKind int

const (
	KindArticle ContentKind = iota
	KindMoment
)

func (k ContentKind) String() string {
	if k == KindMoment {
		return "moment"
	}
	return "article"
}

// ImageRef is one image discovered while transforming a topic.
// Discovery order is preserved; it decides where trailing images land
// in the final document.
type ImageRef struct {
	// URL is the preferred source URL (large > original > thumbnail >
	// bare url).
	URL string
	// Embedded is set during body assembly when an inline placeholder
	// for the URL was found and rewritten.
	Embedded bool
}

// Post is the fully transformed, publish-ready content for one topic.
// Immutable after the processor builds it; only body assembly resolves
// the image URLs.
type Post struct {
	TopicID    string
	Kind       ContentKind
	Title      string
	Body       string
	Images     []ImageRef
	Tags       []string
	Categories []string
	CreatedAt  time.Time

	// DegradedTags counts markup tags that could not be parsed and
	// were carried through as literal text.
	DegradedTags int
}
