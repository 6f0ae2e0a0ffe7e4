package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Topic is a raw item as returned by the ZSXQ API. The nested shape
// decides how it is classified: a talk without an article reference is
// a moment, everything else is an article.
type Topic struct {
	TopicID    int64    `json:"topic_id"`
	Type       string   `json:"type"`
	Digested   bool     `json:"digested"`
	Sticky     bool     `json:"sticky"`
	CreateTime string   `json:"create_time"`
	Talk       *Talk    `json:"talk,omitempty"`
	Question   *QA      `json:"question,omitempty"`
	Answer     *QA      `json:"answer,omitempty"`
	Content    *Content `json:"content,omitempty"`
}

type Talk struct {
	Text    string      `json:"text"`
	Article *ArticleRef `json:"article,omitempty"`
	Images  []Image     `json:"images,omitempty"`
}

type QA struct {
	Text   string  `json:"text"`
	Images []Image `json:"images,omitempty"`
}

type Content struct {
	Title  string  `json:"title"`
	Text   string  `json:"text"`
	Images []Image `json:"images,omitempty"`
}

// ArticleRef marks a talk as carrying a full article behind a detail
// fetch. The list endpoint only returns a summary.
type ArticleRef struct {
	Title      string `json:"title"`
	ArticleURL string `json:"article_url"`
}

// Image carries the size variants the API may return for one image.
// Preferred source order is large > original > thumbnail > bare URL.
type Image struct {
	Large     *ImageSize `json:"large,omitempty"`
	Original  *ImageSize `json:"original,omitempty"`
	Thumbnail *ImageSize `json:"thumbnail,omitempty"`
	URL       string     `json:"url,omitempty"`
}

type ImageSize struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// SourceURL picks the best available URL variant, empty if none.
func (i Image) SourceURL() string {
	for _, s := range []*ImageSize{i.Large, i.Original, i.Thumbnail} {
		if s != nil && s.URL != "" {
			return s.URL
		}
	}
	return i.URL
}

// ID returns the topic id as the string key used across the ledger.
func (t *Topic) ID() string {
	return strconv.FormatInt(t.TopicID, 10)
}

// Text returns the raw body text for the topic's shape, empty when the
// topic carries none.
func (t *Topic) Text() string {
	switch {
	case t.Type == "talk" && t.Talk != nil:
		return t.Talk.Text
	case t.Type == "q&a-question" && t.Question != nil:
		return t.Question.Text
	case t.Type == "q&a-answer" && t.Answer != nil:
		return t.Answer.Text
	case t.Content != nil:
		return t.Content.Text
	}
	return ""
}

// CreatedAt parses the topic's creation timestamp, zero time on failure.
func (t *Topic) CreatedAt() time.Time {
	ts, err := ParseTime(t.CreateTime)
	if err != nil {
		return time.Time{}
	}
	return ts
}

var compactTZ = regexp.MustCompile(`([+-])(\d{2})(\d{2})$`)

// ParseTime parses the API's ISO-8601 timestamps, which may carry a
// trailing Z or a compact +HHMM offset.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	normalized := compactTZ.ReplaceAllString(s, "$1$2:$3")
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, normalized); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
