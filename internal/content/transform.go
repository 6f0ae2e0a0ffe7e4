package content

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"zsxq_sync/internal/domain"
)

var (
	rePairedTag  = regexp.MustCompile(`<e\s+([^<>]*?)>([^<]*)</e>`)
	reSelfTag    = regexp.MustCompile(`<e\s+([^<>]*?)/\s*>`)
	reAttr       = regexp.MustCompile(`(\w+)=["']([^"']*)["']`)
	reAnyTag     = regexp.MustCompile(`<[^>]*>`)
	reWhitespace = regexp.MustCompile(`\s+`)
	rePlainTag   = regexp.MustCompile(`#([^#\s<>]+)#`)

	// Attribution footer the platform appends to exported bodies.
	reFooter = regexp.MustCompile(`(?m)(?:——|—)?\s*发布于\s*.+?\s+\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\s*`)
)

var imageHostPatterns = []string{
	"qpic.cn",
	"images.",
	"img.",
	"/images/",
	"/img/",
	"imagecdn.",
	"imgcdn.",
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".svg", ".ico"}

// transformResult is the raw output of markup normalization before
// paragraph rendering.
type transformResult struct {
	text     string
	images   []domain.ImageRef
	tags     []string
	degraded int
}

// normalizeMarkup rewrites the platform's <e .../> tag vocabulary into
// portable text, collecting inline image references and hashtags.
// Idempotent: its output carries no <e> tags, so a second pass is a
// no-op (no double decoding).
func normalizeMarkup(text string) transformResult {
	res := transformResult{}
	if text == "" {
		return res
	}

	seen := make(map[string]bool)
	collect := func(tag string) {
		tag = strings.Trim(tag, "#")
		if tag != "" && !seen[tag] {
			seen[tag] = true
			res.tags = append(res.tags, tag)
		}
	}

	out := rePairedTag.ReplaceAllStringFunc(text, func(m string) string {
		sub := rePairedTag.FindStringSubmatch(m)
		attrs := parseAttrs(sub[1])
		inner := sub[2]
		switch attrs["type"] {
		case "hashtag":
			collect(inner)
			return inner
		case "mention":
			return inner
		default:
			// Unknown paired tag: keep the visible text, drop the markup.
			return inner
		}
	})

	out = reSelfTag.ReplaceAllStringFunc(out, func(m string) string {
		sub := reSelfTag.FindStringSubmatch(m)
		attrs := parseAttrs(sub[1])

		decode := func(s string) string {
			decoded, err := url.PathUnescape(s)
			if err != nil {
				res.degraded++
				return s
			}
			return decoded
		}

		switch attrs["type"] {
		case "hashtag":
			token := decode(attrs["title"])
			collect(token)
			return token
		case "text_bold":
			return "**" + decode(attrs["title"]) + "**"
		case "text_italic":
			return "*" + decode(attrs["title"]) + "*"
		case "text_delete":
			return "~~" + decode(attrs["title"]) + "~~"
		case "image":
			src := decode(attrs["src"])
			if src == "" {
				src = decode(attrs["url"])
			}
			if src == "" {
				res.degraded++
				return ""
			}
			res.images = append(res.images, domain.ImageRef{URL: src})
			return fmt.Sprintf(`<img src="%s" alt="">`, src)
		case "web":
			href := decode(attrs["href"])
			if href == "" {
				res.degraded++
				return ""
			}
			label := href
			if t, ok := attrs["title"]; ok && t != "" {
				label = decode(t)
			}
			if isImageURL(href) {
				res.images = append(res.images, domain.ImageRef{URL: href})
				return fmt.Sprintf(`<img src="%s" alt="%s">`, href, label)
			}
			return fmt.Sprintf(`<a href="%s">%s</a>`, href, label)
		default:
			if t, ok := attrs["title"]; ok {
				return decode(t)
			}
			res.degraded++
			return ""
		}
	})

	// Plain #tag# tokens already in the text (including the ones the
	// hashtag rewrite just emitted) also feed the tag list.
	for _, m := range rePlainTag.FindAllStringSubmatch(out, -1) {
		collect(m[1])
	}

	res.text = out
	return res
}

func parseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range reAttr.FindAllStringSubmatch(s, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

// stripFooter removes the platform's trailing attribution lines.
// Not matching is fine; the text is returned untouched.
func stripFooter(text string) string {
	if text == "" {
		return text
	}
	return strings.TrimRight(reFooter.ReplaceAllString(text, ""), " \t\n")
}

// renderParagraphs converts newline structure into HTML paragraphs.
// Articles keep one <p> per blank-line-separated block; moments get a
// single compact wrapping.
func renderParagraphs(text string, kind domain.ContentKind) string {
	if text == "" {
		return ""
	}

	if kind == domain.KindMoment {
		out := strings.ReplaceAll(text, "\n\n", "</p><p>")
		out = strings.ReplaceAll(out, "\n", "<br>")
		if !strings.HasPrefix(out, "<p>") {
			out = "<p>" + out + "</p>"
		}
		return out
	}

	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		para = strings.ReplaceAll(para, "\n", "<br>\n")
		paragraphs = append(paragraphs, "<p>"+para+"</p>")
	}
	return strings.Join(paragraphs, "\n\n")
}

// stripMarkupForTitle reduces a raw line to plain text: e-tag payloads
// decoded without format markers, all remaining markup dropped,
// whitespace collapsed.
func stripMarkupForTitle(text string) string {
	out := rePairedTag.ReplaceAllString(text, "$2")
	out = reSelfTag.ReplaceAllStringFunc(out, func(m string) string {
		sub := reSelfTag.FindStringSubmatch(m)
		attrs := parseAttrs(sub[1])
		if t, ok := attrs["title"]; ok {
			if decoded, err := url.PathUnescape(t); err == nil {
				return decoded
			}
			return t
		}
		return ""
	})
	out = reAnyTag.ReplaceAllString(out, "")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(out, " "))
}

func isImageURL(raw string) bool {
	if raw == "" {
		return false
	}
	lower := strings.ToLower(raw)
	path := lower
	if u, err := url.Parse(lower); err == nil && u.Path != "" {
		path = u.Path
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	for _, pattern := range imageHostPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
