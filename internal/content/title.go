package content

import (
	"regexp"
	"strings"

	"zsxq_sync/internal/domain"
)

// Hard ceiling for explicit titles regardless of configuration.
const maxExplicitTitleLen = 200

var (
	terminalPunct = []string{"。", "！", "？", "，", "、"}
	breakpoints   = []string{"：", ":", "，", "、", " ", "-", "－"}
	sentenceSplit = regexp.MustCompile(`[。！？]`)
	rePunct       = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
)

// titleFor derives the post title. sourceLine is the raw first body
// line the title was taken from, used later to drop the duplicated
// line from the body; empty when the title has another origin.
func (p *Processor) titleFor(t *domain.Topic, kind domain.ContentKind) (title, sourceLine string) {
	if explicit := explicitTitle(t); explicit != "" {
		return truncateRunes(explicit, maxExplicitTitleLen), ""
	}
	if kind == domain.KindMoment {
		return p.momentTitle(t), ""
	}
	return p.articleTitle(t)
}

func explicitTitle(t *domain.Topic) string {
	if t.Content != nil && t.Content.Title != "" {
		return t.Content.Title
	}
	if t.Talk != nil && t.Talk.Article != nil && t.Talk.Article.Title != "" {
		return t.Talk.Article.Title
	}
	return ""
}

func (p *Processor) momentTitle(t *domain.Topic) string {
	clean := stripMarkupForTitle(t.Text())
	if clean == "" {
		if created := t.CreatedAt(); !created.IsZero() {
			return p.opts.MomentTitlePrefix + " " + created.Format("01-02 15:04")
		}
		return p.opts.MomentTitlePrefix + " " + p.opts.PlaceholderTitle
	}

	title := clean
	if runeLen(clean) > p.opts.MomentMaxTitleLen {
		title = strings.TrimRight(truncateRunes(clean, p.opts.MomentMaxTitleLen), " ")
		if !endsWithAny(title, terminalPunct) {
			title += "…"
		}
	}
	return p.opts.MomentTitlePrefix + " " + title
}

func (p *Processor) articleTitle(t *domain.Topic) (title, sourceLine string) {
	text := t.Text()

	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > 0 {
		rawFirst := strings.TrimSpace(lines[0])
		first := stripMarkupForTitle(rawFirst)
		if first != "" && runeLen(first) <= p.opts.ArticleMaxTitleLen && !endsWithAny(first, terminalPunct) {
			if runeLen(first) > 50 {
				return breakAt(first), rawFirst
			}
			return first, rawFirst
		}
	}

	clean := stripMarkupForTitle(reWhitespace.ReplaceAllString(text, " "))
	if clean != "" {
		if sentences := sentenceSplit.Split(clean, 2); len(sentences) > 0 {
			first := strings.TrimSpace(sentences[0])
			if first != "" && runeLen(first) <= 50 {
				return first, ""
			}
		}
		if runeLen(clean) > 30 {
			return truncateRunes(clean, 30) + "…", ""
		}
		return clean, ""
	}

	if created := t.CreatedAt(); !created.IsZero() {
		return p.opts.PlaceholderTitle + " " + created.Format("2006-01-02"), ""
	}
	return p.opts.PlaceholderTitle, ""
}

// breakAt truncates a long first line at the nearest natural break
// point within a fixed window, falling back to a plain cut.
func breakAt(line string) string {
	runes := []rune(line)
	cut := 30
	for _, bp := range breakpoints {
		pos := runeIndexFrom(runes, bp, 20)
		if pos >= 20 && pos <= 45 {
			cut = pos + 1
			break
		}
	}
	return strings.TrimRight(string(runes[:cut]), "：: ") + "…"
}

// removeTitleDuplication drops the leading body line when it repeats
// the derived title. Policy order: source-line match, exact match,
// truncation match, normalized fuzzy match, otherwise untouched.
func removeTitleDuplication(text, title, sourceLine string) string {
	if text == "" || title == "" {
		return text
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return text
	}
	first := strings.TrimSpace(lines[0])

	if !titleDuplicates(first, title, sourceLine) {
		return text
	}
	return strings.TrimSpace(strings.Join(lines[1:], "\n"))
}

func titleDuplicates(firstLine, title, sourceLine string) bool {
	if sourceLine != "" && firstLine == sourceLine {
		return true
	}

	clean := strings.TrimRight(title, "….")
	if clean == "" {
		return false
	}

	// Exact and truncation matches.
	if strings.HasPrefix(firstLine, clean) {
		return true
	}

	// Fuzzy: compare with punctuation stripped and whitespace folded.
	normTitle := normalizeForMatch(clean)
	normFirst := normalizeForMatch(firstLine)
	return normTitle != "" && runeLen(normTitle) >= 8 && strings.HasPrefix(normFirst, normTitle)
}

func normalizeForMatch(s string) string {
	s = rePunct.ReplaceAllString(s, "")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func runeIndexFrom(runes []rune, substr string, from int) int {
	if from >= len(runes) {
		return -1
	}
	idx := strings.Index(string(runes[from:]), substr)
	if idx < 0 {
		return -1
	}
	return from + runeLen(string(runes[from:])[:idx])
}

func endsWithAny(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
