package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zsxq_sync/internal/domain"
)

func TestNormalizeMarkup_HashtagSelfClosing(t *testing.T) {
	// Attribute values may use either quote style.
	res := normalizeMarkup(`你好 <e type='hashtag' title='%23AI%23'/> 世界`)

	assert.Equal(t, "你好 #AI# 世界", res.text)
	assert.Equal(t, []string{"AI"}, res.tags)
	assert.Zero(t, res.degraded)
}

func TestNormalizeMarkup_HashtagPaired(t *testing.T) {
	res := normalizeMarkup(`learning <e type="hashtag" hid="1">#Golang#</e> today`)

	assert.Equal(t, "learning #Golang# today", res.text)
	assert.Equal(t, []string{"Golang"}, res.tags)
}

func TestNormalizeMarkup_TagsDedupedInOrder(t *testing.T) {
	res := normalizeMarkup(`#x# <e type="hashtag" title="%23y%23"/> and #x# again`)

	assert.Equal(t, []string{"y", "x"}, res.tags)
}

func TestNormalizeMarkup_Mention(t *testing.T) {
	res := normalizeMarkup(`thanks <e type="mention" uid="9">@张三</e>!`)

	assert.Equal(t, "thanks @张三!", res.text)
	assert.Empty(t, res.tags)
}

func TestNormalizeMarkup_TextStyles(t *testing.T) {
	res := normalizeMarkup(
		`<e type="text_bold" title="bold"/> <e type="text_italic" title="slanted"/> <e type="text_delete" title="gone"/>`,
	)

	assert.Equal(t, "**bold** *slanted* ~~gone~~", res.text)
}

func TestNormalizeMarkup_WebLink(t *testing.T) {
	res := normalizeMarkup(`see <e type="web" href="https%3A%2F%2Fexample.com%2Fdoc" title="the%20doc"/>`)

	assert.Equal(t, `see <a href="https://example.com/doc">the doc</a>`, res.text)
	assert.Empty(t, res.images)
}

func TestNormalizeMarkup_WebLinkToImage(t *testing.T) {
	res := normalizeMarkup(`<e type="web" href="https%3A%2F%2Fimages.example.com%2Fpic.jpg"/>`)

	require.Len(t, res.images, 1)
	assert.Equal(t, "https://images.example.com/pic.jpg", res.images[0].URL)
	assert.Contains(t, res.text, `<img src="https://images.example.com/pic.jpg"`)
}

func TestNormalizeMarkup_InlineImage(t *testing.T) {
	res := normalizeMarkup(`before <e type="image" src="https%3A%2F%2Fimg.qpic.cn%2Fa.png"/> after`)

	require.Len(t, res.images, 1)
	assert.Equal(t, "https://img.qpic.cn/a.png", res.images[0].URL)
	assert.Equal(t, `before <img src="https://img.qpic.cn/a.png" alt=""> after`, res.text)
}

func TestNormalizeMarkup_UnknownTagDegrades(t *testing.T) {
	withTitle := normalizeMarkup(`<e type="sticker" title="%E7%AC%91"/>`)
	assert.Equal(t, "笑", withTitle.text)
	assert.Zero(t, withTitle.degraded)

	withoutTitle := normalizeMarkup(`text <e type="sticker" sid="5"/> end`)
	assert.Equal(t, "text  end", withoutTitle.text)
	assert.Equal(t, 1, withoutTitle.degraded)
}

func TestNormalizeMarkup_InvalidPercentEncodingKeptRaw(t *testing.T) {
	res := normalizeMarkup(`<e type="text_bold" title="%ZZbroken"/>`)

	assert.Equal(t, "**%ZZbroken**", res.text)
	assert.Equal(t, 1, res.degraded)
}

func TestNormalizeMarkup_Idempotent(t *testing.T) {
	input := `你好 <e type='hashtag' title='%23AI%23'/> <e type="text_bold" title="x%20y"/> <e type="mention">@u</e>`

	first := normalizeMarkup(input)
	second := normalizeMarkup(first.text)

	assert.Equal(t, first.text, second.text)
	assert.Empty(t, second.images)
}

func TestNormalizeMarkup_Empty(t *testing.T) {
	res := normalizeMarkup("")

	assert.Empty(t, res.text)
	assert.Empty(t, res.tags)
	assert.Empty(t, res.images)
}

func TestStripFooter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "trailing attribution removed",
			in:   "real content\n\n发布于 微信小程序 2026-08-01 09:00:00",
			want: "real content",
		},
		{
			name: "dash prefixed attribution removed",
			in:   "body\n——发布于 iPhone 2026-08-01 09:00:00",
			want: "body",
		},
		{
			name: "no footer untouched",
			in:   "just text",
			want: "just text",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFooter(tt.in))
		})
	}
}

func TestRenderParagraphs_Article(t *testing.T) {
	got := renderParagraphs("first block\n\nsecond block\nwith a break", domain.KindArticle)

	assert.Equal(t, "<p>first block</p>\n\n<p>second block<br>\nwith a break</p>", got)
}

func TestRenderParagraphs_Moment(t *testing.T) {
	got := renderParagraphs("one\n\ntwo\nthree", domain.KindMoment)

	assert.Equal(t, "<p>one</p><p>two<br>three</p>", got)
}

func TestStripMarkupForTitle(t *testing.T) {
	got := stripMarkupForTitle(`My   <e type="hashtag">#topic#</e> <e type="text_bold" title="day"/> <b>post</b>`)

	assert.Equal(t, "My #topic# day post", got)
}

func TestIsImageURL(t *testing.T) {
	assert.True(t, isImageURL("https://example.com/photo.JPG"))
	assert.True(t, isImageURL("https://a.qpic.cn/whatever"))
	assert.True(t, isImageURL("https://images.zsxq.com/x"))
	assert.False(t, isImageURL("https://example.com/page"))
	assert.False(t, isImageURL(""))
}
