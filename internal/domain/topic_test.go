package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{
			name: "compact offset",
			in:   "2026-08-01T09:00:00.000+0800",
			want: time.Date(2026, 8, 1, 9, 0, 0, 0, time.FixedZone("", 8*3600)),
		},
		{
			name: "colon offset",
			in:   "2026-08-01T09:00:00+08:00",
			want: time.Date(2026, 8, 1, 9, 0, 0, 0, time.FixedZone("", 8*3600)),
		},
		{
			name: "utc",
			in:   "2026-08-01T01:00:00Z",
			want: time.Date(2026, 8, 1, 1, 0, 0, 0, time.UTC),
		},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want))
		})
	}
}

func TestImage_SourceURL(t *testing.T) {
	assert.Equal(t, "l", Image{
		Large:     &ImageSize{URL: "l"},
		Original:  &ImageSize{URL: "o"},
		Thumbnail: &ImageSize{URL: "t"},
	}.SourceURL())
	assert.Equal(t, "o", Image{Original: &ImageSize{URL: "o"}, URL: "u"}.SourceURL())
	assert.Equal(t, "t", Image{Thumbnail: &ImageSize{URL: "t"}}.SourceURL())
	assert.Equal(t, "u", Image{URL: "u"}.SourceURL())
	assert.Empty(t, Image{}.SourceURL())
}

func TestTopic_Text(t *testing.T) {
	assert.Equal(t, "talk text", (&Topic{Type: "talk", Talk: &Talk{Text: "talk text"}}).Text())
	assert.Equal(t, "q", (&Topic{Type: "q&a-question", Question: &QA{Text: "q"}}).Text())
	assert.Equal(t, "a", (&Topic{Type: "q&a-answer", Answer: &QA{Text: "a"}}).Text())
	assert.Equal(t, "c", (&Topic{Type: "article", Content: &Content{Text: "c"}}).Text())
	assert.Empty(t, (&Topic{Type: "talk"}).Text())
}

func TestLedgerState_JSONShape(t *testing.T) {
	state := NewLedgerState()
	state.Records["101"] = SyncRecord{
		TopicID:  "101",
		PostID:   "42",
		Title:    "T",
		SyncedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
	state.Watermark = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	topics, ok := decoded["synced_topics"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, topics, "101")
	// the topic id is the map key, not repeated inside the record
	rec := topics["101"].(map[string]any)
	assert.NotContains(t, rec, "topic_id")
	assert.Contains(t, decoded, "last_sync_time")
}
