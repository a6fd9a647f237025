package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullPayload = `{
  "message_counts": [{"Name": "Alice", "message_count": 12}, {"Name": "Bob", "message_count": 7}],
  "word_counts": [{"Name": "Alice", "word_count": 80}],
  "most_active_hour": [{"Name": "Alice", "hour": 21, "count": 4}],
  "longest_gap_hours": [{"Name": "Bob", "gap": 5.256}],
  "absence_periods": [{"Name": "Bob", "gap": 315.5, "absence_start": "2024-01-01T10:00:00", "absence_end": "2024-01-01T15:15:30"}],
  "morning_evening": {"morning": {"Alice": 3}, "evening": {"Bob": 2, "Alice": 1}},
  "avg_message_length": {"Zoe": 10.25, "Alice": 4},
  "longest_message_by_char": {"sender": "Alice", "char_count": 120, "preview": "hello", "full": "hello world"},
  "longest_message_by_word": {"sender": "Bob", "word_count": 30, "preview": "hey"},
  "keyword_mentions": {"photo": {"Alice": 2, "Bob": 0}, "gif": {"Bob": 1}},
  "first_message": {"sender": "Alice", "timestamp": "2024-01-01T09:00:00", "message": "hi"},
  "swear_word_counts": {"shit": {"Alice": 2}, "fuck": {"Bob": 1}},
  "unrelated": true
}`

func TestParseAnalysis_AllSections(t *testing.T) {
	r, err := ParseAnalysis([]byte(fullPayload))
	require.NoError(t, err)
	assert.Empty(t, r.Skipped)

	require.Len(t, r.MessageCounts, 2)
	assert.Equal(t, "Alice", r.MessageCounts[0].Name)
	assert.Equal(t, Number(7), r.MessageCounts[1].MessageCount)
	assert.Equal(t, Number(21), r.MostActiveHour[0].Hour)
	assert.Equal(t, "2024-01-01T15:15:30", r.AbsencePeriods[0].AbsenceEnd)
	assert.Equal(t, []string{"Bob", "Alice"}, r.MorningEvening.Evening.Keys())
	assert.Equal(t, []string{"Zoe", "Alice"}, r.AvgMessageLength.Keys())
	assert.Equal(t, Number(120), r.LongestMessageByChar.CharCount)
	assert.Equal(t, "hello world", r.LongestMessageByChar.Full)
	assert.Equal(t, Number(30), r.LongestMessageByWord.WordCount)
	assert.Equal(t, "hi", r.FirstMessage.Message)

	require.Len(t, r.KeywordMentions, 2)
	assert.Equal(t, "photo", r.KeywordMentions[0].Key)
	bob, ok := r.KeywordMentions[0].Counts.Get("Bob")
	assert.True(t, ok)
	assert.Equal(t, Number(0), bob)

	_, ok = r.SwearWordCounts.Get("cunt")
	assert.False(t, ok)
}

func TestParseAnalysis_EmptyObject(t *testing.T) {
	r, err := ParseAnalysis([]byte(`{}`))
	require.NoError(t, err)
	assert.Nil(t, r.MessageCounts)
	assert.Nil(t, r.MorningEvening)
	assert.Nil(t, r.KeywordMentions)
	assert.Nil(t, r.FirstMessage)
}

func TestParseAnalysis_NullSectionIsAbsent(t *testing.T) {
	r, err := ParseAnalysis([]byte(`{"message_counts": null, "first_message": null}`))
	require.NoError(t, err)
	assert.Nil(t, r.MessageCounts)
	assert.Nil(t, r.FirstMessage)
	assert.Empty(t, r.Skipped)
}

func TestParseAnalysis_EmptyListIsPresent(t *testing.T) {
	r, err := ParseAnalysis([]byte(`{"word_counts": [], "avg_message_length": {}}`))
	require.NoError(t, err)
	assert.NotNil(t, r.WordCounts)
	assert.Len(t, r.WordCounts, 0)
	assert.NotNil(t, r.AvgMessageLength)
}

func TestParseAnalysis_MalformedSectionDropped(t *testing.T) {
	r, err := ParseAnalysis([]byte(`{"message_counts": "oops", "keyword_mentions": {"x": [1]}, "word_counts": [{"Name": "A", "word_count": 2}]}`))
	require.NoError(t, err)
	assert.Nil(t, r.MessageCounts)
	assert.Nil(t, r.KeywordMentions)
	require.Len(t, r.WordCounts, 1)

	require.Len(t, r.Skipped, 2)
	assert.Equal(t, SectionMessageCounts, r.Skipped[0].Section)
	assert.Equal(t, SectionKeywordMentions, r.Skipped[1].Section)
}

func TestParseAnalysis_NotAnObject(t *testing.T) {
	for _, raw := range []string{`null`, `[]`, `"text"`, `{broken`} {
		_, err := ParseAnalysis([]byte(raw))
		assert.ErrorIs(t, err, ErrNotObject, raw)
	}
}

func TestNumber_NullAndFormatting(t *testing.T) {
	var g LongestGap
	require.NoError(t, json.Unmarshal([]byte(`{"Name": "A", "gap": null}`), &g))
	assert.Equal(t, Number(0), g.Gap)
	assert.Equal(t, "0.00", g.Gap.Fixed(2))

	assert.Equal(t, "3", Number(3).String())
	assert.Equal(t, "12.5", Number(12.5).String())
	assert.Equal(t, "5.26", Number(5.2567).Fixed(2))
}

func TestCounts_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	var c Counts
	require.NoError(t, json.Unmarshal([]byte(`{"a": 1, "b": 2, "a": 3}`), &c))
	assert.Equal(t, []string{"a", "b"}, c.Keys())
	v, _ := c.Get("a")
	assert.Equal(t, Number(3), v)
}

func TestNestedCounts_MarshalPreservesOrder(t *testing.T) {
	var n NestedCounts
	require.NoError(t, json.Unmarshal([]byte(`{"z": {"B": 1, "A": 2}, "a": {}}`), &n))
	out, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, `{"z":{"B":1,"A":2},"a":{}}`, string(out))
}

func TestSectionKeys_Order(t *testing.T) {
	keys := SectionKeys()
	require.Len(t, keys, 12)
	assert.Equal(t, SectionMessageCounts, keys[0])
	assert.Equal(t, SectionSwearWordCounts, keys[11])
}
