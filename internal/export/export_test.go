package export

import (
	"chatlens/internal/model"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string) *model.AnalysisResult {
	t.Helper()
	r, err := model.ParseAnalysis([]byte(raw))
	require.NoError(t, err)
	return r
}

func TestJSON_RoundTrip(t *testing.T) {
	raw := `{"message_counts":[{"Name":"Alice","message_count":3}],"avg_message_length":{"Bob":4.5,"Alice":2},"extra":{"nested":[1,2,null]},"first_message":{"sender":"A","timestamp":"t","message":"<b>\"hi\"</b>"}}`

	out, err := JSON([]byte(raw))
	require.NoError(t, err)

	var want, got interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &want))
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, want, got)
}

func TestJSON_PrettyAndStable(t *testing.T) {
	raw := []byte(`{"b":1,"a":{"x":[1,2]}}` + "\n")

	first, err := JSON(raw)
	require.NoError(t, err)
	second, err := JSON(raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": {\n    \"x\": [\n      1,\n      2\n    ]\n  }\n}", string(first))
}

func TestJSON_Empty(t *testing.T) {
	out, err := JSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestCSV_KeywordMentionsOnly(t *testing.T) {
	r := parse(t, `{"keyword_mentions": {"yo": {"Alice": 3, "Bob": 0}}}`)

	lines := strings.Split(string(CSV(r)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Category","Name","Metric","Value"`, lines[0])
	assert.Equal(t, `"Keyword Mentions","Alice","yo","3"`, lines[1])
	assert.Equal(t, `"Keyword Mentions","Bob","yo","0"`, lines[2])
}

func TestCSV_QuotesDoubled(t *testing.T) {
	r := parse(t, `{"first_message": {"sender": "Al \"Ace\" ice", "timestamp": "t", "message": "say \"hi\", ok"}}`)

	rows := Rows(r)
	require.Len(t, rows, 1)
	assert.Equal(t, model.ExportRow{Category: "First Message", Name: `Al "Ace" ice`, Metric: "text", Value: `say "hi", ok`}, rows[0])

	lines := strings.Split(string(CSV(r)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"First Message","Al ""Ace"" ice","text","say ""hi"", ok"`, lines[1])
}

func TestCSV_NoPayloadIsHeaderOnly(t *testing.T) {
	assert.Equal(t, `"Category","Name","Metric","Value"`, string(CSV(nil)))
	assert.Equal(t, `"Category","Name","Metric","Value"`, string(CSV(&model.AnalysisResult{})))
}

func TestRows_SectionOrder(t *testing.T) {
	r := parse(t, `{
		"swear_word_counts": {"shit": {"Bob": 1}},
		"first_message": {"sender": "Alice", "timestamp": "t", "message": "hi"},
		"keyword_mentions": {"gif": {"Alice": 1}},
		"longest_message_by_word": {"sender": "Bob", "word_count": 9, "preview": "p"},
		"longest_message_by_char": {"sender": "Alice", "char_count": 40, "preview": "p"},
		"avg_message_length": {"Alice": 12.5},
		"absence_periods": [{"Name": "Bob", "gap": 90.25, "absence_start": "a", "absence_end": "b"}],
		"longest_gap_hours": [{"Name": "Bob", "gap": 1.5}],
		"most_active_hour": [{"Name": "Bob", "hour": 3, "count": 2}],
		"morning_evening": {"morning": {"Bob": 1}, "evening": {}},
		"word_counts": [{"Name": "Alice", "word_count": 20}],
		"message_counts": [{"Name": "Alice", "message_count": 5}]
	}`)

	var categories []string
	for _, row := range Rows(r) {
		categories = append(categories, row.Category)
	}
	assert.Equal(t, []string{
		"Message Counts",
		"Word Counts",
		"Longest Gap Hours",
		"Absence Periods",
		"Average Message Length",
		"Longest Message by Char",
		"Longest Message by Word",
		"Keyword Mentions",
		"First Message",
		"Swear Words",
	}, categories)

	rows := Rows(r)
	assert.Equal(t, model.ExportRow{Category: "Absence Periods", Name: "Bob", Metric: "gap_minutes", Value: "90.25"}, rows[3])
	assert.Equal(t, model.ExportRow{Category: "Average Message Length", Name: "Alice", Metric: "chars", Value: "12.5"}, rows[4])
	assert.Equal(t, model.ExportRow{Category: "Swear Words", Name: "Bob", Metric: "shit", Value: "1"}, rows[9])
}

func TestRows_AbsentSectionsDoNotShiftOrder(t *testing.T) {
	r := parse(t, `{"swear_word_counts": {"fuck": {"Bob": 2}}, "message_counts": [{"Name": "Alice", "message_count": 1}]}`)

	rows := Rows(r)
	require.Len(t, rows, 2)
	assert.Equal(t, "Message Counts", rows[0].Category)
	assert.Equal(t, "Swear Words", rows[1].Category)
}

func TestCSV_ByteIdenticalAcrossExports(t *testing.T) {
	r := parse(t, `{"avg_message_length": {"Zed": 1, "Amy": 2, "Kim": 3}, "keyword_mentions": {"b": {"x": 1}, "a": {"y": 2}}}`)
	assert.Equal(t, CSV(r), CSV(r))
	assert.Contains(t, string(CSV(r)), "\"Zed\",\"chars\",\"1\"\n\"Average Message Length\",\"Amy\"")
}
