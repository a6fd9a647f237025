// Package export flattens a stored analytics payload into downloadable files.
package export

import (
	"bytes"
	"chatlens/internal/model"
	"encoding/json"
	"strings"
)

const (
	JSONFileName = "chat_analysis.json"
	CSVFileName  = "chat_analysis.csv"
)

var csvHeader = model.ExportRow{Category: "Category", Name: "Name", Metric: "Metric", Value: "Value"}

// JSON pretty-prints the payload exactly as the backend sent it: key order,
// unknown keys and string escapes are preserved. An empty payload exports as {}.
func JSON(payload []byte) ([]byte, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Rows flattens the payload in a fixed section order. Absent sections add no rows.
func Rows(r *model.AnalysisResult) []model.ExportRow {
	if r == nil {
		return nil
	}
	var rows []model.ExportRow
	add := func(category, name, metric, value string) {
		rows = append(rows, model.ExportRow{Category: category, Name: name, Metric: metric, Value: value})
	}

	for _, x := range r.MessageCounts {
		add("Message Counts", x.Name, "messages", x.MessageCount.String())
	}
	for _, x := range r.WordCounts {
		add("Word Counts", x.Name, "words", x.WordCount.String())
	}
	for _, x := range r.LongestGapHours {
		add("Longest Gap Hours", x.Name, "hours", x.Gap.String())
	}
	for _, x := range r.AbsencePeriods {
		add("Absence Periods", x.Name, "gap_minutes", x.Gap.String())
	}
	for _, c := range r.AvgMessageLength {
		add("Average Message Length", c.Key, "chars", c.Value.String())
	}
	if m := r.LongestMessageByChar; m != nil {
		add("Longest Message by Char", m.Sender, "chars", m.CharCount.String())
	}
	if m := r.LongestMessageByWord; m != nil {
		add("Longest Message by Word", m.Sender, "words", m.WordCount.String())
	}
	for _, kw := range r.KeywordMentions {
		for _, c := range kw.Counts {
			add("Keyword Mentions", c.Key, kw.Key, c.Value.String())
		}
	}
	if m := r.FirstMessage; m != nil {
		add("First Message", m.Sender, "text", m.Message)
	}
	for _, sw := range r.SwearWordCounts {
		for _, c := range sw.Counts {
			add("Swear Words", c.Key, sw.Key, c.Value.String())
		}
	}
	return rows
}

// CSV writes the header and Rows(r). Every cell is quoted, quotes are doubled,
// and records are joined by "\n" with no trailing newline. A nil result
// yields the header alone.
func CSV(r *model.AnalysisResult) []byte {
	var b strings.Builder
	writeRow(&b, csvHeader)
	for _, row := range Rows(r) {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	return []byte(b.String())
}

func writeRow(b *strings.Builder, row model.ExportRow) {
	for i, cell := range []string{row.Category, row.Name, row.Metric, row.Value} {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
}
