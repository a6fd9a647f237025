package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Section keys of the analytics payload, in display order.
const (
	SectionMessageCounts        = "message_counts"
	SectionWordCounts           = "word_counts"
	SectionMostActiveHour       = "most_active_hour"
	SectionLongestGapHours      = "longest_gap_hours"
	SectionAbsencePeriods       = "absence_periods"
	SectionMorningEvening       = "morning_evening"
	SectionAvgMessageLength     = "avg_message_length"
	SectionLongestMessageByChar = "longest_message_by_char"
	SectionLongestMessageByWord = "longest_message_by_word"
	SectionKeywordMentions      = "keyword_mentions"
	SectionFirstMessage         = "first_message"
	SectionSwearWordCounts      = "swear_word_counts"
)

// ErrNotObject is returned when a payload is not a JSON object.
var ErrNotObject = errors.New("payload is not a JSON object")

// MessageCount is a per-person message total
type MessageCount struct {
	Name         string `json:"Name"`
	MessageCount Number `json:"message_count"`
}

// WordCount is a per-person word total
type WordCount struct {
	Name      string `json:"Name"`
	WordCount Number `json:"word_count"`
}

// ActiveHour is the peak hour of one person
type ActiveHour struct {
	Name  string `json:"Name"`
	Hour  Number `json:"hour"`
	Count Number `json:"count"`
}

// LongestGap is the largest silence of one person
type LongestGap struct {
	Name string `json:"Name"`
	Gap  Number `json:"gap"` // hours
}

// AbsencePeriod is a silence interval of one person
type AbsencePeriod struct {
	Name         string `json:"Name"`
	Gap          Number `json:"gap"` // minutes
	AbsenceStart string `json:"absence_start"`
	AbsenceEnd   string `json:"absence_end"`
}

// MorningEvening splits message counts by time of day
type MorningEvening struct {
	Morning Counts `json:"morning"`
	Evening Counts `json:"evening"`
}

// LongestMessage describes the single longest message, by characters or by words.
type LongestMessage struct {
	Sender    string `json:"sender"`
	CharCount Number `json:"char_count,omitempty"`
	WordCount Number `json:"word_count,omitempty"`
	Preview   string `json:"preview"`
	Full      string `json:"full,omitempty"`
}

// FirstMessage is the earliest message of the chat
type FirstMessage struct {
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// AnalysisResult is the analytics payload returned by the backend. Every
// section is optional: nil means the key was absent (or null, or malformed).
// An empty but present list or mapping is non-nil.
type AnalysisResult struct {
	MessageCounts        []MessageCount  `json:"message_counts,omitempty"`
	WordCounts           []WordCount     `json:"word_counts,omitempty"`
	MostActiveHour       []ActiveHour    `json:"most_active_hour,omitempty"`
	LongestGapHours      []LongestGap    `json:"longest_gap_hours,omitempty"`
	AbsencePeriods       []AbsencePeriod `json:"absence_periods,omitempty"`
	MorningEvening       *MorningEvening `json:"morning_evening,omitempty"`
	AvgMessageLength     Counts          `json:"avg_message_length,omitempty"`
	LongestMessageByChar *LongestMessage `json:"longest_message_by_char,omitempty"`
	LongestMessageByWord *LongestMessage `json:"longest_message_by_word,omitempty"`
	KeywordMentions      NestedCounts    `json:"keyword_mentions,omitempty"`
	FirstMessage         *FirstMessage   `json:"first_message,omitempty"`
	SwearWordCounts      NestedCounts    `json:"swear_word_counts,omitempty"`

	// Skipped lists sections that were present but did not match their shape.
	Skipped []SectionError `json:"-"`
}

// SectionError reports a section dropped during decoding.
type SectionError struct {
	Section string
	Err     error
}

func (e SectionError) Error() string {
	return fmt.Sprintf("section %s: %v", e.Section, e.Err)
}

func (e SectionError) Unwrap() error { return e.Err }

type sectionDecoder struct {
	key    string
	decode func(r *AnalysisResult, raw json.RawMessage) error
}

func field[T any](dst func(r *AnalysisResult) *T) func(*AnalysisResult, json.RawMessage) error {
	return func(r *AnalysisResult, raw json.RawMessage) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*dst(r) = v
		return nil
	}
}

var sectionDecoders = []sectionDecoder{
	{SectionMessageCounts, field(func(r *AnalysisResult) *[]MessageCount { return &r.MessageCounts })},
	{SectionWordCounts, field(func(r *AnalysisResult) *[]WordCount { return &r.WordCounts })},
	{SectionMostActiveHour, field(func(r *AnalysisResult) *[]ActiveHour { return &r.MostActiveHour })},
	{SectionLongestGapHours, field(func(r *AnalysisResult) *[]LongestGap { return &r.LongestGapHours })},
	{SectionAbsencePeriods, field(func(r *AnalysisResult) *[]AbsencePeriod { return &r.AbsencePeriods })},
	{SectionMorningEvening, field(func(r *AnalysisResult) **MorningEvening { return &r.MorningEvening })},
	{SectionAvgMessageLength, field(func(r *AnalysisResult) *Counts { return &r.AvgMessageLength })},
	{SectionLongestMessageByChar, field(func(r *AnalysisResult) **LongestMessage { return &r.LongestMessageByChar })},
	{SectionLongestMessageByWord, field(func(r *AnalysisResult) **LongestMessage { return &r.LongestMessageByWord })},
	{SectionKeywordMentions, field(func(r *AnalysisResult) *NestedCounts { return &r.KeywordMentions })},
	{SectionFirstMessage, field(func(r *AnalysisResult) **FirstMessage { return &r.FirstMessage })},
	{SectionSwearWordCounts, field(func(r *AnalysisResult) *NestedCounts { return &r.SwearWordCounts })},
}

// SectionKeys returns the twelve section keys in display order.
func SectionKeys() []string {
	keys := make([]string, 0, len(sectionDecoders))
	for _, d := range sectionDecoders {
		keys = append(keys, d.key)
	}
	return keys
}

// ParseAnalysis decodes a payload section by section. Unknown keys are
// ignored; a section that does not match its shape is left nil and recorded
// in Skipped. Only a payload that is not a JSON object is an error.
func ParseAnalysis(raw []byte) (*AnalysisResult, error) {
	if isNull(raw) {
		return nil, ErrNotObject
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}

	result := &AnalysisResult{}
	for _, d := range sectionDecoders {
		v, ok := members[d.key]
		if !ok || isNull(v) {
			continue
		}
		if err := d.decode(result, v); err != nil {
			result.Skipped = append(result.Skipped, SectionError{Section: d.key, Err: err})
		}
	}
	return result, nil
}
