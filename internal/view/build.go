package view

import (
	"chatlens/internal/model"
	"fmt"
)

// Build projects a payload into a View. Absent sections produce nothing;
// present ones are emitted in payload section order. The payload is not
// modified. A nil result builds a view with only the export triggers.
func Build(r *model.AnalysisResult) *View {
	v := &View{Exports: DefaultExports()}
	if r == nil {
		return v
	}

	if r.MessageCounts != nil {
		entries := make([]Entry, 0, len(r.MessageCounts))
		for _, x := range r.MessageCounts {
			entries = append(entries, Entry{Name: x.Name, Strong: true, Detail: ": " + x.MessageCount.String()})
		}
		v.add(&Section{Key: model.SectionMessageCounts, Title: "📊 Message Counts", Mount: MountMessages, Lists: []List{{Entries: entries}}})
	}

	if r.WordCounts != nil {
		entries := make([]Entry, 0, len(r.WordCounts))
		for _, x := range r.WordCounts {
			entries = append(entries, Entry{Name: x.Name, Strong: true, Detail: ": " + x.WordCount.String()})
		}
		v.add(&Section{Key: model.SectionWordCounts, Title: "📝 Word Counts", Mount: MountWords, Lists: []List{{Entries: entries}}})
	}

	if r.MostActiveHour != nil {
		entries := make([]Entry, 0, len(r.MostActiveHour))
		for _, x := range r.MostActiveHour {
			entries = append(entries, Entry{
				Name:   x.Name,
				Strong: true,
				Detail: fmt.Sprintf(" at %s:00 → %s messages", x.Hour, x.Count),
			})
		}
		v.add(&Section{Key: model.SectionMostActiveHour, Title: "⏰ Most Active Hour", Lists: []List{{Entries: entries}}})
	}

	if r.LongestGapHours != nil {
		entries := make([]Entry, 0, len(r.LongestGapHours))
		for _, x := range r.LongestGapHours {
			entries = append(entries, Entry{Name: x.Name, Strong: true, Detail: ": " + x.Gap.Fixed(2) + " hours"})
		}
		v.add(&Section{Key: model.SectionLongestGapHours, Title: "⏱️ Longest Gap (hours per user)", Lists: []List{{Entries: entries}}})
	}

	if r.AbsencePeriods != nil {
		notes := make([]Note, 0, len(r.AbsencePeriods))
		for _, x := range r.AbsencePeriods {
			notes = append(notes, Note{
				Name:   x.Name,
				Detail: " absent for " + x.Gap.Fixed(2) + " minutes",
				Extra:  "From " + x.AbsenceStart + " → " + x.AbsenceEnd,
			})
		}
		v.add(&Section{Key: model.SectionAbsencePeriods, Title: "🚫 Absence Periods", Notes: notes})
	}

	if me := r.MorningEvening; me != nil {
		v.add(&Section{
			Key:   model.SectionMorningEvening,
			Title: "🌅 Morning vs Evening",
			Lists: []List{countList("Morning", me.Morning), countList("Evening", me.Evening)},
		})
	}

	if r.AvgMessageLength != nil {
		entries := make([]Entry, 0, len(r.AvgMessageLength))
		for _, c := range r.AvgMessageLength {
			entries = append(entries, Entry{Name: c.Key, Detail: ": " + c.Value.Fixed(1) + " chars"})
		}
		v.add(&Section{Key: model.SectionAvgMessageLength, Title: "📏 Average Message Length", Lists: []List{{Entries: entries}}})
	}

	if m := r.LongestMessageByChar; m != nil {
		v.add(&Section{
			Key:   model.SectionLongestMessageByChar,
			Title: "📝 Longest Message (by characters)",
			Notes: []Note{{Name: m.Sender, Detail: " (" + m.CharCount.String() + " chars)", Quote: m.Preview + "...", HasQuote: true}},
		})
	}

	if m := r.LongestMessageByWord; m != nil {
		v.add(&Section{
			Key:   model.SectionLongestMessageByWord,
			Title: "📝 Longest Message (by words)",
			Notes: []Note{{Name: m.Sender, Detail: " (" + m.WordCount.String() + " words)", Quote: m.Preview + "...", HasQuote: true}},
		})
	}

	if r.KeywordMentions != nil {
		v.add(&Section{Key: model.SectionKeywordMentions, Title: "🔎 Keyword Mentions", Lists: tallyLists(r.KeywordMentions)})
	}

	if m := r.FirstMessage; m != nil {
		v.add(&Section{
			Key:   model.SectionFirstMessage,
			Title: "📖 First Message",
			Notes: []Note{{Name: m.Sender, Detail: " at " + m.Timestamp, Quote: m.Message, HasQuote: true}},
		})
	}

	if r.SwearWordCounts != nil {
		v.add(&Section{Key: model.SectionSwearWordCounts, Title: "🤬 Swear Word Counts", Mount: MountSwears, Lists: tallyLists(r.SwearWordCounts)})
	}

	return v
}

func (v *View) add(s *Section) {
	v.Sections = append(v.Sections, s)
}

// tallyLists renders one sub-list per keyword with whatever names that
// keyword's inner mapping holds.
func tallyLists(n model.NestedCounts) []List {
	lists := make([]List, 0, len(n))
	for _, t := range n {
		lists = append(lists, countList(t.Key, t.Counts))
	}
	return lists
}

func countList(heading string, c model.Counts) List {
	entries := make([]Entry, 0, len(c))
	for _, e := range c {
		entries = append(entries, Entry{Name: e.Key, Detail: ": " + e.Value.String()})
	}
	return List{Heading: heading, Entries: entries}
}
