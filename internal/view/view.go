// Package view turns an analytics payload into an ordered list of section
// render instructions and paints them as HTML.
package view

import "html/template"

// Chart mount identifiers created by Build.
const (
	MountMessages = "msgChart"
	MountWords    = "wordChart"
	MountSwears   = "swearChart"
)

// View is the render-ready projection of one payload
type View struct {
	Sections []*Section
	Exports  []Export
}

// Section is one payload section. It renders Lists or Notes, never both.
type Section struct {
	Key   string
	Title string
	Mount string // chart mount id, empty when the section has no chart
	Chart *Chart // attached by the chart projector
	Lists []List
	Notes []Note
}

// List is a bulleted list with an optional sub-heading
type List struct {
	Heading string
	Entries []Entry
}

// Entry renders as "<strong>Name</strong>Detail" or "Name Detail".
type Entry struct {
	Name   string
	Strong bool
	Detail string
}

// Note is a paragraph about one person with an optional quote below it
type Note struct {
	Name     string
	Detail   string
	Extra    string // second line
	Quote    string
	HasQuote bool
}

// Chart is the drawn visualization placed in a mount
type Chart struct {
	SVG    template.HTML
	Empty  bool
	Legend []LegendItem
}

// LegendItem names one stacked series and its CSS color
type LegendItem struct {
	Label string
	Color template.CSS
}

// Export is an export trigger
type Export struct {
	Label string
	Href  string
}

// DefaultExports are the two triggers every rendered result carries.
func DefaultExports() []Export {
	return []Export{
		{Label: "⬇️ Download JSON", Href: "/export/json"},
		{Label: "⬇️ Download CSV", Href: "/export/csv"},
	}
}

// Mounts lists chart mount ids in section order.
func (v *View) Mounts() []string {
	var ids []string
	for _, s := range v.Sections {
		if s.Mount != "" {
			ids = append(ids, s.Mount)
		}
	}
	return ids
}

// Mount returns the section holding the given chart mount, or nil.
func (v *View) Mount(id string) *Section {
	for _, s := range v.Sections {
		if s.Mount == id {
			return s
		}
	}
	return nil
}

// Section returns the section for a payload key, or nil.
func (v *View) Section(key string) *Section {
	for _, s := range v.Sections {
		if s.Key == key {
			return s
		}
	}
	return nil
}
