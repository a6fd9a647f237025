// Package chart derives bar chart series from an analytics payload and draws
// them as SVG into the chart mounts of a view.
package chart

import (
	"chatlens/internal/model"
	"fmt"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Color is an RGBA color with a fractional alpha, as used by CSS.
type Color struct {
	R, G, B uint8
	A       float64
}

// CSS formats the color as rgba(r, g, b, a).
func (c Color) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, c.A)
}

// Drawing converts the color for the SVG renderer.
func (c Color) Drawing() drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: uint8(c.A*255 + 0.5)}
}

// BarColor fills simple bar charts and any keyword without its own color.
var BarColor = Color{R: 75, G: 192, B: 192, A: 0.6}

// Keyword is a swear word with a dedicated color.
type Keyword string

const (
	KeywordShit       Keyword = "shit"
	KeywordFuck       Keyword = "fuck"
	KeywordCunt       Keyword = "cunt"
	KeywordSexotheque Keyword = "sexotheque"
)

// ReferenceKeyword supplies the person axis of the stacked swear chart.
const ReferenceKeyword = KeywordShit

// ColorFor returns the dataset color for a swear-word key.
func ColorFor(word string) Color {
	switch Keyword(word) {
	case KeywordShit:
		return Color{R: 255, G: 99, B: 132, A: 0.6}
	case KeywordFuck:
		return Color{R: 54, G: 162, B: 235, A: 0.6}
	case KeywordCunt:
		return Color{R: 255, G: 206, B: 86, A: 0.6}
	case KeywordSexotheque:
		return Color{R: 153, G: 102, B: 255, A: 0.6}
	default:
		return BarColor
	}
}

// Dataset is one bar series
type Dataset struct {
	Label  string
	Values []float64
	Color  Color
}

// Series is everything needed to draw one chart. It is derived from the
// payload on every render and never stored.
type Series struct {
	Title      string
	Labels     []string
	Datasets   []Dataset
	Stacked    bool
	ShowLegend bool
}

// Empty reports whether the series has no bars to draw.
func (s *Series) Empty() bool {
	return len(s.Labels) == 0
}

// MessageSeries charts messages per person in payload order.
func MessageSeries(counts []model.MessageCount) *Series {
	labels := make([]string, 0, len(counts))
	values := make([]float64, 0, len(counts))
	for _, c := range counts {
		labels = append(labels, c.Name)
		values = append(values, float64(c.MessageCount))
	}
	return simple("Messages", labels, values)
}

// WordSeries charts words per person in payload order.
func WordSeries(counts []model.WordCount) *Series {
	labels := make([]string, 0, len(counts))
	values := make([]float64, 0, len(counts))
	for _, c := range counts {
		labels = append(labels, c.Name)
		values = append(values, float64(c.WordCount))
	}
	return simple("Words", labels, values)
}

func simple(title string, labels []string, values []float64) *Series {
	return &Series{
		Title:    title,
		Labels:   labels,
		Datasets: []Dataset{{Label: title, Values: values, Color: BarColor}},
	}
}

// SwearSeries stacks one dataset per swear word. The person axis comes from
// the reference keyword's inner mapping; people missing from another word's
// mapping count as zero there, and people absent from the reference mapping
// are not charted.
func SwearSeries(tallies model.NestedCounts) *Series {
	axis, _ := tallies.Get(string(ReferenceKeyword))
	labels := axis.Keys()

	datasets := make([]Dataset, 0, len(tallies))
	for _, t := range tallies {
		values := make([]float64, len(labels))
		for i, name := range labels {
			v, _ := t.Counts.Get(name)
			values[i] = float64(v)
		}
		datasets = append(datasets, Dataset{Label: t.Key, Values: values, Color: ColorFor(t.Key)})
	}

	return &Series{
		Title:      "Swear Words",
		Labels:     labels,
		Datasets:   datasets,
		Stacked:    true,
		ShowLegend: true,
	}
}
