package chart

import (
	"chatlens/internal/model"
	"chatlens/internal/view"
	"errors"
	"html/template"
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

func TestColorFor(t *testing.T) {
	assert.Equal(t, "rgba(255, 99, 132, 0.6)", ColorFor("shit").CSS())
	assert.Equal(t, "rgba(54, 162, 235, 0.6)", ColorFor("fuck").CSS())
	assert.Equal(t, "rgba(255, 206, 86, 0.6)", ColorFor("cunt").CSS())
	assert.Equal(t, "rgba(153, 102, 255, 0.6)", ColorFor("sexotheque").CSS())
	assert.Equal(t, "rgba(75, 192, 192, 0.6)", ColorFor("damn").CSS())
	assert.Equal(t, uint8(153), ColorFor("shit").Drawing().A)
}

func TestMessageSeries(t *testing.T) {
	r := parse(t, `{"message_counts": [{"Name": "Zed", "message_count": 4}, {"Name": "Amy", "message_count": 9}]}`)

	s := MessageSeries(r.MessageCounts)
	assert.False(t, s.Stacked)
	assert.False(t, s.ShowLegend)
	assert.Equal(t, []string{"Zed", "Amy"}, s.Labels)
	require.Len(t, s.Datasets, 1)
	assert.Equal(t, []float64{4, 9}, s.Datasets[0].Values)
	assert.Equal(t, BarColor, s.Datasets[0].Color)
}

func TestSwearSeries_ReferenceAxis(t *testing.T) {
	r := parse(t, `{"swear_word_counts": {"shit": {"Alice": 2}, "fuck": {"Bob": 1}}}`)

	s := SwearSeries(r.SwearWordCounts)
	assert.True(t, s.Stacked)
	assert.True(t, s.ShowLegend)
	assert.Equal(t, []string{"Alice"}, s.Labels)
	require.Len(t, s.Datasets, 2)
	assert.Equal(t, "shit", s.Datasets[0].Label)
	assert.Equal(t, []float64{2}, s.Datasets[0].Values)
	assert.Equal(t, "fuck", s.Datasets[1].Label)
	assert.Equal(t, []float64{0}, s.Datasets[1].Values)
}

func TestSwearSeries_NoReferenceKeyword(t *testing.T) {
	r := parse(t, `{"swear_word_counts": {"fuck": {"Bob": 1}, "damn": {"Bob": 3}}}`)

	s := SwearSeries(r.SwearWordCounts)
	assert.Empty(t, s.Labels)
	assert.True(t, s.Empty())
	require.Len(t, s.Datasets, 2)
	assert.Equal(t, BarColor, s.Datasets[1].Color)
}

func TestRender_Bars(t *testing.T) {
	r := parse(t, `{"word_counts": [{"Name": "A<b>", "word_count": 10}, {"Name": "C", "word_count": 0}]}`)

	svg, err := Render(WordSeries(r.WordCounts))
	require.NoError(t, err)
	out := string(svg)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.NotContains(t, out, "A<b>")
}

func TestRender_AllZeroBars(t *testing.T) {
	r := parse(t, `{"message_counts": [{"Name": "A", "message_count": 0}]}`)

	_, err := Render(MessageSeries(r.MessageCounts))
	assert.NoError(t, err)
}

func TestRender_Stacked(t *testing.T) {
	r := parse(t, `{"swear_word_counts": {"shit": {"Alice": 2, "Bob": 1}, "fuck": {"Bob": 4}}}`)

	svg, err := Render(SwearSeries(r.SwearWordCounts))
	require.NoError(t, err)
	out := string(svg)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.True(t, strings.HasSuffix(out, "</svg>"))
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Bob")
}

func TestRender_Empty(t *testing.T) {
	_, err := Render(&Series{})
	assert.ErrorIs(t, err, ErrNoBars)
}

func TestAttach(t *testing.T) {
	r := parse(t, `{
		"message_counts": [{"Name": "A", "message_count": 3}],
		"word_counts": [{"Name": "A", "word_count": 30}],
		"swear_word_counts": {"shit": {"A": 1}, "cunt": {"A": 2}}
	}`)
	v := view.Build(r)

	NewProjector().Attach(v, r)

	for _, id := range []string{view.MountMessages, view.MountWords, view.MountSwears} {
		c := v.Mount(id).Chart
		require.NotNil(t, c, id)
		assert.False(t, c.Empty, id)
		assert.Contains(t, string(c.SVG), "<svg", id)
	}
	assert.Nil(t, v.Mount(view.MountMessages).Chart.Legend)
	assert.Equal(t, []view.LegendItem{
		{Label: "shit", Color: template.CSS("rgba(255, 99, 132, 0.6)")},
		{Label: "cunt", Color: template.CSS("rgba(255, 206, 86, 0.6)")},
	}, v.Mount(view.MountSwears).Chart.Legend)
}

func TestAttach_EmptySectionMarksChartEmpty(t *testing.T) {
	r := parse(t, `{"message_counts": []}`)
	v := view.Build(r)

	NewProjector().Attach(v, r)

	c := v.Mount(view.MountMessages).Chart
	require.NotNil(t, c)
	assert.True(t, c.Empty)
	assert.Empty(t, c.SVG)
}

func TestAttach_MissingMountSkipsOnlyThatChart(t *testing.T) {
	r := parse(t, `{"message_counts": [{"Name": "A", "message_count": 1}], "word_counts": [{"Name": "A", "word_count": 2}]}`)
	v := view.Build(r)
	v.Mount(view.MountMessages).Mount = ""

	NewProjector().Attach(v, r)

	assert.Nil(t, v.Section(model.SectionMessageCounts).Chart)
	assert.NotNil(t, v.Mount(view.MountWords).Chart)
}

func TestAttach_RenderFailureSkipsOnlyThatChart(t *testing.T) {
	r := parse(t, `{"message_counts": [{"Name": "A", "message_count": 1}], "word_counts": [{"Name": "A", "word_count": 2}]}`)
	v := view.Build(r)

	p := &Projector{render: func(s *Series) ([]byte, error) {
		if s.Title == "Messages" {
			return nil, errors.New("boom")
		}
		return Render(s)
	}}
	p.Attach(v, r)

	assert.Nil(t, v.Mount(view.MountMessages).Chart)
	assert.NotNil(t, v.Mount(view.MountWords).Chart)
}
