package chart

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartHeight = 360
	minWidth    = 480
	barWidth    = 40
	barSpacing  = 30
	padLeft     = 56
	padRight    = 24
	padTop      = 24
	padBottom   = 48
)

// ErrNoBars is returned when a series has nothing to draw.
var ErrNoBars = errors.New("series has no bars")

// Render draws a series as SVG.
func Render(s *Series) ([]byte, error) {
	if s.Empty() {
		return nil, ErrNoBars
	}
	var buf bytes.Buffer
	var err error
	if s.Stacked {
		err = renderStacked(&buf, s)
	} else {
		err = renderBars(&buf, s)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s chart: %w", s.Title, err)
	}
	return buf.Bytes(), nil
}

func widthFor(bars int) int {
	w := padLeft + padRight + bars*(barWidth+barSpacing)
	if w < minWidth {
		return minWidth
	}
	return w
}

// renderBars draws the first dataset as a plain bar chart.
func renderBars(w io.Writer, s *Series) error {
	ds := s.Datasets[0]
	style := chart.Style{FillColor: ds.Color.Drawing(), StrokeColor: ds.Color.Drawing(), StrokeWidth: 1}

	bars := make([]chart.Value, 0, len(s.Labels))
	peak := 0.0
	for i, label := range s.Labels {
		v := valueAt(ds.Values, i)
		peak = math.Max(peak, v)
		bars = append(bars, chart.Value{Label: html.EscapeString(label), Value: v, Style: style})
	}

	bc := chart.BarChart{
		Width:      widthFor(len(bars)),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: padTop, Left: 16, Right: padRight, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: axisMax(peak)},
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

// renderStacked draws one bar per label with every dataset stacked on top of
// the previous one. Bar heights share an absolute scale.
func renderStacked(w io.Writer, s *Series) error {
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}

	width := widthFor(len(s.Labels))
	r, err := chart.SVG(width, chartHeight)
	if err != nil {
		return err
	}
	r.SetFont(font)

	totals := make([]float64, len(s.Labels))
	for _, ds := range s.Datasets {
		for i := range totals {
			totals[i] += valueAt(ds.Values, i)
		}
	}
	peak := 0.0
	for _, t := range totals {
		peak = math.Max(peak, t)
	}
	top := axisMax(peak)

	bottom := chartHeight - padBottom
	plot := float64(bottom - padTop)
	text := chart.Style{Font: font, FontSize: 10, FontColor: drawing.ColorFromHex("374151")}
	axis := chart.Style{StrokeColor: drawing.ColorFromHex("9ca3af"), StrokeWidth: 1}

	chart.Draw.Box(r, chart.Box{Top: padTop, Left: padLeft, Right: width - padRight, Bottom: bottom}, chart.Style{
		FillColor: drawing.ColorWhite, StrokeColor: axis.StrokeColor, StrokeWidth: 1,
	})
	chart.Draw.Text(r, formatTick(top), 8, padTop+4, text)
	chart.Draw.Text(r, "0", 8, bottom, text)

	for i, label := range s.Labels {
		left := padLeft + barSpacing/2 + i*(barWidth+barSpacing)
		y := bottom
		for _, ds := range s.Datasets {
			v := valueAt(ds.Values, i)
			if v <= 0 {
				continue
			}
			h := int(math.Round(v / top * plot))
			if h == 0 {
				h = 1
			}
			chart.Draw.Box(r, chart.Box{Top: y - h, Left: left, Right: left + barWidth, Bottom: y}, chart.Style{
				FillColor:   ds.Color.Drawing(),
				StrokeColor: ds.Color.Drawing(),
				StrokeWidth: 1,
			})
			y -= h
		}
		chart.Draw.Text(r, html.EscapeString(label), left, bottom+16, text)
	}

	return r.Save(w)
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

// axisMax keeps a non-empty range when every value is zero.
func axisMax(peak float64) float64 {
	if peak < 1 {
		return 1
	}
	return peak
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
