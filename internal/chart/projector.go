package chart

import (
	"chatlens/internal/model"
	"chatlens/internal/view"
	"html/template"

	"github.com/rs/zerolog/log"
)

// Projector attaches charts to the mounts of a built view
type Projector struct {
	render func(*Series) ([]byte, error)
}

func NewProjector() *Projector {
	return &Projector{render: Render}
}

// Attach draws the message, word and swear charts for the sections present
// in r. A chart whose mount is missing or whose drawing fails is skipped;
// the rest of the view is untouched.
func (p *Projector) Attach(v *view.View, r *model.AnalysisResult) {
	if v == nil || r == nil {
		return
	}
	if r.MessageCounts != nil {
		p.attach(v, view.MountMessages, MessageSeries(r.MessageCounts))
	}
	if r.WordCounts != nil {
		p.attach(v, view.MountWords, WordSeries(r.WordCounts))
	}
	if r.SwearWordCounts != nil {
		p.attach(v, view.MountSwears, SwearSeries(r.SwearWordCounts))
	}
}

func (p *Projector) attach(v *view.View, mount string, s *Series) {
	section := v.Mount(mount)
	if section == nil {
		log.Warn().Str("mount", mount).Msg("Chart mount missing, skipping chart")
		return
	}

	c := &view.Chart{}
	if s.ShowLegend {
		for _, ds := range s.Datasets {
			c.Legend = append(c.Legend, view.LegendItem{Label: ds.Label, Color: template.CSS(ds.Color.CSS())})
		}
	}

	if s.Empty() {
		c.Empty = true
		section.Chart = c
		return
	}

	svg, err := p.render(s)
	if err != nil {
		log.Error().Err(err).Str("mount", mount).Msg("Failed to draw chart")
		return
	}
	c.SVG = template.HTML(svg)
	section.Chart = c
}
