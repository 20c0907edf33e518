package sink

import (
	"encoding/json"

	"github.com/matzehuels/cardtable/pkg/geom"
	"github.com/matzehuels/cardtable/pkg/scene"
)

type jsonOutput struct {
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	DurationMS int64      `json:"duration_ms"`
	DealArea   *jsonArea  `json:"deal_area,omitempty"`
	Cards      []jsonCard `json:"cards"`
}

type jsonArea struct {
	Min geom.Vector `json:"min"`
	Max geom.Vector `json:"max"`
}

type jsonCard struct {
	Index    int           `json:"index"`
	Label    string        `json:"label,omitempty"`
	Initial  scene.State   `json:"initial"`
	Final    scene.State   `json:"final"`
	Segments []jsonSegment `json:"segments"`
}

type jsonSegment struct {
	StartMS    int64       `json:"start_ms"`
	DurationMS int64       `json:"duration_ms"`
	Ease       string      `json:"ease,omitempty"`
	From       scene.State `json:"from"`
	To         scene.State `json:"to"`
}

// RenderJSON exports the scene timeline as a pretty-printed JSON document:
// every card's initial and final state plus each recorded segment, with
// times in milliseconds. Web front ends replay it with their own transitions.
func RenderJSON(s *scene.Scene) ([]byte, error) {
	out := jsonOutput{
		Width:      s.Viewport().X,
		Height:     s.Viewport().Y,
		DurationMS: s.Duration().Milliseconds(),
		Cards:      make([]jsonCard, 0, s.Len()),
	}
	if area, ok := s.DealArea(); ok {
		lo, hi := area.Bounds()
		out.DealArea = &jsonArea{Min: lo, Max: hi}
	}
	for _, c := range s.Cards() {
		jc := jsonCard{
			Index:    c.Index,
			Label:    c.Label,
			Initial:  c.Initial,
			Final:    c.Final(),
			Segments: make([]jsonSegment, len(c.Segments)),
		}
		for i, seg := range c.Segments {
			jc.Segments[i] = jsonSegment{
				StartMS:    seg.Start.Milliseconds(),
				DurationMS: seg.Duration.Milliseconds(),
				Ease:       string(seg.Ease),
				From:       seg.From,
				To:         seg.To,
			}
		}
		out.Cards = append(out.Cards, jc)
	}
	return json.MarshalIndent(out, "", "  ")
}
