package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"time"

	"golang.org/x/image/vector"

	"github.com/matzehuels/cardtable/pkg/geom"
	"github.com/matzehuels/cardtable/pkg/scene"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale    float64
	border   float64
	dealArea bool
	bg       color.Color
	face     color.Color
	edge     color.Color
	area     color.Color
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGDealArea tints the scene's deal area, if it has one.
func WithPNGDealArea() PNGOption {
	return func(r *pngRenderer) { r.dealArea = true }
}

// WithBackground sets the table colour.
func WithBackground(c color.Color) PNGOption {
	return func(r *pngRenderer) { r.bg = c }
}

// RenderPNG rasterizes the scene as it appears at t.
func RenderPNG(s *scene.Scene, t time.Duration, opts ...PNGOption) ([]byte, error) {
	img, err := RenderImage(s, t, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderImage rasterizes the scene as it appears at t.
func RenderImage(s *scene.Scene, t time.Duration, opts ...PNGOption) (*image.RGBA, error) {
	r := pngRenderer{
		scale:  2.0,
		border: 1.5,
		bg:     color.RGBA{0x23, 0x5e, 0x3b, 0xff},
		face:   color.RGBA{0xff, 0xfd, 0xf7, 0xff},
		edge:   color.RGBA{0x2b, 0x2b, 0x2b, 0xff},
		area:   color.RGBA{0x2e, 0x73, 0x4a, 0xff},
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) {
		return nil, fmt.Errorf("invalid png scale %g", r.scale)
	}

	w := int(math.Ceil(s.Viewport().X * r.scale))
	h := int(math.Ceil(s.Viewport().Y * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid viewport %s", s.Viewport())
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.bg), image.Point{}, draw.Src)

	z := vector.NewRasterizer(w, h)
	if area, ok := s.DealArea(); ok && r.dealArea {
		r.fill(z, img, area.Corners(), r.area)
	}
	for _, st := range s.At(t) {
		rect := st.Rect()
		r.fill(z, img, rect.Corners(), r.edge)
		inner := st.Size.Sub(geom.Vec(2*r.border, 2*r.border)).Max(geom.Vector{})
		r.fill(z, img, geom.NewRectAt(st.Position, inner, rect.Angle()).Corners(), r.face)
	}
	return img, nil
}

func (r *pngRenderer) fill(z *vector.Rasterizer, dst draw.Image, quad [4]geom.Vector, c color.Color) {
	b := dst.Bounds()
	z.Reset(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	for i, p := range quad {
		x, y := float32(p.X*r.scale), float32(p.Y*r.scale)
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}
