// Package vector turns ordered stroke points into renderable vector paths
// with per-segment width variation. Output is immutable and deterministic:
// the same points and style always produce the same path, including the
// pencil texture jitter, which is seeded from the stroke's own geometry.
package vector

import (
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"github.com/wudi/rmrender/ink"
	"github.com/wudi/rmrender/style"
)

// Segment is one straight piece of a path. Widths at the two endpoints may
// differ; renderers interpolate linearly between them so pressure changes do
// not produce visible steps.
type Segment struct {
	A, B           vec.Vec2
	WidthA, WidthB float64
}

// Dot is the primitive emitted for degenerate strokes of fewer than two
// points, matching the device's tap marks.
type Dot struct {
	Center vec.Vec2
	Radius float64
}

// Path is the renderable form of one stroke. Exactly one of the three
// shapes is populated: Segments for drawable strokes, Dot for degenerate
// ones, Subtraction for eraser tools.
type Path struct {
	Segments []Segment
	Dot      *Dot
	// Subtraction covers the area wiped by an eraser stroke, one rectangle
	// per segment swath. It is applied by the compositor to lower layers
	// only; the path itself draws nothing.
	Subtraction []rect.Rect
}

// Bounds returns the bounding rectangle of the path including stroke widths.
func (p *Path) Bounds() rect.Rect {
	var r rect.Rect
	first := true
	grow := func(x, y, w float64) {
		h := w / 2
		if first {
			r = rect.Rect{LLx: x - h, LLy: y - h, URx: x + h, URy: y + h}
			first = false
			return
		}
		r.LLx = min(r.LLx, x-h)
		r.LLy = min(r.LLy, y-h)
		r.URx = max(r.URx, x+h)
		r.URy = max(r.URy, y+h)
	}
	for _, s := range p.Segments {
		grow(s.A.X, s.A.Y, s.WidthA)
		grow(s.B.X, s.B.Y, s.WidthB)
	}
	if p.Dot != nil {
		grow(p.Dot.Center.X, p.Dot.Center.Y, 2*p.Dot.Radius)
	}
	for _, sr := range p.Subtraction {
		grow(sr.LLx, sr.LLy, 0)
		grow(sr.URx, sr.URy, 0)
	}
	return r
}

// Builder converts strokes to paths. The zero value builds plain paths with
// the pencil jitter approximation enabled.
type Builder struct {
	// DisableJitter turns off the pencil texture approximation. The
	// approximation is a best-effort stand-in for the device's pencil
	// grain, not a faithful reproduction.
	DisableJitter bool
}

// jitterAmplitude is the maximum sideways displacement, as a fraction of the
// local width, applied to pencil segments.
const jitterAmplitude = 0.18

// Build converts a stroke into a path using the resolved style. Point order
// is preserved; widths follow pressure scaled by the style and base widths.
func (b *Builder) Build(s *ink.Stroke, st style.StrokeStyle) (*Path, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if s.Tool.Erases() {
		return b.buildSubtraction(s), nil
	}

	base := s.Width * st.Width
	if len(s.Points) < 2 {
		p := s.Points[0]
		r := base * widthFactor(p.Pressure) / 2
		if r <= 0 {
			r = base / 2
		}
		return &Path{Dot: &Dot{Center: vec.Vec2{X: p.X, Y: p.Y}, Radius: r}}, nil
	}

	segs := make([]Segment, 0, len(s.Points)-1)
	for i := 0; i+1 < len(s.Points); i++ {
		a, c := s.Points[i], s.Points[i+1]
		seg := Segment{
			A:      vec.Vec2{X: a.X, Y: a.Y},
			B:      vec.Vec2{X: c.X, Y: c.Y},
			WidthA: base * widthFactor(a.Pressure),
			WidthB: base * widthFactor(c.Pressure),
		}
		segs = append(segs, seg)
	}

	if st.Textured && !b.DisableJitter {
		applyJitter(segs, strokeSeed(s))
	}
	return &Path{Segments: segs}, nil
}

// widthFactor maps pressure to a width multiplier. Zero pressure still draws
// at a reduced width; the device never records invisible contact.
func widthFactor(pressure float64) float64 {
	return 0.4 + 0.6*pressure
}

// buildSubtraction covers the eraser's swath with one axis-aligned rectangle
// per segment, padded by half the eraser width.
func (b *Builder) buildSubtraction(s *ink.Stroke) *Path {
	w := s.Width
	if s.Tool == ink.EraseArea {
		// Erase-area strokes outline a region; cover its bounding box.
		var r rect.Rect
		for i, p := range s.Points {
			if i == 0 {
				r = rect.Rect{LLx: p.X, LLy: p.Y, URx: p.X, URy: p.Y}
				continue
			}
			r.LLx = min(r.LLx, p.X)
			r.LLy = min(r.LLy, p.Y)
			r.URx = max(r.URx, p.X)
			r.URy = max(r.URy, p.Y)
		}
		return &Path{Subtraction: []rect.Rect{r}}
	}

	h := w / 2
	if len(s.Points) == 1 {
		p := s.Points[0]
		return &Path{Subtraction: []rect.Rect{{LLx: p.X - h, LLy: p.Y - h, URx: p.X + h, URy: p.Y + h}}}
	}
	regions := make([]rect.Rect, 0, len(s.Points)-1)
	for i := 0; i+1 < len(s.Points); i++ {
		a, c := s.Points[i], s.Points[i+1]
		regions = append(regions, rect.Rect{
			LLx: min(a.X, c.X) - h,
			LLy: min(a.Y, c.Y) - h,
			URx: max(a.X, c.X) + h,
			URy: max(a.Y, c.Y) + h,
		})
	}
	return &Path{Subtraction: regions}
}
