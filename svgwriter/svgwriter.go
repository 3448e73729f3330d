// Package svgwriter implements render.DocumentWriter by emitting one SVG
// document per page. It is the reference consumer of the draw-job contract
// and what the CLI writes; PDF output plugs in the same way through an
// external authoring library.
package svgwriter

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"seehuhn.de/go/geom/rect"

	"github.com/wudi/rmrender/compose"
	"github.com/wudi/rmrender/ink"
	"github.com/wudi/rmrender/render"
	"github.com/wudi/rmrender/style"
	"github.com/wudi/rmrender/template"
	"github.com/wudi/rmrender/vector"
)

// Sink provides one output stream per page index.
type Sink func(page int) (io.WriteCloser, error)

// Writer writes pages as standalone SVG files in device pixel coordinates.
type Writer struct {
	Sink Sink
}

// New returns a Writer emitting through sink.
func New(sink Sink) *Writer { return &Writer{Sink: sink} }

func (w *Writer) WritePage(ctx context.Context, job *render.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := w.Sink(job.Index)
	if err != nil {
		return err
	}
	if err := writeSVG(out, job); err != nil {
		out.Close()
		return fmt.Errorf("svg page %d: %w", job.Index, err)
	}
	return out.Close()
}

func writeSVG(out io.Writer, job *render.Job) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`+"\n",
		ink.DeviceWidth, ink.DeviceHeight, ink.DeviceWidth, ink.DeviceHeight)

	writeBackground(&b, job.Background)

	if job.Art != nil {
		for i, ins := range job.Art.Instructions {
			writeInstruction(&b, i, ins)
		}
	}

	b.WriteString("</svg>\n")
	_, err := io.WriteString(out, b.String())
	return err
}

func writeBackground(b *strings.Builder, bg render.Background) {
	if bg.Template == nil {
		return
	}
	mime := "image/png"
	if bg.Template.Kind == template.KindSVG {
		mime = "image/svg+xml"
	}
	fmt.Fprintf(b, `<image width="%g" height="%g" opacity="%g" href="data:%s;base64,%s"/>`+"\n",
		ink.DeviceWidth, ink.DeviceHeight, bg.Template.Alpha, mime,
		base64.StdEncoding.EncodeToString(bg.Template.Data))
}

func writeInstruction(b *strings.Builder, idx int, ins compose.Instruction) {
	color := hexColor(ins.Style.Color)
	attrs := fmt.Sprintf(`stroke="%s" opacity="%g"`, color, ins.Style.Opacity)
	if ins.Style.Blend == style.BlendMultiply {
		attrs += ` style="mix-blend-mode:multiply"`
	}
	if len(ins.Clips) > 0 {
		writeMask(b, idx, ins.Clips)
		attrs += fmt.Sprintf(` mask="url(#erase%d)"`, idx)
	}

	// The whole instruction is one alpha unit: overlapping paths inside the
	// group must not darken each other.
	fmt.Fprintf(b, "<g %s>\n", attrs)
	for _, p := range ins.Paths {
		writePath(b, p, color)
	}
	b.WriteString("</g>\n")
}

// writeMask inverts the subtraction regions: the page shows everywhere
// except where an eraser above this layer passed.
func writeMask(b *strings.Builder, idx int, clips []rect.Rect) {
	fmt.Fprintf(b, `<mask id="erase%d">`+"\n", idx)
	fmt.Fprintf(b, `<rect x="0" y="0" width="%g" height="%g" fill="white"/>`+"\n",
		ink.DeviceWidth, ink.DeviceHeight)
	for _, r := range clips {
		fmt.Fprintf(b, `<rect x="%g" y="%g" width="%g" height="%g" fill="black"/>`+"\n",
			r.LLx, r.LLy, r.URx-r.LLx, r.URy-r.LLy)
	}
	b.WriteString("</mask>\n")
}

func writePath(b *strings.Builder, p *vector.Path, color string) {
	if p.Dot != nil {
		fmt.Fprintf(b, `<circle cx="%g" cy="%g" r="%g" fill="%s" stroke="none"/>`+"\n",
			p.Dot.Center.X, p.Dot.Center.Y, p.Dot.Radius, color)
		return
	}
	// Per-segment lines carry the interpolated width; round caps hide the
	// joints between segments of different widths.
	for _, s := range p.Segments {
		w := (s.WidthA + s.WidthB) / 2
		fmt.Fprintf(b, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke-width="%g" stroke-linecap="round"/>`+"\n",
			s.A.X, s.A.Y, s.B.X, s.B.Y, w)
	}
}

func hexColor(c style.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", clamp8(c.R), clamp8(c.G), clamp8(c.B))
}

func clamp8(f float64) int {
	v := int(f*255 + 0.5)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
