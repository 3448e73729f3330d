package compose

import (
	"errors"
	"testing"

	"github.com/wudi/rmrender/ink"
	"github.com/wudi/rmrender/style"
)

func stroke(tool ink.Tool, color ink.ColorIndex, pts ...ink.Point) ink.Stroke {
	return ink.Stroke{Tool: tool, Color: color, Width: 2, Points: pts}
}

func line(x1, y1, x2, y2 float64) []ink.Point {
	return []ink.Point{{X: x1, Y: y1, Pressure: 0.5}, {X: x2, Y: y2, Pressure: 0.5}}
}

func TestLayersCompositeInZOrder(t *testing.T) {
	c := NewCompositor(style.NewMapper(0))
	layers := []ink.Layer{
		{Kind: ink.LayerPen, Z: 0, Strokes: []ink.Stroke{stroke(ink.Ballpoint, 0, line(0, 0, 10, 0)...)}},
		{Kind: ink.LayerPen, Z: 1, Strokes: []ink.Stroke{stroke(ink.Fineliner, 1, line(0, 5, 10, 5)...)}},
	}
	art, err := c.Composite(layers, ink.V5)
	if err != nil {
		t.Fatal(err)
	}
	if len(art.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(art.Instructions))
	}
	if art.Instructions[0].Layer != 0 || art.Instructions[1].Layer != 1 {
		t.Fatal("instructions out of z-order")
	}
}

func TestSmartHighlightsMergeIntoOneAlphaUnit(t *testing.T) {
	c := NewCompositor(style.NewMapper(0))
	layers := []ink.Layer{
		{Kind: ink.LayerHighlightSmart, Z: 0, Strokes: []ink.Stroke{
			stroke(ink.Highlighter, 1, line(0, 10, 100, 10)...),
			stroke(ink.Highlighter, 1, line(50, 10, 150, 10)...), // overlaps the first
		}},
	}
	art, err := c.Composite(layers, ink.V5)
	if err != nil {
		t.Fatal(err)
	}
	if len(art.Instructions) != 1 {
		t.Fatalf("overlapping highlights must form one instruction, got %d", len(art.Instructions))
	}
	ins := art.Instructions[0]
	if len(ins.Paths) != 2 {
		t.Fatalf("expected both strokes inside the group, got %d paths", len(ins.Paths))
	}
	if ins.Style.Opacity >= 1 {
		t.Fatalf("highlight group must be semi-transparent, got %g", ins.Style.Opacity)
	}
}

func TestEraserClipsOnlyLowerLayers(t *testing.T) {
	c := NewCompositor(style.NewMapper(0))
	layers := []ink.Layer{
		{Kind: ink.LayerPen, Z: 0, Strokes: []ink.Stroke{stroke(ink.Ballpoint, 0, line(0, 0, 100, 0)...)}},
		{Kind: ink.LayerEraser, Z: 1, Strokes: []ink.Stroke{
			{Tool: ink.Eraser, Width: 10, Points: line(20, 0, 40, 0)},
		}},
		{Kind: ink.LayerPen, Z: 2, Strokes: []ink.Stroke{stroke(ink.Ballpoint, 0, line(0, 1, 100, 1)...)}},
	}
	art, err := c.Composite(layers, ink.V5)
	if err != nil {
		t.Fatal(err)
	}
	if len(art.Instructions) != 2 {
		t.Fatalf("expected 2 drawable instructions, got %d", len(art.Instructions))
	}
	lower, upper := art.Instructions[0], art.Instructions[1]
	if len(lower.Clips) == 0 {
		t.Fatal("eraser must clip the lower layer")
	}
	if len(upper.Clips) != 0 {
		t.Fatal("eraser must not clip layers above it")
	}
}

func TestEraserInSameLayerDoesNotClipItself(t *testing.T) {
	c := NewCompositor(style.NewMapper(0))
	layers := []ink.Layer{
		{Kind: ink.LayerPen, Z: 0, Strokes: []ink.Stroke{
			stroke(ink.Ballpoint, 0, line(0, 0, 100, 0)...),
			{Tool: ink.Eraser, Width: 10, Points: line(20, 0, 40, 0)},
		}},
	}
	art, err := c.Composite(layers, ink.V5)
	if err != nil {
		t.Fatal(err)
	}
	if len(art.Instructions) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(art.Instructions))
	}
	if len(art.Instructions[0].Clips) != 0 {
		t.Fatal("eraser must not clip its own layer")
	}
}

func TestHighlightGroupSpansLayers(t *testing.T) {
	c := NewCompositor(style.NewMapper(0))
	layers := []ink.Layer{
		{Kind: ink.LayerHighlightSmart, Z: 0, HighlightGroup: 7, Strokes: []ink.Stroke{
			stroke(ink.Highlighter, 1, line(0, 10, 100, 10)...),
		}},
		{Kind: ink.LayerHighlightSmart, Z: 1, HighlightGroup: 7, Strokes: []ink.Stroke{
			stroke(ink.Highlighter, 1, line(50, 10, 150, 10)...), // overlaps across layers
		}},
	}
	art, err := c.Composite(layers, ink.V5)
	if err != nil {
		t.Fatal(err)
	}
	if len(art.Instructions) != 1 {
		t.Fatalf("layers sharing a highlight group must form one instruction, got %d", len(art.Instructions))
	}
	ins := art.Instructions[0]
	if len(ins.Paths) != 2 {
		t.Fatalf("expected both layers' strokes in the group, got %d paths", len(ins.Paths))
	}
	if ins.Layer != 0 {
		t.Fatalf("group must sit at its first member's z, got %d", ins.Layer)
	}
}

func TestHighlightColorsKeepSeparatePasses(t *testing.T) {
	c := NewCompositor(style.NewMapper(0))
	layers := []ink.Layer{
		{Kind: ink.LayerHighlightSmart, Z: 0, Strokes: []ink.Stroke{
			stroke(ink.Highlighter, 1, line(0, 10, 100, 10)...),
			stroke(ink.Highlighter, 1, line(50, 10, 150, 10)...),
			stroke(ink.Highlighter, 4, line(0, 10, 80, 10)...), // green
		}},
	}
	art, err := c.Composite(layers, ink.V6)
	if err != nil {
		t.Fatal(err)
	}
	if len(art.Instructions) != 2 {
		t.Fatalf("each highlight color needs its own alpha pass, got %d instructions", len(art.Instructions))
	}
	if len(art.Instructions[0].Paths) != 2 || len(art.Instructions[1].Paths) != 1 {
		t.Fatalf("same-color strokes must merge, others not: %d + %d paths",
			len(art.Instructions[0].Paths), len(art.Instructions[1].Paths))
	}
	if art.Instructions[0].Style.Color == art.Instructions[1].Style.Color {
		t.Fatal("split instructions must keep their own colors")
	}
}

func TestEraserScopeFollowsLayerZ(t *testing.T) {
	c := NewCompositor(style.NewMapper(0))
	layers := []ink.Layer{
		{Kind: ink.LayerPen, Z: 10, Strokes: []ink.Stroke{stroke(ink.Ballpoint, 0, line(0, 0, 100, 0)...)}},
		{Kind: ink.LayerEraser, Z: 20, Strokes: []ink.Stroke{
			{Tool: ink.Eraser, Width: 10, Points: line(20, 0, 40, 0)},
		}},
		{Kind: ink.LayerPen, Z: 30, Strokes: []ink.Stroke{stroke(ink.Ballpoint, 0, line(0, 1, 100, 1)...)}},
	}
	art, err := c.Composite(layers, ink.V5)
	if err != nil {
		t.Fatal(err)
	}
	if len(art.Instructions) != 2 {
		t.Fatalf("expected 2 drawable instructions, got %d", len(art.Instructions))
	}
	lower, upper := art.Instructions[0], art.Instructions[1]
	if lower.Layer != 10 || upper.Layer != 30 {
		t.Fatalf("instructions must carry their layer Z: %d, %d", lower.Layer, upper.Layer)
	}
	if len(lower.Clips) == 0 {
		t.Fatal("eraser must clip the layer below its z")
	}
	if len(upper.Clips) != 0 {
		t.Fatal("eraser must not clip the layer above its z")
	}
}

func TestUnsupportedStrokeFailsWithLayerContext(t *testing.T) {
	c := NewCompositor(style.NewMapper(0))
	layers := []ink.Layer{
		{Kind: ink.LayerPen, Z: 0, Strokes: []ink.Stroke{stroke(ink.Ballpoint, 42, line(0, 0, 1, 1)...)}},
	}
	_, err := c.Composite(layers, ink.V5)
	var styleErr *style.UnsupportedStyleError
	if !errors.As(err, &styleErr) {
		t.Fatalf("expected UnsupportedStyleError, got %v", err)
	}
}

func TestGroupAnnotationsMergesOverlaps(t *testing.T) {
	c := NewCompositor(style.NewMapper(0))
	layers := []ink.Layer{
		{Kind: ink.LayerPen, Z: 0, Strokes: []ink.Stroke{
			stroke(ink.Ballpoint, 0, line(0, 0, 10, 0)...),
			stroke(ink.Ballpoint, 0, line(5, 0, 15, 0)...),   // overlaps first
			stroke(ink.Ballpoint, 0, line(500, 500, 510, 500)...), // far away
		}},
	}
	art, err := c.Composite(layers, ink.V5)
	if err != nil {
		t.Fatal(err)
	}
	groups := GroupAnnotations("Layer 1", 0, art)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	for _, g := range groups {
		if g.Layer != "Layer 1" {
			t.Fatalf("group lost its layer name: %+v", g)
		}
	}
}

func TestGroupAnnotationsFiltersByLayer(t *testing.T) {
	c := NewCompositor(style.NewMapper(0))
	layers := []ink.Layer{
		{Kind: ink.LayerPen, Z: 0, Strokes: []ink.Stroke{stroke(ink.Ballpoint, 0, line(0, 10, 10, 10)...)}},
		{Kind: ink.LayerPen, Z: 1, Strokes: []ink.Stroke{stroke(ink.Ballpoint, 0, line(500, 500, 510, 500)...)}},
	}
	art, err := c.Composite(layers, ink.V5)
	if err != nil {
		t.Fatal(err)
	}
	for z, name := range []string{"L1", "L2"} {
		groups := GroupAnnotations(name, z, art)
		if len(groups) != 1 {
			t.Fatalf("layer %s: expected its own single group, got %d", name, len(groups))
		}
		if groups[0].Layer != name {
			t.Fatalf("layer %s: group carries wrong name %q", name, groups[0].Layer)
		}
	}
}

func TestGroupAnnotationBoundsArePageSpace(t *testing.T) {
	c := NewCompositor(style.NewMapper(0))
	// A stroke near the device's top edge lands near the top of the page,
	// which in page coordinates is close to PageHeight.
	layers := []ink.Layer{
		{Kind: ink.LayerPen, Z: 0, Strokes: []ink.Stroke{stroke(ink.Ballpoint, 0, line(0, 10, 100, 10)...)}},
	}
	art, err := c.Composite(layers, ink.V5)
	if err != nil {
		t.Fatal(err)
	}
	groups := GroupAnnotations("L1", 0, art)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	b := groups[0].Bounds
	if b.LLy >= b.URy {
		t.Fatalf("bounds must stay well-formed after the flip: %+v", b)
	}
	if b.URy < ink.PageHeight-10 || b.URy > ink.PageHeight+10 {
		t.Fatalf("top-edge stroke must group near the page top (%g pt), got %+v", ink.PageHeight, b)
	}
	if b.URx > ink.PageWidth {
		t.Fatalf("bounds must scale into points: %+v", b)
	}
}
