// Package style maps (tool, schema version, color index) triples to stroke
// visual styles. Resolution is a pure table lookup; the tables mirror the
// device's rendered colors rather than its marketing names (the "black" pen
// renders as very dark grey, the "blue" pen as pastel blue).
package style

import (
	"fmt"
	"slices"

	"github.com/wudi/rmrender/ink"
)

// BlendMode selects how a drawn path composites with content below it.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
)

func (m BlendMode) String() string {
	if m == BlendMultiply {
		return "multiply"
	}
	return "normal"
}

// RGB is a color with components in [0, 1].
type RGB struct {
	R, G, B float64
}

// StrokeStyle is the resolved visual style for one stroke.
type StrokeStyle struct {
	Color   RGB
	Width   float64 // width multiplier applied to the stroke's base width
	Opacity float64
	Blend   BlendMode
	// Textured marks pencil-family tools that get the jitter approximation.
	Textured bool
}

// DefaultWidthReduction scales device-native widths down to match visual
// density at PDF resolution.
const DefaultWidthReduction = 0.6

// UnsupportedStyleError reports a (tool, version, color) triple outside the
// supported style tables. Whether to skip the stroke or abort the render is
// the caller's policy.
type UnsupportedStyleError struct {
	Tool    ink.Tool
	Version ink.Version
	Color   ink.ColorIndex
}

func (e *UnsupportedStyleError) Error() string {
	return fmt.Sprintf("unsupported style: tool %s, schema v%d, color %d",
		e.Tool, int(e.Version), int(e.Color))
}

// toolTraits carries the per-tool style constants: nominal width relative to
// the recorded base width, opacity, blend mode, and which palette the tool's
// color index selects from.
type toolTraits struct {
	width     float64
	opacity   float64
	blend     BlendMode
	highlight bool // color index selects from the highlight palette
	textured  bool
}

var traits = map[ink.Tool]toolTraits{
	ink.Ballpoint:        {width: 1.0, opacity: 1, blend: BlendNormal},
	ink.Fineliner:        {width: 0.9, opacity: 1, blend: BlendNormal},
	ink.Marker:           {width: 1.8, opacity: 0.8, blend: BlendMultiply},
	ink.Pencil:           {width: 1.1, opacity: 1, blend: BlendNormal, textured: true},
	ink.MechanicalPencil: {width: 0.8, opacity: 1, blend: BlendNormal, textured: true},
	ink.Highlighter:      {width: 3.0, opacity: 0.35, blend: BlendMultiply, highlight: true},
	ink.Calligraphy:      {width: 1.2, opacity: 1, blend: BlendNormal},
	ink.Paintbrush:       {width: 1.5, opacity: 1, blend: BlendNormal},
}

// Pen palettes. The legacy formats know black, grey and white; version 6
// added yellow, green, magenta and the blue and red pens.
var penPalette = map[ink.ColorIndex]RGB{
	0: {56.0 / 255, 57.0 / 255, 56.0 / 255}, // black
	1: {0.5, 0.5, 0.5},                      // grey
	2: {1, 1, 1},                            // white
}

var penPaletteV6 = map[ink.ColorIndex]RGB{
	0: {56.0 / 255, 57.0 / 255, 56.0 / 255},
	1: {0.5, 0.5, 0.5},
	2: {1, 1, 1},
	3: {1, 1, 0},
	4: {0, 1, 0},
	5: {1, 0, 1},
	6: {52.0 / 255, 120.0 / 255, 247.0 / 255}, // blue
	7: {228.0 / 255, 95.0 / 255, 89.0 / 255},  // red
}

// Highlight palettes. Indexes 1 and 3 are both yellow; green and pink
// arrived with version 6.
var highlightPalette = map[ink.ColorIndex]RGB{
	1: {248.0 / 255, 241.0 / 255, 36.0 / 255},
	3: {248.0 / 255, 241.0 / 255, 36.0 / 255},
}

var highlightPaletteV6 = map[ink.ColorIndex]RGB{
	1: {248.0 / 255, 241.0 / 255, 36.0 / 255},
	3: {248.0 / 255, 241.0 / 255, 36.0 / 255},
	4: {183.0 / 255, 248.0 / 255, 73.0 / 255}, // green
	5: {248.0 / 255, 79.0 / 255, 145.0 / 255}, // pink
}

// OverrideFunc lets callers restyle a resolved stroke style (for example
// from a user script). It runs after table lookup and must be pure.
type OverrideFunc func(tool ink.Tool, version ink.Version, color ink.ColorIndex, st StrokeStyle) (StrokeStyle, error)

// Mapper resolves stroke styles. The zero value is not usable; construct
// with NewMapper.
type Mapper struct {
	reduction float64
	override  OverrideFunc
}

// NewMapper returns a Mapper using the given width reduction factor;
// reduction <= 0 selects DefaultWidthReduction.
func NewMapper(reduction float64) *Mapper {
	if reduction <= 0 {
		reduction = DefaultWidthReduction
	}
	return &Mapper{reduction: reduction}
}

// SetOverride installs an override hook applied to every resolved style.
func (m *Mapper) SetOverride(fn OverrideFunc) { m.override = fn }

// Resolve maps a (tool, version, color) triple to a stroke style. Eraser
// tools resolve to a zero style; they produce subtraction regions, not
// drawable paths, but resolution still validates the triple.
func (m *Mapper) Resolve(tool ink.Tool, version ink.Version, color ink.ColorIndex) (StrokeStyle, error) {
	if !version.Supported() {
		return StrokeStyle{}, &UnsupportedStyleError{Tool: tool, Version: version, Color: color}
	}
	if tool.Erases() {
		return StrokeStyle{Width: 1, Opacity: 1}, nil
	}

	tr, ok := traits[tool]
	if !ok {
		return StrokeStyle{}, &UnsupportedStyleError{Tool: tool, Version: version, Color: color}
	}

	var palette map[ink.ColorIndex]RGB
	switch {
	case tr.highlight && version == ink.V6:
		palette = highlightPaletteV6
	case tr.highlight:
		palette = highlightPalette
	case version == ink.V6:
		palette = penPaletteV6
	default:
		palette = penPalette
	}
	rgb, ok := palette[color]
	if !ok {
		return StrokeStyle{}, &UnsupportedStyleError{Tool: tool, Version: version, Color: color}
	}

	st := StrokeStyle{
		Color:    rgb,
		Width:    tr.width * m.reduction,
		Opacity:  tr.opacity,
		Blend:    tr.blend,
		Textured: tr.textured,
	}
	if m.override != nil {
		return m.override(tool, version, color, st)
	}
	return st, nil
}

// SupportedColors returns the color indexes the (tool, version) pair accepts,
// in ascending order. Useful for callers enumerating the style table.
func (m *Mapper) SupportedColors(tool ink.Tool, version ink.Version) []ink.ColorIndex {
	if !version.Supported() || tool.Erases() {
		return nil
	}
	tr, ok := traits[tool]
	if !ok {
		return nil
	}
	var palette map[ink.ColorIndex]RGB
	switch {
	case tr.highlight && version == ink.V6:
		palette = highlightPaletteV6
	case tr.highlight:
		palette = highlightPalette
	case version == ink.V6:
		palette = penPaletteV6
	default:
		palette = penPalette
	}
	out := make([]ink.ColorIndex, 0, len(palette))
	for c := range palette {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
