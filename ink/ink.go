// Package ink defines the decoded annotation model: documents, pages, layers,
// strokes and points as produced by an external .rm decoder. All values are
// immutable after construction; a renderer may share one Document across
// concurrent render passes.
package ink

import (
	"fmt"

	"github.com/google/uuid"
)

// Version identifies the annotation schema version of a document. Versions 3
// and 5 are the legacy line formats; version 6 is the scene-tree format that
// introduced the extended color palette and page edit tracking.
type Version int

const (
	V3 Version = 3
	V5 Version = 5
	V6 Version = 6
)

// Supported reports whether v is a schema version this engine understands.
func (v Version) Supported() bool { return v == V3 || v == V5 || v == V6 }

// EditTracking reports whether documents of this version carry page
// insert/delete/move metadata. Older versions are rendered as a 1:1 mapping
// against the source document.
func (v Version) EditTracking() bool { return v >= V6 }

// Tool enumerates the drawing tools the device records in stroke headers.
type Tool int

const (
	Ballpoint Tool = iota
	Fineliner
	Marker
	Pencil
	MechanicalPencil
	Highlighter
	Eraser
	EraseArea
	Calligraphy
	Paintbrush
)

var toolNames = map[Tool]string{
	Ballpoint:        "ballpoint",
	Fineliner:        "fineliner",
	Marker:           "marker",
	Pencil:           "pencil",
	MechanicalPencil: "mechanical-pencil",
	Highlighter:      "highlighter",
	Eraser:           "eraser",
	EraseArea:        "erase-area",
	Calligraphy:      "calligraphy",
	Paintbrush:       "paintbrush",
}

func (t Tool) String() string {
	if s, ok := toolNames[t]; ok {
		return s
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// Erases reports whether the tool removes content instead of drawing it.
func (t Tool) Erases() bool { return t == Eraser || t == EraseArea }

// deviceToolCodes maps the raw pen codes found in stroke headers to tools.
// Most tools have two codes: the pre-1.8 firmware value and the value used
// from firmware 1.8 on.
var deviceToolCodes = map[int]Tool{
	0: Paintbrush, 12: Paintbrush,
	1: Pencil, 14: Pencil,
	2: Ballpoint, 15: Ballpoint,
	3: Marker, 16: Marker,
	4: Fineliner, 17: Fineliner,
	5: Highlighter, 18: Highlighter,
	6:  Eraser,
	7:  MechanicalPencil, 13: MechanicalPencil,
	8:  EraseArea,
	21: Calligraphy,
}

// ToolFromCode translates a raw device pen code into a Tool. The second
// return value is false for codes this engine does not know.
func ToolFromCode(code int) (Tool, bool) {
	t, ok := deviceToolCodes[code]
	return t, ok
}

// ColorIndex is an index into the per-tool color palette of a schema version.
type ColorIndex int

// LayerKind classifies a drawing layer.
type LayerKind int

const (
	LayerPen LayerKind = iota
	LayerHighlightSmart
	LayerHighlightLegacy
	LayerEraser
)

func (k LayerKind) String() string {
	switch k {
	case LayerPen:
		return "pen"
	case LayerHighlightSmart:
		return "highlight-smart"
	case LayerHighlightLegacy:
		return "highlight-legacy"
	case LayerEraser:
		return "eraser"
	}
	return fmt.Sprintf("layer-kind(%d)", int(k))
}

// Point is one sample of a stroke. X and Y are in page coordinate space
// (device pixels, origin top-left, y growing downwards). Pressure and Tilt
// are normalized to [0, 1]. Points keep their recorded order; drawing order
// and width interpolation depend on it.
type Point struct {
	X, Y     float64
	Pressure float64
	Tilt     float64
}

// Stroke is one continuous tool motion.
type Stroke struct {
	Tool   Tool
	Color  ColorIndex
	Width  float64 // base width in device pixels, as recorded
	Points []Point
}

// Layer is an ordered group of strokes sharing a z-order. Z is the index of
// the layer on its page; higher values draw on top.
type Layer struct {
	Name    string
	Kind    LayerKind
	Z       int
	Strokes []Stroke
	// HighlightGroup links smart-highlight layers that belong to the same
	// highlight set; strokes of one group composite as a single alpha unit.
	HighlightGroup int
}

// Empty reports whether the layer carries no strokes.
func (l *Layer) Empty() bool { return len(l.Strokes) == 0 }

// Page is one page of an annotation document.
type Page struct {
	// ID is the stable page identifier (a UUID on the device).
	ID string
	// Original is the zero-based index of the source-document page this page
	// annotates, or -1 for pages inserted on the device.
	Original int
	// Template names the background template, "" or "Blank" for none.
	Template string
	// Layers in z-order.
	Layers []Layer
}

// Annotated reports whether any layer on the page carries strokes.
func (p *Page) Annotated() bool {
	for i := range p.Layers {
		if !p.Layers[i].Empty() {
			return true
		}
	}
	return false
}

// Document is a fully decoded annotation set for one notebook or annotated
// PDF. Pages are in the order declared by the device, which is the final
// output order.
type Document struct {
	Version Version
	Pages   []Page
	// EditTracked is set when the decoder found page edit metadata. Without
	// it the page list is treated as a 1:1 identity mapping onto the source.
	EditTracked bool
}

// NewPageID returns a fresh page identifier in the device's UUID format.
// Used for pages created outside the device (fixtures, programmatic inserts).
func NewPageID() string { return uuid.NewString() }

// ValidPageID reports whether id has the device's UUID shape.
func ValidPageID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
