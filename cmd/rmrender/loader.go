package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wudi/rmrender/ink"
	"github.com/wudi/rmrender/template"
)

// The CLI consumes the decoder collaborator's output as JSON: one document
// with its schema version, reconciliation metadata and per-page layers.

type jsonPoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure"`
	Tilt     float64 `json:"tilt"`
}

type jsonStroke struct {
	Tool   int         `json:"tool"` // raw device pen code
	Color  int         `json:"color"`
	Width  float64     `json:"width"`
	Points []jsonPoint `json:"points"`
}

type jsonLayer struct {
	Name           string       `json:"name"`
	Kind           string       `json:"kind"`
	HighlightGroup int          `json:"highlight_group"`
	Strokes        []jsonStroke `json:"strokes"`
}

type jsonPage struct {
	ID       string      `json:"id"`
	Original *int        `json:"original"` // null for inserted pages
	Template string      `json:"template"`
	Layers   []jsonLayer `json:"layers"`
}

type jsonDocument struct {
	Version           int        `json:"version"`
	EditTracked       bool       `json:"edit_tracked"`
	OriginalPageCount int        `json:"original_page_count"`
	// Templates is the document's pagedata list: one template name per page,
	// possibly truncated (the device stops recording at some point).
	Templates []string   `json:"templates"`
	Pages     []jsonPage `json:"pages"`
}

var layerKinds = map[string]ink.LayerKind{
	"pen":              ink.LayerPen,
	"highlight-smart":  ink.LayerHighlightSmart,
	"highlight-legacy": ink.LayerHighlightLegacy,
	"eraser":           ink.LayerEraser,
}

// loadDocument reads a decoded annotation document from a JSON file and
// returns it with the original document's page count.
func loadDocument(path string) (*ink.Document, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	var jd jsonDocument
	if err := json.Unmarshal(data, &jd); err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", path, err)
	}

	doc := &ink.Document{
		Version:     ink.Version(jd.Version),
		EditTracked: jd.EditTracked,
	}
	if !doc.Version.Supported() {
		return nil, 0, fmt.Errorf("%s: unsupported schema version %d", path, jd.Version)
	}

	// Version 6 records points in its own scene space; bring them into the
	// device pixel space the rest of the pipeline works in.
	v6 := doc.Version == ink.V6

	for pi, jp := range jd.Pages {
		page := ink.Page{
			ID:       jp.ID,
			Original: -1,
			Template: jp.Template,
		}
		if page.ID == "" {
			page.ID = ink.NewPageID()
		} else if !ink.ValidPageID(page.ID) {
			return nil, 0, fmt.Errorf("page %d: invalid page id %q", pi, page.ID)
		}
		if page.Template == "" {
			page.Template = template.NameForPage(jd.Templates, pi)
		}
		if jp.Original != nil {
			page.Original = *jp.Original
		}
		for li, jl := range jp.Layers {
			kind, ok := layerKinds[jl.Kind]
			if !ok {
				return nil, 0, fmt.Errorf("page %d layer %d: unknown kind %q", pi, li, jl.Kind)
			}
			layer := ink.Layer{
				Name:           jl.Name,
				Kind:           kind,
				Z:              li,
				HighlightGroup: jl.HighlightGroup,
			}
			if layer.Name == "" {
				layer.Name = fmt.Sprintf("Layer %d", li+1)
			}
			for si, js := range jl.Strokes {
				tool, ok := ink.ToolFromCode(js.Tool)
				if !ok {
					return nil, 0, fmt.Errorf("page %d layer %d stroke %d: unknown pen code %d", pi, li, si, js.Tool)
				}
				stroke := ink.Stroke{
					Tool:  tool,
					Color: ink.ColorIndex(js.Color),
					Width: js.Width,
				}
				if v6 {
					stroke.Width = ink.NormalizeV6Width(js.Width)
				}
				for _, p := range js.Points {
					pt := ink.Point{X: p.X, Y: p.Y, Pressure: p.Pressure, Tilt: p.Tilt}
					if v6 {
						pt = ink.NormalizeV6(pt)
					}
					stroke.Points = append(stroke.Points, pt)
				}
				layer.Strokes = append(layer.Strokes, stroke)
			}
			page.Layers = append(page.Layers, layer)
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc, jd.OriginalPageCount, nil
}
