// Package template resolves template identifiers to background assets. The
// device ships page templates (grids, lines, planners) as SVG, with PNG
// fallbacks at screen resolution. A missing template is not an error: the
// page simply has no background.
package template

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/wudi/rmrender/ink"
)

// Kind identifies the encoding of a template asset.
type Kind int

const (
	KindSVG Kind = iota
	KindPNG
)

// Asset is one background template ready for a writer to place under a
// page's annotation layers.
type Asset struct {
	ID   string
	Kind Kind
	// Data holds the raw SVG bytes for KindSVG, or the re-encoded PNG for
	// KindPNG after scaling to page pixel dimensions.
	Data []byte
	// Alpha is the attenuation applied when drawing the background; the
	// device renders templates at full strength, printed output wants them
	// fainter. 1 draws the template as-is, 0 omits it.
	Alpha float64
}

// Store resolves template identifiers. Implementations return (nil, nil)
// for unknown identifiers.
type Store interface {
	Template(id string) (*Asset, error)
}

// FSStore loads templates from a directory, trying <id>.svg first and
// <id>.png second. The blank template resolves to no background.
type FSStore struct {
	Dir   string
	Alpha float64
}

// NewFSStore returns a store over dir with the given background attenuation;
// alpha outside (0, 1] selects the default of 0.8.
func NewFSStore(dir string, alpha float64) *FSStore {
	if alpha <= 0 || alpha > 1 {
		alpha = 0.8
	}
	return &FSStore{Dir: dir, Alpha: alpha}
}

func (s *FSStore) Template(id string) (*Asset, error) {
	if id == "" || id == "Blank" {
		return nil, nil
	}

	svgPath := filepath.Join(s.Dir, id+".svg")
	if data, err := os.ReadFile(svgPath); err == nil {
		return &Asset{ID: id, Kind: KindSVG, Data: data, Alpha: s.Alpha}, nil
	}

	pngPath := filepath.Join(s.Dir, id+".png")
	data, err := os.ReadFile(pngPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", id, err)
	}
	scaled, err := scalePNG(data)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", id, err)
	}
	return &Asset{ID: id, Kind: KindPNG, Data: scaled, Alpha: s.Alpha}, nil
}

// scalePNG resamples a raster template to the device's screen dimensions so
// writers can place it 1:1 under the annotation coordinate space.
func scalePNG(data []byte) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	b := src.Bounds()
	if b.Dx() == int(ink.DeviceWidth) && b.Dy() == int(ink.DeviceHeight) {
		return data, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(ink.DeviceWidth), int(ink.DeviceHeight)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
