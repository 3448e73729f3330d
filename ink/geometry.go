package ink

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Device screen geometry and its mapping to PDF points. The device records
// annotations in screen pixels with the origin at the top-left corner and y
// growing downwards; PDF page space has the origin at the bottom-left with y
// growing upwards.
const (
	DeviceWidth  = 1404.0 // px
	DeviceHeight = 1872.0 // px

	// PtPerPx converts device pixels to PDF points at the device's 226 ppi.
	PtPerPx = 72.0 / 226.0

	PageWidth  = DeviceWidth * PtPerPx  // pt
	PageHeight = DeviceHeight * PtPerPx // pt
)

// DeviceToPage is the transform from device pixel space to PDF page space:
// translate the origin to the bottom of the page, then flip vertically while
// scaling pixels to points.
var DeviceToPage = matrix.Scale(PtPerPx, -PtPerPx).Mul(matrix.Translate(0, PageHeight))

// Apply transforms a device-space point into page space using m.
func Apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// NormalizeV6 maps a version-6 scene point into the device pixel space shared
// with the legacy formats. Version 6 stores x centered on the page middle at
// a 0.7 scale and widths at 4x.
func NormalizeV6(p Point) Point {
	return Point{
		X:        p.X*0.7 + DeviceWidth/2 - 40,
		Y:        p.Y * 0.7,
		Pressure: p.Pressure,
		Tilt:     p.Tilt,
	}
}

// NormalizeV6Width maps a version-6 recorded stroke width to device pixels.
func NormalizeV6Width(w float64) float64 { return w / 4 }
