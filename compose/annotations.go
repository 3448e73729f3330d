package compose

import (
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"github.com/wudi/rmrender/ink"
)

// AnnotationGroup is the bounding rectangle, in page coordinates, of a set
// of overlapping strokes of the same kind on one layer. Writers that support
// document annotations (e.g. PDF highlight annotations) can emit one
// annotation per group instead of one per stroke.
type AnnotationGroup struct {
	Layer  string
	Kind   string
	Bounds rect.Rect
}

// GroupAnnotations merges the bounds of one layer's instructions, repeating
// until no two groups of the same kind overlap. Only instructions whose
// source layer Z equals z contribute; callers group each layer separately.
func GroupAnnotations(layerName string, z int, art *PageArt) []AnnotationGroup {
	type entry struct {
		kind   string
		bounds rect.Rect
	}
	var set []entry
	for _, ins := range art.Instructions {
		if ins.Layer != z {
			continue
		}
		kind := ins.Style.Blend.String()
		for _, p := range ins.Paths {
			set = append(set, entry{kind: kind, bounds: p.Bounds()})
		}
	}

	for {
		var merged []entry
		changed := false
		for _, e := range set {
			fit := false
			for i := range merged {
				if merged[i].kind != e.kind {
					continue
				}
				if intersects(merged[i].bounds, e.bounds) {
					merged[i].bounds = union(merged[i].bounds, e.bounds)
					fit = true
					changed = true
					break
				}
			}
			if !fit {
				merged = append(merged, e)
			}
		}
		set = merged
		if !changed {
			break
		}
	}

	out := make([]AnnotationGroup, 0, len(set))
	for _, e := range set {
		out = append(out, AnnotationGroup{Layer: layerName, Kind: e.kind, Bounds: pageBounds(e.bounds)})
	}
	return out
}

// pageBounds maps a device-space bounding box into page space, where the
// vertical axis flips.
func pageBounds(b rect.Rect) rect.Rect {
	ll := ink.Apply(ink.DeviceToPage, vec.Vec2{X: b.LLx, Y: b.LLy})
	ur := ink.Apply(ink.DeviceToPage, vec.Vec2{X: b.URx, Y: b.URy})
	return rect.Rect{
		LLx: min(ll.X, ur.X),
		LLy: min(ll.Y, ur.Y),
		URx: max(ll.X, ur.X),
		URy: max(ll.Y, ur.Y),
	}
}

func intersects(a, b rect.Rect) bool {
	return a.LLx <= b.URx && b.LLx <= a.URx && a.LLy <= b.URy && b.LLy <= a.URy
}

func union(a, b rect.Rect) rect.Rect {
	return rect.Rect{
		LLx: min(a.LLx, b.LLx),
		LLy: min(a.LLy, b.LLy),
		URx: max(a.URx, b.URx),
		URy: max(a.URy, b.URy),
	}
}
