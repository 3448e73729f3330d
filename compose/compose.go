// Package compose turns a page's ordered layers into a flat list of draw
// instructions consumable by a document writer. It applies the z-order
// rules: eraser subtraction regions clip every lower layer, and overlapping
// smart-highlight strokes merge into a single alpha unit so intersections do
// not darken.
package compose

import (
	"fmt"

	"seehuhn.de/go/geom/rect"

	"github.com/wudi/rmrender/ink"
	"github.com/wudi/rmrender/style"
	"github.com/wudi/rmrender/vector"
)

// Instruction is one compositing unit: one or more paths drawn with a single
// style in one alpha pass, minus the clipped regions. Plain strokes carry a
// single path; a merged highlight group carries all paths of the group.
type Instruction struct {
	Paths []*vector.Path
	Style style.StrokeStyle
	// Clips are subtraction regions from higher-z eraser layers; the area
	// they cover is not drawn.
	Clips []rect.Rect
	// Layer is the Z of the source layer. A highlight group spanning several
	// layers carries the Z of its first member.
	Layer int
}

// PageArt is the composited drawing for one page, in draw order.
type PageArt struct {
	Instructions []Instruction
}

// Empty reports whether the page draws nothing.
func (a *PageArt) Empty() bool { return len(a.Instructions) == 0 }

// Compositor builds PageArt from decoded layers.
type Compositor struct {
	Styles  *style.Mapper
	Builder vector.Builder
}

// NewCompositor returns a Compositor using the given style mapper.
func NewCompositor(styles *style.Mapper) *Compositor {
	return &Compositor{Styles: styles}
}

// layerArt is the per-layer intermediate: drawable instructions plus the
// subtraction regions the layer's eraser strokes produce.
type layerArt struct {
	z            int
	instructions []Instruction
	erasures     []rect.Rect
}

// Composite processes layers strictly in slice order, which must be z-order;
// Layer.Z carries the stacking position. Smart-highlight layers sharing a
// HighlightGroup fold into one group at the first member's Z. Errors carry
// the layer and stroke index of the failing stroke.
func (c *Compositor) Composite(layers []ink.Layer, version ink.Version) (*PageArt, error) {
	arts := make([]layerArt, 0, len(layers))
	groupIdx := make(map[int]int)
	for li := range layers {
		l := &layers[li]
		if l.Kind == ink.LayerHighlightSmart {
			gi, ok := groupIdx[l.HighlightGroup]
			if !ok {
				arts = append(arts, layerArt{z: l.Z})
				gi = len(arts) - 1
				groupIdx[l.HighlightGroup] = gi
			}
			if err := c.mergeHighlights(&arts[gi], l, version); err != nil {
				return nil, fmt.Errorf("layer %d (%s): %w", li, l.Kind, err)
			}
			continue
		}
		art, err := c.compositeLayer(l, version)
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", li, l.Kind, err)
		}
		art.z = l.Z
		arts = append(arts, art)
	}

	// Erasures apply to strictly lower layers: an instruction is clipped by
	// the erasures of every layer with a higher Z than its own.
	var out PageArt
	for i := range arts {
		var clips []rect.Rect
		for j := range arts {
			if arts[j].z > arts[i].z {
				clips = append(clips, arts[j].erasures...)
			}
		}
		for _, ins := range arts[i].instructions {
			ins.Clips = clips
			out.Instructions = append(out.Instructions, ins)
		}
	}
	return &out, nil
}

func (c *Compositor) compositeLayer(l *ink.Layer, version ink.Version) (layerArt, error) {
	var art layerArt
	for si := range l.Strokes {
		s := &l.Strokes[si]
		st, err := c.Styles.Resolve(s.Tool, version, s.Color)
		if err != nil {
			return art, fmt.Errorf("stroke %d: %w", si, err)
		}
		p, err := c.Builder.Build(s, st)
		if err != nil {
			return art, fmt.Errorf("stroke %d: %w", si, err)
		}
		if len(p.Subtraction) > 0 {
			art.erasures = append(art.erasures, p.Subtraction...)
			continue
		}
		art.instructions = append(art.instructions, Instruction{
			Paths: []*vector.Path{p},
			Style: st,
			Layer: l.Z,
		})
	}
	return art, nil
}

// mergeHighlights folds a smart-highlight layer into its group's art. All
// strokes resolving to the same style draw as one instruction, so the group
// composites in a single alpha pass and overlaps stay flat; strokes of a
// different style (a second highlight color, say) keep their own pass.
func (c *Compositor) mergeHighlights(art *layerArt, l *ink.Layer, version ink.Version) error {
	for si := range l.Strokes {
		s := &l.Strokes[si]
		st, err := c.Styles.Resolve(s.Tool, version, s.Color)
		if err != nil {
			return fmt.Errorf("stroke %d: %w", si, err)
		}
		p, err := c.Builder.Build(s, st)
		if err != nil {
			return fmt.Errorf("stroke %d: %w", si, err)
		}
		ii := 0
		for ; ii < len(art.instructions); ii++ {
			if art.instructions[ii].Style == st {
				break
			}
		}
		if ii == len(art.instructions) {
			art.instructions = append(art.instructions, Instruction{Style: st, Layer: art.z})
		}
		art.instructions[ii].Paths = append(art.instructions[ii].Paths, p)
	}
	return nil
}
