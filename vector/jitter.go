package vector

import (
	"hash/fnv"
	"math"
	"math/rand"

	"seehuhn.de/go/geom/vec"

	"github.com/wudi/rmrender/ink"
)

// strokeSeed derives a stable seed from the stroke's geometry so that the
// pencil jitter is reproducible across renders of the same document.
func strokeSeed(s *ink.Stroke) int64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(f float64) {
		bits := math.Float64bits(f)
		for i := range buf {
			buf[i] = byte(bits >> (8 * i))
		}
		h.Write(buf[:])
	}
	put(float64(s.Tool))
	put(s.Width)
	for _, p := range s.Points {
		put(p.X)
		put(p.Y)
		put(p.Pressure)
	}
	return int64(h.Sum64())
}

// applyJitter displaces segment endpoints sideways to approximate pencil
// grain. Adjacent segments reuse the same offset magnitude at their shared
// endpoint to keep the path visually connected. This is a visual
// approximation only; the device's actual pencil texture is not reproduced.
func applyJitter(segs []Segment, seed int64) {
	if len(segs) == 0 {
		return
	}
	rng := rand.New(rand.NewSource(seed))

	// One offset per point (segment endpoints overlap pairwise).
	offsets := make([]float64, len(segs)+1)
	for i := range offsets {
		offsets[i] = (rng.Float64()*2 - 1) * jitterAmplitude
	}

	for i := range segs {
		n := normal(segs[i].A, segs[i].B)
		segs[i].A = displace(segs[i].A, n, offsets[i]*segs[i].WidthA)
		segs[i].B = displace(segs[i].B, n, offsets[i+1]*segs[i].WidthB)
	}
}

// normal returns the unit normal of the segment a→b, or zero for degenerate
// segments.
func normal(a, b vec.Vec2) vec.Vec2 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return vec.Vec2{}
	}
	return vec.Vec2{X: -dy / l, Y: dx / l}
}

func displace(p, n vec.Vec2, d float64) vec.Vec2 {
	return vec.Vec2{X: p.X + n.X*d, Y: p.Y + n.Y*d}
}
