package ink

import (
	"fmt"
	"math"
)

// MalformedStrokeError reports a stroke whose point data violates the model
// invariants (out-of-range pressure or tilt, non-finite coordinates, no
// points at all). Rendering a document containing such a stroke fails; the
// transform is deterministic, so a retry cannot succeed.
type MalformedStrokeError struct {
	Point  int // index of the offending point, -1 if the stroke as a whole
	Reason string
}

func (e *MalformedStrokeError) Error() string {
	if e.Point < 0 {
		return fmt.Sprintf("malformed stroke: %s", e.Reason)
	}
	return fmt.Sprintf("malformed stroke: point %d: %s", e.Point, e.Reason)
}

// Validate checks the stroke's model invariants.
func (s *Stroke) Validate() error {
	if len(s.Points) == 0 {
		return &MalformedStrokeError{Point: -1, Reason: "no points"}
	}
	if s.Width < 0 {
		return &MalformedStrokeError{Point: -1, Reason: "negative base width"}
	}
	for i, p := range s.Points {
		if p.Pressure < 0 || p.Pressure > 1 {
			return &MalformedStrokeError{Point: i, Reason: fmt.Sprintf("pressure %g outside [0,1]", p.Pressure)}
		}
		if p.Tilt < 0 || p.Tilt > 1 {
			return &MalformedStrokeError{Point: i, Reason: fmt.Sprintf("tilt %g outside [0,1]", p.Tilt)}
		}
		if !finite(p.X) || !finite(p.Y) {
			return &MalformedStrokeError{Point: i, Reason: "non-finite coordinate"}
		}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
