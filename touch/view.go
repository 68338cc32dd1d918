// SPDX-License-Identifier: Unlicense OR MIT

package touch

import "github.com/evinput/touchpad/geom"

// View is a read-only projection over a device's current touch slots:
// which contacts are active, their combined/average deltas, and their
// quantized travel direction. View never mutates the Touches it wraps.
type View struct {
	// Touches is the fixed-capacity, slot-indexed touch array.
	Touches []*Touch
	// Res converts device-unit deltas to millimeters (see geom.PhysDelta).
	Res geom.Resolution
	// Masked reports whether a touch is externally excluded (palm,
	// button area, ...). A nil Masked masks nothing.
	Masked func(*Touch) bool
}

func (v *View) masked(t *Touch) bool {
	return v.Masked != nil && v.Masked(t)
}

// Active returns the ordered subsequence of touches that are down and
// not masked out, preserving slot order.
func (v *View) Active() []*Touch {
	var out []*Touch
	for _, t := range v.Touches {
		if t.Active(v.masked(t)) {
			out = append(out, t)
		}
	}
	return out
}

// ActiveUpTo returns up to n active touches, same ordering as Active.
// Mirrors the original's fixed-size touches[4] scratch array used for
// representative selection.
func (v *View) ActiveUpTo(n int) []*Touch {
	out := make([]*Touch, 0, n)
	for _, t := range v.Touches {
		if len(out) == n {
			break
		}
		if t.Active(v.masked(t)) {
			out = append(out, t)
		}
	}
	return out
}

// CombinedDelta sums the per-touch delta (Point - PrevPoint) of every
// active, dirty touch, in device units.
func (v *View) CombinedDelta() geom.Point {
	var sum geom.Point
	for _, t := range v.Touches {
		if !t.Active(v.masked(t)) || !t.Dirty {
			continue
		}
		sum = sum.Add(t.Delta())
	}
	return sum
}

// AverageDelta is CombinedDelta divided by the number of active
// touches, or the zero vector if none are active.
func (v *View) AverageDelta() geom.Point {
	n := 0
	for _, t := range v.Touches {
		if t.Active(v.masked(t)) {
			n++
		}
	}
	if n == 0 {
		return geom.Point{}
	}
	return v.CombinedDelta().Mul(1 / float32(n))
}

// PhysDelta scales a device-unit delta to millimeters using v.Res.
func (v *View) PhysDelta(d geom.Point) geom.Point {
	return geom.PhysDelta(d, v.Res)
}

// moveThresholdMM is the per-extra-finger distance (mm) a touch must
// travel from its gesture-initial point before Direction reports
// anything but geom.Undefined.
const moveThresholdMM = 1.0

// Direction returns the quantized 8-way direction of t's displacement
// from t.Gesture.Initial, or geom.Undefined if the displacement is
// shorter than 1.0mm × (nfingers-1).
func (v *View) Direction(t *Touch, nfingers int) geom.Direction {
	threshold := moveThresholdMM * float64(nfingers-1)
	d := geom.Delta(t.Point, t.Gesture.Initial)
	mm := v.PhysDelta(d)
	if mm.Length() < threshold {
		return geom.Undefined
	}
	return geom.Quantize(mm.X, mm.Y)
}

// SameDirections reports whether d1 and d2 should be treated as the
// same gesture direction; see geom.SameDirection.
func SameDirections(d1, d2 geom.Direction) bool {
	return geom.SameDirection(d1, d2)
}
