// SPDX-License-Identifier: Unlicense OR MIT

package thumb

import (
	"github.com/evinput/touchpad/geom"
	"github.com/evinput/touchpad/touch"
)

// stillMM is the displacement threshold below which a representative
// is considered not to have moved since the gesture admitted it.
const stillMM = 2.0

// GestureUpdate runs the gesture-time thumb check: called once per
// tick by the gesture recognizer while in UNKNOWN/PINCH/SWIPE/SCROLL,
// with left and right the two geometric representatives. If one has
// stayed within 2mm of its admission point while the other moved past
// it fast enough to have broken the speed threshold, the contact
// resting physically lower on the pad is labeled SUPPRESSED — a
// signal the recognizer treats as cause to cancel the in-flight
// gesture.
func (c *Classifier) GestureUpdate(left, right *touch.Touch) {
	dl := geom.PhysDelta(geom.Delta(left.Point, left.Gesture.Initial), c.Res).Length()
	dr := geom.PhysDelta(geom.Delta(right.Point, right.Gesture.Initial), c.Res).Length()

	var moving *touch.Touch
	switch {
	case dl <= stillMM && dr > stillMM:
		moving = right
	case dr <= stillMM && dl > stillMM:
		moving = left
	default:
		return
	}

	if moving.Speed.ExceededCount <= 5 {
		return
	}

	target := left
	if right.Gesture.Initial.Y > left.Gesture.Initial.Y {
		target = right
	}
	target.Thumb.State = touch.ThumbSuppressed
}
