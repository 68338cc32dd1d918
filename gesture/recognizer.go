// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"math"
	"time"

	"github.com/evinput/touchpad/geom"
	"github.com/evinput/touchpad/touch"
)

// verticalPinchSeparationMM is the representative separation above
// which a still-ambiguous two-representative gesture that has timed
// out is assumed to be a pinch rather than a swipe.
const verticalPinchSeparationMM = 20.0

// dispatchGesture runs the recognizer's fall-through state chain. Each
// line's guard re-reads d.state, so a single tick may cascade through
// several handlers: a handler that moves to a new active state (e.g.
// handle_none entering UNKNOWN, or handle_unknown deciding SCROLL) is
// immediately followed, in the same tick, by that new state's own
// handler acting on it — handle_scroll/handle_swipe/handle_pinch never
// transition away from their own state, so the cascade always
// terminates within this one pass.
func (d *Dispatch) dispatchGesture(now time.Duration) {
	if d.state != None {
		d.gestureTimeThumbCheck(now)
	}

	if d.state == None {
		d.state = d.handleNone(now)
	}
	if d.state == Unknown {
		d.state = d.handleUnknown(now)
	}
	if d.state == Scroll {
		d.state = d.handleScroll(now)
	}
	if d.state == Swipe {
		d.state = d.handleSwipe(now)
	}
	if d.state == Pinch {
		d.state = d.handlePinch(now)
	}
}

// gestureTimeThumbCheck lets a thumb that slips under a moving finger
// mid-gesture cancel the gesture in flight. It only applies once two
// representatives have been chosen, i.e. from UNKNOWN onward.
func (d *Dispatch) gestureTimeThumbCheck(now time.Duration) {
	if d.thumb == nil || d.reps[0] == nil || d.reps[1] == nil {
		return
	}
	d.thumb.GestureUpdate(d.reps[0], d.reps[1])
	if d.thumb.IgnoredForGesture(d.reps[0]) || d.thumb.IgnoredForGesture(d.reps[1]) {
		d.cancel(now)
	}
}

// gestureEligible filters out touches the thumb classifier has
// already ruled ineligible to drive a gesture (see thumb.Classifier's
// IgnoredForGesture, whose stated purpose is exactly this).
func (d *Dispatch) gestureEligible(touches []*touch.Touch) []*touch.Touch {
	if d.thumb == nil {
		return touches
	}
	out := touches[:0:0]
	for _, t := range touches {
		if !d.thumb.IgnoredForGesture(t) {
			out = append(out, t)
		}
	}
	return out
}

// handleNone implements NONE → UNKNOWN.
func (d *Dispatch) handleNone(now time.Duration) State {
	active := d.gestureEligible(d.view().ActiveUpTo(4))
	if len(active) < 2 {
		return None
	}

	if !d.cfg.GesturesEnabled && len(active) == 2 {
		d.scroll.Reset()
		d.initialTime = now
		return Scroll
	}

	left, right := representatives(active)
	if left == nil || right == nil || left == right {
		return None
	}

	d.reps[0], d.reps[1] = left, right
	d.initialTime = now
	left.Gesture.Initial = left.Point
	right.Gesture.Initial = right.Point
	return Unknown
}

// representatives picks the two geometric representatives of active:
// both, for exactly two touches; otherwise the smallest-x and
// largest-x touches, ties broken by iteration order (strict
// comparisons mean the first touch seen at an extreme wins).
func representatives(active []*touch.Touch) (left, right *touch.Touch) {
	if len(active) == 2 {
		return active[0], active[1]
	}
	left, right = active[0], active[0]
	for _, t := range active[1:] {
		if t.Point.X < left.Point.X {
			left = t
		}
		if t.Point.X > right.Point.X {
			right = t
		}
	}
	return left, right
}

// handleUnknown implements UNKNOWN → {SCROLL, SWIPE, PINCH}.
func (d *Dispatch) handleUnknown(now time.Duration) State {
	left, right := d.reps[0], d.reps[1]
	v := d.view()

	if elapsed := now - d.initialTime; elapsed > twoFGTimeout {
		switch {
		case d.fingerCount == 2:
			d.scroll.Reset()
			return Scroll
		case d.fingerCount > d.cfg.NumSlots:
			return Swipe
		default:
			sep := v.PhysDelta(geom.Delta(right.Point, left.Point))
			if math.Abs(float64(sep.Y)) > verticalPinchSeparationMM && d.cfg.GesturesEnabled {
				d.initPinch(left, right)
				return Pinch
			}
			return Swipe
		}
	}

	dl := v.Direction(left, d.fingerCount)
	dr := v.Direction(right, d.fingerCount)
	if dl == geom.Undefined || dr == geom.Undefined {
		return Unknown
	}

	if d.fingerCount > d.cfg.NumSlots || geom.SameDirection(dl, dr) {
		if d.fingerCount == 2 {
			d.scroll.Reset()
			return Scroll
		}
		return Swipe
	}

	d.initPinch(left, right)
	return Pinch
}

func (d *Dispatch) initPinch(left, right *touch.Touch) {
	v := d.view()
	sep := v.PhysDelta(geom.Delta(right.Point, left.Point))
	d.initialDistance = sep.Length()
	d.angle = angleDegrees(left, right)
	d.prevAngle = d.angle
	d.center = geom.Average(left.Point, right.Point)
	d.prevCenter = d.center
	d.prevScale = 1.0
}

func angleDegrees(a, b *touch.Touch) float64 {
	d := geom.Delta(b.Point, a.Point)
	return math.Atan2(float64(d.Y), float64(d.X)) * 180 / math.Pi
}

// wrapAngle wraps a into (-180°, 180°], matching the representation
// chosen for angle_delta throughout the recognizer.
func wrapAngle(a float64) float64 {
	for a <= -180 {
		a += 360
	}
	for a > 180 {
		a -= 360
	}
	return a
}

// handleScroll implements the SCROLL state: it stays SCROLL forever
// until externally stopped or cancelled.
func (d *Dispatch) handleScroll(now time.Duration) State {
	if d.cfg.ScrollMethod != ScrollTwoFinger {
		return Scroll
	}
	v := d.view()
	raw := v.AverageDelta()
	filtered := d.scroll.Apply(raw, d.cfg.Res, now)
	filtered = d.motion.FilterUnaccelerated(filtered, now)
	if filtered.IsZero() {
		return Scroll
	}
	d.start(now)
	d.emit.Scroll(now, filtered)
	return Scroll
}

// handleSwipe implements the SWIPE state.
func (d *Dispatch) handleSwipe(now time.Duration) State {
	v := d.view()
	raw := v.AverageDelta()
	delta, _ := d.motion.Filter(raw, now)
	if delta.IsZero() && raw.IsZero() {
		return Swipe
	}
	d.start(now)
	d.emit.SwipeUpdate(now, d.fingerCount, delta, geom.Normalize(raw))
	return Swipe
}

// handlePinch implements the PINCH state.
func (d *Dispatch) handlePinch(now time.Duration) State {
	left, right := d.reps[0], d.reps[1]
	v := d.view()

	sep := v.PhysDelta(geom.Delta(right.Point, left.Point))
	distance := sep.Length()
	angle := angleDegrees(left, right)
	center := geom.Average(left.Point, right.Point)

	scale := distance / d.initialDistance
	angleDelta := wrapAngle(angle - d.prevAngle)
	centerDelta := geom.Delta(center, d.prevCenter)

	delta, _ := d.motion.Filter(centerDelta, now)
	unaccel := geom.Normalize(centerDelta)

	if delta.IsZero() && centerDelta.IsZero() && scale == d.prevScale && angleDelta == 0 {
		return Pinch
	}

	d.start(now)
	d.emit.PinchUpdate(now, d.fingerCount, delta, unaccel, scale, angleDelta)

	d.prevScale = scale
	d.prevCenter = center
	d.prevAngle = angle
	return Pinch
}
