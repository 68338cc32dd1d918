// SPDX-License-Identifier: Unlicense OR MIT

// Package scrollfilter implements the two-finger-scroll axis-lock
// filter: it keeps a decaying mm-space vector history across samples
// and decides which of (horizontal, vertical, both) axes are
// unlocked, zeroing the suppressed axis of the outgoing delta.
package scrollfilter

import (
	"math"
	"time"

	"github.com/evinput/touchpad/geom"
)

const (
	activeThreshold   = 100 * time.Millisecond
	inactiveThreshold = 50 * time.Millisecond
	eventTimeout      = 100 * time.Millisecond

	initialHorizThreshold = 0.15 // mm
	initialVertThreshold  = 0.10 // mm
)

// Filter holds the per-scroll axis-lock state. A Filter is reset at
// the start of every SCROLL gesture; see Reset.
type Filter struct {
	ActiveHoriz, ActiveVert bool
	Vector                  geom.Point // mm-space decaying window
	timePrev                time.Duration
	DurationHoriz           time.Duration
	DurationVert            time.Duration
}

// Reset restores f to its zero state, as happens on every SCROLL
// entry.
func (f *Filter) Reset() {
	*f = Filter{}
}

// Apply constrains raw (a device-unit delta) to the currently
// unlocked axes, updating the filter's internal history. res converts
// device units to millimeters; now is the sample timestamp.
func (f *Filter) Apply(raw geom.Point, res geom.Resolution, now time.Duration) geom.Point {
	// Both axes active means free scrolling: pass through unchanged.
	if f.ActiveHoriz && f.ActiveVert {
		return raw
	}

	var elapsed time.Duration
	if f.timePrev != 0 {
		elapsed = now - f.timePrev
	}
	if elapsed > eventTimeout {
		elapsed = 0
	}
	f.timePrev = now

	deltaMM := geom.PhysDelta(raw, res)

	decay := vectorDecay(elapsed)
	f.Vector = geom.Point{
		X: f.Vector.X*float32(decay) + deltaMM.X,
		Y: f.Vector.Y*float32(decay) + deltaMM.Y,
	}
	length := f.Vector.Length()

	if !f.ActiveHoriz && !f.ActiveVert {
		f.ActiveHoriz = f.Vector.X > initialHorizThreshold
		f.ActiveVert = f.Vector.Y > initialVertThreshold
	}

	slope := math.Inf(1)
	if f.Vector.X != 0 {
		slope = math.Abs(float64(f.Vector.Y) / float64(f.Vector.X))
	}

	if length > 0.15 {
		if slope >= 0.57 {
			f.DurationVert += elapsed
			if f.DurationVert > activeThreshold {
				f.DurationVert = activeThreshold
			}
			if slope >= 3.73 {
				f.DurationHoriz -= elapsed
				if f.DurationHoriz < 0 {
					f.DurationHoriz = 0
				}
			}
		}
		if slope < 1.73 {
			f.DurationHoriz += elapsed
			if f.DurationHoriz > activeThreshold {
				f.DurationHoriz = activeThreshold
			}
			if slope < 0.27 {
				f.DurationVert -= elapsed
				if f.DurationVert < 0 {
					f.DurationVert = 0
				}
			}
		}
	}

	if f.DurationHoriz == activeThreshold {
		f.ActiveHoriz = true
		if f.DurationVert < inactiveThreshold {
			f.ActiveVert = false
		}
	}
	if f.DurationVert == activeThreshold {
		f.ActiveVert = true
		if f.DurationHoriz < inactiveThreshold {
			f.ActiveHoriz = false
		}
	}

	// A large enough deliberate diagonal always unlocks both axes for
	// the rest of the gesture.
	if length > 5.0 && slope >= 0.57 && slope < 1.73 {
		f.ActiveHoriz = true
		f.ActiveVert = true
	}

	out := raw
	if !f.ActiveHoriz && f.ActiveVert {
		out.X = 0
	}
	if f.ActiveHoriz && !f.ActiveVert {
		out.Y = 0
	}
	return out
}

// vectorDecay is a two-part linear approximation of 0.97^elapsed, in
// units of eventTimeout.
func vectorDecay(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	half := eventTimeout / 2
	recent := float64(half-elapsed) / float64(half)
	later := float64(eventTimeout-elapsed) / float64(eventTimeout)
	if elapsed <= eventTimeout*33/100 {
		return recent
	}
	return later
}
