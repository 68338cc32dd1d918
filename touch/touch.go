// SPDX-License-Identifier: Unlicense OR MIT

// Package touch holds the per-contact data model: one Touch per
// hardware slot, its lifecycle state, and the thumb-classifier and
// gesture sub-state the touchpad core hangs off of it.
//
// Package touch owns no behavior beyond simple accessors; the state
// machines that mutate Thumb and Gesture sub-state live in the
// sibling thumb and gesture packages.
package touch

import "github.com/evinput/touchpad/geom"

// State is a touch's lifecycle state. Only Begin, Update, and End are
// "down"; a Touch's Point is defined only in those three states.
type State uint8

const (
	None State = iota
	Hovering
	Begin
	Update
	End
)

func (s State) String() string {
	switch s {
	case None:
		return "None"
	case Hovering:
		return "Hovering"
	case Begin:
		return "Begin"
	case Update:
		return "Update"
	case End:
		return "End"
	default:
		panic("touch: invalid State")
	}
}

// Down reports whether s is one of Begin, Update, End.
func (s State) Down() bool {
	switch s {
	case Begin, Update, End:
		return true
	default:
		return false
	}
}

// ThumbState is the per-touch thumb-classifier state. It is declared
// here, alongside the rest of the Touch data model, because it is
// part of a Touch's persistent state; the classifier
// package implements the transitions between these states.
type ThumbState uint8

const (
	ThumbLive ThumbState = iota
	ThumbJailed
	ThumbPinch
	ThumbSuppressed
	ThumbRevived
	ThumbRevJailed
	ThumbDead
)

func (s ThumbState) String() string {
	switch s {
	case ThumbLive:
		return "Live"
	case ThumbJailed:
		return "Jailed"
	case ThumbPinch:
		return "Pinch"
	case ThumbSuppressed:
		return "Suppressed"
	case ThumbRevived:
		return "Revived"
	case ThumbRevJailed:
		return "RevJailed"
	case ThumbDead:
		return "Dead"
	default:
		panic("touch: invalid ThumbState")
	}
}

// Speed tracks the consecutive-sample counter the environment
// maintains for instantaneous contact speed exceeding a fixed
// threshold. It resets to 0 on Begin and never decreases during the
// touch's life.
type Speed struct {
	ExceededCount int
}

// ThumbInfo is the classifier sub-state carried by a Touch.
type ThumbInfo struct {
	State   ThumbState
	Initial geom.Point // captured on Begin, re-assigned on revival
}

// GestureInfo is the gesture-recognizer sub-state carried by a Touch.
type GestureInfo struct {
	Initial geom.Point // captured when the touch was admitted into a gesture
}

// Touch represents one contact slot.
type Touch struct {
	Index int

	State     State
	Point     geom.Point
	PrevPoint geom.Point // Point as of the last Commit
	Dirty     bool       // updated this frame

	Major, Minor float32
	Pressure     float32

	Speed   Speed
	Thumb   ThumbInfo
	Gesture GestureInfo
}

// Active reports whether t is down and not externally masked out
// (e.g. by palm or button logic, which lives outside this core).
func (t *Touch) Active(masked bool) bool {
	return t.State.Down() && !masked
}

// Begin resets per-contact lifetime state for a new contact landing
// in slot t.Index at point p.
func (t *Touch) Begin(p geom.Point) {
	t.State = Begin
	t.Point = p
	t.PrevPoint = p
	t.Dirty = true
	t.Speed.ExceededCount = 0
}

// Delta returns the displacement since the last Commit, or the zero
// vector if the touch hasn't moved this frame. Delta is pure; it does
// not mutate t. Call Commit once per sample, after all consumers have
// read Delta, to advance PrevPoint.
func (t *Touch) Delta() geom.Point {
	if !t.Dirty {
		return geom.Point{}
	}
	return geom.Delta(t.Point, t.PrevPoint)
}

// Commit advances PrevPoint to Point and clears Dirty. Called once per
// sample by the dispatcher after all gesture/thumb processing for the
// tick has read Delta.
func (t *Touch) Commit() {
	t.PrevPoint = t.Point
	t.Dirty = false
}
