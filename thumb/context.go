// SPDX-License-Identifier: Unlicense OR MIT

package thumb

import (
	"golang.org/x/exp/slices"

	"github.com/evinput/touchpad/geom"
	"github.com/evinput/touchpad/touch"
)

// ContextUpdate runs the multi-finger thumb transitions: it locates
// the bottom-most and second-bottom-most active touches and any
// freshly landed touch, and decides whether the new arrival is a
// thumb based on speed, proximity, and the first touch's own history.
//
// active must contain every currently-active touch (state Begin,
// Update, or End); scrollIsTwoFinger reports whether the configured
// scroll method is LIBINPUT_CONFIG_SCROLL_2FG.
func (c *Classifier) ContextUpdate(active []*touch.Touch, nfingersDown int, scrollIsTwoFinger bool) {
	if len(active) < 2 {
		return
	}

	byY := append([]*touch.Touch(nil), active...)
	slices.SortFunc(byY, func(a, b *touch.Touch) bool {
		return a.Point.Y > b.Point.Y // descending Y: bottom-most first
	})
	first, second := byY[0], byY[1]

	var newest *touch.Touch
	maxSpeed := 0
	for _, t := range active {
		if t.State == touch.Begin {
			newest = t
		}
		if t.Speed.ExceededCount > maxSpeed {
			maxSpeed = t.Speed.ExceededCount
		}
	}

	switch {
	case newest != nil && nfingersDown == 2 && maxSpeed > 5 &&
		(!scrollIsTwoFinger || c.farApartMM(first, second)):
		if c.DetectThumbs {
			newest.Thumb.State = touch.ThumbSuppressed
		} else {
			newest.Thumb.State = touch.ThumbDead
		}

	case newest != nil && nfingersDown >= 2 &&
		first.Point.Y >= c.UpperThumbLine && second.Point.Y >= c.UpperThumbLine &&
		c.withinBoxMM(first, second):
		newest.Thumb.State = touch.ThumbLive
		first.Thumb.State = touch.ThumbLive
		second.Thumb.State = touch.ThumbLive

	default:
		switch first.Thumb.State {
		case touch.ThumbLive, touch.ThumbJailed:
			if c.withinBoxMM(first, second) {
				return
			}
			if c.movedFromInitialMM(first) < 2 {
				first.Thumb.State = touch.ThumbPinch
			} else {
				first.Thumb.State = touch.ThumbSuppressed
			}
		case touch.ThumbRevived, touch.ThumbRevJailed:
			if c.withinBoxMM(first, second) {
				return
			}
			first.Thumb.State = touch.ThumbDead
		}
	}
}

func (c *Classifier) movedFromInitialMM(t *touch.Touch) float64 {
	d := geom.PhysDelta(geom.Delta(t.Point, t.Thumb.Initial), c.Res)
	return d.Length()
}
