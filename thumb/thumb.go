// SPDX-License-Identifier: Unlicense OR MIT

// Package thumb implements the per-touch thumb-classifier state
// machine: it labels each touch LIVE, JAILED, PINCH, SUPPRESSED,
// REVIVED, REV_JAILED, or DEAD, and exposes the predicates the
// gesture recognizer and downstream tap/click-finger/edge-scroll
// logic consult to decide whether a contact participates.
package thumb

import (
	"math"

	"github.com/evinput/touchpad/geom"
	"github.com/evinput/touchpad/touch"
)

// Config is the hardware- and quirks-derived configuration computed
// once when a device attaches (analogous to tp_init_thumb in the
// original C).
type Config struct {
	IsClickpad  bool
	HeightMM    float32
	Res         geom.Resolution
	UseSize     bool
	SizeThresh  float32
	UsePressure bool
	PressThresh float32
}

// Classifier holds the device-global thumb-classifier configuration
// and pinch-eligibility state. Per-touch classifier state lives on
// touch.Touch itself (touch.ThumbInfo).
type Classifier struct {
	DetectThumbs  bool
	PinchEligible bool

	UpperThumbLine float32
	LowerThumbLine float32

	UseSize     bool
	SizeThresh  float32
	UsePressure bool
	PressThresh float32

	Res geom.Resolution
}

// minPadHeightMM is the height below which thumb detection is
// disabled entirely: too small a pad to meaningfully rest a thumb on
// while typing with fingers.
const minPadHeightMM = 50

// New computes a Classifier for a newly attached device. It mirrors
// tp_init_thumb: thumb detection only engages on clickpads at least
// 50mm tall, with the upper/lower thumb lines at 85%/92% of pad
// height.
func New(cfg Config, gestureEnabled bool) *Classifier {
	c := &Classifier{Res: cfg.Res}
	if !cfg.IsClickpad || cfg.HeightMM < minPadHeightMM {
		return c
	}
	c.DetectThumbs = true
	c.UpperThumbLine = cfg.HeightMM * 0.85 * cfg.Res.Y
	c.LowerThumbLine = cfg.HeightMM * 0.92 * cfg.Res.Y
	c.UseSize = cfg.UseSize
	c.SizeThresh = cfg.SizeThresh
	c.UsePressure = cfg.UsePressure
	c.PressThresh = cfg.PressThresh
	c.Reset(gestureEnabled)
	return c
}

// Reset restores the classifier to its initial values, as happens
// whenever the contact count returns to zero.
func (c *Classifier) Reset(gestureEnabled bool) {
	c.PinchEligible = gestureEnabled
}

// HwSaysFinger reports whether the hardware-reported size or pressure
// of t confirms it is a finger rather than a thumb. It returns false
// ("cannot confirm") when neither capability is available.
func (c *Classifier) HwSaysFinger(t *touch.Touch) bool {
	if c.UseSize && !((t.Major > c.SizeThresh) && (t.Minor < c.SizeThresh*0.6)) {
		return true
	}
	if c.UsePressure && t.Pressure <= c.PressThresh && t.Point.Y < c.LowerThumbLine {
		return true
	}
	return false
}

// NeedsJail reports whether t, on landing, must start JAILED.
func (c *Classifier) NeedsJail(t *touch.Touch) bool {
	if t.Point.Y < c.UpperThumbLine {
		return false
	}
	if t.Point.Y < c.LowerThumbLine && c.HwSaysFinger(t) {
		return false
	}
	if t.Speed.ExceededCount >= 10 {
		return false
	}
	return true
}

// Update runs the per-touch classifier transitions for t. Call once
// per sample for every touch. When more than one finger is down the
// per-touch transitions are owned by ContextUpdate instead.
func (c *Classifier) Update(t *touch.Touch, nfingersDown int) {
	if !c.DetectThumbs {
		return
	}

	if t.Speed.ExceededCount >= 10 && c.PinchEligible {
		c.PinchEligible = false
	}

	// thumb.initial is captured the instant a touch enters its initial
	// classifier state regardless of how many other fingers are down;
	// only the JAILED/LIVE state decision itself is ContextUpdate's to
	// make when more than one finger is down.
	if t.State == touch.Begin {
		t.Thumb.Initial = t.Point
	}

	if nfingersDown > 1 {
		return
	}

	switch {
	case t.State == touch.Begin:
		if c.NeedsJail(t) {
			t.Thumb.State = touch.ThumbJailed
		} else {
			t.Thumb.State = touch.ThumbLive
		}
	case t.Thumb.State == touch.ThumbSuppressed:
		// The suppressed touch is now the sole remaining contact;
		// re-evaluate it the way a freshly landed touch would be.
		t.Thumb.Initial = t.Point
		if c.NeedsJail(t) {
			t.Thumb.State = touch.ThumbRevJailed
		} else {
			t.Thumb.State = touch.ThumbRevived
		}
	case t.Thumb.State == touch.ThumbJailed && !c.NeedsJail(t):
		t.Thumb.State = touch.ThumbLive
	case t.Thumb.State == touch.ThumbRevJailed && !c.NeedsJail(t):
		t.Thumb.State = touch.ThumbRevived
	}
}

// Ignored* predicates, consumed by A-E and by downstream tap/
// click-finger/edge-scroll logic outside this core.

func (c *Classifier) IgnoredForPointer(t *touch.Touch) bool {
	if !c.DetectThumbs {
		return false
	}
	switch t.Thumb.State {
	case touch.ThumbJailed, touch.ThumbPinch, touch.ThumbSuppressed, touch.ThumbRevJailed, touch.ThumbDead:
		return true
	}
	return false
}

func (c *Classifier) IgnoredForGesture(t *touch.Touch) bool {
	if !c.DetectThumbs {
		return false
	}
	return t.Thumb.State == touch.ThumbSuppressed || t.Thumb.State == touch.ThumbDead
}

func (c *Classifier) IgnoredForTap(t *touch.Touch) bool {
	if !c.DetectThumbs {
		return false
	}
	switch t.Thumb.State {
	case touch.ThumbPinch, touch.ThumbSuppressed, touch.ThumbDead:
		return true
	}
	return false
}

func (c *Classifier) IgnoredForClickfinger(t *touch.Touch) bool {
	if !c.DetectThumbs {
		return false
	}
	return t.Thumb.State == touch.ThumbSuppressed || t.Thumb.State == touch.ThumbDead
}

// IgnoredForEdgeScroll mirrors IgnoredForTap.
func (c *Classifier) IgnoredForEdgeScroll(t *touch.Touch) bool {
	return c.IgnoredForTap(t)
}

// horizCloseMM and vertCloseMM are the proximity thresholds used
// throughout the context-update routine to decide whether two
// touches landed "next to" one another rather than far apart.
const (
	horizCloseMM = 35.0
	vertCloseMM  = 25.0
)

// farApartMM reports whether a and b are far enough apart, on both
// axes, to rule out a deliberate scroll placement.
func (c *Classifier) farApartMM(a, b *touch.Touch) bool {
	d := geom.PhysDelta(geom.Delta(a.Point, b.Point), c.Res)
	return math.Abs(float64(d.X)) >= horizCloseMM && math.Abs(float64(d.Y)) >= vertCloseMM
}

// withinBoxMM reports whether a and b landed within a (35mm × 25mm)
// box of one another.
func (c *Classifier) withinBoxMM(a, b *touch.Touch) bool {
	d := geom.PhysDelta(geom.Delta(a.Point, b.Point), c.Res)
	return math.Abs(float64(d.X)) < horizCloseMM && math.Abs(float64(d.Y)) < vertCloseMM
}
