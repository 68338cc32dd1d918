// SPDX-License-Identifier: Unlicense OR MIT

// Package gesture implements the top-level multi-touch recognizer: it
// watches the touch view and thumb classifier and turns raw per-slot
// samples into pointer motion, two-finger scroll, and n-finger swipe
// and pinch events.
package gesture

import (
	"log"
	"time"

	"github.com/evinput/touchpad/geom"
	"github.com/evinput/touchpad/scrollfilter"
	"github.com/evinput/touchpad/thumb"
	"github.com/evinput/touchpad/touch"
)

// State is the recognizer's top-level state: NONE → UNKNOWN →
// {SCROLL | SWIPE | PINCH} → NONE.
type State uint8

const (
	None State = iota
	Unknown
	Scroll
	Swipe
	Pinch
)

func (s State) String() string {
	switch s {
	case None:
		return "None"
	case Unknown:
		return "Unknown"
	case Scroll:
		return "Scroll"
	case Swipe:
		return "Swipe"
	case Pinch:
		return "Pinch"
	default:
		panic("gesture: invalid State")
	}
}

// ScrollMethod mirrors the device's configured scroll method; only
// TwoFinger drives the gesture recognizer's SCROLL state here (edge
// and on-button-down scrolling are handled entirely outside this
// core).
type ScrollMethod uint8

const (
	ScrollNone ScrollMethod = iota
	ScrollEdge
	ScrollTwoFinger
	ScrollOnButtonDown
)

func (m ScrollMethod) String() string {
	switch m {
	case ScrollNone:
		return "ScrollNone"
	case ScrollEdge:
		return "ScrollEdge"
	case ScrollTwoFinger:
		return "ScrollTwoFinger"
	case ScrollOnButtonDown:
		return "ScrollOnButtonDown"
	default:
		panic("gesture: invalid ScrollMethod")
	}
}

// Config is the hardware- and quirks-derived configuration supplied
// once by the caller, analogous to the fields tp_init_* computes from
// device discovery and quirk lookup.
type Config struct {
	NumSlots        int
	IsClickpad      bool
	ScrollMethod    ScrollMethod
	GesturesEnabled bool // false for semi-MT devices
	Res             geom.Resolution
}

// Logger receives reports of internal invariant violations (spec's
// "Logic bug" error category). It is never used to report anything
// the caller needs to act on; the state machine always recovers on
// its own.
type Logger interface {
	Bugf(format string, args ...any)
}

type defaultLogger struct{}

func (defaultLogger) Bugf(format string, args ...any) {
	log.Printf("gesture: "+format, args...)
}

// MotionFilter stands in for the environment's acceleration curve
// (tp_filter_motion / tp_filter_motion_unaccelerated): a pure function
// of a raw device-unit delta and a monotonic timestamp.
type MotionFilter interface {
	Filter(raw geom.Point, now time.Duration) (delta, unaccel geom.Point)
	FilterUnaccelerated(raw geom.Point, now time.Duration) geom.Point
}

// Timer stands in for the environment's one-shot timer plumbing. Arm
// schedules a single callback after d; the caller's event loop is
// responsible for invoking Dispatch.TimerFired once d has elapsed,
// using the same monotonic clock as every other tick. A later Arm
// call supersedes any timer still pending; a stale fire (one the
// caller couldn't cancel in time) is always safe, since TimerFired
// re-checks whether a debounce is still pending before acting.
type Timer interface {
	Arm(d time.Duration)
}

// Emitter stands in for the environment's event-emission façade
// (pointer_notify_motion, gesture_notify_{swipe,pinch}_*,
// evdev_post_scroll/evdev_stop_scroll). Every method is called at
// most once per tick.
type Emitter interface {
	PointerMotion(now time.Duration, delta, unaccel geom.Point)
	Scroll(now time.Duration, delta geom.Point)
	ScrollStop(now time.Duration)
	SwipeBegin(now time.Duration, nfingers int)
	SwipeUpdate(now time.Duration, nfingers int, delta, unaccel geom.Point)
	SwipeEnd(now time.Duration, nfingers int, cancelled bool)
	PinchBegin(now time.Duration, nfingers int)
	PinchUpdate(now time.Duration, nfingers int, delta, unaccel geom.Point, scale, angleDelta float64)
	PinchEnd(now time.Duration, nfingers int, cancelled bool)
}

const (
	debounceTimeout = 100 * time.Millisecond
	twoFGTimeout    = 150 * time.Millisecond
)

// Dispatch is the TouchDispatch aggregate: the single owner of one
// device's touch slots, gesture state, and thumb classifier. Every
// core entry point takes a Dispatch by pointer; none of it is safe
// for concurrent use, matching the single-threaded, cooperative
// dispatch model this core assumes.
type Dispatch struct {
	cfg     Config
	touches []*touch.Touch
	thumb   *thumb.Classifier
	scroll  scrollfilter.Filter

	motion MotionFilter
	emit   Emitter
	timer  Timer
	log    Logger

	// Masked reports whether a touch is externally excluded (palm,
	// finger masking outside the thumb region). Nil masks nothing.
	Masked func(*touch.Touch) bool
	// ClickpadButtonDown reports buttons.state for a clickpad device.
	// Nil is treated as never pressed.
	ClickpadButtonDown func() bool
	// TapDragging reports tp_tap_dragging(tp). Nil is treated as false.
	TapDragging func() bool

	state   State
	started bool

	fingerCount        int
	fingerCountPending int

	reps [2]*touch.Touch

	initialTime time.Duration

	initialDistance float64
	angle           float64
	prevAngle       float64
	center          geom.Point
	prevCenter      geom.Point
	prevScale       float64
}

// NewDispatch constructs a Dispatch over touches, the device's fixed
// slot array. log may be nil, in which case bug reports go to the
// standard logger.
func NewDispatch(cfg Config, touches []*touch.Touch, thumbClassifier *thumb.Classifier, motion MotionFilter, emit Emitter, timer Timer, log Logger) *Dispatch {
	if log == nil {
		log = defaultLogger{}
	}
	return &Dispatch{
		cfg:     cfg,
		touches: touches,
		thumb:   thumbClassifier,
		motion:  motion,
		emit:    emit,
		timer:   timer,
		log:     log,
	}
}

// State reports the recognizer's current top-level state.
func (d *Dispatch) State() State { return d.state }

func (d *Dispatch) view() *touch.View {
	return &touch.View{Touches: d.touches, Res: d.cfg.Res, Masked: d.Masked}
}

// Tick runs one full sample: the per-touch and context thumb updates,
// the finger-count debounce, the gesture dispatch chain (or pointer
// motion), and finally commits every touch's delta-tracking state.
// Callers needing finer control can instead call UpdateThumb,
// HandleState, and PostEvents directly.
func (d *Dispatch) Tick(now time.Duration) {
	d.UpdateThumb(now)
	d.HandleState(now)
	d.PostEvents(now)
	for _, t := range d.touches {
		t.Commit()
	}
}

// UpdateThumb runs the per-touch and (when more than one finger is
// down) context thumb-classifier updates for every active touch.
func (d *Dispatch) UpdateThumb(now time.Duration) {
	if d.thumb == nil {
		return
	}
	active := d.view().Active()
	for _, t := range active {
		d.thumb.Update(t, len(active))
	}
	if len(active) > 1 {
		d.thumb.ContextUpdate(active, len(active), d.cfg.ScrollMethod == ScrollTwoFinger)
	}
}

// HandleState implements the finger-count debounce: call once per
// sample, after touch-state bookkeeping.
func (d *Dispatch) HandleState(now time.Duration) {
	active := len(d.view().Active())
	if active == d.fingerCount {
		// Back to the count the gesture is already running at: drop
		// any debounce that was in flight.
		d.fingerCountPending = 0
		return
	}
	switch {
	case active == 0:
		d.stop(now)
		d.fingerCount = 0
		d.fingerCountPending = 0
		if d.thumb != nil && d.thumb.DetectThumbs {
			d.thumb.Reset(d.cfg.GesturesEnabled)
		}
	case !d.started:
		d.fingerCount = active
		d.fingerCountPending = 0
	case active != d.fingerCountPending:
		d.fingerCountPending = active
		d.timer.Arm(debounceTimeout)
	}
}

// TimerFired must be called by the caller's event loop once the
// duration passed to the most recent Timer.Arm has elapsed. A fire
// observed after the debounce was already resolved (superseded by a
// newer arm, or the gesture already ended) is a safe no-op.
func (d *Dispatch) TimerFired(now time.Duration) {
	if d.fingerCountPending == 0 {
		return
	}
	d.cancel(now)
	d.fingerCount = d.fingerCountPending
	d.fingerCountPending = 0
}

// PostEvents runs the override checks, the gesture dispatch chain or
// pointer-motion routing, and emits at most one event of each kind.
// Call once per sample, after motion filtering.
func (d *Dispatch) PostEvents(now time.Duration) {
	if d.fingerCount == 0 {
		return
	}

	tapDragging := d.TapDragging != nil && d.TapDragging()
	clicked := d.cfg.IsClickpad && d.ClickpadButtonDown != nil && d.ClickpadButtonDown()
	if tapDragging || clicked {
		d.cancel(now)
		d.fingerCount = 1
		d.fingerCountPending = 0
	}

	// Don't send events while we're unsure which mode we're in.
	if d.fingerCountPending != 0 {
		return
	}

	switch d.fingerCount {
	case 1:
		d.postPointerMotion(now)
	case 2, 3, 4:
		d.dispatchGesture(now)
	}
}

func (d *Dispatch) postPointerMotion(now time.Duration) {
	v := d.view()
	var raw geom.Point
	if d.cfg.IsClickpad && d.ClickpadButtonDown != nil && d.ClickpadButtonDown() {
		raw = v.CombinedDelta()
	} else {
		raw = v.AverageDelta()
	}
	delta, _ := d.motion.Filter(raw, now)
	if delta.IsZero() && raw.IsZero() {
		return
	}
	d.emit.PointerMotion(now, delta, geom.ScaleToXAxis(raw, d.cfg.Res))
}

// start is idempotent: it emits the matching _BEGIN event exactly
// once per gesture (SCROLL has none) and always marks started, even
// when called in an invalid state (see the Logic bug case below).
func (d *Dispatch) start(now time.Duration) {
	if d.started {
		return
	}
	switch d.state {
	case None, Unknown:
		d.log.Bugf("start called in %s mode", d.state)
	case Pinch:
		d.emit.PinchBegin(now, d.fingerCount)
	case Swipe:
		d.emit.SwipeBegin(now, d.fingerCount)
	}
	d.started = true
}

// end unconditionally resets state to NONE, then, only if a gesture
// had actually started, emits the matching _END event (or a bug
// report if the state was already invalid).
func (d *Dispatch) end(now time.Duration, cancelled bool) {
	state := d.state
	d.state = None
	if !d.started {
		return
	}
	switch state {
	case None, Unknown:
		d.log.Bugf("end called in %s mode", state)
	case Scroll:
		d.emit.ScrollStop(now)
	case Swipe:
		d.emit.SwipeEnd(now, d.fingerCount, cancelled)
	case Pinch:
		d.emit.PinchEnd(now, d.fingerCount, cancelled)
	}
	d.started = false
}

func (d *Dispatch) cancel(now time.Duration) { d.end(now, true) }
func (d *Dispatch) stop(now time.Duration)   { d.end(now, false) }

// Cancel is the public forced-termination entry point: the caller
// lost the gesture (e.g. a palm was detected) and every in-progress
// swipe or pinch must end with its cancelled flag set.
func (d *Dispatch) Cancel(now time.Duration) { d.cancel(now) }

// Stop is the public graceful-termination entry point: the caller is
// shutting down or disabling gesture recognition and wants any
// running gesture to end normally.
func (d *Dispatch) Stop(now time.Duration) { d.stop(now) }
