// SPDX-License-Identifier: Unlicense OR MIT

package touch

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/evinput/touchpad/geom"
)

func newTouch(idx int, p geom.Point) *Touch {
	t := &Touch{Index: idx}
	t.Begin(p)
	t.State = Update
	return t
}

func TestViewActive(t *testing.T) {
	a := newTouch(0, geom.Point{X: 0, Y: 0})
	b := &Touch{Index: 1, State: None}
	v := &View{Touches: []*Touch{a, b}}
	active := v.Active()
	if len(active) != 1 || active[0] != a {
		t.Fatalf("Active() = %s, want only touch 0", spew.Sdump(active))
	}
}

func TestViewMasked(t *testing.T) {
	a := newTouch(0, geom.Point{})
	v := &View{
		Touches: []*Touch{a},
		Masked:  func(tt *Touch) bool { return tt.Index == 0 },
	}
	if len(v.Active()) != 0 {
		t.Fatal("masked touch should not be active")
	}
}

func TestCombinedAndAverageDelta(t *testing.T) {
	a := newTouch(0, geom.Point{X: 0, Y: 0})
	b := newTouch(1, geom.Point{X: 0, Y: 0})
	a.Point = geom.Point{X: 10, Y: 0}
	a.Dirty = true
	b.Point = geom.Point{X: 0, Y: 20}
	b.Dirty = true
	v := &View{Touches: []*Touch{a, b}}

	if got := v.CombinedDelta(); got.X != 10 || got.Y != 20 {
		t.Fatalf("CombinedDelta = %+v, want {10 20}", got)
	}
	if got := v.AverageDelta(); got.X != 5 || got.Y != 10 {
		t.Fatalf("AverageDelta = %+v, want {5 10}", got)
	}
}

func TestDirectionUndefinedBelowThreshold(t *testing.T) {
	a := newTouch(0, geom.Point{X: 0, Y: 0})
	a.Gesture.Initial = geom.Point{X: 0, Y: 0}
	a.Point = geom.Point{X: 1, Y: 0} // 1 device unit, tiny in mm at res 10
	v := &View{Touches: []*Touch{a}, Res: geom.Resolution{X: 10, Y: 10}}
	if got := v.Direction(a, 2); got != geom.Undefined {
		t.Fatalf("Direction = %v, want Undefined", got)
	}
}

func TestDirectionDefinedAboveThreshold(t *testing.T) {
	a := newTouch(0, geom.Point{X: 0, Y: 0})
	a.Gesture.Initial = geom.Point{X: 0, Y: 0}
	a.Point = geom.Point{X: 100, Y: 0} // 10mm at res 10
	v := &View{Touches: []*Touch{a}, Res: geom.Resolution{X: 10, Y: 10}}
	if got := v.Direction(a, 2); got != 0 {
		t.Fatalf("Direction = %v, want 0 (east)", got)
	}
}
