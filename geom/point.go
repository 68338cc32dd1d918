// SPDX-License-Identifier: Unlicense OR MIT

// Package geom implements pure arithmetic on touchpad coordinates:
// device units, normalized coordinates, and physical millimeters.
//
// It has no knowledge of touches, gestures, or hardware state; every
// function here is a pure function of its arguments.
package geom

import "math"

// Point is a two-dimensional coordinate. The unit (device, normalized,
// or mm) is determined by context; Point itself is unit-agnostic.
type Point struct {
	X, Y float32
}

// Add returns p+p2.
func (p Point) Add(p2 Point) Point {
	return Point{X: p.X + p2.X, Y: p.Y + p2.Y}
}

// Sub returns the vector p-p2.
func (p Point) Sub(p2 Point) Point {
	return Point{X: p.X - p2.X, Y: p.Y - p2.Y}
}

// Mul returns p scaled by s.
func (p Point) Mul(s float32) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// IsZero reports whether p is the zero vector.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Length returns the Euclidean length of p treated as a vector.
func (p Point) Length() float64 {
	return math.Hypot(float64(p.X), float64(p.Y))
}

// Delta returns cur-prev, the displacement from prev to cur.
func Delta(cur, prev Point) Point {
	return cur.Sub(prev)
}

// Average returns the midpoint of the given points, or the zero Point
// if pts is empty.
func Average(pts ...Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sum Point
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float32(len(pts)))
}
