// SPDX-License-Identifier: Unlicense OR MIT

package geom

// Normalize returns p scaled to unit length, or the zero Point if p
// is already zero. This stands in for the "unaccelerated" delta
// convention the environment's motion-filter callouts report
// alongside an accelerated delta: a direction vector independent of
// the (possibly very small) sampled magnitude.
func Normalize(p Point) Point {
	l := p.Length()
	if l == 0 {
		return Point{}
	}
	return p.Mul(float32(1 / l))
}

// ScaleToXAxis rescales p's Y component by the ratio of the device's
// X and Y resolutions, so that a delta reported in mixed-resolution
// device units reads as if it had been sampled entirely along the
// X axis. Devices with equal X/Y resolution are unaffected.
func ScaleToXAxis(p Point, res Resolution) Point {
	if res.Y == 0 {
		return p
	}
	return Point{X: p.X, Y: p.Y * (res.X / res.Y)}
}
