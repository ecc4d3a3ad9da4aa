package core

import (
	"math"

	"github.com/signalsfoundry/sensorplan/model"
)

// parallelEpsilon is the denominator magnitude below which two segments are
// treated as parallel or degenerate.
const parallelEpsilon = 1e-10

// Distance returns the Euclidean distance between two points.
func Distance(a, b model.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// NormalizeAngle wraps deg into [0, 360).
func NormalizeAngle(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	// math.Mod of a tiny negative value can round back up to 360.
	if a >= 360 {
		a = 0
	}
	return a
}

// AngularDifference returns the smallest absolute angle between two
// headings, in [0, 180]. It is correct across the 0°/360° seam.
func AngularDifference(a, b float64) float64 {
	diff := math.Abs(NormalizeAngle(a) - NormalizeAngle(b))
	return math.Min(diff, 360-diff)
}

// AngleTo returns the heading from one point to another in degrees,
// normalized into [0, 360). 0° points along +X, 90° along +Y.
func AngleTo(from, to model.Point) float64 {
	deg := math.Atan2(to.Y-from.Y, to.X-from.X) * 180.0 / math.Pi
	return NormalizeAngle(deg)
}

// SegmentsIntersect reports whether segment p1-p2 intersects segment p3-p4
// using the parametric cross-product test. Parallel, collinear and
// zero-length segments never intersect.
func SegmentsIntersect(p1, p2, p3, p4 model.Point) bool {
	d1x := p2.X - p1.X
	d1y := p2.Y - p1.Y
	d2x := p4.X - p3.X
	d2y := p4.Y - p3.Y

	den := d1x*d2y - d1y*d2x
	if math.Abs(den) < parallelEpsilon {
		return false
	}

	// Solve p1 + t*d1 = p3 + u*d2.
	ox := p3.X - p1.X
	oy := p3.Y - p1.Y
	t := (ox*d2y - oy*d2x) / den
	u := (ox*d1y - oy*d1x) / den

	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}
