package scene

import (
	"math"
)

// This file implements the transformation from
// high level shapes to their path equivalent

// maxDx is the maximum radians a cubic splice is allowed to span
// when approximating an ellipse.
const maxDx float64 = math.Pi / 8

// Rect returns a closed rectangle with top left corner (x, y).
func Rect(x, y, w, h float64) Path {
	return Path{Loop(Point{x, y},
		Line{Point{w, 0}},
		Line{Point{0, h}},
		Line{Point{-w, 0}},
		Line{Point{0, -h}},
	)}
}

// Polyline returns a path joining the given absolute points,
// closed if `closed` is true.
func Polyline(closed bool, points ...Point) Path {
	if len(points) == 0 {
		return nil
	}
	sp := Subpath{Start: points[0], Closed: closed}
	prev := points[0]
	for _, p := range points[1:] {
		sp.Segments = append(sp.Segments, Line{Point{p.X - prev.X, p.Y - prev.Y}})
		prev = p
	}
	if closed && len(sp.Segments) > 0 {
		// make the loop explicit so the renderer can fold it into the close
		sp.Segments = append(sp.Segments, Line{Point{points[0].X - prev.X, points[0].Y - prev.Y}})
	}
	return Path{sp}
}

// Ellipse returns a closed ellipse of center (cx, cy),
// approximated with cubic Bézier curves.
func Ellipse(cx, cy, rx, ry float64) Path {
	segs := int(2*math.Pi/maxDx) + 1
	dEta := 2 * math.Pi / float64(segs)
	// Approximate the ellipse using a set of cubic bezier curves by the method of
	// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
	// or cubic Bezier curves", 2003
	// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3 // Math is fun!

	lx, ly := ellipsePointAt(rx, ry, 0, cx, cy)
	start := Point{lx, ly}
	ldx, ldy := ellipsePrime(rx, ry, 0)
	sp := Subpath{Start: start, Closed: true}
	for i := 1; i <= segs; i++ {
		eta := dEta * float64(i)
		px, py := ellipsePointAt(rx, ry, eta, cx, cy)
		if i == segs {
			px, py = start.X, start.Y // no roundoff error on the last point
		}
		dx, dy := ellipsePrime(rx, ry, eta)
		sp.Segments = append(sp.Segments, Cubic{
			C1: Point{alpha * ldx, alpha * ldy},
			C2: Point{px - alpha*dx - lx, py - alpha*dy - ly},
			To: Point{px - lx, py - ly},
		})
		lx, ly, ldx, ldy = px, py, dx, dy
	}
	return Path{sp}
}

// ellipsePrime gives tangent vectors for parameterized elipse; a, b, radii, eta parameter
func ellipsePrime(a, b, eta float64) (px, py float64) {
	return -a * math.Sin(eta), b * math.Cos(eta)
}

// ellipsePointAt gives points for parameterized elipse; a, b, radii, eta parameter, center cx, cy
func ellipsePointAt(a, b, eta, cx, cy float64) (px, py float64) {
	return cx + a*math.Cos(eta), cy + b*math.Sin(eta)
}
