// Implements an abstract representation of
// styled 2D scenes, which can then be consumed
// by the canvas renderer.
package scene

import (
	"fmt"
	"strings"
)

// This file defines the basic path structure

// Point is a location, or a displacement when used in a Segment.
type Point struct{ X, Y float64 }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Segment groups the different segment kinds.
// All coordinates of a segment are relative to its starting point.
type Segment interface {
	isSegment()
}

// Line is a straight segment.
type Line struct {
	To Point
}

// Cubic is a cubic Bézier segment, with two control points.
type Cubic struct {
	C1, C2, To Point
}

func (Line) isSegment()  {}
func (Cubic) isSegment() {}

// end returns the displacement from the start to the end of the segment.
func end(s Segment) Point {
	switch s := s.(type) {
	case Line:
		return s.To
	case Cubic:
		return s.To
	default:
		panic(fmt.Sprintf("scene: unknown segment %T", s))
	}
}

// Subpath is one contiguous run of segments,
// either open (a line) or closed (a loop).
type Subpath struct {
	Start    Point // absolute placement of the first point
	Segments []Segment
	Closed   bool
}

// Loop returns a closed subpath starting at `start`.
func Loop(start Point, segments ...Segment) Subpath {
	return Subpath{Start: start, Segments: segments, Closed: true}
}

// Open returns an open subpath starting at `start`.
func Open(start Point, segments ...Segment) Subpath {
	return Subpath{Start: start, Segments: segments}
}

// LastIsLine returns true if the final segment is straight,
// meaning that a native close operation can replace it.
func (sp Subpath) LastIsLine() bool {
	if len(sp.Segments) == 0 {
		return false
	}
	_, ok := sp.Segments[len(sp.Segments)-1].(Line)
	return ok
}

// Path describes a sequence of subpaths, which should not be nil
// Higher-level shapes may be reduced to a path.
type Path []Subpath

// ToSVGPath returns a string representation of the path,
// using relative commands.
func (p Path) ToSVGPath() string {
	var chunks []string
	for _, sp := range p {
		chunks = append(chunks, fmt.Sprintf("M%4.3f,%4.3f", sp.Start.X, sp.Start.Y))
		for _, seg := range sp.Segments {
			switch seg := seg.(type) {
			case Line:
				chunks = append(chunks, fmt.Sprintf("l%4.3f,%4.3f", seg.To.X, seg.To.Y))
			case Cubic:
				chunks = append(chunks, fmt.Sprintf("c%4.3f,%4.3f,%4.3f,%4.3f,%4.3f,%4.3f",
					seg.C1.X, seg.C1.Y, seg.C2.X, seg.C2.Y, seg.To.X, seg.To.Y))
			}
		}
		if sp.Closed {
			chunks = append(chunks, "Z")
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}
