package canvas

import (
	"fmt"

	"github.com/benoitkugler/canvasrender/scene"
)

// BeginPath discards the surface current path.
func (c *Canvas) BeginPath() {
	c.surface.BeginPath()
}

// MoveTo starts a new subpath at the absolute point `p`.
func (c *Canvas) MoveTo(p scene.Point) {
	c.state.Pos, c.state.Start = p, p
	c.surface.MoveTo(p.X, p.Y)
}

// RelLineTo adds a line of displacement `v`.
func (c *Canvas) RelLineTo(v scene.Point) {
	c.state.Pos = c.state.Pos.Add(v)
	c.state.Pending = true
	c.surface.LineTo(c.state.Pos.X, c.state.Pos.Y)
}

// RelCurveTo adds a cubic curve, whose points are relative
// to the current position.
func (c *Canvas) RelCurveTo(c1, c2, to scene.Point) {
	p := c.state.Pos
	a, b, e := p.Add(c1), p.Add(c2), p.Add(to)
	c.state.Pos = e
	c.state.Pending = true
	c.surface.BezierCurveTo(a.X, a.Y, b.X, b.Y, e.X, e.Y)
}

// ClosePath closes the current subpath with a straight line.
func (c *Canvas) ClosePath() {
	c.state.Pos = c.state.Start
	c.state.Pending = true
	c.surface.ClosePath()
}

// Fill fills the current path with the current fill style.
func (c *Canvas) Fill() error {
	return c.surface.Fill()
}

// Stroke strokes the current path. Nothing is drawn while the
// line width is not positive.
func (c *Canvas) Stroke() error {
	if c.state.LineWidth <= 0 {
		return nil
	}
	c.state.Pending = false
	return c.surface.Stroke()
}

// Clip intersects the clip region with the current path.
func (c *Canvas) Clip() {
	c.state.Pending = false
	c.surface.Clip()
}

// DrawPath adds the subpaths of `p` to the current path.
//
// A closed subpath ending with a line relies on the native close
// operation for its last segment; any other closed subpath has its
// last segment emitted before closing.
// A closed subpath without segment is a construction error and panics.
func (c *Canvas) DrawPath(p scene.Path) {
	for i, sp := range p {
		if sp.Closed && len(sp.Segments) == 0 {
			panic(fmt.Sprintf("canvas: closed subpath %d has no segment", i))
		}
		c.MoveTo(sp.Start)
		segments := sp.Segments
		if sp.Closed && sp.LastIsLine() {
			segments = segments[:len(segments)-1]
		}
		for _, seg := range segments {
			switch seg := seg.(type) {
			case scene.Line:
				c.RelLineTo(seg.To)
			case scene.Cubic:
				c.RelCurveTo(seg.C1, seg.C2, seg.To)
			default:
				panic(fmt.Sprintf("canvas: unknown segment %T", seg))
			}
		}
		if sp.Closed {
			c.ClosePath()
		}
	}
}
