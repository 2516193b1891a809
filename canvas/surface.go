// Package canvas renders scene trees onto immediate mode drawing surfaces.
//
// The scene is walked depth first; styles are accumulated down the tree,
// style scoped subtrees are bracketed by Save/Restore, and state changing
// commands are only issued to the surface when the value actually changes.
// Backends implementing Surface live in the canvasrecord, canvasraster,
// canvaspdf and canvasgg packages.
package canvas

import (
	"github.com/benoitkugler/canvasrender/scene"
)

// Surface knows how to do the actual draw operations
// but doesn't need any scene knowledge.
// It follows the HTML canvas 2D context model: coordinates are absolute
// and transformed by the current matrix at the time they are added,
// and the surface tracks the current point itself.
type Surface interface {
	// BeginPath discards the current path.
	BeginPath()
	// MoveTo starts a new subpath at the given point.
	MoveTo(x, y float64)
	// LineTo adds a line from the current point.
	LineTo(x, y float64)
	// BezierCurveTo adds a cubic Bézier curve from the current point.
	BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64)
	// ClosePath adds a straight line back to the start of the subpath.
	ClosePath()

	// Stroke strokes the current path, which is kept.
	Stroke() error
	// Fill fills the current path, which is kept.
	Fill() error
	// Clip intersects the clipping region with the current path.
	Clip()

	Save()
	Restore()

	// SetTransform replaces the current matrix by
	//	| a c e |
	//	| b d f |
	SetTransform(a, b, c, d, e, f float64)

	// SetStrokeStyle and SetFillStyle return an error
	// if the texture can't be used by the surface.
	SetStrokeStyle(t scene.Texture) error
	SetFillStyle(t scene.Texture) error
	SetLineWidth(w float64)
	SetLineCap(c scene.CapMode)
	SetLineJoin(j scene.JoinMode)
	SetGlobalAlpha(a float64)
}

// Sizer is implemented by surfaces which accept the
// dimensions of the drawing before rendering starts.
type Sizer interface {
	SetSize(width, height float64)
}
