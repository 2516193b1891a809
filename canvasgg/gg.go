// Package canvasgg implements a backend for scene trees
// on top of a gg drawing context.
package canvasgg

import (
	"image"
	"math"

	"github.com/benoitkugler/canvasrender/canvas"
	"github.com/benoitkugler/canvasrender/scene"
	"github.com/gogpu/gg"
)

var _ canvas.Surface = (*Surface)(nil) // assert interface conformance

// ggState is the part of the canvas state gg does not save:
// Push and Pop only cover the matrix and the clip.
type ggState struct {
	fill, stroke scene.Texture
	lineWidth    float64
	lineCap      scene.CapMode
	lineJoin     scene.JoinMode
	alpha        float64
}

// Surface draws on a *gg.Context. Fill and stroke share one brush
// in gg, so the brush is set before each painting operation.
type Surface struct {
	ctx *gg.Context

	// device space extent of the current path
	minX, minY, maxX, maxY float64
	empty                  bool

	state ggState
	stack []ggState
}

// NewSurface returns a surface drawing on `ctx`,
// which must have the identity transform.
func NewSurface(ctx *gg.Context) *Surface {
	return &Surface{
		ctx:   ctx,
		empty: true,
		state: ggState{
			fill:      scene.Black,
			stroke:    scene.Black,
			lineWidth: 1,
			alpha:     1,
		},
	}
}

// RenderToImage renders `root` with a new gg context of the given size.
func RenderToImage(root scene.Node, width, height int, opts ...canvas.Option) (image.Image, error) {
	ctx := gg.NewContext(width, height)
	defer ctx.Close()
	if err := canvas.Render(NewSurface(ctx), float64(width), float64(height), root, opts...); err != nil {
		return nil, err
	}
	if err := ctx.FlushGPU(); err != nil {
		return nil, err
	}
	return ctx.Image(), nil
}

func (s *Surface) extend(x, y float64) {
	x, y = s.ctx.TransformPoint(x, y)
	if s.empty {
		s.minX, s.minY, s.maxX, s.maxY = x, y, x, y
		s.empty = false
		return
	}
	s.minX, s.maxX = math.Min(s.minX, x), math.Max(s.maxX, x)
	s.minY, s.maxY = math.Min(s.minY, y), math.Max(s.maxY, y)
}

func (s *Surface) BeginPath() {
	s.ctx.ClearPath()
	s.empty = true
}

func (s *Surface) MoveTo(x, y float64) {
	s.extend(x, y)
	s.ctx.MoveTo(x, y)
}

func (s *Surface) LineTo(x, y float64) {
	s.extend(x, y)
	s.ctx.LineTo(x, y)
}

// BezierCurveTo uses the control points for the path extent,
// which is only needed for bounding box gradients.
func (s *Surface) BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.extend(c1x, c1y)
	s.extend(c2x, c2y)
	s.extend(x, y)
	s.ctx.CubicTo(c1x, c1y, c2x, c2y, x, y)
}

func (s *Surface) ClosePath() { s.ctx.ClosePath() }

func toRGBA(c scene.Color, alpha float64) gg.RGBA {
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A * alpha}
}

var spreadToExtend = [...]gg.ExtendMode{
	scene.PadSpread:     gg.ExtendPad,
	scene.ReflectSpread: gg.ExtendReflect,
	scene.RepeatSpread:  gg.ExtendRepeat,
}

// gradientMatrix maps gradient coordinates to device space
func (s *Surface) gradientMatrix(g scene.Gradient) scene.Matrix2D {
	if g.Units == scene.ObjectBoundingBox {
		bbox := scene.Matrix2D{A: s.maxX - s.minX, D: s.maxY - s.minY, E: s.minX, F: s.minY}
		return bbox.Mult(g.Matrix)
	}
	m := s.ctx.GetTransform()
	current := scene.Matrix2D{A: m.A, B: m.D, C: m.B, D: m.E, E: m.C, F: m.F}
	return current.Mult(g.Matrix)
}

// brush converts `tex`; gradients are resolved in device space,
// with radii scaled by the mean factor of the transform.
func (s *Surface) brush(tex scene.Texture) gg.Brush {
	switch tex := tex.(type) {
	case scene.Color:
		return gg.Solid(toRGBA(tex, s.state.alpha))
	case scene.Gradient:
		m := s.gradientMatrix(tex)
		switch dir := tex.Direction.(type) {
		case scene.Linear:
			x0, y0 := m.Transform(dir[0], dir[1])
			x1, y1 := m.Transform(dir[2], dir[3])
			grad := gg.NewLinearGradientBrush(x0, y0, x1, y1).SetExtend(spreadToExtend[tex.Spread])
			for _, stop := range tex.Stops {
				grad.AddColorStop(stop.Offset, toRGBA(stop.StopColor, stop.Opacity*s.state.alpha))
			}
			return grad
		case scene.Radial:
			scale := math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
			cx, cy := m.Transform(dir[0], dir[1])
			fx, fy := m.Transform(dir[2], dir[3])
			grad := gg.NewRadialGradientBrush(cx, cy, dir[5]*scale, dir[4]*scale).
				SetFocus(fx, fy).SetExtend(spreadToExtend[tex.Spread])
			for _, stop := range tex.Stops {
				grad.AddColorStop(stop.Offset, toRGBA(stop.StopColor, stop.Opacity*s.state.alpha))
			}
			return grad
		}
	}
	return gg.Solid(gg.RGBA{})
}

func (s *Surface) Fill() error {
	s.ctx.SetFillBrush(s.brush(s.state.fill))
	return s.ctx.FillPreserve()
}

var (
	capToCap = [...]gg.LineCap{
		scene.ButtCap:   gg.LineCapButt,
		scene.RoundCap:  gg.LineCapRound,
		scene.SquareCap: gg.LineCapSquare,
	}
	joinToJoin = [...]gg.LineJoin{
		scene.MiterJoin: gg.LineJoinMiter,
		scene.RoundJoin: gg.LineJoinRound,
		scene.BevelJoin: gg.LineJoinBevel,
	}
)

// Stroke relies on gg to scale the line width by the current matrix.
func (s *Surface) Stroke() error {
	s.ctx.SetLineWidth(s.state.lineWidth)
	s.ctx.SetLineCap(capToCap[s.state.lineCap])
	s.ctx.SetLineJoin(joinToJoin[s.state.lineJoin])
	s.ctx.SetStrokeBrush(s.brush(s.state.stroke))
	return s.ctx.StrokePreserve()
}

func (s *Surface) Clip() { s.ctx.ClipPreserve() }

func (s *Surface) Save() {
	s.stack = append(s.stack, s.state)
	s.ctx.Push()
}

func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.ctx.Pop()
}

// SetTransform converts to the gg layout:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
func (s *Surface) SetTransform(a, b, c, d, e, f float64) {
	s.ctx.SetTransform(gg.Matrix{A: a, B: c, C: e, D: b, E: d, F: f})
}

func (s *Surface) SetStrokeStyle(t scene.Texture) error {
	s.state.stroke = t
	return nil
}

func (s *Surface) SetFillStyle(t scene.Texture) error {
	s.state.fill = t
	return nil
}

func (s *Surface) SetLineWidth(w float64)        { s.state.lineWidth = w }
func (s *Surface) SetLineCap(lc scene.CapMode)   { s.state.lineCap = lc }
func (s *Surface) SetLineJoin(lj scene.JoinMode) { s.state.lineJoin = lj }
func (s *Surface) SetGlobalAlpha(a float64)      { s.state.alpha = a }
