// Package canvasraster implements a raster backend for scene trees,
// by wrapping rasterx.
package canvasraster

import (
	"image"
	"image/color"
	"math"

	"github.com/benoitkugler/canvasrender/canvas"
	"github.com/benoitkugler/canvasrender/scene"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

var _ canvas.Surface = (*Surface)(nil) // assert interface conformance

// miterLimit is the default of the canvas API
const miterLimit = 10

type opKind uint8

const (
	opStart opKind = iota
	opLine
	opCubic
	opClose
)

// pathOp stores points in device space
type pathOp struct {
	kind opKind
	pts  [3]fixed.Point26_6
}

type rasterState struct {
	transform    scene.Matrix2D
	fill, stroke scene.Texture
	lineWidth    float64
	lineCap      scene.CapMode
	lineJoin     scene.JoinMode
	alpha        float64
	clip         image.Rectangle
}

// Surface draws on an image.RGBA.
type Surface struct {
	img    *image.RGBA
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instances

	path  []pathOp
	state rasterState
	stack []rasterState
}

// NewSurface returns a surface drawing on `img`,
// in the default canvas state.
func NewSurface(img *image.RGBA) *Surface {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	fillScanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	strokeScanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	s := &Surface{
		img:    img,
		filler: rasterx.NewFiller(w, h, fillScanner),
		dasher: rasterx.NewDasher(w, h, strokeScanner),
		state: rasterState{
			transform: scene.Identity,
			fill:      scene.Black,
			stroke:    scene.Black,
			lineWidth: 1,
			alpha:     1,
			clip:      img.Bounds(),
		},
	}
	s.filler.SetWinding(true)
	s.dasher.SetWinding(true)
	return s
}

// RenderToImage renders `root` into a new image of the given size.
func RenderToImage(root scene.Node, width, height int, opts ...canvas.Option) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	err := canvas.Render(NewSurface(img), float64(width), float64(height), root, opts...)
	return img, err
}

// Image returns the image drawn on.
func (s *Surface) Image() *image.RGBA { return s.img }

func (s *Surface) toFixed(x, y float64) fixed.Point26_6 {
	x, y = s.state.transform.Transform(x, y)
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

func (s *Surface) BeginPath() { s.path = s.path[:0] }

func (s *Surface) MoveTo(x, y float64) {
	s.path = append(s.path, pathOp{kind: opStart, pts: [3]fixed.Point26_6{s.toFixed(x, y)}})
}

func (s *Surface) LineTo(x, y float64) {
	s.path = append(s.path, pathOp{kind: opLine, pts: [3]fixed.Point26_6{s.toFixed(x, y)}})
}

func (s *Surface) BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.path = append(s.path, pathOp{kind: opCubic, pts: [3]fixed.Point26_6{
		s.toFixed(c1x, c1y), s.toFixed(c2x, c2y), s.toFixed(x, y),
	}})
}

func (s *Surface) ClosePath() { s.path = append(s.path, pathOp{kind: opClose}) }

// pathAdder is implemented by both rasterx.Filler and rasterx.Dasher
type pathAdder interface {
	Start(a fixed.Point26_6)
	Line(b fixed.Point26_6)
	CubeBezier(b, c, d fixed.Point26_6)
	Stop(closeLoop bool)
}

// replay sends the current path to `adder`
func (s *Surface) replay(adder pathAdder) {
	var (
		start, pen fixed.Point26_6
		open       bool
	)
	ensureOpen := func() {
		if !open {
			adder.Start(pen)
			start, open = pen, true
		}
	}
	for _, op := range s.path {
		switch op.kind {
		case opStart:
			if open {
				adder.Stop(false)
			}
			pen, open = op.pts[0], false
			ensureOpen()
		case opLine:
			ensureOpen()
			adder.Line(op.pts[0])
			pen = op.pts[0]
		case opCubic:
			ensureOpen()
			adder.CubeBezier(op.pts[0], op.pts[1], op.pts[2])
			pen = op.pts[2]
		case opClose:
			if open {
				adder.Stop(true)
				open = false
			}
			pen = start
		}
	}
	if open {
		adder.Stop(false)
	}
}

// opaque drops the alpha channel, which rasterx expects
// as a separate opacity
func opaque(c scene.Color) color.NRGBA {
	out := c.NRGBA()
	out.A = 0xFF
	return out
}

func toRasterxGradient(grad scene.Gradient) rasterx.Gradient {
	var (
		points   [5]float64
		isRadial bool
	)
	switch dir := grad.Direction.(type) {
	case scene.Linear:
		points[0], points[1], points[2], points[3] = dir[0], dir[1], dir[2], dir[3]
	case scene.Radial:
		points[0], points[1], points[2], points[3], points[4] = dir[0], dir[1], dir[2], dir[3], dir[4] // in rasterx fr is ignored
		isRadial = true
	}
	stops := make([]rasterx.GradStop, len(grad.Stops))
	for i, st := range grad.Stops {
		stops[i] = rasterx.GradStop{StopColor: opaque(st.StopColor), Offset: st.Offset, Opacity: st.Opacity * st.StopColor.A}
	}
	out := rasterx.Gradient{
		Points:   points,
		Stops:    stops,
		Matrix:   grad.Matrix,
		Spread:   rasterx.SpreadMethod(grad.Spread),
		Units:    rasterx.GradientUnits(grad.Units),
		IsRadial: isRadial,
	}
	out.Bounds.X, out.Bounds.Y = grad.Bounds.X, grad.Bounds.Y
	out.Bounds.W, out.Bounds.H = grad.Bounds.W, grad.Bounds.H
	return out
}

// resolve gradient color, once the path has been sent to `scanner`
func (s *Surface) setColor(tex scene.Texture, scanner rasterx.Scanner) {
	switch tex := tex.(type) {
	case scene.Color:
		scanner.SetColor(rasterx.ApplyOpacity(opaque(tex), tex.A*s.state.alpha))
	case scene.Gradient:
		if tex.Units == scene.ObjectBoundingBox {
			fRect := scanner.GetPathExtent()
			mnx, mny := float64(fRect.Min.X)/64, float64(fRect.Min.Y)/64
			mxx, mxy := float64(fRect.Max.X)/64, float64(fRect.Max.Y)/64
			tex.Bounds = scene.Bounds{X: mnx, Y: mny, W: mxx - mnx, H: mxy - mny}
		} else {
			// user space coordinates follow the current transform
			tex.Matrix = s.state.transform.Mult(tex.Matrix)
		}
		grad := toRasterxGradient(tex)
		scanner.SetColor(grad.GetColorFunction(s.state.alpha))
	default:
		scanner.SetColor(color.Transparent)
	}
}

func (s *Surface) Fill() error {
	s.filler.Clear()
	s.replay(s.filler)
	s.setColor(s.state.fill, s.filler.Scanner)
	s.filler.Draw()
	return nil
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		scene.MiterJoin: rasterx.Miter,
		scene.RoundJoin: rasterx.Round,
		scene.BevelJoin: rasterx.Bevel,
	}

	capToFunc = [...]rasterx.CapFunc{
		scene.ButtCap:   rasterx.ButtCap,
		scene.RoundCap:  rasterx.RoundCap,
		scene.SquareCap: rasterx.SquareCap,
	}
)

// scale returns the factor applied to lengths by the current transform
func (s *Surface) scale() float64 {
	m := s.state.transform
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}

func (s *Surface) Stroke() error {
	st := s.state
	width := st.lineWidth * s.scale()
	s.dasher.Clear()
	s.dasher.SetStroke(
		fixed.Int26_6(width*64), fixed.Int26_6(miterLimit*64),
		capToFunc[st.lineCap], capToFunc[st.lineCap], rasterx.FlatGap,
		joinToJoin[st.lineJoin], nil, 0,
	)
	s.replay(s.dasher)
	s.setColor(st.stroke, s.dasher.Scanner)
	s.dasher.Draw()
	return nil
}

// isRectangle returns true if the path is an axis aligned rectangle,
// which rasterx clips exactly.
func (s *Surface) isRectangle() bool {
	var pts []fixed.Point26_6
	for _, op := range s.path {
		switch op.kind {
		case opStart, opLine:
			if op.kind == opStart && len(pts) != 0 {
				return false
			}
			pts = append(pts, op.pts[0])
		case opCubic:
			return false
		}
	}
	if len(pts) == 5 && pts[4] == pts[0] {
		pts = pts[:4]
	}
	if len(pts) != 4 {
		return false
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%4]
		if a.X != b.X && a.Y != b.Y {
			return false
		}
	}
	return true
}

// Clip restricts drawing to the bounding box of the current path.
func (s *Surface) Clip() {
	if len(s.path) == 0 {
		s.setClip(image.Rectangle{})
		return
	}
	if !s.isRectangle() {
		canvas.Logger().Warn("canvasraster: clip path approximated by its bounding box")
	}
	s.filler.Clear()
	s.replay(s.filler)
	ext := s.filler.Scanner.GetPathExtent()
	s.filler.Clear()
	rect := image.Rect(ext.Min.X.Floor(), ext.Min.Y.Floor(), ext.Max.X.Ceil(), ext.Max.Y.Ceil())
	if s.state.clip == nowhere {
		return
	}
	s.setClip(s.state.clip.Intersect(rect))
}

// nowhere is a clip rectangle outside of the image; rasterx ignores
// empty clip rectangles
var nowhere = image.Rect(-2, -2, -1, -1)

func (s *Surface) setClip(rect image.Rectangle) {
	if rect.Empty() {
		rect = nowhere
	}
	s.state.clip = rect
	s.filler.Scanner.SetClip(rect)
	s.dasher.Scanner.SetClip(rect)
}

func (s *Surface) Save() { s.stack = append(s.stack, s.state) }

func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.setClip(s.state.clip)
}

func (s *Surface) SetTransform(a, b, c, d, e, f float64) {
	s.state.transform = scene.Matrix2D{A: a, B: b, C: c, D: d, E: e, F: f}
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
