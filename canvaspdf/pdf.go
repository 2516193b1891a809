// Package canvaspdf implements a PDF backend for scene trees,
// by writing a content stream with github.com/benoitkugler/pdf.
//
// Gradients are supported as fill style only, with a pad spread:
// a gradient stroke returns ErrUnsupportedTexture.
package canvaspdf

import (
	"errors"
	"image/color"
	"math"

	"github.com/benoitkugler/canvasrender/canvas"
	"github.com/benoitkugler/canvasrender/scene"
	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/model"
)

var _ canvas.Surface = (*Surface)(nil) // assert interface conformance

// ErrUnsupportedTexture is returned when setting a gradient stroke.
var ErrUnsupportedTexture = errors.New("canvaspdf: gradient strokes are not supported")

type opKind uint8

const (
	opMove opKind = iota
	opLine
	opCubic
	opClose
)

// pathOp stores points in page space, so that the path
// may be painted after a transform change
type pathOp struct {
	kind opKind
	pts  [3]scene.Point
}

type pdfState struct {
	transform    scene.Matrix2D // concatenated since the page setup
	fill, stroke scene.Texture
	alpha        float64

	// opacities set in the graphic state
	fillAlpha, strokeAlpha float64
}

// Surface writes to a PDF content stream. Save and Restore
// map to the q and Q operators.
type Surface struct {
	pdf *contentstream.Appearance

	// cache the opacity states
	fillOpacityStates   map[float64]*model.GraphicState
	strokeOpacityStates map[float64]*model.GraphicState

	path  []pathOp
	state pdfState
	stack []pdfState
}

// NewSurface returns a surface writing to `cs`.
// The current transformation of `cs` defines the canvas space.
func NewSurface(cs *contentstream.Appearance) *Surface {
	return &Surface{
		pdf:                 cs,
		fillOpacityStates:   make(map[float64]*model.GraphicState),
		strokeOpacityStates: make(map[float64]*model.GraphicState),
		state: pdfState{
			transform: scene.Identity,
			fill:      scene.Black,
			stroke:    scene.Black,
			alpha:     1,

			fillAlpha:   1,
			strokeAlpha: 1,
		},
	}
}

// drawPage renders `root` on a new content stream, whose y axis
// is flipped so that the canvas origin is the top left corner.
func drawPage(root scene.Node, width, height float64, opts ...canvas.Option) (contentstream.Appearance, error) {
	pdf := contentstream.NewAppearance(width, height)
	pdf.SaveState()
	pdf.Ops(contentstream.OpConcat{Matrix: model.Matrix{1, 0, 0, -1, 0, height}})
	if err := canvas.Render(NewSurface(&pdf), width, height, root, opts...); err != nil {
		return pdf, err
	}
	err := pdf.RestoreState()
	return pdf, err
}

// RenderToFile renders `root` on a one page PDF document of the given
// size, saved in `pdfName`. The canvas y axis points downward.
func RenderToFile(root scene.Node, width, height float64, pdfName string, opts ...canvas.Option) error {
	pdf, err := drawPage(root, width, height, opts...)
	if err != nil {
		return err
	}

	var (
		doc  model.Document
		page model.PageObject
	)
	pdf.ApplyToPageObject(&page, true)
	doc.Catalog.Pages.Kids = append(doc.Catalog.Pages.Kids, &page)
	return doc.WriteFile(pdfName, nil)
}

func (s *Surface) toPage(x, y float64) scene.Point {
	x, y = s.state.transform.Transform(x, y)
	return scene.Point{X: x, Y: y}
}

func (s *Surface) BeginPath() { s.path = s.path[:0] }

func (s *Surface) MoveTo(x, y float64) {
	s.path = append(s.path, pathOp{kind: opMove, pts: [3]scene.Point{s.toPage(x, y)}})
}

func (s *Surface) LineTo(x, y float64) {
	s.path = append(s.path, pathOp{kind: opLine, pts: [3]scene.Point{s.toPage(x, y)}})
}

func (s *Surface) BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.path = append(s.path, pathOp{kind: opCubic, pts: [3]scene.Point{
		s.toPage(c1x, c1y), s.toPage(c2x, c2y), s.toPage(x, y),
	}})
}

func (s *Surface) ClosePath() { s.path = append(s.path, pathOp{kind: opClose}) }

// writePath writes the path in the current user space,
// since PDF painting operators consume it.
func (s *Surface) writePath() {
	inv := s.state.transform.Invert()
	user := func(p scene.Point) (float64, float64) { return inv.Transform(p.X, p.Y) }
	for _, op := range s.path {
		switch op.kind {
		case opMove:
			x, y := user(op.pts[0])
			s.pdf.Ops(contentstream.OpMoveTo{X: x, Y: y})
		case opLine:
			x, y := user(op.pts[0])
			s.pdf.Ops(contentstream.OpLineTo{X: x, Y: y})
		case opCubic:
			cx0, cy0 := user(op.pts[0])
			cx1, cy1 := user(op.pts[1])
			x, y := user(op.pts[2])
			s.pdf.Ops(contentstream.OpCubicTo{X1: cx0, Y1: cy0, X2: cx1, Y2: cy1, X3: x, Y3: y})
		case opClose:
			s.pdf.Ops(contentstream.OpClosePath{})
		}
	}
}

// userBounds returns the extent of the path control points,
// in the current user space
func (s *Surface) userBounds() scene.Bounds {
	inv := s.state.transform.Invert()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, op := range s.path {
		n := 1
		switch op.kind {
		case opClose:
			continue
		case opCubic:
			n = 3
		}
		for _, p := range op.pts[:n] {
			x, y := inv.Transform(p.X, p.Y)
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
	}
	return scene.Bounds{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// setOpacity selects the ExtGState for `opacity`, registering it
// once per surface. It returns false if the state was already active.
func (s *Surface) setOpacity(opacity float64, stroking bool) bool {
	cache, current := s.fillOpacityStates, s.state.fillAlpha
	if stroking {
		cache, current = s.strokeOpacityStates, s.state.strokeAlpha
	}
	if opacity == current {
		return false
	}
	gs, ok := cache[opacity]
	if !ok {
		gs = &model.GraphicState{BM: []model.Name{"Normal"}}
		if stroking {
			gs.CA = model.ObjFloat(opacity)
		} else {
			gs.Ca = model.ObjFloat(opacity)
		}
		cache[opacity] = gs
	}
	s.pdf.SetGraphicState(gs)
	return true
}

func (s *Surface) Fill() error {
	if len(s.path) == 0 {
		return nil
	}
	switch fill := s.state.fill.(type) {
	case scene.Color:
		if s.setOpacity(fill.A*s.state.alpha, false) {
			s.state.fillAlpha = fill.A * s.state.alpha
		}
		s.writePath()
		s.pdf.Ops(contentstream.OpFill{})
	case scene.Gradient:
		s.fillGradient(fill)
	}
	return nil
}

// fillGradient paints the shading of `g` clipped by the path,
// in a nested graphic state.
func (s *Surface) fillGradient(g scene.Gradient) {
	s.pdf.SaveState()
	s.setOpacity(s.state.alpha, false)
	s.writePath()
	s.pdf.Ops(contentstream.OpClip{}, contentstream.OpEndPath{})
	if g.Units == scene.ObjectBoundingBox {
		b := s.userBounds()
		s.pdf.Ops(contentstream.OpConcat{Matrix: model.Matrix{b.W, 0, 0, b.H, b.X, b.Y}})
	}
	m := g.Matrix
	s.pdf.Ops(contentstream.OpConcat{Matrix: model.Matrix{m.A, m.B, m.C, m.D, m.E, m.F}})
	if g.Spread != scene.PadSpread {
		canvas.Logger().Warn("canvaspdf: gradient spread approximated by padding", "spread", g.Spread)
	}
	s.pdf.Shading(shading(g))
	_ = s.pdf.RestoreState() // balanced by construction
}

func rgb(c scene.Color) []model.Fl { return []model.Fl{c.R, c.G, c.B} }

// shading builds an axial or radial shading, using a stitching
// function over the stops
func shading(g scene.Gradient) *model.ShadingDict {
	stops := append([]scene.GradStop(nil), g.Stops...)
	if len(stops) == 0 {
		stops = []scene.GradStop{{StopColor: scene.Black}}
	}
	for i := range stops {
		stops[i].Offset = math.Max(0, math.Min(1, stops[i].Offset))
		if i > 0 && stops[i].Offset < stops[i-1].Offset {
			stops[i].Offset = stops[i-1].Offset
		}
	}
	// the function domain is always [0, 1]
	if first := stops[0]; first.Offset > 0 {
		first.Offset = 0
		stops = append([]scene.GradStop{first}, stops...)
	}
	if last := stops[len(stops)-1]; last.Offset < 1 || len(stops) == 1 {
		last.Offset = 1
		stops = append(stops, last)
	}

	bounds := make([]model.Fl, len(stops)-2)
	for i := range bounds {
		bounds[i] = stops[i+1].Offset
	}
	encode := make([][2]model.Fl, len(stops)-1)
	functions := make([]model.FunctionDict, len(stops)-1)
	for i := range functions {
		encode[i] = [2]model.Fl{0, 1}
		functions[i] = model.FunctionDict{
			Domain: []model.Range{{0, 1}},
			FunctionType: model.FunctionExpInterpolation{
				C0: rgb(stops[i].StopColor),
				C1: rgb(stops[i+1].StopColor),
				N:  1,
			},
		}
	}
	base := model.BaseGradient{
		Function: []model.FunctionDict{{
			Domain:       []model.Range{{0, 1}},
			FunctionType: model.FunctionStitching{Functions: functions, Bounds: bounds, Encode: encode},
		}},
		Extend: [2]bool{true, true},
	}

	out := &model.ShadingDict{ColorSpace: model.ColorSpaceRGB}
	switch dir := g.Direction.(type) {
	case scene.Linear:
		out.ShadingType = model.ShadingAxial{BaseGradient: base, Coords: dir}
	case scene.Radial:
		// the focus circle is the starting one
		out.ShadingType = model.ShadingRadial{
			BaseGradient: base,
			Coords:       [6]model.Fl{dir[2], dir[3], dir[5], dir[0], dir[1], dir[4]},
		}
	}
	return out
}

func (s *Surface) Stroke() error {
	if len(s.path) == 0 {
		return nil
	}
	stroke, _ := s.state.stroke.(scene.Color)
	if s.setOpacity(stroke.A*s.state.alpha, true) {
		s.state.strokeAlpha = stroke.A * s.state.alpha
	}
	s.writePath()
	s.pdf.Ops(contentstream.OpStroke{})
	return nil
}

func (s *Surface) Clip() {
	s.writePath()
	s.pdf.Ops(contentstream.OpClip{}, contentstream.OpEndPath{})
}

// Save uses the Appearance state stack, which tracks the current colors.
func (s *Surface) Save() {
	s.stack = append(s.stack, s.state)
	s.pdf.SaveState()
}

func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	_ = s.pdf.RestoreState() // balanced with s.stack
}

// SetTransform concatenates the matrix needed to go
// from the current transform to the new one.
func (s *Surface) SetTransform(a, b, c, d, e, f float64) {
	m := scene.Matrix2D{A: a, B: b, C: c, D: d, E: e, F: f}
	if m == s.state.transform {
		return
	}
	delta := s.state.transform.Invert().Mult(m)
	s.pdf.Ops(contentstream.OpConcat{Matrix: model.Matrix{delta.A, delta.B, delta.C, delta.D, delta.E, delta.F}})
	s.state.transform = m
}

// pdfColor returns the color without its alpha channel,
// which is set through the graphic state.
func pdfColor(c scene.Color) color.NRGBA {
	out := c.NRGBA()
	out.A = 0xFF
	return out
}

func (s *Surface) SetStrokeStyle(t scene.Texture) error {
	c, ok := t.(scene.Color)
	if !ok {
		return ErrUnsupportedTexture
	}
	s.pdf.SetColorStroke(pdfColor(c))
	s.state.stroke = c
	return nil
}

func (s *Surface) SetFillStyle(t scene.Texture) error {
	switch t := t.(type) {
	case scene.Color:
		s.pdf.SetColorFill(pdfColor(t))
		s.state.fill = t
	case scene.Gradient:
		s.state.fill = t
	default:
		return ErrUnsupportedTexture
	}
	return nil
}

func (s *Surface) SetLineWidth(w float64) {
	s.pdf.Ops(contentstream.OpSetLineWidth{W: w})
}

func (s *Surface) SetLineCap(lc scene.CapMode) {
	var capStyle uint8
	switch lc {
	case scene.ButtCap:
		capStyle = 0
	case scene.RoundCap:
		capStyle = 1
	case scene.SquareCap:
		capStyle = 2
	}
	s.pdf.Ops(contentstream.OpSetLineCap{Style: capStyle})
}

func (s *Surface) SetLineJoin(lj scene.JoinMode) {
	var joinStyle uint8
	switch lj {
	case scene.MiterJoin:
		joinStyle = 0
	case scene.RoundJoin:
		joinStyle = 1
	case scene.BevelJoin:
		joinStyle = 2
	}
	s.pdf.Ops(contentstream.OpSetLineJoin{Style: joinStyle})
}

// SetGlobalAlpha is applied with the next painting operation.
func (s *Surface) SetGlobalAlpha(a float64) { s.state.alpha = a }
