package canvaspdf

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/benoitkugler/canvasrender/scene"
	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/model"
)

func sample() scene.Node {
	return scene.Group{Name: "page", Children: []scene.Node{
		scene.StyleNode{
			Style: scene.Style{}.WithFill(scene.RGBA(0.2, 0.4, 0.8, 0.5)).WithLineWidth(2).WithLineJoin(scene.RoundJoin),
			Children: []scene.Node{
				scene.Prim{Path: scene.Rect(20, 20, 100, 60)},
				scene.TransformNode{
					Transform: scene.Identity.Translate(150, 50).Rotate(0.3),
					Children:  []scene.Node{scene.Prim{Path: scene.Ellipse(0, 0, 40, 20)}},
				},
			},
		},
		scene.StyleNode{
			Style: scene.Style{}.WithClip(scene.Rect(0, 100, 200, 100)).WithStroke(scene.RGB(1, 0, 0)).WithOpacity(0.7),
			Children: []scene.Node{
				scene.Prim{Path: scene.Polyline(true, scene.Point{X: 10, Y: 110}, scene.Point{X: 190, Y: 150}, scene.Point{X: 30, Y: 190})},
			},
		},
	}}
}

func TestRenderToFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "sample.pdf")
	if err := RenderToFile(sample(), 300, 200, name); err != nil {
		t.Fatal(err)
	}
	content, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Errorf("invalid PDF header: %q", content[:min(len(content), 10)])
	}
}

// operators returns the operators of the content written
// to `ap`, with their numeric operands.
func operators(ap contentstream.Appearance) (ops []string, args [][]float64) {
	var pending []float64
	for _, tok := range strings.Fields(string(ap.ToXFormObject(false).Content)) {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			pending = append(pending, f)
			continue
		}
		if strings.HasPrefix(tok, "/") {
			continue
		}
		ops = append(ops, tok)
		args = append(args, pending)
		pending = nil
	}
	return ops, args
}

func count(ops []string, op string) int {
	n := 0
	for _, o := range ops {
		if o == op {
			n++
		}
	}
	return n
}

func TestSaveRestoreBalanced(t *testing.T) {
	ap, err := drawPage(sample(), 300, 200)
	if err != nil {
		t.Fatal(err)
	}
	ops, _ := operators(ap)
	depth := 0
	for _, op := range ops {
		switch op {
		case "q":
			depth++
		case "Q":
			depth--
		}
		if depth < 0 {
			t.Fatalf("Q without q in %v", ops)
		}
	}
	if depth != 0 || count(ops, "q") < 3 {
		t.Fatalf("unbalanced operators: %v", ops)
	}
	if count(ops, "W") != 1 || count(ops, "f") != 3 || count(ops, "S") != 3 {
		t.Fatalf("unexpected painting operators: %v", ops)
	}
}

func TestTransformDelta(t *testing.T) {
	ap := contentstream.NewAppearance(100, 100)
	s := NewSurface(&ap)
	m := scene.Identity.Translate(10, 20).Rotate(0.5).Scale(2, 3)
	s.SetTransform(m.A, m.B, m.C, m.D, m.E, m.F)
	s.SetTransform(m.A, m.B, m.C, m.D, m.E, m.F)
	s.SetTransform(1, 0, 0, 1, 0, 0)

	ops, args := operators(ap)
	if len(ops) != 2 || ops[0] != "cm" || ops[1] != "cm" {
		t.Fatalf("expected two cm operators, got %v", ops)
	}
	for i, v := range []float64{m.A, m.B, m.C, m.D, m.E, m.F} {
		if math.Abs(args[0][i]-v) > 1e-9 {
			t.Fatalf("first cm should be the matrix itself, got %v", args[0])
		}
	}
	// concatenating the two deltas gives back the identity
	a, b := args[0], args[1]
	first := scene.Matrix2D{A: a[0], B: a[1], C: a[2], D: a[3], E: a[4], F: a[5]}
	second := scene.Matrix2D{A: b[0], B: b[1], C: b[2], D: b[3], E: b[4], F: b[5]}
	total := first.Mult(second)
	for i, v := range []float64{total.A - 1, total.B, total.C, total.D - 1, total.E, total.F} {
		if math.Abs(v) > 1e-9 {
			t.Fatalf("coefficient %d: transforms do not compose to identity: %v", i, total)
		}
	}
}

func TestOpacityStateReused(t *testing.T) {
	half := scene.Style{}.WithFill(scene.RGBA(0, 0, 1, 0.5)).WithLineWidth(0)
	root := scene.Group{Children: []scene.Node{
		scene.StyleNode{Style: half, Children: []scene.Node{scene.Prim{Path: scene.Rect(0, 0, 10, 10)}}},
		scene.StyleNode{Style: half, Children: []scene.Node{
			scene.Prim{Path: scene.Rect(20, 0, 10, 10)},
			scene.Prim{Path: scene.Rect(40, 0, 10, 10)},
		}},
	}}
	ap, err := drawPage(root, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	ops, _ := operators(ap)
	// once per frame, since Q resets the graphic state
	if n := count(ops, "gs"); n != 2 {
		t.Fatalf("expected 2 gs operators, got %d: %v", n, ops)
	}
	if n := len(ap.ToXFormObject(false).Resources.ExtGState); n != 1 {
		t.Fatalf("expected a single ExtGState resource, got %d", n)
	}
	if count(ops, "f") != 3 || count(ops, "S") != 0 {
		t.Fatalf("unexpected painting operators: %v", ops)
	}
}

func TestTransparentColor(t *testing.T) {
	ap := contentstream.NewAppearance(10, 10)
	s := NewSurface(&ap)
	if err := s.SetFillStyle(scene.Transparent); err != nil {
		t.Fatal(err)
	}
	_, args := operators(ap)
	for _, a := range args {
		for _, v := range a {
			if math.IsNaN(v) {
				t.Fatalf("invalid color operand: %v", args)
			}
		}
	}
}

func linearGradient() scene.Gradient {
	return scene.Gradient{
		Direction: scene.Linear{0, 0, 100, 0},
		Stops: []scene.GradStop{
			{StopColor: scene.RGB(1, 0, 0), Offset: 0.2, Opacity: 1},
			{StopColor: scene.RGB(0, 1, 0), Offset: 0.5, Opacity: 1},
			{StopColor: scene.RGB(0, 0, 1), Offset: 1, Opacity: 1},
		},
		Matrix: scene.Identity,
		Units:  scene.UserSpaceOnUse,
	}
}

func TestGradientFill(t *testing.T) {
	root := scene.StyleNode{
		Style:    scene.Style{}.WithFill(linearGradient()),
		Children: []scene.Node{scene.Prim{Path: scene.Rect(0, 0, 100, 100)}},
	}
	ap, err := drawPage(root, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	ops, _ := operators(ap)
	if count(ops, "sh") != 1 || count(ops, "W") != 1 || count(ops, "n") != 1 || count(ops, "f") != 0 {
		t.Fatalf("expected a clipped shading: %v", ops)
	}
	if n := len(ap.ToXFormObject(false).Resources.Shading); n != 1 {
		t.Fatalf("expected one shading resource, got %d", n)
	}
	if err := RenderToFile(root, 100, 100, filepath.Join(t.TempDir(), "gradient.pdf")); err != nil {
		t.Fatal(err)
	}
}

func TestShadingStops(t *testing.T) {
	sh := shading(linearGradient())
	axial, ok := sh.ShadingType.(model.ShadingAxial)
	if !ok {
		t.Fatalf("expected an axial shading, got %T", sh.ShadingType)
	}
	st, ok := axial.Function[0].FunctionType.(model.FunctionStitching)
	if !ok {
		t.Fatalf("expected a stitching function, got %T", axial.Function[0].FunctionType)
	}
	// a stop is added at offset 0
	if len(st.Functions) != 3 || len(st.Bounds) != 2 || st.Bounds[0] != 0.2 || st.Bounds[1] != 0.5 {
		t.Fatalf("unexpected stitching %+v", st)
	}

	radial := linearGradient()
	radial.Direction = scene.Radial{50, 50, 40, 40, 30, 5}
	rad, ok := shading(radial).ShadingType.(model.ShadingRadial)
	if !ok || rad.Coords != [6]float64{40, 40, 5, 50, 50, 30} {
		t.Fatalf("unexpected radial shading %+v", rad)
	}
}

func TestGradientStrokeNotSupported(t *testing.T) {
	root := scene.StyleNode{
		Style:    scene.Style{}.WithStroke(linearGradient()),
		Children: []scene.Node{scene.Prim{Path: scene.Rect(0, 0, 100, 100)}},
	}
	err := RenderToFile(root, 100, 100, filepath.Join(t.TempDir(), "gradient.pdf"))
	if !errors.Is(err, ErrUnsupportedTexture) {
		t.Fatalf("expected ErrUnsupportedTexture, got %v", err)
	}
}
