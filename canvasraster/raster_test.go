package canvasraster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/benoitkugler/canvasrender/canvas"
	"github.com/benoitkugler/canvasrender/canvasrecord"
	"github.com/benoitkugler/canvasrender/scene"
)

func saveToPngFile(filePath string, m image.Image) error {
	var b bytes.Buffer
	if err := png.Encode(&b, m); err != nil {
		return err
	}
	return os.WriteFile(filePath, b.Bytes(), os.ModePerm)
}

func at(img *image.RGBA, x, y int) color.RGBA { return img.RGBAAt(x, y) }

func filled(style scene.Style, children ...scene.Node) scene.Node {
	return scene.StyleNode{Style: style, Children: children}
}

func TestFillAndStroke(t *testing.T) {
	red := scene.RGB(1, 0, 0)
	root := filled(scene.Style{}.WithFill(red).WithLineWidth(2),
		scene.Prim{Path: scene.Rect(10, 10, 20, 20)},
	)
	img, err := RenderToImage(root, 40, 40)
	if err != nil {
		t.Fatal(err)
	}
	if err := saveToPngFile(filepath.Join(t.TempDir(), "rect.png"), img); err != nil {
		t.Fatal(err)
	}

	if c := at(img, 20, 20); c.R != 255 || c.G != 0 || c.A != 255 {
		t.Errorf("expected red inside, got %v", c)
	}
	if c := at(img, 10, 20); c.R != 0 || c.A == 0 {
		t.Errorf("expected black border, got %v", c)
	}
	if c := at(img, 2, 2); c.A != 0 {
		t.Errorf("expected transparent outside, got %v", c)
	}
}

func TestDefaultFillIsTransparent(t *testing.T) {
	root := filled(scene.Style{}.WithLineWidth(1), scene.Prim{Path: scene.Rect(10, 10, 20, 20)})
	img, err := RenderToImage(root, 40, 40)
	if err != nil {
		t.Fatal(err)
	}
	if c := at(img, 20, 20); c.A != 0 {
		t.Errorf("the inside should not be painted, got %v", c)
	}
}

func TestColorAlpha(t *testing.T) {
	for _, test := range []struct {
		fill       scene.Color
		alpha      float64
		minA, maxA uint8
	}{
		{scene.Transparent, 1, 0, 0},
		{scene.RGBA(1, 0, 0, 0.5), 1, 120, 135},
		{scene.RGBA(1, 0, 0, 0.5), 0.5, 58, 70},
		{scene.RGB(1, 0, 0), 1, 255, 255},
	} {
		img := image.NewRGBA(image.Rect(0, 0, 40, 40))
		s := NewSurface(img)
		s.SetGlobalAlpha(test.alpha)
		if err := s.SetFillStyle(test.fill); err != nil {
			t.Fatal(err)
		}
		s.BeginPath()
		s.MoveTo(10, 10)
		s.LineTo(30, 10)
		s.LineTo(30, 30)
		s.LineTo(10, 30)
		s.ClosePath()
		if err := s.Fill(); err != nil {
			t.Fatal(err)
		}
		if c := at(img, 20, 20); c.A < test.minA || c.A > test.maxA {
			t.Errorf("fill %v with alpha %g: unexpected pixel %v", test.fill, test.alpha, c)
		}
	}
}

func TestTransformAndOpacity(t *testing.T) {
	blue := scene.RGB(0, 0, 1)
	root := scene.TransformNode{
		Transform: scene.Identity.Translate(20, 0),
		Children: []scene.Node{
			filled(scene.Style{}.WithFill(blue).WithOpacity(0.5).WithLineWidth(0),
				scene.Prim{Path: scene.Rect(0, 0, 10, 10)},
			),
		},
	}
	img, err := RenderToImage(root, 40, 40)
	if err != nil {
		t.Fatal(err)
	}
	c := at(img, 25, 5)
	if c.B == 0 || c.A < 120 || c.A > 135 {
		t.Errorf("expected half transparent blue, got %v", c)
	}
	if c := at(img, 5, 5); c.A != 0 {
		t.Errorf("untranslated area should be empty, got %v", c)
	}
}

func TestClip(t *testing.T) {
	root := filled(scene.Style{}.WithClip(scene.Rect(0, 0, 20, 40)),
		filled(scene.Style{}.WithFill(scene.White), scene.Prim{Path: scene.Rect(0, 0, 40, 40)}),
	)
	img, err := RenderToImage(root, 40, 40)
	if err != nil {
		t.Fatal(err)
	}
	if c := at(img, 10, 20); c.A != 255 {
		t.Errorf("expected white inside the clip, got %v", c)
	}
	if c := at(img, 30, 20); c.A != 0 {
		t.Errorf("expected nothing outside the clip, got %v", c)
	}
}

func TestGradient(t *testing.T) {
	grad := scene.Gradient{
		Direction: scene.Linear{0, 0, 1, 0},
		Stops: []scene.GradStop{
			{StopColor: scene.RGB(1, 0, 0), Offset: 0, Opacity: 1},
			{StopColor: scene.RGB(0, 0, 1), Offset: 1, Opacity: 1},
		},
		Matrix: scene.Identity,
		Units:  scene.ObjectBoundingBox,
	}
	root := filled(scene.Style{}.WithFill(grad).WithLineWidth(0),
		scene.Prim{Path: scene.Rect(0, 0, 40, 10)},
	)
	img, err := RenderToImage(root, 40, 10)
	if err != nil {
		t.Fatal(err)
	}
	left, right := at(img, 1, 5), at(img, 38, 5)
	if left.R <= left.B || right.B <= right.R {
		t.Errorf("unexpected gradient: %v -> %v", left, right)
	}
}

func TestPlaybackMatchesDirectRendering(t *testing.T) {
	root := filled(scene.Style{}.WithFill(scene.RGB(0, 1, 0)).WithLineJoin(scene.RoundJoin).WithLineWidth(3),
		scene.Prim{Path: scene.Ellipse(20, 20, 15, 10)},
		scene.Prim{Path: scene.Polyline(false, scene.Point{X: 2, Y: 2}, scene.Point{X: 38, Y: 2}, scene.Point{X: 20, Y: 38})},
	)
	direct, err := RenderToImage(root, 40, 40)
	if err != nil {
		t.Fatal(err)
	}

	rec := canvasrecord.NewRecorder()
	if err := canvas.Render(rec, 40, 40, root); err != nil {
		t.Fatal(err)
	}
	replayed := image.NewRGBA(image.Rect(0, 0, 40, 40))
	if err := rec.Playback(NewSurface(replayed)); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(direct.Pix, replayed.Pix) {
		t.Error("playback should produce the same image")
	}
}
