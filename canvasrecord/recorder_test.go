package canvasrecord

import (
	"errors"
	"testing"

	"github.com/benoitkugler/canvasrender/scene"
)

func TestRecorderString(t *testing.T) {
	r := NewRecorder()
	r.BeginPath()
	r.MoveTo(0, 0)
	r.LineTo(10, 0.5)
	r.BezierCurveTo(1, 2, 3, 4, 5, 6)
	r.ClosePath()
	_ = r.SetFillStyle(scene.RGB(1, 0, 0))
	r.SetLineCap(scene.RoundCap)
	r.SetTransform(1, 0, 0, 1, 5, -2)
	_ = r.Fill()

	want := `beginPath()
moveTo(0,0)
lineTo(10,0.5)
bezierCurveTo(1,2,3,4,5,6)
closePath()
setFillStyle(rgba(255,0,0,1))
setLineCap(round)
setTransform(1,0,0,1,5,-2)
fill()
`
	if got := r.String(); got != want {
		t.Fatalf("expected\n%s\ngot\n%s", want, got)
	}
	if r.Count(CmdLineTo) != 1 || r.Count(CmdSave) != 0 {
		t.Fatalf("unexpected counts in %v", r.Types())
	}

	r.Reset()
	if len(r.Commands()) != 0 {
		t.Fatal("reset should discard the commands")
	}
}

// failingSurface refuses gradients
type failingSurface struct {
	*Recorder
}

var errNoGradient = errors.New("gradients are not supported")

func (f failingSurface) SetFillStyle(t scene.Texture) error {
	if _, ok := t.(scene.Gradient); ok {
		return errNoGradient
	}
	return f.Recorder.SetFillStyle(t)
}

func TestPlayback(t *testing.T) {
	r := NewRecorder()
	r.SetSize(40, 30)
	r.Save()
	r.SetLineWidth(2)
	r.MoveTo(1, 1)
	r.LineTo(2, 2)
	_ = r.Stroke()
	r.Restore()

	dst := NewRecorder()
	if err := r.Playback(dst); err != nil {
		t.Fatal(err)
	}
	if dst.String() != r.String() {
		t.Fatalf("playback mismatch:\n%s\n%s", dst, r)
	}
	if dst.Width() != 40 || dst.Height() != 30 {
		t.Fatalf("size not replayed: %v %v", dst.Width(), dst.Height())
	}

	r.Reset()
	_ = r.SetFillStyle(scene.Gradient{Direction: scene.Linear{0, 0, 1, 0}})
	r.BeginPath()
	err := r.Playback(failingSurface{NewRecorder()})
	if !errors.Is(err, errNoGradient) {
		t.Fatalf("expected surface error, got %v", err)
	}
}
