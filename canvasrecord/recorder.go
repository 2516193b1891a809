package canvasrecord

import (
	"fmt"
	"strings"

	"github.com/benoitkugler/canvasrender/canvas"
	"github.com/benoitkugler/canvasrender/scene"
)

var (
	_ canvas.Surface = (*Recorder)(nil)
	_ canvas.Sizer   = (*Recorder)(nil)
)

// Recorder is a surface storing every command it receives.
// Every texture is accepted.
type Recorder struct {
	commands      []Command
	width, height float64
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{commands: make([]Command, 0, 64)}
}

func (r *Recorder) record(c Command) { r.commands = append(r.commands, c) }

// SetSize stores the size of the drawing.
func (r *Recorder) SetSize(width, height float64) { r.width, r.height = width, height }

// Width returns the width given by SetSize.
func (r *Recorder) Width() float64 { return r.width }

// Height returns the height given by SetSize.
func (r *Recorder) Height() float64 { return r.height }

// Commands returns the recorded commands, in order.
// The slice is owned by the recorder.
func (r *Recorder) Commands() []Command { return r.commands }

// Count returns the number of commands of type `t`.
func (r *Recorder) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Types returns the type of each command, in order.
func (r *Recorder) Types() []CommandType {
	out := make([]CommandType, len(r.commands))
	for i, c := range r.commands {
		out[i] = c.Type()
	}
	return out
}

// Reset discards the recorded commands, keeping the size.
func (r *Recorder) Reset() { r.commands = r.commands[:0] }

// String returns one command per line.
func (r *Recorder) String() string {
	var b strings.Builder
	for _, c := range r.commands {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Recorder) BeginPath()          { r.record(BeginPathCommand{}) }
func (r *Recorder) MoveTo(x, y float64) { r.record(MoveToCommand{X: x, Y: y}) }
func (r *Recorder) LineTo(x, y float64) { r.record(LineToCommand{X: x, Y: y}) }
func (r *Recorder) BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	r.record(BezierCurveToCommand{C1X: c1x, C1Y: c1y, C2X: c2x, C2Y: c2y, X: x, Y: y})
}
func (r *Recorder) ClosePath()    { r.record(ClosePathCommand{}) }
func (r *Recorder) Stroke() error { r.record(StrokeCommand{}); return nil }
func (r *Recorder) Fill() error   { r.record(FillCommand{}); return nil }
func (r *Recorder) Clip()         { r.record(ClipCommand{}) }
func (r *Recorder) Save()         { r.record(SaveCommand{}) }
func (r *Recorder) Restore()      { r.record(RestoreCommand{}) }

func (r *Recorder) SetTransform(a, b, c, d, e, f float64) {
	r.record(SetTransformCommand{Matrix: scene.Matrix2D{A: a, B: b, C: c, D: d, E: e, F: f}})
}

func (r *Recorder) SetStrokeStyle(t scene.Texture) error {
	r.record(SetStrokeStyleCommand{Texture: t})
	return nil
}

func (r *Recorder) SetFillStyle(t scene.Texture) error {
	r.record(SetFillStyleCommand{Texture: t})
	return nil
}

func (r *Recorder) SetLineWidth(w float64)        { r.record(SetLineWidthCommand{Width: w}) }
func (r *Recorder) SetLineCap(lc scene.CapMode)   { r.record(SetLineCapCommand{Cap: lc}) }
func (r *Recorder) SetLineJoin(lj scene.JoinMode) { r.record(SetLineJoinCommand{Join: lj}) }
func (r *Recorder) SetGlobalAlpha(a float64)      { r.record(SetGlobalAlphaCommand{Alpha: a}) }

// Playback replays the recorded commands on `s`, stopping
// at the first error returned by `s`.
func (r *Recorder) Playback(s canvas.Surface) error {
	if sz, ok := s.(canvas.Sizer); ok && (r.width != 0 || r.height != 0) {
		sz.SetSize(r.width, r.height)
	}
	for i, cmd := range r.commands {
		if err := replay(s, cmd); err != nil {
			return fmt.Errorf("playback of command %d (%s): %w", i, cmd.Type(), err)
		}
	}
	return nil
}

func replay(s canvas.Surface, cmd Command) error {
	switch c := cmd.(type) {
	case BeginPathCommand:
		s.BeginPath()
	case MoveToCommand:
		s.MoveTo(c.X, c.Y)
	case LineToCommand:
		s.LineTo(c.X, c.Y)
	case BezierCurveToCommand:
		s.BezierCurveTo(c.C1X, c.C1Y, c.C2X, c.C2Y, c.X, c.Y)
	case ClosePathCommand:
		s.ClosePath()
	case StrokeCommand:
		return s.Stroke()
	case FillCommand:
		return s.Fill()
	case ClipCommand:
		s.Clip()
	case SaveCommand:
		s.Save()
	case RestoreCommand:
		s.Restore()
	case SetTransformCommand:
		m := c.Matrix
		s.SetTransform(m.A, m.B, m.C, m.D, m.E, m.F)
	case SetStrokeStyleCommand:
		return s.SetStrokeStyle(c.Texture)
	case SetFillStyleCommand:
		return s.SetFillStyle(c.Texture)
	case SetLineWidthCommand:
		s.SetLineWidth(c.Width)
	case SetLineCapCommand:
		s.SetLineCap(c.Cap)
	case SetLineJoinCommand:
		s.SetLineJoin(c.Join)
	case SetGlobalAlphaCommand:
		s.SetGlobalAlpha(c.Alpha)
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
	return nil
}
