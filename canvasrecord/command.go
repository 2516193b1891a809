// Package canvasrecord implements a canvas.Surface which records
// the commands it receives, so that they can be inspected,
// printed or replayed onto another surface.
package canvasrecord

import (
	"fmt"
	"strconv"

	"github.com/benoitkugler/canvasrender/scene"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// Path commands
	CmdBeginPath CommandType = iota
	CmdMoveTo
	CmdLineTo
	CmdBezierCurveTo
	CmdClosePath

	// Drawing commands
	CmdStroke
	CmdFill
	CmdClip

	// State commands
	CmdSave
	CmdRestore
	CmdSetTransform

	// Style commands
	CmdSetStrokeStyle
	CmdSetFillStyle
	CmdSetLineWidth
	CmdSetLineCap
	CmdSetLineJoin
	CmdSetGlobalAlpha
)

var commandTypeNames = [...]string{
	CmdBeginPath:      "beginPath",
	CmdMoveTo:         "moveTo",
	CmdLineTo:         "lineTo",
	CmdBezierCurveTo:  "bezierCurveTo",
	CmdClosePath:      "closePath",
	CmdStroke:         "stroke",
	CmdFill:           "fill",
	CmdClip:           "clip",
	CmdSave:           "save",
	CmdRestore:        "restore",
	CmdSetTransform:   "setTransform",
	CmdSetStrokeStyle: "setStrokeStyle",
	CmdSetFillStyle:   "setFillStyle",
	CmdSetLineWidth:   "setLineWidth",
	CmdSetLineCap:     "setLineCap",
	CmdSetLineJoin:    "setLineJoin",
	CmdSetGlobalAlpha: "setGlobalAlpha",
}

// String returns the canvas name of the command.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is one recorded surface call.
type Command interface {
	Type() CommandType
	// String formats the command as a canvas call, like moveTo(1,2)
	String() string
}

func num(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func call(t CommandType, args ...string) string {
	out := t.String() + "("
	for i, a := range args {
		if i > 0 {
			out += ","
		}
		out += a
	}
	return out + ")"
}

func textureString(t scene.Texture) string {
	switch t := t.(type) {
	case scene.Color:
		return t.String()
	case scene.Gradient:
		if t.Direction != nil && t.Direction.IsRadial() {
			return "radial-gradient"
		}
		return "linear-gradient"
	default:
		return fmt.Sprintf("%v", t)
	}
}

type (
	BeginPathCommand struct{}
	MoveToCommand    struct{ X, Y float64 }
	LineToCommand    struct{ X, Y float64 }
	// BezierCurveToCommand stores absolute coordinates.
	BezierCurveToCommand  struct{ C1X, C1Y, C2X, C2Y, X, Y float64 }
	ClosePathCommand      struct{}
	StrokeCommand         struct{}
	FillCommand           struct{}
	ClipCommand           struct{}
	SaveCommand           struct{}
	RestoreCommand        struct{}
	SetTransformCommand   struct{ Matrix scene.Matrix2D }
	SetStrokeStyleCommand struct{ Texture scene.Texture }
	SetFillStyleCommand   struct{ Texture scene.Texture }
	SetLineWidthCommand   struct{ Width float64 }
	SetLineCapCommand     struct{ Cap scene.CapMode }
	SetLineJoinCommand    struct{ Join scene.JoinMode }
	SetGlobalAlphaCommand struct{ Alpha float64 }
)

func (BeginPathCommand) Type() CommandType      { return CmdBeginPath }
func (MoveToCommand) Type() CommandType         { return CmdMoveTo }
func (LineToCommand) Type() CommandType         { return CmdLineTo }
func (BezierCurveToCommand) Type() CommandType  { return CmdBezierCurveTo }
func (ClosePathCommand) Type() CommandType      { return CmdClosePath }
func (StrokeCommand) Type() CommandType         { return CmdStroke }
func (FillCommand) Type() CommandType           { return CmdFill }
func (ClipCommand) Type() CommandType           { return CmdClip }
func (SaveCommand) Type() CommandType           { return CmdSave }
func (RestoreCommand) Type() CommandType        { return CmdRestore }
func (SetTransformCommand) Type() CommandType   { return CmdSetTransform }
func (SetStrokeStyleCommand) Type() CommandType { return CmdSetStrokeStyle }
func (SetFillStyleCommand) Type() CommandType   { return CmdSetFillStyle }
func (SetLineWidthCommand) Type() CommandType   { return CmdSetLineWidth }
func (SetLineCapCommand) Type() CommandType     { return CmdSetLineCap }
func (SetLineJoinCommand) Type() CommandType    { return CmdSetLineJoin }
func (SetGlobalAlphaCommand) Type() CommandType { return CmdSetGlobalAlpha }

func (c BeginPathCommand) String() string { return call(c.Type()) }
func (c MoveToCommand) String() string    { return call(c.Type(), num(c.X), num(c.Y)) }
func (c LineToCommand) String() string    { return call(c.Type(), num(c.X), num(c.Y)) }
func (c BezierCurveToCommand) String() string {
	return call(c.Type(), num(c.C1X), num(c.C1Y), num(c.C2X), num(c.C2Y), num(c.X), num(c.Y))
}
func (c ClosePathCommand) String() string { return call(c.Type()) }
func (c StrokeCommand) String() string    { return call(c.Type()) }
func (c FillCommand) String() string      { return call(c.Type()) }
func (c ClipCommand) String() string      { return call(c.Type()) }
func (c SaveCommand) String() string      { return call(c.Type()) }
func (c RestoreCommand) String() string   { return call(c.Type()) }
func (c SetTransformCommand) String() string {
	m := c.Matrix
	return call(c.Type(), num(m.A), num(m.B), num(m.C), num(m.D), num(m.E), num(m.F))
}
func (c SetStrokeStyleCommand) String() string { return call(c.Type(), textureString(c.Texture)) }
func (c SetFillStyleCommand) String() string   { return call(c.Type(), textureString(c.Texture)) }
func (c SetLineWidthCommand) String() string   { return call(c.Type(), num(c.Width)) }
func (c SetLineCapCommand) String() string     { return call(c.Type(), c.Cap.String()) }
func (c SetLineJoinCommand) String() string    { return call(c.Type(), c.Join.String()) }
func (c SetGlobalAlphaCommand) String() string { return call(c.Type(), num(c.Alpha)) }
