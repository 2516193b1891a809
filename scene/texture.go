package scene

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"strconv"

	"github.com/srwiley/rasterx"
)

// Matrix2D is an affine transform, laid out as the canvas
// setTransform(a, b, c, d, e, f) arguments:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix2D = rasterx.Matrix2D

// Identity is the identity transform.
var Identity = rasterx.Identity

// Texture is either a Color or a Gradient.
type Texture interface {
	// Equal returns true if `other` would paint exactly the same way.
	Equal(other Texture) bool
	isTexture()
}

// Color is a plain color with channels in [0, 1],
// not premultiplied.
type Color struct{ R, G, B, A float64 }

// Predefined colors
var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Transparent = Color{0, 0, 0, 0}
)

// RGB returns an opaque color.
func RGB(r, g, b float64) Color { return Color{r, g, b, 1} }

// RGBA returns a color with the given alpha.
func RGBA(r, g, b, a float64) Color { return Color{r, g, b, a} }

func (Color) isTexture() {}

func (c Color) Equal(other Texture) bool {
	o, ok := other.(Color)
	return ok && o == c
}

func channel(c float64) uint8 {
	v := math.Floor(c * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// String returns the rgba(r,g,b,a) token used by canvas surfaces:
// color channels are scaled to 0-255 and floored, alpha is kept as a float.
func (c Color) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", channel(c.R), channel(c.G), channel(c.B),
		strconv.FormatFloat(c.A, 'g', -1, 64))
}

// NRGBA converts to the standard library representation,
// using the same channel mapping as String.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}

// GradientUnits is the type for gradient units
type GradientUnits byte

// Gradient bounds paremater constants
const (
	ObjectBoundingBox GradientUnits = iota
	UserSpaceOnUse
)

// SpreadMethod is the type for spread parameters
type SpreadMethod byte

// Spread parameter constants
const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// GradStop is a color stop of a gradient.
type GradStop struct {
	StopColor Color
	Offset    float64
	Opacity   float64
}

// Gradient holds a description of a linear or radial gradient.
// Its definition is provided by the scene builder; the renderer only
// carries it to the surface.
type Gradient struct {
	Direction GradientDirection
	Stops     []GradStop
	Bounds    Bounds
	Matrix    Matrix2D
	Spread    SpreadMethod
	Units     GradientUnits
}

// GradientDirection is either Linear or Radial.
type GradientDirection interface {
	IsRadial() bool
}

// Linear is x1, y1, x2, y2
type Linear [4]float64

func (Linear) IsRadial() bool { return false }

// Radial is cx, cy, fx, fy, r, fr
type Radial [6]float64

func (Radial) IsRadial() bool { return true }

func (Gradient) isTexture() {}

func (g Gradient) Equal(other Texture) bool {
	o, ok := other.(Gradient)
	if !ok {
		return false
	}
	return g.Direction == o.Direction && g.Bounds == o.Bounds && g.Matrix == o.Matrix &&
		g.Spread == o.Spread && g.Units == o.Units && slices.Equal(g.Stops, o.Stops)
}

// SameTexture compares two possibly nil textures.
func SameTexture(a, b Texture) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}
