package canvas

import (
	"log/slog"

	"github.com/benoitkugler/canvasrender/scene"
)

// GraphicsState is the part of the surface state tracked by the Canvas,
// scoped to the active save/restore frame.
type GraphicsState struct {
	Pos     scene.Point // current pen position
	Start   scene.Point // start of the current subpath
	Pending bool        // geometry emitted in this frame and not stroked yet

	Transform scene.Matrix2D
	Fill      scene.Texture
	Stroke    scene.Texture
	LineWidth float64
	LineCap   scene.CapMode
	LineJoin  scene.JoinMode
	Alpha     float64
}

// DefaultState mirrors a fresh canvas surface: black fill and stroke,
// line width 1, butt cap, miter join, opaque, identity transform.
var DefaultState = GraphicsState{
	Transform: scene.Identity,
	Fill:      scene.Black,
	Stroke:    scene.Black,
	LineWidth: 1,
	LineCap:   scene.ButtCap,
	LineJoin:  scene.MiterJoin,
	Alpha:     1,
}

// Canvas drives a Surface, mirroring its state stack
// so that redundant state changes are never issued.
//
// A Canvas owns its surface during rendering
// and is not safe for concurrent use.
type Canvas struct {
	surface Surface
	logger  *slog.Logger

	state  GraphicsState
	frames []GraphicsState

	// statistics, reported in debug logs
	saves, emitted, skipped int
}

// New returns a canvas drawing on `s`, which must be in its initial state
// (or in the state given by WithInitialState).
func New(s Surface, opts ...Option) *Canvas {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = Logger()
	}
	return &Canvas{
		surface: s,
		logger:  logger,
		state:   o.initial,
		frames:  make([]GraphicsState, 0, 8),
	}
}

// State returns a copy of the current graphics state.
func (c *Canvas) State() GraphicsState { return c.state }

// Depth returns the number of open save frames.
func (c *Canvas) Depth() int { return len(c.frames) }

// Save pushes a copy of the current state and saves the surface state.
// The new frame starts with no pending geometry: only what is
// emitted inside it may be stroked when it closes.
func (c *Canvas) Save() {
	c.frames = append(c.frames, c.state)
	c.state.Pending = false
	c.surface.Save()
	c.saves++
}

// Restore pops the last saved state and restores the surface state.
// Restore panics if there is no matching Save, since the surface stack
// would otherwise drift out of sync.
func (c *Canvas) Restore() {
	if len(c.frames) == 0 {
		panic("canvas: Restore without matching Save")
	}
	c.state = c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	c.surface.Restore()
}

// Scoped runs `fn` inside a save/restore frame.
// The restore is performed on every exit path, panics included.
func (c *Canvas) Scoped(fn func() error) error {
	c.Save()
	defer c.Restore()
	return fn()
}
