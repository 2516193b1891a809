package canvas

import (
	"github.com/benoitkugler/canvasrender/scene"
)

// The setters below only issue a surface command when the new value
// differs from the tracked one.

func (c *Canvas) changed(same bool) bool {
	if same {
		c.skipped++
		return false
	}
	c.emitted++
	return true
}

// SetStrokeStyle sets the stroke texture.
// The tracked state is only updated if the surface accepts the texture.
func (c *Canvas) SetStrokeStyle(t scene.Texture) error {
	if !c.changed(scene.SameTexture(c.state.Stroke, t)) {
		return nil
	}
	if err := c.surface.SetStrokeStyle(t); err != nil {
		return err
	}
	c.state.Stroke = t
	return nil
}

// SetFillStyle sets the fill texture.
// The tracked state is only updated if the surface accepts the texture.
func (c *Canvas) SetFillStyle(t scene.Texture) error {
	if !c.changed(scene.SameTexture(c.state.Fill, t)) {
		return nil
	}
	if err := c.surface.SetFillStyle(t); err != nil {
		return err
	}
	c.state.Fill = t
	return nil
}

// SetLineWidth records the width even when it is not positive;
// Stroke then refuses to draw.
func (c *Canvas) SetLineWidth(w float64) {
	if !c.changed(c.state.LineWidth == w) {
		return
	}
	c.state.LineWidth = w
	c.surface.SetLineWidth(w)
}

func (c *Canvas) SetLineCap(lc scene.CapMode) {
	if !c.changed(c.state.LineCap == lc) {
		return
	}
	c.state.LineCap = lc
	c.surface.SetLineCap(lc)
}

func (c *Canvas) SetLineJoin(lj scene.JoinMode) {
	if !c.changed(c.state.LineJoin == lj) {
		return
	}
	c.state.LineJoin = lj
	c.surface.SetLineJoin(lj)
}

// SetOpacity sets the global alpha of the surface.
func (c *Canvas) SetOpacity(a float64) {
	if !c.changed(c.state.Alpha == a) {
		return
	}
	c.state.Alpha = a
	c.surface.SetGlobalAlpha(a)
}

// SetTransform replaces the current matrix.
func (c *Canvas) SetTransform(m scene.Matrix2D) {
	if !c.changed(c.state.Transform == m) {
		return
	}
	c.state.Transform = m
	c.surface.SetTransform(m.A, m.B, m.C, m.D, m.E, m.F)
}

// Transform composes `m` with the current matrix:
// `m` is applied first, in the current user space.
func (c *Canvas) Transform(m scene.Matrix2D) {
	c.SetTransform(c.state.Transform.Mult(m))
}

// applyStyle sets the attributes present in `st`
func (c *Canvas) applyStyle(st scene.Style) error {
	if w, ok := st.LineWidth(); ok {
		c.SetLineWidth(w)
	}
	if lc, ok := st.LineCap(); ok {
		c.SetLineCap(lc)
	}
	if lj, ok := st.LineJoin(); ok {
		c.SetLineJoin(lj)
	}
	if a, ok := st.Opacity(); ok {
		c.SetOpacity(a)
	}
	if f, ok := st.Fill(); ok && f != nil {
		if err := c.SetFillStyle(f); err != nil {
			return err
		}
	}
	if s, ok := st.Stroke(); ok && s != nil {
		if err := c.SetStrokeStyle(s); err != nil {
			return err
		}
	}
	for _, clip := range st.Clip() {
		c.BeginPath()
		c.DrawPath(clip)
		c.Clip()
	}
	return nil
}
