package canvas

import (
	"fmt"

	"github.com/benoitkugler/canvasrender/scene"
)

// Render draws `root` on `s`. The size is passed to surfaces
// implementing Sizer before the traversal starts.
func Render(s Surface, width, height float64, root scene.Node, opts ...Option) error {
	if sz, ok := s.(Sizer); ok {
		sz.SetSize(width, height)
	}
	return New(s, opts...).Render(root)
}

// Render draws the tree `root`. It may be called several times on the
// same canvas; each call leaves the save stack as it found it.
func (c *Canvas) Render(root scene.Node) error {
	base := scene.Normalize(root)
	depth := len(c.frames)
	c.saves, c.emitted, c.skipped = 0, 0, 0

	// the wrapper seeds the root frame: the surface initial state
	// already is that frame, so there is nothing to save.
	err := c.renderNodes(base.Children, base.Style)

	if len(c.frames) != depth {
		panic(fmt.Sprintf("canvas: unbalanced frames after render: %d != %d", len(c.frames), depth))
	}
	c.logger.Debug("canvas: render done", "frames", c.saves,
		"state changes", c.emitted, "skipped", c.skipped, "error", err)
	return err
}

func (c *Canvas) renderNodes(nodes []scene.Node, acc scene.Style) error {
	for _, n := range nodes {
		if err := c.renderNode(n, acc); err != nil {
			return err
		}
	}
	return nil
}

// renderNode walks `n`, with `acc` the style accumulated from the ancestors
func (c *Canvas) renderNode(n scene.Node, acc scene.Style) error {
	switch n := n.(type) {
	case scene.Prim:
		return c.renderPrim(n.Path, acc)
	case scene.StyleNode:
		return c.Scoped(func() error {
			if err := c.applyStyle(n.Style); err != nil {
				return err
			}
			if err := c.renderNodes(n.Children, acc.Merge(n.Style)); err != nil {
				return err
			}
			if c.state.Pending {
				return c.Stroke()
			}
			return nil
		})
	case scene.TransformNode:
		previous := c.state.Transform
		defer c.SetTransform(previous)
		c.Transform(n.Transform)
		return c.renderNodes(n.Children, acc)
	case scene.Group:
		return c.renderNodes(n.Children, acc)
	default:
		panic(fmt.Sprintf("canvas: unknown node %T", n))
	}
}

// renderPrim draws the path, filling it if a fill texture is
// in effect, and always stroking it (in black by default).
func (c *Canvas) renderPrim(path scene.Path, acc scene.Style) error {
	c.BeginPath()
	c.DrawPath(path)

	if fill, ok := acc.Fill(); ok && fill != nil {
		if err := c.SetFillStyle(fill); err != nil {
			return err
		}
		if err := c.Fill(); err != nil {
			return err
		}
	}

	stroke, ok := acc.Stroke()
	if !ok || stroke == nil {
		stroke = scene.Black
	}
	if err := c.SetStrokeStyle(stroke); err != nil {
		return err
	}
	return c.Stroke()
}
