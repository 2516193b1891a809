package scene

import "fmt"

// Node is one node of a scene tree: Prim, StyleNode, TransformNode or Group.
// Trees are built by the caller and only read by the renderer.
type Node interface {
	isNode()
}

// Prim is a leaf drawing its path.
type Prim struct {
	Path Path
}

// StyleNode applies its style to all its descendants.
type StyleNode struct {
	Style    Style
	Children []Node
}

// TransformNode applies its transform to all its descendants.
type TransformNode struct {
	Transform Matrix2D
	Children  []Node
}

// Group is a structural node, without effect on rendering.
type Group struct {
	Name     string
	Children []Node
}

func (Prim) isNode()          {}
func (StyleNode) isNode()     {}
func (TransformNode) isNode() {}
func (Group) isNode()         {}

// Children returns the children of `n`, or nil for a Prim.
func Children(n Node) []Node {
	switch n := n.(type) {
	case Prim:
		return nil
	case StyleNode:
		return n.Children
	case TransformNode:
		return n.Children
	case Group:
		return n.Children
	default:
		panic(fmt.Sprintf("scene: unknown node %T", n))
	}
}

// Normalize prepares a tree for rendering: gradients are split down to
// the primitives (see SplitTextures) and the result is wrapped in a style
// with a transparent fill, so that primitives without explicit fill are
// never painted with the surface default.
func Normalize(root Node) StyleNode {
	return StyleNode{
		Style:    Style{}.WithFill(Transparent),
		Children: []Node{SplitTextures(root)},
	}
}

// pushed is a gradient waiting to reach the primitives below its style node
type pushed struct {
	grad Gradient
	rel  Matrix2D // transforms crossed since the style node
	ok   bool
}

func (p pushed) through(m Matrix2D) pushed {
	if p.ok {
		p.rel = p.rel.Mult(m)
	}
	return p
}

// resolve expresses the gradient in the local space of `path`
func (p pushed) resolve(path Path) Gradient {
	g := p.grad
	if g.Units == ObjectBoundingBox {
		b := path.Bounds()
		g.Matrix = Identity.Translate(b.X, b.Y).Scale(b.W, b.H).Mult(g.Matrix)
		g.Bounds = b
		g.Units = UserSpaceOnUse
		return g
	}
	g.Matrix = p.rel.Invert().Mult(g.Matrix)
	return g
}

type pending struct{ fill, stroke pushed }

// catch updates the pending gradients for the style `st`, returning
// `st` without its gradient attributes.
func (pd *pending) catch(st Style) Style {
	if t, ok := st.Fill(); ok {
		pd.fill = pushed{}
		if g, isGrad := t.(Gradient); isGrad {
			pd.fill = pushed{grad: g, rel: Identity, ok: true}
			st = st.Without(AttrFill)
		}
	}
	if t, ok := st.Stroke(); ok {
		pd.stroke = pushed{}
		if g, isGrad := t.(Gradient); isGrad {
			pd.stroke = pushed{grad: g, rel: Identity, ok: true}
			st = st.Without(AttrStroke)
		}
	}
	return st
}

// SplitTextures returns a copy of the tree where each gradient texture
// has been moved from its style node down to a dedicated style node
// around every primitive it applies to. The gradient is expressed
// in the primitive local space, and gradients in object bounding box
// units are resolved against the primitive bounds.
// The input tree is not modified.
func SplitTextures(root Node) Node {
	return split(root, pending{})
}

func splitAll(nodes []Node, pd pending) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = split(n, pd)
	}
	return out
}

func split(n Node, pd pending) Node {
	switch n := n.(type) {
	case Prim:
		if !pd.fill.ok && !pd.stroke.ok {
			return n
		}
		var st Style
		if pd.fill.ok {
			st = st.WithFill(pd.fill.resolve(n.Path))
		}
		if pd.stroke.ok {
			st = st.WithStroke(pd.stroke.resolve(n.Path))
		}
		return StyleNode{Style: st, Children: []Node{n}}
	case StyleNode:
		st := pd.catch(n.Style)
		return StyleNode{Style: st, Children: splitAll(n.Children, pd)}
	case TransformNode:
		pd.fill = pd.fill.through(n.Transform)
		pd.stroke = pd.stroke.through(n.Transform)
		return TransformNode{Transform: n.Transform, Children: splitAll(n.Children, pd)}
	case Group:
		return Group{Name: n.Name, Children: splitAll(n.Children, pd)}
	default:
		panic(fmt.Sprintf("scene: unknown node %T", n))
	}
}
