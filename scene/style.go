package scene

// JoinMode type to specify how segments join.
type JoinMode uint8

// JoinMode constants determine how stroke segments bridge the gap at a join
const (
	MiterJoin JoinMode = iota
	RoundJoin
	BevelJoin
)

func (s JoinMode) String() string {
	switch s {
	case MiterJoin:
		return "miter"
	case RoundJoin:
		return "round"
	case BevelJoin:
		return "bevel"
	default:
		return "<unknown JoinMode>"
	}
}

// CapMode defines how to draw caps on the ends of lines
type CapMode uint8

const (
	ButtCap CapMode = iota
	RoundCap
	SquareCap
)

func (c CapMode) String() string {
	switch c {
	case ButtCap:
		return "butt"
	case RoundCap:
		return "round"
	case SquareCap:
		return "square"
	default:
		return "<unknown CapMode>"
	}
}

// Attr identifies one kind of style attribute.
type Attr uint8

const (
	AttrFill Attr = 1 << iota
	AttrStroke
	AttrLineWidth
	AttrLineCap
	AttrLineJoin
	AttrOpacity
	AttrClip
)

// Style holds a set of optional attributes.
// A Style is a value: the With... methods return modified copies,
// so a style shared by several nodes is never mutated.
// The zero value has no attribute set.
type Style struct {
	set Attr

	fill, stroke Texture
	lineWidth    float64
	lineCap      CapMode
	lineJoin     JoinMode
	opacity      float64
	clip         []Path
}

// Has returns true if all the attributes in `a` are set.
func (s Style) Has(a Attr) bool { return s.set&a == a }

// IsEmpty returns true if no attribute is set.
func (s Style) IsEmpty() bool { return s.set == 0 }

func (s Style) WithFill(t Texture) Style {
	s.fill = t
	s.set |= AttrFill
	return s
}

func (s Style) WithStroke(t Texture) Style {
	s.stroke = t
	s.set |= AttrStroke
	return s
}

func (s Style) WithLineWidth(w float64) Style {
	s.lineWidth = w
	s.set |= AttrLineWidth
	return s
}

func (s Style) WithLineCap(c CapMode) Style {
	s.lineCap = c
	s.set |= AttrLineCap
	return s
}

func (s Style) WithLineJoin(j JoinMode) Style {
	s.lineJoin = j
	s.set |= AttrLineJoin
	return s
}

func (s Style) WithOpacity(o float64) Style {
	s.opacity = o
	s.set |= AttrOpacity
	return s
}

// WithClip adds clip paths, intersected with the ones already present.
func (s Style) WithClip(paths ...Path) Style {
	s.clip = append(s.clip[:len(s.clip):len(s.clip)], paths...)
	s.set |= AttrClip
	return s
}

// Without returns a copy of `s` with the attributes in `a` unset.
func (s Style) Without(a Attr) Style {
	s.set &^= a
	if a&AttrFill != 0 {
		s.fill = nil
	}
	if a&AttrStroke != 0 {
		s.stroke = nil
	}
	if a&AttrClip != 0 {
		s.clip = nil
	}
	return s
}

func (s Style) Fill() (Texture, bool)      { return s.fill, s.Has(AttrFill) }
func (s Style) Stroke() (Texture, bool)    { return s.stroke, s.Has(AttrStroke) }
func (s Style) LineWidth() (float64, bool) { return s.lineWidth, s.Has(AttrLineWidth) }
func (s Style) LineCap() (CapMode, bool)   { return s.lineCap, s.Has(AttrLineCap) }
func (s Style) LineJoin() (JoinMode, bool) { return s.lineJoin, s.Has(AttrLineJoin) }
func (s Style) Opacity() (float64, bool)   { return s.opacity, s.Has(AttrOpacity) }
func (s Style) Clip() []Path               { return s.clip }

// Merge returns the style obtained by applying `child` on top of `s`:
// attributes set in `child` win, the others are inherited from `s`.
func (s Style) Merge(child Style) Style {
	out := s
	if child.Has(AttrFill) {
		out = out.WithFill(child.fill)
	}
	if child.Has(AttrStroke) {
		out = out.WithStroke(child.stroke)
	}
	if child.Has(AttrLineWidth) {
		out = out.WithLineWidth(child.lineWidth)
	}
	if child.Has(AttrLineCap) {
		out = out.WithLineCap(child.lineCap)
	}
	if child.Has(AttrLineJoin) {
		out = out.WithLineJoin(child.lineJoin)
	}
	if child.Has(AttrOpacity) {
		out = out.WithOpacity(child.opacity)
	}
	if child.Has(AttrClip) {
		out = out.Without(AttrClip).WithClip(child.clip...)
	}
	return out
}
