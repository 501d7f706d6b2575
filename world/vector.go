package world

type Vector struct {
	X, Y float32
}

// Bounds is the rectangle a tank body must stay inside.
type Bounds struct {
	Min, Max Vector
}

func NewBounds(width, height float32) Bounds {
	return Bounds{Max: Vector{X: width, Y: height}}
}

func (b Bounds) Empty() bool {
	return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y
}

// Clamp moves a w x h box at p back inside the bounds and reports whether it had to.
func (b Bounds) Clamp(p Vector, w, h float32) (Vector, bool) {
	clamped := false
	if p.X < b.Min.X {
		p.X, clamped = b.Min.X, true
	} else if p.X+w > b.Max.X {
		p.X, clamped = b.Max.X-w, true
	}
	if p.Y < b.Min.Y {
		p.Y, clamped = b.Min.Y, true
	} else if p.Y+h > b.Max.Y {
		p.Y, clamped = b.Max.Y-h, true
	}
	return p, clamped
}
