// Package pack places rectangles into a fixed-width region of unbounded height
// using guillotine splits.
package pack

import "math"

// Unbounded is used as the bottom edge of a region with no height limit.
const Unbounded = math.MaxInt32

// Rect is a half-open region: Left <= x < Right, Top <= y < Bottom.
type Rect struct {
	Top, Left, Bottom, Right int
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Overlaps reports whether two rectangles share at least one cell.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// Pack is a node of the split tree. A leaf either holds a placement or is free space.
type Pack struct {
	rect     Rect
	occupied bool
	right    *Pack
	below    *Pack
}

// New returns an empty packer covering rect.
func New(rect Rect) *Pack {
	return &Pack{rect: rect}
}

// Insert claims a w×h box and returns its top-left corner (x, y).
func (p *Pack) Insert(w, h int) (x, y int, ok bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	if p.right != nil || p.below != nil {
		if p.right != nil {
			if x, y, ok := p.right.Insert(w, h); ok {
				return x, y, true
			}
		}
		if p.below != nil {
			return p.below.Insert(w, h)
		}
		return 0, 0, false
	}
	if p.occupied || p.rect.Width() < w || p.rect.Height() < h {
		return 0, 0, false
	}

	x, y = p.rect.Left, p.rect.Top
	p.occupied = true
	if p.rect.Width() == w && p.rect.Height() == h {
		return x, y, true
	}

	// Right-first split: the right child gets the strip beside the box, the below
	// child gets everything underneath at full width.
	if p.rect.Width() > w {
		p.right = New(Rect{Top: y, Left: x + w, Bottom: y + h, Right: p.rect.Right})
	}
	if p.rect.Height() > h {
		p.below = New(Rect{Top: y + h, Left: x, Bottom: p.rect.Bottom, Right: p.rect.Right})
	}
	p.rect.Right = x + w
	p.rect.Bottom = y + h
	return x, y, true
}
