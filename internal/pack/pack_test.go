package pack

import (
	"testing"

	"pgregory.net/rapid"
)

func TestInsert_FirstBoxAtTopLeft(t *testing.T) {
	t.Parallel()

	p := New(Rect{Top: 2, Left: 1, Bottom: Unbounded, Right: 40})
	x, y, ok := p.Insert(10, 5)
	if !ok || x != 1 || y != 2 {
		t.Fatalf("expected (1,2); got (%d,%d) ok=%v", x, y, ok)
	}
	x, y, ok = p.Insert(10, 3)
	if !ok || x != 11 || y != 2 {
		t.Fatalf("expected right-first placement (11,2); got (%d,%d) ok=%v", x, y, ok)
	}
}

func TestInsert_TooWideFails(t *testing.T) {
	t.Parallel()

	p := New(Rect{Top: 2, Left: 1, Bottom: Unbounded, Right: 11})
	if _, _, ok := p.Insert(11, 1); ok {
		t.Fatalf("expected a box wider than the region to fail")
	}
	if _, _, ok := p.Insert(10, 1); !ok {
		t.Fatalf("expected an exact-width box to fit")
	}
}

func TestInsert_ExactFitLeavesNoChildren(t *testing.T) {
	t.Parallel()

	p := New(Rect{Top: 0, Left: 0, Bottom: 3, Right: 4})
	if _, _, ok := p.Insert(4, 3); !ok {
		t.Fatalf("expected exact fit")
	}
	if p.right != nil || p.below != nil {
		t.Fatalf("expected no split on exact fit")
	}
	if _, _, ok := p.Insert(1, 1); ok {
		t.Fatalf("expected a full region to reject more boxes")
	}
}

func TestInsert_WrapsBelowWhenRowIsFull(t *testing.T) {
	t.Parallel()

	p := New(Rect{Top: 2, Left: 1, Bottom: Unbounded, Right: 21})
	if _, _, ok := p.Insert(12, 4); !ok {
		t.Fatalf("first insert failed")
	}
	x, y, ok := p.Insert(12, 2)
	if !ok || x != 1 || y != 6 {
		t.Fatalf("expected (1,6) below the first box; got (%d,%d) ok=%v", x, y, ok)
	}
}

func TestInsert_NonOverlapProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		width := rapid.IntRange(1, 120).Draw(rt, "width")
		region := Rect{Top: 2, Left: 1, Bottom: Unbounded, Right: 1 + width}
		p := New(region)

		var placed []Rect
		n := rapid.IntRange(1, 40).Draw(rt, "boxes")
		for i := 0; i < n; i++ {
			w := rapid.IntRange(1, 40).Draw(rt, "w")
			h := rapid.IntRange(1, 20).Draw(rt, "h")
			x, y, ok := p.Insert(w, h)
			if !ok {
				if w <= width {
					rt.Fatalf("box %dx%d fits the width %d but was rejected", w, h, width)
				}
				continue
			}
			r := Rect{Top: y, Left: x, Bottom: y + h, Right: x + w}
			if r.Left < region.Left || r.Right > region.Right || r.Top < region.Top {
				rt.Fatalf("placement %+v escapes region %+v", r, region)
			}
			for _, o := range placed {
				if r.Overlaps(o) {
					rt.Fatalf("placement %+v overlaps %+v", r, o)
				}
			}
			placed = append(placed, r)
		}
	})
}
